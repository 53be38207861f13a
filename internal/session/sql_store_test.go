package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"vehicle-rental-admin/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLStore_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewSQLStore(db, "client_sessions", "auth")
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		payload, _ := json.Marshal(Record{Token: "tok", User: &domain.User{ID: 1, UserID: "ann"}})
		mock.ExpectQuery(`SELECT payload FROM "client_sessions" WHERE key = \$1`).
			WithArgs("auth").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

		rec, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok", rec.Token)
		assert.Equal(t, "ann", rec.User.UserID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT payload FROM "client_sessions" WHERE key = \$1`).
			WithArgs("auth").
			WillReturnError(sql.ErrNoRows)

		rec, err := store.Load(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
		assert.Nil(t, rec)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT payload FROM "client_sessions"`).
			WithArgs("auth").
			WillReturnError(assert.AnError)

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, assert.AnError)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SaveAndClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewSQLStore(db, "client_sessions", "auth")
	ctx := context.Background()

	t.Run("Save upserts", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO "client_sessions" \(key, payload, updated_on\) VALUES \(\$1, \$2, \$3\)\s+ON CONFLICT \(key\) DO UPDATE`).
			WithArgs("auth", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.Save(ctx, &Record{Token: "tok", User: &domain.User{ID: 1}})
		assert.NoError(t, err)
	})

	t.Run("Clear deletes the key", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM "client_sessions" WHERE key = \$1`).
			WithArgs("auth").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Clear(ctx))
	})

	t.Run("Clear failure surfaces", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM "client_sessions"`).
			WithArgs("auth").
			WillReturnError(assert.AnError)

		assert.Error(t, store.Clear(ctx))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "odd""name"`).WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewSQLStore(db, `odd"name`, "auth")
	assert.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
