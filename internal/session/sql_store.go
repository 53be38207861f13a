package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vehicle-rental-admin/internal/logger"

	"github.com/lib/pq"
)

// SQLStore keeps the session as one row of a key/payload table. Several
// clients may share the table under different keys.
type SQLStore struct {
	db    *sql.DB
	table string
	key   string
}

func NewSQLStore(db *sql.DB, table, key string) *SQLStore {
	return &SQLStore{db: db, table: pq.QuoteIdentifier(table), key: key}
}

// EnsureSchema creates the session table when it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_on TIMESTAMPTZ NOT NULL
	)`, s.table)
	logger.DatabaseCall("ensure_schema", query)
	_, err := s.db.ExecContext(ctx, query)
	logger.DatabaseResult("ensure_schema", 0, err)
	return err
}

func (s *SQLStore) Load(ctx context.Context) (*Record, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE key = $1`, s.table)
	logger.DatabaseCall("load_session", query, "key", s.key)

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("load_session", 0, nil, "key", s.key)
		return nil, ErrNoSession
	}
	if err != nil {
		logger.DatabaseResult("load_session", 0, err, "key", s.key)
		return nil, err
	}
	logger.DatabaseResult("load_session", 1, nil, "key", s.key)

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode session row: %w", err)
	}
	return &rec, nil
}

func (s *SQLStore) Save(ctx context.Context, rec *Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (key, payload, updated_on) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_on = EXCLUDED.updated_on`, s.table)
	logger.DatabaseCall("save_session", query, "key", s.key)

	res, err := s.db.ExecContext(ctx, query, s.key, payload, time.Now().UTC())
	logger.DatabaseResult("save_session", rowsAffected(res), err, "key", s.key)
	return err
}

func (s *SQLStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table)
	logger.DatabaseCall("clear_session", query, "key", s.key)

	res, err := s.db.ExecContext(ctx, query, s.key)
	logger.DatabaseResult("clear_session", rowsAffected(res), err, "key", s.key)
	return err
}

func rowsAffected(res sql.Result) int64 {
	if res == nil {
		return 0
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
