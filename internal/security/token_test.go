package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-at-least-32-chars"

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.GenerateToken(7, "ann", "ADMIN")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ann", claims.Login)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewTokenManager("another-secret-key-that-is-32-chars-long", time.Hour)
		token, err := other.GenerateToken(1, "ann", "ADMIN")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		tm := m.(*tokenManager)
		past := &tokenManager{secret: tm.secret, ttl: time.Minute, now: func() time.Time { return time.Now().Add(-time.Hour) }}
		token, err := past.GenerateToken(1, "ann", "ADMIN")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExpired(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	token, err := m.GenerateToken(1, "ann", "ADMIN")
	require.NoError(t, err)

	exp, ok := ExpiresAt(token)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	assert.False(t, Expired(token, time.Now()))
	assert.True(t, Expired(token, time.Now().Add(2*time.Hour)))
	assert.False(t, Expired("opaque-token", time.Now()))
}
