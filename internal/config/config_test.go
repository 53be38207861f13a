package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.True(t, *cfg.API.CacheBust)
	assert.Equal(t, SessionStoreFile, cfg.Session.Store)
	assert.NotEmpty(t, cfg.Session.Path)
	assert.Equal(t, 10*time.Second, cfg.Sync.AdminUsersPeriod)
	assert.Equal(t, 30*time.Second, cfg.Sync.CustomerPeriod)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestParse_Values(t *testing.T) {
	data := []byte(`
api:
  base_url: "http://api.internal:9000"
  timeout_seconds: 5
  cache_bust: false
sync:
  admin_users_period: 15s
  jitter: 250ms
log:
  level: debug
  format: json
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.False(t, *cfg.API.CacheBust)
	assert.Equal(t, 15*time.Second, cfg.Sync.AdminUsersPeriod)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.Jitter)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://override:1234")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SYNC_JITTER_MS", "40")

	cfg, err := Parse([]byte("api:\n  base_url: http://file:1\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://override:1234", cfg.API.BaseURL)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 40*time.Millisecond, cfg.Sync.Jitter)
}

func TestValidate(t *testing.T) {
	t.Run("Bad base URL", func(t *testing.T) {
		_, err := Parse([]byte("api:\n  base_url: \"not a url\"\n"))
		assert.Error(t, err)
	})

	t.Run("Postgres without DSN", func(t *testing.T) {
		_, err := Parse([]byte("session:\n  store: postgres\n"))
		assert.ErrorContains(t, err, "DSN")
	})

	t.Run("Unknown store", func(t *testing.T) {
		_, err := Parse([]byte("session:\n  store: redis\n"))
		assert.ErrorContains(t, err, "unsupported session store")
	})

	t.Run("Period too short", func(t *testing.T) {
		_, err := Parse([]byte("sync:\n  customer_period: 100ms\n"))
		assert.ErrorContains(t, err, "customer_period")
	})
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel("POST", "/api/auth/login"))
	assert.Equal(t, SecurityAdmin, GetSecurityLevel("GET", "/api/users"))
	assert.Equal(t, SecurityBearer, GetSecurityLevel("GET", "/api/users/branch-admins"))
	assert.Equal(t, SecurityAdmin, GetSecurityLevel("PUT", "/api/requests/{id}/approve"))
	assert.Equal(t, SecurityBearer, GetSecurityLevel("DELETE", "/api/unknown"))
}
