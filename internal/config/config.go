package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Sync    SyncConfig    `yaml:"sync"`
	Log     LogConfig     `yaml:"log"`
	MockAPI MockAPIConfig `yaml:"mock_api"`
}

// APIConfig contains remote API settings
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 0 means no client-side timeout
	CacheBust      *bool  `yaml:"cache_bust"`      // append _t to vehicle reads
}

// SessionConfig contains persisted session settings
type SessionConfig struct {
	Store string `yaml:"store"` // "file" or "postgres"
	Path  string `yaml:"path"`  // for file store
	DSN   string `yaml:"dsn"`   // for postgres store
	Table string `yaml:"table"`
	Key   string `yaml:"key"`
}

// SyncConfig contains dashboard refresh periods
type SyncConfig struct {
	AdminUsersPeriod   time.Duration `yaml:"admin_users_period"`
	AdminCatalogPeriod time.Duration `yaml:"admin_catalog_period"`
	BranchPeriod       time.Duration `yaml:"branch_period"`
	CustomerPeriod     time.Duration `yaml:"customer_period"`
	Jitter             time.Duration `yaml:"jitter"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// MockAPIConfig contains settings of the in-memory fake API
type MockAPIConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
	Seed      bool   `yaml:"seed"`
}

const (
	SessionStoreFile     = "file"
	SessionStorePostgres = "postgres"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes, env overrides included.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// API
	if val := os.Getenv("API_BASE_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("API_TIMEOUT_SECONDS"); val != "" {
		fmt.Sscanf(val, "%d", &c.API.TimeoutSeconds)
	}

	// Session
	if val := os.Getenv("SESSION_STORE"); val != "" {
		c.Session.Store = val
	}
	if val := os.Getenv("SESSION_PATH"); val != "" {
		c.Session.Path = val
	}
	if val := os.Getenv("SESSION_DSN"); val != "" {
		c.Session.DSN = val
	}

	// Sync
	if val := os.Getenv("SYNC_JITTER_MS"); val != "" {
		var ms int
		if _, err := fmt.Sscanf(val, "%d", &ms); err == nil {
			c.Sync.Jitter = time.Duration(ms) * time.Millisecond
		}
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Mock API
	if val := os.Getenv("MOCK_API_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.MockAPI.Port)
	}
	if val := os.Getenv("MOCK_API_JWT_SECRET"); val != "" {
		c.MockAPI.JWTSecret = val
	}
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080"
	}
	if c.API.CacheBust == nil {
		on := true
		c.API.CacheBust = &on
	}

	if c.Session.Store == "" {
		c.Session.Store = SessionStoreFile
	}
	if c.Session.Path == "" {
		c.Session.Path = defaultSessionPath()
	}
	if c.Session.Table == "" {
		c.Session.Table = "client_sessions"
	}
	if c.Session.Key == "" {
		c.Session.Key = "auth"
	}

	if c.Sync.AdminUsersPeriod == 0 {
		c.Sync.AdminUsersPeriod = 10 * time.Second
	}
	if c.Sync.AdminCatalogPeriod == 0 {
		c.Sync.AdminCatalogPeriod = 30 * time.Second
	}
	if c.Sync.BranchPeriod == 0 {
		c.Sync.BranchPeriod = 30 * time.Second
	}
	if c.Sync.CustomerPeriod == 0 {
		c.Sync.CustomerPeriod = 30 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.MockAPI.Host == "" {
		c.MockAPI.Host = "127.0.0.1"
	}
	if c.MockAPI.Port == 0 {
		c.MockAPI.Port = 8080
	}
	if c.MockAPI.JWTSecret == "" {
		c.MockAPI.JWTSecret = "mock-api-secret-change-me-0123456789"
	}
}

// Validate applies defaults and checks if the configuration is valid
func (c *Config) Validate() error {
	c.applyDefaults()

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid API timeout: %d", c.API.TimeoutSeconds)
	}

	switch c.Session.Store {
	case SessionStoreFile:
	case SessionStorePostgres:
		if c.Session.DSN == "" {
			return fmt.Errorf("session DSN is required for postgres store")
		}
	default:
		return fmt.Errorf("unsupported session store: %s", c.Session.Store)
	}

	for name, d := range map[string]time.Duration{
		"admin_users_period":   c.Sync.AdminUsersPeriod,
		"admin_catalog_period": c.Sync.AdminCatalogPeriod,
		"branch_period":        c.Sync.BranchPeriod,
		"customer_period":      c.Sync.CustomerPeriod,
	} {
		if d < time.Second {
			return fmt.Errorf("sync %s must be at least 1s, got %s", name, d)
		}
	}
	if c.Sync.Jitter < 0 {
		return fmt.Errorf("sync jitter must not be negative")
	}

	if c.MockAPI.Port <= 0 || c.MockAPI.Port > 65535 {
		return fmt.Errorf("invalid mock API port: %d", c.MockAPI.Port)
	}
	if len(c.MockAPI.JWTSecret) < 32 {
		return fmt.Errorf("mock API JWT secret must be at least 32 characters")
	}

	return nil
}

// Timeout returns the API timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// GetMockAPIAddress returns the fake API listen address
func (c *Config) GetMockAPIAddress() string {
	return fmt.Sprintf("%s:%d", c.MockAPI.Host, c.MockAPI.Port)
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".rentalctl-session.json"
	}
	return dir + string(os.PathSeparator) + "rentalctl" + string(os.PathSeparator) + "session.json"
}
