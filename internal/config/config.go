// Package config loads the toolkit's configuration from the
// environment (with .env support for local development, matching how
// the backend is configured).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultAPIBaseURL matches the backend's local development address.
	DefaultAPIBaseURL = "http://localhost:8080/api/v1"

	DefaultHTTPTimeout    = 30 * time.Second
	DefaultExtractTimeout = 90 * time.Second
	DefaultLogLevel       = "info"
	DefaultSpoolPath      = ".logidocs/spool.db"
	DefaultModelLogTable  = "model_log"
)

// Config holds all configuration for the review toolkit.
type Config struct {
	// Backend API
	APIBaseURL     string
	HTTPTimeout    time.Duration
	ExtractTimeout time.Duration

	// Direct database access (model-log dashboard only)
	DBURL         string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration
	DBMaxConnIdle time.Duration
	DBDialTimeout time.Duration
	ModelLogTable string

	// Local state
	SpoolPath string

	LogLevel string
}

// Load reads configuration from LOGIDOCS_* environment variables (the
// unprefixed names the backend deployment uses are honored too), after
// a best-effort .env load.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LOGIDOCS")
	v.AutomaticEnv()

	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("extract_timeout", DefaultExtractTimeout)
	v.SetDefault("db_url", "")
	v.SetDefault("db_max_conns", 10)
	v.SetDefault("db_min_conns", 2)
	v.SetDefault("db_max_conn_lifetime", 30*time.Minute)
	v.SetDefault("db_max_conn_idle_time", 5*time.Minute)
	v.SetDefault("db_dial_timeout", 3*time.Second)
	v.SetDefault("db_model_name", DefaultModelLogTable)
	v.SetDefault("spool_path", DefaultSpoolPath)
	v.SetDefault("log_level", DefaultLogLevel)

	// The deployed backend documents these without the prefix.
	_ = v.BindEnv("api_base_url", "LOGIDOCS_API_BASE_URL", "API_BASE_URL")
	_ = v.BindEnv("db_url", "LOGIDOCS_DB_URL", "DB_URL")
	_ = v.BindEnv("db_model_name", "LOGIDOCS_DB_MODEL_NAME", "DB_MODEL_NAME")

	cfg := &Config{
		APIBaseURL:     v.GetString("api_base_url"),
		HTTPTimeout:    v.GetDuration("http_timeout"),
		ExtractTimeout: v.GetDuration("extract_timeout"),
		DBURL:          v.GetString("db_url"),
		DBMaxConns:     v.GetInt32("db_max_conns"),
		DBMinConns:     v.GetInt32("db_min_conns"),
		DBMaxConnLife:  v.GetDuration("db_max_conn_lifetime"),
		DBMaxConnIdle:  v.GetDuration("db_max_conn_idle_time"),
		DBDialTimeout:  v.GetDuration("db_dial_timeout"),
		ModelLogTable:  v.GetString("db_model_name"),
		SpoolPath:      v.GetString("spool_path"),
		LogLevel:       v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values every command depends on. DBURL is only
// required by the commands that read the database directly; they check
// it themselves.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.ExtractTimeout <= 0 {
		return fmt.Errorf("extract_timeout must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// NewLogger builds the process logger at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
