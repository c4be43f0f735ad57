// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New(ctx) returns a Config filled with defaults.
// - Load(ctx) layers file, dotenv and environment values on top of New.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
)

// Store drivers understood by the repository layer.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`
	// DefaultName replaces a missing or blank player name on submit.
	DefaultName string `koanf:"default_name"`

	Store   StoreConfig   `koanf:"store"`
	Submit  SubmitConfig  `koanf:"submit"`
	HTTP    HTTPConfig    `koanf:"http"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// StoreConfig selects and locates the score store.
type StoreConfig struct {
	// Driver is one of sqlite, postgres, redis, memory.
	Driver string `koanf:"driver"`
	// Path is the SQLite database file.
	Path string `koanf:"path"`
	// DSN is the Postgres connection string.
	DSN string `koanf:"dsn"`
	// RedisURL is a redis:// URL.
	RedisURL string `koanf:"redis_url"`
	// RedisPrefix namespaces every Redis key.
	RedisPrefix string `koanf:"redis_prefix"`
}

// SubmitConfig tunes POST /submit_result.
type SubmitConfig struct {
	// Strict rejects malformed bodies and time_s values instead of defaulting them.
	Strict bool `koanf:"strict"`
}

// HTTPConfig holds server-level HTTP settings.
type HTTPConfig struct {
	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `koanf:"cors_origins"`
	// ReadTimeoutMS and WriteTimeoutMS bound each request.
	ReadTimeoutMS  int `koanf:"read_timeout_ms"`
	WriteTimeoutMS int `koanf:"write_timeout_ms"`
}

// MetricsConfig names the Prometheus collectors.
type MetricsConfig struct {
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
	// ConstLabels are attached to every series, e.g. {"env": "prod"}.
	ConstLabels map[string]string `koanf:"const_labels"`
	// LatencyBucketsMS overrides the histogram buckets; empty keeps the defaults.
	LatencyBucketsMS []float64 `koanf:"latency_buckets_ms"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Addr:        ":5000",
		DefaultName: "Player",
		Store: StoreConfig{
			Driver:      DriverSQLite,
			Path:        "leaderboard.db",
			RedisPrefix: "wask",
		},
		HTTP: HTTPConfig{
			CORSOrigins:    []string{"*"},
			ReadTimeoutMS:  10_000,
			WriteTimeoutMS: 10_000,
		},
		Metrics: MetricsConfig{
			Namespace: "wask",
			Subsystem: "leaderboard",
		},
	}
}
