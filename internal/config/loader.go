package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var metricNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const (
	envPrefix  = "WASK_"
	envConfig  = "WASK_CONFIG"
	envDotFile = "WASK_ENV_FILE"
)

// legacyEnv maps the bare variables older deployments set to config keys.
var legacyEnv = []struct {
	name string
	key  string
	conv func(string) string
}{
	{name: "PORT", key: "addr", conv: func(v string) string { return ":" + v }},
	{name: "DB_PATH", key: "store.path"},
	{name: "DATABASE_URL", key: "store.dsn"},
	{name: "REDIS_URL", key: "store.redis_url"},
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. YAML file if WASK_CONFIG is set
//  3. legacy variables PORT, DB_PATH, DATABASE_URL, REDIS_URL
//  4. env (prefix WASK_, "__" separates nested keys)
//
// A dotenv file (WASK_ENV_FILE, or ./.env when present) is read into the
// process environment before steps 3 and 4; it never overrides variables
// that are already set.
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)
	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	for _, l := range legacyEnv {
		v, ok := os.LookupEnv(l.name)
		if !ok || v == "" {
			continue
		}
		if l.conv != nil {
			v = l.conv(v)
		}
		if err := k.Set(l.key, v); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, l.name, err)
		}
	}

	// WASK_STORE__DRIVER -> store.driver, WASK_LOG_LEVEL -> log_level.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() error {
	if path := os.Getenv(envDotFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: .env: %w", ErrLoadConfig, err)
	}
	return nil
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("%w: store.path must not be empty for sqlite", ErrInvalidConfig)
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("%w: store.dsn must not be empty for postgres", ErrInvalidConfig)
		}
	case DriverRedis:
		if strings.TrimSpace(c.Store.RedisURL) == "" {
			return fmt.Errorf("%w: store.redis_url must not be empty for redis", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	c.HTTP.CORSOrigins = splitList(c.HTTP.CORSOrigins)
	if err := c.Metrics.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.DefaultName) == "" {
		return fmt.Errorf("%w: default_name must not be empty", ErrInvalidConfig)
	}
	return nil
}

func (m *MetricsConfig) validate() error {
	for key, name := range map[string]string{"metrics.namespace": m.Namespace, "metrics.subsystem": m.Subsystem} {
		if !metricNamePattern.MatchString(name) {
			return fmt.Errorf("%w: %s %q is not a valid metric name part", ErrInvalidConfig, key, name)
		}
	}
	for label := range m.ConstLabels {
		if !metricNamePattern.MatchString(label) || strings.HasPrefix(label, "__") {
			return fmt.Errorf("%w: metrics.const_labels key %q is not a valid label name", ErrInvalidConfig, label)
		}
	}
	for i := 1; i < len(m.LatencyBucketsMS); i++ {
		if m.LatencyBucketsMS[i] <= m.LatencyBucketsMS[i-1] {
			return fmt.Errorf("%w: metrics.latency_buckets_ms must be strictly increasing", ErrInvalidConfig)
		}
	}
	return nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
