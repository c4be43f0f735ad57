package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/wask/pkg/logger"
)

// Settings selects a provider and its location.
type Settings struct {
	Driver   string // sqlite, postgres, redis or memory
	Path     string // sqlite file
	DSN      string // postgres connection string
	RedisURL string // redis://host:port/db
}

// Open builds the configured provider, prepares its schema and wraps it with
// metrics. The returned store is ready to serve requests.
func Open(ctx context.Context, set Settings, opts ...Option) (Store, error) {
	o := applyOptions(opts)
	driver := strings.ToLower(strings.TrimSpace(set.Driver))

	var (
		store Store
		err   error
	)
	switch driver {
	case "sqlite":
		store, err = OpenSQLite(ctx, set.Path, opts...)
	case "postgres":
		store, err = OpenPostgres(ctx, set.DSN, opts...)
	case "redis":
		store, err = OpenRedis(ctx, set.RedisURL, opts...)
	case "memory":
		store = NewMemoryStore(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, set.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	if o.logger != nil {
		o.logger.Info(ctx, "score store ready", logger.String("driver", driver))
	}
	return Instrument(store, driver), nil
}
