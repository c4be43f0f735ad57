package repository

import (
	"time"

	"github.com/okian/wask/pkg/logger"
)

// Option applies a configuration option to a store provider.
type Option func(*options)

type options struct {
	now         func() time.Time
	redisPrefix string
	pingTimeout time.Duration
	logger      logger.Logger
}

func defaultOptions() options {
	return options{
		now:         time.Now,
		redisPrefix: "wask",
		pingTimeout: 5 * time.Second,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRedisPrefix namespaces the Redis keys.
func WithRedisPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.redisPrefix = prefix
		}
	}
}

// WithPingTimeout bounds the connectivity check done while opening a store.
func WithPingTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pingTimeout = d
		}
	}
}

// WithLogger sets the logger used by Open.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
