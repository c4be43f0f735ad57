// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/wask/internal/adapters/repository"
	"github.com/okian/wask/internal/domain/model"
	"github.com/okian/wask/pkg/logger"
	"github.com/okian/wask/pkg/metrics"
)

// ErrNotStarted is returned by operations called before Start.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the leaderboard.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	driver string

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects the score store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDriverName records which provider backs the store, for stats and logs.
func WithDriverName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.driver = name
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without WithStore it falls back to an
// in-memory store.
func New(opts ...Option) *Service {
	s := &Service{driver: "memory"}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.driver = "memory"
	}
	return s
}

// Start checks the store schema and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if err := s.store.EnsureSchema(ctx); err != nil {
		s.logger.Error(ctx, "score store not ready", logger.String("driver", s.driver), logger.Error(err))
		return err
	}

	s.started = true
	s.logger.Info(ctx, "leaderboard service started", logger.String("driver", s.driver))
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing score store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Submit stores one normalized race result.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (model.Score, error) {
	if err := s.ready(); err != nil {
		return model.Score{}, err
	}
	score, err := s.store.Append(ctx, sub)
	if err != nil {
		s.logger.Error(ctx, "storing result failed",
			logger.String("driver", s.driver),
			logger.String("name", sub.Name),
			logger.Error(err),
		)
		return model.Score{}, err
	}
	metrics.RecordSubmission(score.Outcome)
	s.logger.Debug(ctx, "result stored",
		logger.Int64("id", score.ID),
		logger.String("name", score.Name),
		logger.Float64("time_s", score.TimeS),
		logger.String("outcome", score.Outcome),
	)
	return score, nil
}

// Standings returns every stored score, fastest first.
func (s *Service) Standings(ctx context.Context) ([]model.Score, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	scores, err := s.store.ListByTime(ctx)
	if err != nil {
		s.logger.Error(ctx, "reading standings failed", logger.String("driver", s.driver), logger.Error(err))
		return nil, err
	}
	return scores, nil
}

// Ranked returns the standings with 1-based ranks.
func (s *Service) Ranked(ctx context.Context) ([]model.RankedScore, error) {
	scores, err := s.Standings(ctx)
	if err != nil {
		return nil, err
	}
	return model.Rank(scores), nil
}

// Ready reports whether the store answers.
func (s *Service) Ready(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.store.Ping(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": started,
		"driver":  s.driver,
	}
	if started {
		n, err := s.store.Count(context.Background())
		if err != nil {
			stats["storeError"] = err.Error()
		} else {
			stats["totalRecords"] = n
		}
	}
	return stats
}
