package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/wask/internal/domain/model"
)

// MemoryStore keeps scores in process memory. It is meant for tests and
// local runs; nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	scores []model.Score
	nextID int64
	closed bool
	opts   options
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{opts: applyOptions(opts)}
}

// EnsureSchema is a no-op.
func (s *MemoryStore) EnsureSchema(ctx context.Context) error {
	return s.Ping(ctx)
}

// Append stores a new score.
func (s *MemoryStore) Append(_ context.Context, sub model.Submission) (model.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Score{}, ErrClosed
	}
	s.nextID++
	score := model.NewScore(s.nextID, sub, s.opts.now())
	s.scores = append(s.scores, score)
	return score, nil
}

// ListByTime returns a sorted copy of all scores.
func (s *MemoryStore) ListByTime(_ context.Context) ([]model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]model.Score, len(s.scores))
	copy(out, s.scores)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimeS < out[j].TimeS })
	return out, nil
}

// Count returns the number of stored scores.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return len(s.scores), nil
}

// Ping fails only after Close.
func (s *MemoryStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
