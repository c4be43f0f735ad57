// Package repository defines the score store interface and its providers.
package repository

import (
	"context"

	"github.com/okian/wask/internal/domain/model"
)

// Store is the append-only log of race results.
type Store interface {
	// EnsureSchema creates the backing structures if they are absent.
	// Calling it again has no effect.
	EnsureSchema(ctx context.Context) error

	// Append persists a new score with a fresh id and a UTC timestamp.
	Append(ctx context.Context, sub model.Submission) (model.Score, error)

	// ListByTime returns every stored score ordered by ascending TimeS.
	// The relative order of equal times is not part of the contract.
	ListByTime(ctx context.Context) ([]model.Score, error)

	// Count returns the number of stored scores.
	Count(ctx context.Context) (int, error)

	// Ping checks that the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
