// Package rating recomputes a professional's stored average rating from the
// full set of their reviews.
package rating

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Store is the persistence surface the aggregator needs. Implementations may
// be backed by a transaction so the recompute commits atomically with the
// review insert that triggered it.
type Store interface {
	RatingsFor(ctx context.Context, professionalID uuid.UUID) ([]int, error)
	SetAverageRating(ctx context.Context, professionalID uuid.UUID, average float64) error
}

// Aggregator recomputes average ratings. It is idempotent: it rereads every
// review on each call and never accumulates partial sums, so concurrent
// recomputation for the same professional is last-writer-wins safe.
type Aggregator struct {
	store Store
}

// New creates an aggregator over the given store.
func New(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Recompute reads all reviews for the professional, computes the arithmetic
// mean, writes it back, and returns the new average. A professional with no
// reviews has an average of 0.0.
func (a *Aggregator) Recompute(ctx context.Context, professionalID uuid.UUID) (float64, error) {
	ratings, err := a.store.RatingsFor(ctx, professionalID)
	if err != nil {
		return 0, fmt.Errorf("read ratings: %w", err)
	}

	average := Mean(ratings)
	if err := a.store.SetAverageRating(ctx, professionalID, average); err != nil {
		return 0, fmt.Errorf("write average rating: %w", err)
	}

	return average, nil
}

// Mean returns the arithmetic mean of ratings, 0.0 for an empty slice.
func Mean(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0.0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
