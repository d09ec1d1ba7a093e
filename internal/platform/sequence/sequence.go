package sequence

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded means the sequence space for the fixed digit
	// width is exhausted. Permanent for that entity type.
	ErrCapacityExceeded = errors.New("sequence capacity exceeded")
	// ErrAllocationConflict means the scan allocator kept colliding with
	// existing identifiers until its retry budget ran out.
	ErrAllocationConflict = errors.New("identifier allocation conflict")
)

// CounterStore is the atomic increment collaborator. NextValue must
// create the counter on first use and return the post-increment value as
// one indivisible operation; callers never read-then-write the counter.
type CounterStore interface {
	NextValue(ctx context.Context, name string) (int64, error)
}

// Service allocates prefixed, zero-padded identifiers from per-entity
// atomic counters. Gaps can appear when a create aborts after allocation;
// duplicates cannot.
type Service struct {
	Counters CounterStore
}

func New(counters CounterStore) *Service {
	return &Service{Counters: counters}
}

func (s *Service) Next(ctx context.Context, f Format) (string, error) {
	value, err := s.Counters.NextValue(ctx, f.Counter)
	if err != nil {
		return "", fmt.Errorf("allocate %s: %w", f.Counter, err)
	}
	if value > f.Max() {
		return "", fmt.Errorf("allocate %s: %w", f.Counter, ErrCapacityExceeded)
	}
	return f.Apply(value), nil
}
