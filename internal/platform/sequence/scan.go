package sequence

import (
	"context"
	"fmt"
)

// IdentifierStore is the lookup collaborator for the legacy scan
// allocator: the current maximum identifier of a family, and an existence
// probe for a candidate.
type IdentifierStore interface {
	MaxID(ctx context.Context, f Format) (string, error)
	IDExists(ctx context.Context, f Format, id string) (bool, error)
}

const scanRetryBudget = 3

// ScanAllocator is the legacy scan-and-increment allocator: read the
// highest stored identifier, add one, re-check for a collision. It is
// only correct under strictly serial allocation; two concurrent callers
// can read the same maximum before either writes, and the resulting
// duplicate surfaces as a unique-constraint violation at insert time.
// New code should use Service instead.
type ScanAllocator struct {
	Store IdentifierStore
}

func NewScanAllocator(store IdentifierStore) *ScanAllocator {
	return &ScanAllocator{Store: store}
}

func (a *ScanAllocator) Next(ctx context.Context, f Format) (string, error) {
	for attempt := 0; attempt < scanRetryBudget; attempt++ {
		last, err := a.Store.MaxID(ctx, f)
		if err != nil {
			return "", fmt.Errorf("scan %s: %w", f.Counter, err)
		}

		next := int64(1)
		if last != "" {
			// Unparseable stored ids are treated as an empty collection.
			if parsed, err := f.Parse(last); err == nil {
				next = parsed + 1
			}
		}
		if next > f.Max() {
			return "", fmt.Errorf("scan %s: %w", f.Counter, ErrCapacityExceeded)
		}

		id := f.Apply(next)
		exists, err := a.Store.IDExists(ctx, f, id)
		if err != nil {
			return "", fmt.Errorf("scan %s: %w", f.Counter, err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("scan %s: %w", f.Counter, ErrAllocationConflict)
}
