package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeIdentifierStore mimics a collection with a unique index on the
// identifier column. Insert reports a conflict like the real store would.
type fakeIdentifierStore struct {
	mu        sync.Mutex
	ids       map[string]bool
	max       string
	readDelay time.Duration
}

func newFakeIdentifierStore() *fakeIdentifierStore {
	return &fakeIdentifierStore{ids: map[string]bool{}}
}

func (s *fakeIdentifierStore) MaxID(_ context.Context, _ Format) (string, error) {
	s.mu.Lock()
	max := s.max
	s.mu.Unlock()
	if s.readDelay > 0 {
		time.Sleep(s.readDelay)
	}
	return max, nil
}

func (s *fakeIdentifierStore) IDExists(_ context.Context, _ Format, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id], nil
}

func (s *fakeIdentifierStore) insert(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids[id] {
		return errors.New("unique constraint violation")
	}
	s.ids[id] = true
	if id > s.max {
		s.max = id
	}
	return nil
}

func TestScanAllocatorSerial(t *testing.T) {
	store := newFakeIdentifierStore()
	alloc := NewScanAllocator(store)

	for i := int64(1); i <= 25; i++ {
		id, err := alloc.Next(context.Background(), Leave)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := Leave.Apply(i); id != want {
			t.Fatalf("expected %q, got %q", want, id)
		}
		if err := store.insert(id); err != nil {
			t.Fatalf("insert %q: %v", id, err)
		}
	}
}

func TestScanAllocatorSkipsUnparseableMax(t *testing.T) {
	store := newFakeIdentifierStore()
	store.max = "LVExxxxxxx"

	alloc := NewScanAllocator(store)
	id, err := alloc.Next(context.Background(), Leave)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "LVE0000001" {
		t.Fatalf("expected LVE0000001, got %q", id)
	}
}

func TestScanAllocatorCapacityExceeded(t *testing.T) {
	store := newFakeIdentifierStore()
	store.max = Salary.Apply(Salary.Max())
	store.ids[store.max] = true

	alloc := NewScanAllocator(store)
	_, err := alloc.Next(context.Background(), Salary)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestScanAllocatorConflictBudgetExhausted(t *testing.T) {
	store := newFakeIdentifierStore()
	// The candidate always exists but the max never advances past it, so
	// every retry lands on the same occupied identifier.
	store.ids["ATT0000001"] = true

	alloc := NewScanAllocator(store)
	_, err := alloc.Next(context.Background(), Attendance)
	if !errors.Is(err, ErrAllocationConflict) {
		t.Fatalf("expected ErrAllocationConflict, got %v", err)
	}
}

// TestScanAllocatorConcurrentDuplicate characterizes the known failure
// mode of scan-and-increment: two concurrent allocations read the same
// maximum before either inserts, so one of them collides at write time.
// This is the documented reason the atomic counter allocator is the one
// wired into the create paths.
func TestScanAllocatorConcurrentDuplicate(t *testing.T) {
	store := newFakeIdentifierStore()
	store.readDelay = 10 * time.Millisecond
	alloc := NewScanAllocator(store)

	// Both requests allocate before either write lands, as two in-flight
	// HTTP creates would.
	ids := make([]string, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i], errs[i] = alloc.Next(context.Background(), Leave)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("allocation %d failed: %v", i, err)
		}
	}
	if ids[0] != ids[1] {
		t.Fatalf("expected both allocations to collide on one candidate, got %q and %q", ids[0], ids[1])
	}

	// Exactly one insert can win the unique index.
	if err := store.insert(ids[0]); err != nil {
		t.Fatalf("first insert should succeed: %v", err)
	}
	if err := store.insert(ids[1]); err == nil {
		t.Fatal("expected unique-constraint violation on second insert")
	}
}
