package sequence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type fakeCounterStore struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{values: map[string]int64{}}
}

func (s *fakeCounterStore) NextValue(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.values[name]++
	return s.values[name], nil
}

func TestNextSerialAllocation(t *testing.T) {
	svc := New(newFakeCounterStore())

	seen := map[string]bool{}
	var lastNumber int64
	for i := 1; i <= 100; i++ {
		id, err := svc.Next(context.Background(), Employee)
		if err != nil {
			t.Fatalf("unexpected error on allocation %d: %v", i, err)
		}
		if !Employee.Matches(id) {
			t.Fatalf("identifier %q does not match EMP format", id)
		}
		if seen[id] {
			t.Fatalf("duplicate identifier %q", id)
		}
		seen[id] = true

		number, err := Employee.Parse(id)
		if err != nil {
			t.Fatalf("parse %q: %v", id, err)
		}
		if lastNumber != 0 && number != lastNumber+1 {
			t.Fatalf("expected %d after %d, got %d", lastNumber+1, lastNumber, number)
		}
		lastNumber = number
	}

	if first := Employee.Apply(1); first != "EMP0000001" {
		t.Fatalf("expected EMP0000001, got %q", first)
	}
}

func TestNextFormatsPerEntity(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{Employee, "EMP0000001"},
		{Leave, "LVE0000001"},
		{Attendance, "ATT0000001"},
		{Salary, "SAL0000001"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.format.Prefix, func(t *testing.T) {
			svc := New(newFakeCounterStore())
			id, err := svc.Next(context.Background(), tc.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, id)
			}
		})
	}
}

func TestNextCapacityExceeded(t *testing.T) {
	store := newFakeCounterStore()
	store.values[Employee.Counter] = Employee.Max()

	svc := New(store)
	_, err := svc.Next(context.Background(), Employee)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestNextPropagatesStoreError(t *testing.T) {
	store := newFakeCounterStore()
	store.err = fmt.Errorf("connection refused")

	svc := New(store)
	if _, err := svc.Next(context.Background(), Leave); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestNextConcurrentAllocationsDistinct(t *testing.T) {
	const workers = 50

	svc := New(newFakeCounterStore())
	ids := make(chan string, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := svc.Next(context.Background(), Attendance)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate identifier %q under concurrent allocation", id)
		}
		if !Attendance.Matches(id) {
			t.Fatalf("identifier %q does not match ATT format", id)
		}
		seen[id] = true
	}
	if len(seen) != workers {
		t.Fatalf("expected %d identifiers, got %d", workers, len(seen))
	}
}

func TestFormatMatches(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"EMP0000001", true},
		{"EMP9999999", true},
		{"EMP000001", false},
		{"EMP00000001", false},
		{"LVE0000001", false},
		{"EMP00000a1", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := Employee.Matches(tc.id); got != tc.want {
			t.Fatalf("Matches(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
