package leave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ems/internal/platform/sequence"
)

type fakeCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func (f *fakeCounters) NextValue(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = map[string]int64{}
	}
	f.values[name]++
	return f.values[name], nil
}

type fakeStore struct {
	StoreAPI
	leaves map[string]Leave
}

func newFakeStore() *fakeStore {
	return &fakeStore{leaves: map[string]Leave{}}
}

func (f *fakeStore) Insert(_ context.Context, leaveID, employeeID string, in CreateInput, totalDays float64) (Leave, error) {
	l := Leave{
		LeaveID:    leaveID,
		EmployeeID: employeeID,
		Type:       in.Type,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		StartHalf:  in.StartHalf,
		EndHalf:    in.EndHalf,
		TotalDays:  totalDays,
		Reason:     in.Reason,
		Status:     StatusPending,
	}
	f.leaves[leaveID] = l
	return l, nil
}

func (f *fakeStore) GetByLeaveID(_ context.Context, leaveID string) (Leave, error) {
	l, ok := f.leaves[leaveID]
	if !ok {
		return Leave{}, ErrNotFound
	}
	return l, nil
}

func (f *fakeStore) Review(_ context.Context, leaveID, status, comment, reviewerUserID string) (Leave, error) {
	l, ok := f.leaves[leaveID]
	if !ok || l.Status != StatusPending {
		return Leave{}, ErrNotPending
	}
	l.Status = status
	l.ReviewComment = comment
	l.ReviewedBy = reviewerUserID
	f.leaves[leaveID] = l
	return l, nil
}

func validInput() CreateInput {
	return CreateInput{
		Type:      TypeVacation,
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Reason:    "family trip",
	}
}

func TestCreateComputesTotalDaysAndAllocatesID(t *testing.T) {
	svc := NewService(newFakeStore(), sequence.New(&fakeCounters{}))

	l, err := svc.Create(context.Background(), "EMP0000001", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.LeaveID != "LVE0000001" {
		t.Fatalf("expected LVE0000001, got %s", l.LeaveID)
	}
	if l.TotalDays != 5 {
		t.Fatalf("expected 5 total days, got %v", l.TotalDays)
	}
	if l.Status != StatusPending {
		t.Fatalf("expected pending, got %s", l.Status)
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	counters := &fakeCounters{}
	svc := NewService(newFakeStore(), sequence.New(counters))

	in := validInput()
	in.Type = "sabbatical"
	if _, err := svc.Create(context.Background(), "EMP0000001", in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(counters.values) != 0 {
		t.Fatal("rejected input must not burn sequence numbers")
	}
}

func TestApproveOnlyPendingRequests(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, sequence.New(&fakeCounters{}))

	l, err := svc.Create(context.Background(), "EMP0000001", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := svc.Approve(context.Background(), l.LeaveID, "enjoy", "admin-user")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	if _, err := svc.Reject(context.Background(), l.LeaveID, "", "admin-user"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending on decided request, got %v", err)
	}
}

func TestReviewUnknownIDIsNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), sequence.New(&fakeCounters{}))

	if _, err := svc.Approve(context.Background(), "LVE0009999", "", "admin-user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown leave id, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), "LVE0009999", "", "admin-user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown leave id, got %v", err)
	}
}

func TestGetOwnedEnforcesOwnership(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, sequence.New(&fakeCounters{}))

	l, err := svc.Create(context.Background(), "EMP0000001", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetOwned(context.Background(), l.LeaveID, "EMP0000002"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), l.LeaveID, "EMP0000001"); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
}
