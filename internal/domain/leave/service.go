package leave

import (
	"context"
	"errors"
	"fmt"

	"ems/internal/platform/sequence"
)

var (
	ErrNotFound     = errors.New("leave request not found")
	ErrNotPending   = errors.New("leave request is not pending")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	Store StoreAPI
	Seq   *sequence.Service
}

func NewService(store StoreAPI, seq *sequence.Service) *Service {
	return &Service{Store: store, Seq: seq}
}

// Create computes totalDays from the date fields, allocates the next LVE
// identifier and persists the request as pending.
func (s *Service) Create(ctx context.Context, employeeID string, in CreateInput) (Leave, error) {
	if !ValidType(in.Type) {
		return Leave{}, fmt.Errorf("%w: unknown leave type %q", ErrInvalidInput, in.Type)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return Leave{}, fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	totalDays, err := CalculateTotalDays(in.StartDate, in.EndDate, in.StartHalf, in.EndHalf)
	if err != nil {
		return Leave{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	leaveID, err := s.Seq.Next(ctx, sequence.Leave)
	if err != nil {
		return Leave{}, err
	}
	return s.Store.Insert(ctx, leaveID, employeeID, in, totalDays)
}

func (s *Service) Get(ctx context.Context, leaveID string) (Leave, error) {
	if !sequence.Leave.Matches(leaveID) {
		return Leave{}, fmt.Errorf("%w: malformed leave id", ErrInvalidInput)
	}
	return s.Store.GetByLeaveID(ctx, leaveID)
}

// GetOwned returns the request only when it belongs to employeeID.
func (s *Service) GetOwned(ctx context.Context, leaveID, employeeID string) (Leave, error) {
	l, err := s.Get(ctx, leaveID)
	if err != nil {
		return Leave{}, err
	}
	if l.EmployeeID != employeeID {
		return Leave{}, ErrForbidden
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Status != "" && filter.Status != StatusPending && filter.Status != StatusApproved && filter.Status != StatusRejected {
		return ListResult{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Approve(ctx context.Context, leaveID, comment, reviewerUserID string) (Leave, error) {
	return s.review(ctx, leaveID, StatusApproved, comment, reviewerUserID)
}

func (s *Service) Reject(ctx context.Context, leaveID, comment, reviewerUserID string) (Leave, error) {
	return s.review(ctx, leaveID, StatusRejected, comment, reviewerUserID)
}

// review is a conditional update: the store only flips rows still
// pending, so concurrent decisions cannot both win. The lookup first
// separates an unknown id from a request that was already decided.
func (s *Service) review(ctx context.Context, leaveID, status, comment, reviewerUserID string) (Leave, error) {
	if !sequence.Leave.Matches(leaveID) {
		return Leave{}, fmt.Errorf("%w: malformed leave id", ErrInvalidInput)
	}
	if _, err := s.Store.GetByLeaveID(ctx, leaveID); err != nil {
		return Leave{}, err
	}
	return s.Store.Review(ctx, leaveID, status, comment, reviewerUserID)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Leave, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	return s.Store.Recent(ctx, limit)
}
