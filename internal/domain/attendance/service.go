package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ems/internal/platform/sequence"
)

var (
	ErrNotFound         = errors.New("attendance record not found")
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNotCheckedIn     = errors.New("no open attendance record today")
	ErrAlreadyOut       = errors.New("already checked out")
	ErrInvalidInput     = errors.New("invalid input")
)

type Service struct {
	Store         StoreAPI
	Seq           *sequence.Service
	WorkdayHours  float64
	LateAfterHour int
	now           func() time.Time
}

func NewService(store StoreAPI, seq *sequence.Service, workdayHours float64, lateAfterHour int) *Service {
	return &Service{
		Store:         store,
		Seq:           seq,
		WorkdayHours:  workdayHours,
		LateAfterHour: lateAfterHour,
		now:           time.Now,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn opens today's record for the employee, allocating the next ATT
// identifier. A second check-in the same day fails on the per-day unique
// constraint. The calendar day and the lateness cutoff are both taken in
// UTC so they always refer to the same day.
func (s *Service) CheckIn(ctx context.Context, employeeID, location string) (Record, error) {
	now := s.now().UTC()
	status := StatusPresent
	cutoff := dateOnly(now).Add(time.Duration(s.LateAfterHour) * time.Hour)
	if now.After(cutoff) {
		status = StatusLate
	}

	attendanceID, err := s.Seq.Next(ctx, sequence.Attendance)
	if err != nil {
		return Record{}, err
	}

	checkIn := now
	return s.Store.Insert(ctx, Record{
		AttendanceID:    attendanceID,
		EmployeeID:      employeeID,
		Date:            dateOnly(now),
		CheckIn:         &checkIn,
		CheckInLocation: location,
		Status:          status,
	})
}

func (s *Service) CheckOut(ctx context.Context, employeeID, location string) (Record, error) {
	now := s.now().UTC()
	record, err := s.Store.FindByEmployeeAndDate(ctx, employeeID, dateOnly(now))
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrNotCheckedIn
	}
	if err != nil {
		return Record{}, err
	}
	if record.CheckOut != nil {
		return Record{}, ErrAlreadyOut
	}

	totalHours, overtime := ComputeHours(record.CheckIn, &now, s.WorkdayHours)
	return s.Store.SetCheckOut(ctx, record.AttendanceID, now, location, totalHours, overtime)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 31
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.Store.List(ctx, filter)
}

// BulkCreate records admin-entered attendance without timestamps, one ATT
// id per entry. Entries that collide with an existing (employee, date)
// row are reported back, not fatal to the batch.
func (s *Service) BulkCreate(ctx context.Context, entries []BulkEntry) (created []Record, skipped []BulkEntry, err error) {
	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("%w: empty batch", ErrInvalidInput)
	}
	for _, entry := range entries {
		if !ValidStatus(entry.Status) {
			return nil, nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, entry.Status)
		}
		if entry.EmployeeID == "" || entry.Date.IsZero() {
			return nil, nil, fmt.Errorf("%w: employeeId and date are required", ErrInvalidInput)
		}
	}

	for _, entry := range entries {
		attendanceID, err := s.Seq.Next(ctx, sequence.Attendance)
		if err != nil {
			return created, skipped, err
		}
		record, err := s.Store.Insert(ctx, Record{
			AttendanceID: attendanceID,
			EmployeeID:   entry.EmployeeID,
			Date:         dateOnly(entry.Date),
			Status:       entry.Status,
			Notes:        entry.Notes,
		})
		if errors.Is(err, ErrAlreadyCheckedIn) {
			skipped = append(skipped, entry)
			continue
		}
		if err != nil {
			return created, skipped, err
		}
		created = append(created, record)
	}
	return created, skipped, nil
}

func (s *Service) Summaries(ctx context.Context, from, to time.Time) ([]Summary, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	}
	return s.Store.Summaries(ctx, dateOnly(from), dateOnly(to))
}
