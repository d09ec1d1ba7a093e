package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"ems/internal/domain/leave"
)

type Service struct {
	Store    *Store
	LeaveSvc *leave.Service
	now      func() time.Time
}

func NewService(store *Store, leaveSvc *leave.Service) *Service {
	return &Service{Store: store, LeaveSvc: leaveSvc, now: time.Now}
}

type Stats struct {
	ActiveEmployees   int `json:"activeEmployees"`
	PendingLeaves     int `json:"pendingLeaves"`
	AttendanceToday   int `json:"attendanceToday"`
	SalariesPaidMonth int `json:"salariesPaidThisMonth"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error
	if stats.ActiveEmployees, err = s.Store.EmployeeCount(ctx); err != nil {
		return Stats{}, err
	}
	if stats.PendingLeaves, err = s.Store.PendingLeaveCount(ctx); err != nil {
		return Stats{}, err
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if stats.AttendanceToday, err = s.Store.AttendanceCountOn(ctx, today); err != nil {
		return Stats{}, err
	}
	if stats.SalariesPaidMonth, err = s.Store.SalariesPaidInMonth(ctx, int(now.Month()), now.Year()); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *Service) Recent(ctx context.Context) (map[string]any, error) {
	employees, err := s.Store.RecentEmployees(ctx, 5)
	if err != nil {
		return nil, err
	}
	leaves, err := s.LeaveSvc.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}
	records, err := s.Store.RecentAttendance(ctx, 5)
	if err != nil {
		return nil, err
	}
	salaries, err := s.Store.RecentSalaries(ctx, 5)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"employees":  employees,
		"leaves":     leaves,
		"attendance": records,
		"salaries":   salaries,
	}, nil
}

// AttendanceXLSX renders the attendance rows for a date range as a
// spreadsheet.
func (s *Service) AttendanceXLSX(ctx context.Context, from, to time.Time) ([]byte, error) {
	exportRows, err := s.Store.AttendanceExportRows(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"Attendance ID", "Employee ID", "Name", "Date", "Check In", "Check Out", "Status", "Total Hours", "Overtime"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	formatTime := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("15:04")
	}
	for rowIdx, r := range exportRows {
		values := []any{
			r.AttendanceID,
			r.EmployeeID,
			r.EmployeeName,
			r.Date.Format("2006-01-02"),
			formatTime(r.CheckIn),
			formatTime(r.CheckOut),
			r.Status,
			r.TotalHours,
			r.Overtime,
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write attendance export: %w", err)
	}
	return buf.Bytes(), nil
}
