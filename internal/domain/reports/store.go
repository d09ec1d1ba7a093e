package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/employee"
	"ems/internal/domain/leave"
	"ems/internal/domain/salary"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) EmployeeCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE status = $1", employee.StatusActive).Scan(&count)
	return count, err
}

func (s *Store) PendingLeaveCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leaves WHERE status = $1", leave.StatusPending).Scan(&count)
	return count, err
}

func (s *Store) AttendanceCountOn(ctx context.Context, date time.Time) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM attendance WHERE date = $1", date).Scan(&count)
	return count, err
}

func (s *Store) SalariesPaidInMonth(ctx context.Context, month, year int) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM salaries WHERE month = $1 AND year = $2 AND status = $3
  `, month, year, salary.StatusPaid).Scan(&count)
	return count, err
}

func (s *Store) RecentEmployees(ctx context.Context, limit int) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, name, department, position, status, created_at
    FROM employees
    ORDER BY created_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var employeeID, name, department, position, status string
		var createdAt time.Time
		if err := rows.Scan(&employeeID, &name, &department, &position, &status, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]any{
			"employeeId": employeeID,
			"name":       name,
			"department": department,
			"position":   position,
			"status":     status,
			"createdAt":  createdAt,
		})
	}
	return out, rows.Err()
}

func (s *Store) RecentSalaries(ctx context.Context, limit int) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT salary_id, employee_id, month, year, status, created_at
    FROM salaries
    ORDER BY created_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var salaryID, employeeID, status string
		var month, year int
		var createdAt time.Time
		if err := rows.Scan(&salaryID, &employeeID, &month, &year, &status, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]any{
			"salaryId":   salaryID,
			"employeeId": employeeID,
			"month":      month,
			"year":       year,
			"status":     status,
			"createdAt":  createdAt,
		})
	}
	return out, rows.Err()
}

func (s *Store) RecentAttendance(ctx context.Context, limit int) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT attendance_id, employee_id, date, status, total_hours, created_at
    FROM attendance
    ORDER BY created_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var attendanceID, employeeID, status string
		var date, createdAt time.Time
		var totalHours float64
		if err := rows.Scan(&attendanceID, &employeeID, &date, &status, &totalHours, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]any{
			"attendanceId": attendanceID,
			"employeeId":   employeeID,
			"date":         date,
			"status":       status,
			"totalHours":   totalHours,
			"createdAt":    createdAt,
		})
	}
	return out, rows.Err()
}

type AttendanceExportRow struct {
	AttendanceID string
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	CheckIn      *time.Time
	CheckOut     *time.Time
	Status       string
	TotalHours   float64
	Overtime     float64
}

func (s *Store) AttendanceExportRows(ctx context.Context, from, to time.Time) ([]AttendanceExportRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.attendance_id, a.employee_id, COALESCE(e.name,''), a.date, a.check_in, a.check_out, a.status, a.total_hours, a.overtime
    FROM attendance a
    LEFT JOIN employees e ON e.employee_id = a.employee_id
    WHERE a.date >= $1 AND a.date <= $2
    ORDER BY a.date, a.employee_id
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendanceExportRow
	for rows.Next() {
		var r AttendanceExportRow
		if err := rows.Scan(&r.AttendanceID, &r.EmployeeID, &r.EmployeeName, &r.Date, &r.CheckIn, &r.CheckOut, &r.Status, &r.TotalHours, &r.Overtime); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
