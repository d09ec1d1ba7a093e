package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const selectColumns = `
    id, attendance_id, employee_id, date, check_in, check_out,
    COALESCE(check_in_location,''), COALESCE(check_out_location,''), status, total_hours, overtime, COALESCE(notes,''), created_at`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.AttendanceID, &r.EmployeeID, &r.Date, &r.CheckIn, &r.CheckOut,
		&r.CheckInLocation, &r.CheckOutLocation, &r.Status, &r.TotalHours, &r.Overtime, &r.Notes, &r.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

// Insert relies on the UNIQUE (employee_id, date) constraint to reject a
// second record for the same day.
func (s *Store) Insert(ctx context.Context, r Record) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance (attendance_id, employee_id, date, check_in, check_out, check_in_location, check_out_location, status, total_hours, overtime, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING`+selectColumns+`
  `, r.AttendanceID, r.EmployeeID, r.Date, r.CheckIn, r.CheckOut, r.CheckInLocation, r.CheckOutLocation, r.Status, r.TotalHours, r.Overtime, r.Notes))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Record{}, fmt.Errorf("insert attendance: %w", ErrAlreadyCheckedIn)
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT`+selectColumns+`
    FROM attendance
    WHERE employee_id = $1 AND date = $2
  `, employeeID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *Store) SetCheckOut(ctx context.Context, attendanceID string, checkOut time.Time, location string, totalHours, overtime float64) (Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx, `
    UPDATE attendance
    SET check_out = $1, check_out_location = $2, total_hours = $3, overtime = $4
    WHERE attendance_id = $5
    RETURNING`+selectColumns+`
  `, checkOut, location, totalHours, overtime, attendanceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *Store) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM attendance"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := "SELECT" + selectColumns + " FROM attendance" + where + " ORDER BY date DESC, employee_id"
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	result := ListResult{Total: total, Records: []Record{}}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return ListResult{}, err
		}
		result.Records = append(result.Records, r)
	}
	return result, rows.Err()
}

func (s *Store) Summaries(ctx context.Context, from, to time.Time) ([]Summary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id,
           COUNT(1) FILTER (WHERE status = $1),
           COUNT(1) FILTER (WHERE status = $2),
           COUNT(1) FILTER (WHERE status = $3),
           COALESCE(SUM(total_hours),0),
           COALESCE(SUM(overtime),0)
    FROM attendance
    WHERE date >= $4 AND date <= $5
    GROUP BY employee_id
    ORDER BY employee_id
  `, StatusPresent, StatusLate, StatusAbsent, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.EmployeeID, &sum.Present, &sum.Late, &sum.Absent, &sum.TotalHours, &sum.Overtime); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
