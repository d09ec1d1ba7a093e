package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const selectColumns = `
    id, leave_id, employee_id, type, start_date, end_date, start_half, end_half, total_days,
    reason, status, COALESCE(review_comment,''), COALESCE(reviewed_by::text,''), reviewed_at, created_at`

func scanLeave(row pgx.Row) (Leave, error) {
	var l Leave
	err := row.Scan(&l.ID, &l.LeaveID, &l.EmployeeID, &l.Type, &l.StartDate, &l.EndDate, &l.StartHalf, &l.EndHalf,
		&l.TotalDays, &l.Reason, &l.Status, &l.ReviewComment, &l.ReviewedBy, &l.ReviewedAt, &l.CreatedAt)
	if err != nil {
		return Leave{}, err
	}
	return l, nil
}

func (s *Store) Insert(ctx context.Context, leaveID, employeeID string, in CreateInput, totalDays float64) (Leave, error) {
	return scanLeave(s.DB.QueryRow(ctx, `
    INSERT INTO leaves (leave_id, employee_id, type, start_date, end_date, start_half, end_half, total_days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING`+selectColumns+`
  `, leaveID, employeeID, in.Type, in.StartDate, in.EndDate, in.StartHalf, in.EndHalf, totalDays, in.Reason, StatusPending))
}

func (s *Store) GetByLeaveID(ctx context.Context, leaveID string) (Leave, error) {
	l, err := scanLeave(s.DB.QueryRow(ctx, `
    SELECT`+selectColumns+`
    FROM leaves
    WHERE leave_id = $1
  `, leaveID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Leave{}, ErrNotFound
	}
	return l, err
}

func (s *Store) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leaves"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := "SELECT" + selectColumns + " FROM leaves" + where + " ORDER BY created_at DESC"
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	result := ListResult{Total: total, Leaves: []Leave{}}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return ListResult{}, err
		}
		result.Leaves = append(result.Leaves, l)
	}
	return result, rows.Err()
}

// Review flips a pending request to approved or rejected. The WHERE on
// status makes the transition race-safe; zero rows means the request was
// missing or already decided.
func (s *Store) Review(ctx context.Context, leaveID, status, comment, reviewerUserID string) (Leave, error) {
	l, err := scanLeave(s.DB.QueryRow(ctx, `
    UPDATE leaves
    SET status = $1, review_comment = $2, reviewed_by = $3, reviewed_at = now()
    WHERE leave_id = $4 AND status = $5
    RETURNING`+selectColumns+`
  `, status, comment, reviewerUserID, leaveID, StatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return Leave{}, ErrNotPending
	}
	return l, err
}

func (s *Store) Recent(ctx context.Context, limit int) ([]Leave, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+selectColumns+`
    FROM leaves
    ORDER BY created_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}
