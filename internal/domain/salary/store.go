package salary

import (
	"context"
	"errors"
	"fmt"

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
    id, salary_id, employee_id, month, year, basic_salary,
    hra, da, transport, medical,
    tax, insurance, other_deductions,
    overtime_hours, overtime_rate, overtime_amount,
    bonus, status, paid_at, created_at`

func scanSalary(row pgx.Row) (Salary, error) {
	var s Salary
	err := row.Scan(&s.ID, &s.SalaryID, &s.EmployeeID, &s.Month, &s.Year, &s.BasicSalary,
		&s.Allowances.HRA, &s.Allowances.DA, &s.Allowances.Transport, &s.Allowances.Medical,
		&s.Deductions.Tax, &s.Deductions.Insurance, &s.Deductions.Other,
		&s.Overtime.Hours, &s.Overtime.Rate, &s.Overtime.Amount,
		&s.Bonus, &s.Status, &s.PaidAt, &s.CreatedAt)
	if err != nil {
		return Salary{}, err
	}
	return s, nil
}

func (s *Store) Insert(ctx context.Context, salaryID string, in CreateInput) (Salary, error) {
	sal, err := scanSalary(s.DB.QueryRow(ctx, `
    INSERT INTO salaries (salary_id, employee_id, month, year, basic_salary,
                          hra, da, transport, medical,
                          tax, insurance, other_deductions,
                          overtime_hours, overtime_rate, overtime_amount,
                          bonus, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING`+selectColumns+`
  `, salaryID, in.EmployeeID, in.Month, in.Year, in.BasicSalary,
		in.Allowances.HRA, in.Allowances.DA, in.Allowances.Transport, in.Allowances.Medical,
		in.Deductions.Tax, in.Deductions.Insurance, in.Deductions.Other,
		in.Overtime.Hours, in.Overtime.Rate, in.Overtime.Amount,
		in.Bonus, StatusPending))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Salary{}, fmt.Errorf("insert salary: %w", ErrDuplicatePeriod)
		}
		return Salary{}, err
	}
	return sal, nil
}

func (s *Store) GetBySalaryID(ctx context.Context, salaryID string) (Salary, error) {
	sal, err := scanSalary(s.DB.QueryRow(ctx, `
    SELECT`+selectColumns+`
    FROM salaries
    WHERE salary_id = $1
  `, salaryID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Salary{}, ErrNotFound
	}
	return sal, err
}

func (s *Store) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		where += fmt.Sprintf(" AND month = $%d", len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		where += fmt.Sprintf(" AND year = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM salaries"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := "SELECT" + selectColumns + " FROM salaries" + where + " ORDER BY year DESC, month DESC, employee_id"
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	result := ListResult{Total: total, Salaries: []Salary{}}
	for rows.Next() {
		sal, err := scanSalary(rows)
		if err != nil {
			return ListResult{}, err
		}
		result.Salaries = append(result.Salaries, sal)
	}
	return result, rows.Err()
}

func (s *Store) Update(ctx context.Context, salaryID string, in UpdateInput) (Salary, error) {
	set := ""
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", column, len(args))
	}
	if in.BasicSalary != nil {
		add("basic_salary", *in.BasicSalary)
	}
	if in.Allowances != nil {
		add("hra", in.Allowances.HRA)
		add("da", in.Allowances.DA)
		add("transport", in.Allowances.Transport)
		add("medical", in.Allowances.Medical)
	}
	if in.Deductions != nil {
		add("tax", in.Deductions.Tax)
		add("insurance", in.Deductions.Insurance)
		add("other_deductions", in.Deductions.Other)
	}
	if in.Overtime != nil {
		add("overtime_hours", in.Overtime.Hours)
		add("overtime_rate", in.Overtime.Rate)
		add("overtime_amount", in.Overtime.Amount)
	}
	if in.Bonus != nil {
		add("bonus", *in.Bonus)
	}
	if set == "" {
		return s.GetBySalaryID(ctx, salaryID)
	}

	args = append(args, salaryID)
	sal, err := scanSalary(s.DB.QueryRow(ctx,
		fmt.Sprintf("UPDATE salaries SET %s WHERE salary_id = $%d RETURNING"+selectColumns, set, len(args)), args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Salary{}, ErrNotFound
	}
	return sal, err
}

func (s *Store) UpdateStatus(ctx context.Context, salaryID, status string) (Salary, error) {
	paid := status == StatusPaid
	sal, err := scanSalary(s.DB.QueryRow(ctx, `
    UPDATE salaries
    SET status = $1, paid_at = CASE WHEN $2 THEN now() ELSE paid_at END
    WHERE salary_id = $3 AND status = $4
    RETURNING`+selectColumns+`
  `, status, paid, salaryID, StatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return Salary{}, ErrNotPending
	}
	return sal, err
}

func (s *Store) LatestForEmployee(ctx context.Context, employeeID string) (Salary, error) {
	sal, err := scanSalary(s.DB.QueryRow(ctx, `
    SELECT`+selectColumns+`
    FROM salaries
    WHERE employee_id = $1
    ORDER BY year DESC, month DESC
    LIMIT 1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Salary{}, ErrNotFound
	}
	return sal, err
}
