package employee

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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) Insert(ctx context.Context, employeeID, userID string, in CreateInput) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_id, user_id, name, email, phone, address, department, position, joining_date, salary, status)
    VALUES ($1,NULLIF($2,'')::uuid,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id, employee_id, COALESCE(user_id::text,''), name, email, phone, address, department, position, joining_date, salary, status, created_at, updated_at
  `, employeeID, userID, in.Name, in.Email, in.Phone, in.Address, in.Department, in.Position, in.JoiningDate, in.Salary, StatusActive).
		Scan(&emp.ID, &emp.EmployeeID, &emp.UserID, &emp.Name, &emp.Email, &emp.Phone, &emp.Address, &emp.Department, &emp.Position, &emp.JoiningDate, &emp.Salary, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Employee{}, fmt.Errorf("insert employee: %w", ErrDuplicate)
		}
		return Employee{}, err
	}
	return emp, nil
}

const selectColumns = `
    id, employee_id, COALESCE(user_id::text,''), name, email, phone, address, department, position, joining_date, salary, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.EmployeeID, &emp.UserID, &emp.Name, &emp.Email, &emp.Phone, &emp.Address, &emp.Department, &emp.Position, &emp.JoiningDate, &emp.Salary, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) GetByEmployeeID(ctx context.Context, employeeID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT`+selectColumns+`
    FROM employees
    WHERE employee_id = $1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT`+selectColumns+`
    FROM employees
    WHERE user_id = $1
  `, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.Department != "" {
		args = append(args, filter.Department)
		where += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR employee_id ILIKE $%d)", len(args), len(args), len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := "SELECT" + selectColumns + " FROM employees" + where + " ORDER BY employee_id"
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	result := ListResult{Total: total, Employees: []Employee{}}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return ListResult{}, err
		}
		result.Employees = append(result.Employees, emp)
	}
	return result, rows.Err()
}

func (s *Store) Update(ctx context.Context, employeeID string, in UpdateInput) (Employee, error) {
	set := "updated_at = now()"
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Email != nil {
		add("email", *in.Email)
	}
	if in.Phone != nil {
		add("phone", *in.Phone)
	}
	if in.Address != nil {
		add("address", *in.Address)
	}
	if in.Department != nil {
		add("department", *in.Department)
	}
	if in.Position != nil {
		add("position", *in.Position)
	}
	if in.Salary != nil {
		add("salary", *in.Salary)
	}

	args = append(args, employeeID)
	query := fmt.Sprintf("UPDATE employees SET %s WHERE employee_id = $%d RETURNING"+selectColumns, set, len(args))

	emp, err := scanEmployee(s.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil && isUniqueViolation(err) {
		return Employee{}, fmt.Errorf("update employee: %w", ErrDuplicate)
	}
	return emp, err
}

func (s *Store) UpdateStatus(ctx context.Context, employeeID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = $1, updated_at = now() WHERE employee_id = $2
  `, status, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) LinkUser(ctx context.Context, employeeID, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET user_id = $1, updated_at = now() WHERE employee_id = $2", userID, employeeID)
	return err
}

// Delete removes the row. The employee_id stays burned; the sequence
// counter never moves backwards.
func (s *Store) Delete(ctx context.Context, employeeID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE employee_id = $1", employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name, COALESCE(d.description,''), d.created_at,
           (SELECT COUNT(1) FROM employees e WHERE e.department = d.name AND e.status = $1)
    FROM departments d
    ORDER BY d.name
  `, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.EmployeeCount); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, name, description string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description)
    VALUES ($1,$2)
    RETURNING id
  `, name, description).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("create department: %w", ErrDuplicate)
		}
		return "", err
	}
	return id, nil
}
