package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ems/internal/platform/sequence"
)

var (
	ErrNotFound      = errors.New("employee not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAccountLinked = errors.New("employee already has a login account")
)

// AccountProvisioner creates the login account backing an employee
// record and returns the new user id.
type AccountProvisioner interface {
	CreateEmployeeAccount(ctx context.Context, name, email, password string) (string, error)
}

type Service struct {
	Store StoreAPI
	Seq   *sequence.Service
	Users AccountProvisioner
}

func NewService(store StoreAPI, seq *sequence.Service, users AccountProvisioner) *Service {
	return &Service{Store: store, Seq: seq, Users: users}
}

// Create provisions the login account first, then allocates the next
// EMP identifier and persists the record linked to it. A failed insert
// burns the allocated number; gaps are acceptable, duplicates are not.
func (s *Service) Create(ctx context.Context, in CreateInput) (Employee, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Department == "" || in.Position == "" {
		return Employee{}, fmt.Errorf("%w: name, email, department and position are required", ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return Employee{}, fmt.Errorf("%w: password of at least 8 characters is required", ErrInvalidInput)
	}
	if in.JoiningDate.IsZero() {
		return Employee{}, fmt.Errorf("%w: joiningDate is required", ErrInvalidInput)
	}
	if in.Salary < 0 {
		return Employee{}, fmt.Errorf("%w: salary must not be negative", ErrInvalidInput)
	}

	userID, err := s.Users.CreateEmployeeAccount(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		if isUniqueViolation(err) {
			return Employee{}, fmt.Errorf("create account: %w", ErrDuplicate)
		}
		return Employee{}, err
	}

	employeeID, err := s.Seq.Next(ctx, sequence.Employee)
	if err != nil {
		return Employee{}, err
	}
	return s.Store.Insert(ctx, employeeID, userID, in)
}

// ProvisionAccount creates a login for an employee imported without
// one, for example through bulk onboarding.
func (s *Service) ProvisionAccount(ctx context.Context, employeeID, password string) (Employee, error) {
	if len(password) < 8 {
		return Employee{}, fmt.Errorf("%w: password of at least 8 characters is required", ErrInvalidInput)
	}
	emp, err := s.Get(ctx, employeeID)
	if err != nil {
		return Employee{}, err
	}
	if emp.UserID != "" {
		return Employee{}, ErrAccountLinked
	}

	userID, err := s.Users.CreateEmployeeAccount(ctx, emp.Name, emp.Email, password)
	if err != nil {
		if isUniqueViolation(err) {
			return Employee{}, fmt.Errorf("create account: %w", ErrDuplicate)
		}
		return Employee{}, err
	}
	if err := s.Store.LinkUser(ctx, employeeID, userID); err != nil {
		return Employee{}, err
	}
	emp.UserID = userID
	return emp, nil
}

func (s *Service) Get(ctx context.Context, employeeID string) (Employee, error) {
	if !sequence.Employee.Matches(employeeID) {
		return Employee{}, fmt.Errorf("%w: malformed employee id", ErrInvalidInput)
	}
	return s.Store.GetByEmployeeID(ctx, employeeID)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Employee, error) {
	return s.Store.GetByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, employeeID string, in UpdateInput) (Employee, error) {
	if in.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*in.Email))
		if normalized == "" {
			return Employee{}, fmt.Errorf("%w: email must not be empty", ErrInvalidInput)
		}
		in.Email = &normalized
	}
	if in.Salary != nil && *in.Salary < 0 {
		return Employee{}, fmt.Errorf("%w: salary must not be negative", ErrInvalidInput)
	}
	return s.Store.Update(ctx, employeeID, in)
}

// SetStatus is an unconditional single-field write; any transition
// between active and inactive is allowed.
func (s *Service) SetStatus(ctx context.Context, employeeID, status string) error {
	if status != StatusActive && status != StatusInactive {
		return fmt.Errorf("%w: status must be active or inactive", ErrInvalidInput)
	}
	return s.Store.UpdateStatus(ctx, employeeID, status)
}

func (s *Service) Delete(ctx context.Context, employeeID string) error {
	return s.Store.Delete(ctx, employeeID)
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.Store.ListDepartments(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, name, description string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: department name is required", ErrInvalidInput)
	}
	return s.Store.CreateDepartment(ctx, name, description)
}
