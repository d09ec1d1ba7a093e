package salary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"ems/internal/platform/sequence"
)

var (
	ErrNotFound        = errors.New("salary record not found")
	ErrNotPending      = errors.New("salary record is not pending")
	ErrDuplicatePeriod = errors.New("salary already exists for this employee and period")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
)

type Service struct {
	Store StoreAPI
	Seq   *sequence.Service
}

func NewService(store StoreAPI, seq *sequence.Service) *Service {
	return &Service{Store: store, Seq: seq}
}

// Create allocates the next SAL identifier and persists the record as
// pending. One record per employee and month/year.
func (s *Service) Create(ctx context.Context, in CreateInput) (Salary, error) {
	if in.EmployeeID == "" {
		return Salary{}, fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if in.Month < 1 || in.Month > 12 {
		return Salary{}, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if in.Year < 2000 || in.Year > 2100 {
		return Salary{}, fmt.Errorf("%w: implausible year %d", ErrInvalidInput, in.Year)
	}
	if in.BasicSalary < 0 {
		return Salary{}, fmt.Errorf("%w: basicSalary must not be negative", ErrInvalidInput)
	}

	salaryID, err := s.Seq.Next(ctx, sequence.Salary)
	if err != nil {
		return Salary{}, err
	}
	return s.Store.Insert(ctx, salaryID, in)
}

func (s *Service) Get(ctx context.Context, salaryID string) (Salary, error) {
	if !sequence.Salary.Matches(salaryID) {
		return Salary{}, fmt.Errorf("%w: malformed salary id", ErrInvalidInput)
	}
	return s.Store.GetBySalaryID(ctx, salaryID)
}

// GetOwned returns the record only when it belongs to employeeID.
func (s *Service) GetOwned(ctx context.Context, salaryID, employeeID string) (Salary, error) {
	sal, err := s.Get(ctx, salaryID)
	if err != nil {
		return Salary{}, err
	}
	if sal.EmployeeID != employeeID {
		return Salary{}, ErrForbidden
	}
	return sal, nil
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

func (s *Service) Update(ctx context.Context, salaryID string, in UpdateInput) (Salary, error) {
	if in.BasicSalary != nil && *in.BasicSalary < 0 {
		return Salary{}, fmt.Errorf("%w: basicSalary must not be negative", ErrInvalidInput)
	}
	return s.Store.Update(ctx, salaryID, in)
}

func (s *Service) SetStatus(ctx context.Context, salaryID, status string) (Salary, error) {
	if status != StatusPaid && status != StatusCancelled {
		return Salary{}, fmt.Errorf("%w: status must be paid or cancelled", ErrInvalidInput)
	}
	return s.Store.UpdateStatus(ctx, salaryID, status)
}

func (s *Service) Latest(ctx context.Context, employeeID string) (Salary, error) {
	return s.Store.LatestForEmployee(ctx, employeeID)
}

// PayslipPDF renders the payslip for one salary record.
func (s *Service) PayslipPDF(ctx context.Context, sal Salary, employeeName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", employeeName, sal.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", time.Month(sal.Month), sal.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Reference: %s", sal.SalaryID))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Basic salary: %.2f", sal.BasicSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Allowances: %.2f", sal.Allowances.Total()))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Overtime: %.2f (%.1fh @ %.2f)", sal.Overtime.Amount, sal.Overtime.Hours, sal.Overtime.Rate))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bonus: %.2f", sal.Bonus))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %.2f", Gross(sal.BasicSalary, sal.Allowances, sal.Overtime, sal.Bonus)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", sal.Deductions.Total()))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %.2f", Net(sal.BasicSalary, sal.Allowances, sal.Deductions, sal.Overtime, sal.Bonus)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
