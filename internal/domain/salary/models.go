package salary

import (
	"encoding/json"
	"time"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

type Salary struct {
	ID          string     `json:"id"`
	SalaryID    string     `json:"salaryId"`
	EmployeeID  string     `json:"employeeId"`
	Month       int        `json:"month"`
	Year        int        `json:"year"`
	BasicSalary float64    `json:"basicSalary"`
	Allowances  Allowances `json:"allowances"`
	Deductions  Deductions `json:"deductions"`
	Overtime    Overtime   `json:"overtime"`
	Bonus       float64    `json:"bonus"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// MarshalJSON adds the derived totals so gross and net appear on every
// response without ever being stored.
func (s Salary) MarshalJSON() ([]byte, error) {
	type alias Salary
	return json.Marshal(struct {
		alias
		TotalAllowances float64 `json:"totalAllowances"`
		TotalDeductions float64 `json:"totalDeductions"`
		GrossSalary     float64 `json:"grossSalary"`
		NetSalary       float64 `json:"netSalary"`
	}{
		alias:           alias(s),
		TotalAllowances: s.Allowances.Total(),
		TotalDeductions: s.Deductions.Total(),
		GrossSalary:     Gross(s.BasicSalary, s.Allowances, s.Overtime, s.Bonus),
		NetSalary:       Net(s.BasicSalary, s.Allowances, s.Deductions, s.Overtime, s.Bonus),
	})
}

type CreateInput struct {
	EmployeeID  string     `json:"employeeId"`
	Month       int        `json:"month"`
	Year        int        `json:"year"`
	BasicSalary float64    `json:"basicSalary"`
	Allowances  Allowances `json:"allowances"`
	Deductions  Deductions `json:"deductions"`
	Overtime    Overtime   `json:"overtime"`
	Bonus       float64    `json:"bonus"`
}

type UpdateInput struct {
	BasicSalary *float64    `json:"basicSalary"`
	Allowances  *Allowances `json:"allowances"`
	Deductions  *Deductions `json:"deductions"`
	Overtime    *Overtime   `json:"overtime"`
	Bonus       *float64    `json:"bonus"`
}

type ListFilter struct {
	EmployeeID string
	Month      int
	Year       int
	Status     string
	Limit      int
	Offset     int
}

type ListResult struct {
	Salaries []Salary `json:"salaries"`
	Total    int      `json:"total"`
}
