package employee

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	UserID      string    `json:"userId,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Department  string    `json:"department"`
	Position    string    `json:"position"`
	JoiningDate time.Time `json:"joiningDate"`
	Salary      float64   `json:"salary"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Department struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateInput carries the admin-supplied fields for a new employee,
// including the initial password for the login account created with the
// record. The employeeId is never part of the input; it is allocated at
// persistence.
type CreateInput struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Department  string    `json:"department"`
	Position    string    `json:"position"`
	JoiningDate time.Time `json:"joiningDate"`
	Salary      float64   `json:"salary"`
}

type UpdateInput struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	Address    *string  `json:"address"`
	Department *string  `json:"department"`
	Position   *string  `json:"position"`
	Salary     *float64 `json:"salary"`
}

type ListFilter struct {
	Department string
	Status     string
	Search     string
	Limit      int
	Offset     int
}

type ListResult struct {
	Employees []Employee `json:"employees"`
	Total     int        `json:"total"`
}
