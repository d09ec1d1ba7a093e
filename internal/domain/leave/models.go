package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeSick     = "sick"
	TypeVacation = "vacation"
	TypePersonal = "personal"
	TypeOther    = "other"
)

type Leave struct {
	ID            string     `json:"id"`
	LeaveID       string     `json:"leaveId"`
	EmployeeID    string     `json:"employeeId"`
	Type          string     `json:"type"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       time.Time  `json:"endDate"`
	StartHalf     bool       `json:"startHalf"`
	EndHalf       bool       `json:"endHalf"`
	TotalDays     float64    `json:"totalDays"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	ReviewComment string     `json:"reviewComment,omitempty"`
	ReviewedBy    string     `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type CreateInput struct {
	Type      string    `json:"type"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	StartHalf bool      `json:"startHalf"`
	EndHalf   bool      `json:"endHalf"`
	Reason    string    `json:"reason"`
}

type ListFilter struct {
	EmployeeID string
	Status     string
	Limit      int
	Offset     int
}

type ListResult struct {
	Leaves []Leave `json:"leaves"`
	Total  int     `json:"total"`
}

func ValidType(t string) bool {
	switch t {
	case TypeSick, TypeVacation, TypePersonal, TypeOther:
		return true
	}
	return false
}
