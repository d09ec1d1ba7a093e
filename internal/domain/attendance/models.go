package attendance

import "time"

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half-day"
	StatusLeave   = "leave"
	StatusHoliday = "holiday"
	StatusWeekend = "weekend"
)

type Record struct {
	ID               string     `json:"id"`
	AttendanceID     string     `json:"attendanceId"`
	EmployeeID       string     `json:"employeeId"`
	Date             time.Time  `json:"date"`
	CheckIn          *time.Time `json:"checkIn,omitempty"`
	CheckOut         *time.Time `json:"checkOut,omitempty"`
	CheckInLocation  string     `json:"checkInLocation,omitempty"`
	CheckOutLocation string     `json:"checkOutLocation,omitempty"`
	Status           string     `json:"status"`
	TotalHours       float64    `json:"totalHours"`
	Overtime         float64    `json:"overtime"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type BulkEntry struct {
	EmployeeID string    `json:"employeeId"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
}

type ListFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

type ListResult struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
}

type Summary struct {
	EmployeeID string  `json:"employeeId"`
	Present    int     `json:"present"`
	Late       int     `json:"late"`
	Absent     int     `json:"absent"`
	TotalHours float64 `json:"totalHours"`
	Overtime   float64 `json:"overtime"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusLeave, StatusHoliday, StatusWeekend:
		return true
	}
	return false
}
