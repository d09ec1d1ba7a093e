package notifications

const (
	TypeLeaveApproved = "leave_approved"
	TypeLeaveRejected = "leave_rejected"
	TypeSalaryPaid    = "salary_paid"
)
