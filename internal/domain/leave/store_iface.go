package leave

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, leaveID, employeeID string, in CreateInput, totalDays float64) (Leave, error)
	GetByLeaveID(ctx context.Context, leaveID string) (Leave, error)
	List(ctx context.Context, filter ListFilter) (ListResult, error)
	Review(ctx context.Context, leaveID, status, comment, reviewerUserID string) (Leave, error)
	Recent(ctx context.Context, limit int) ([]Leave, error)
}
