package salary

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, salaryID string, in CreateInput) (Salary, error)
	GetBySalaryID(ctx context.Context, salaryID string) (Salary, error)
	List(ctx context.Context, filter ListFilter) (ListResult, error)
	Update(ctx context.Context, salaryID string, in UpdateInput) (Salary, error)
	UpdateStatus(ctx context.Context, salaryID, status string) (Salary, error)
	LatestForEmployee(ctx context.Context, employeeID string) (Salary, error)
}
