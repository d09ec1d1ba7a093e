package employee

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, employeeID, userID string, in CreateInput) (Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	List(ctx context.Context, filter ListFilter) (ListResult, error)
	Update(ctx context.Context, employeeID string, in UpdateInput) (Employee, error)
	UpdateStatus(ctx context.Context, employeeID, status string) error
	LinkUser(ctx context.Context, employeeID, userID string) error
	Delete(ctx context.Context, employeeID string) error
	ListDepartments(ctx context.Context) ([]Department, error)
	CreateDepartment(ctx context.Context, name, description string) (string, error)
}
