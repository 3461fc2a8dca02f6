package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, organizationID string, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, updated Employee) (Employee, error)
	ReplaceAddress(ctx context.Context, address Address) error
	Deactivate(ctx context.Context, organizationID string, id string) error
	List(ctx context.Context, organizationID string, filter EmployeeFilter) ([]Employee, int64, error)
	GetActiveByOrganizationID(ctx context.Context, organizationID string) ([]Employee, error)
	ExistsByEmail(ctx context.Context, organizationID string, email string, excludeID *string) (bool, error)
}
