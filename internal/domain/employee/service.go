package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// GetEmployee retrieves a single employee by ID (organization from JWT)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee creates the employee, its address and this cycle's gift shipment
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee replaces the employee's data and address
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee deactivates an employee and cancels open shipments
	DeleteEmployee(ctx context.Context, id string) error

	// ListEmployees lists employees with filters
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// UpcomingBirthdays lists active employees whose next birthday falls within the window
	UpcomingBirthdays(ctx context.Context, req UpcomingBirthdaysRequest) ([]UpcomingBirthdayResponse, error)
}
