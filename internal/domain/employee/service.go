package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// GetEmployee retrieves a single employee (staff: any, employee: own)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee creates a new employee (staff only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee updates an existing employee (staff only)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes an employee with their attendance and slips (staff only)
	DeleteEmployee(ctx context.Context, id string) error

	// ListEmployees lists employees with filters
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
}
