package employee

import "context"

// EmployeeService is the read side of the employee directory.
type EmployeeService interface {
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)
	// ListSalaryRevisions returns the employee's base salary history, newest first.
	ListSalaryRevisions(ctx context.Context, employeeID string) ([]SalaryRevisionResponse, error)
}
