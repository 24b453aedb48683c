package employee

import (
	"context"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActiveByRoles returns active employees holding any of roles, across
	// all departments, in one query.
	ListActiveByRoles(ctx context.Context, roles []user.Role) ([]Employee, error)

	ListActive(ctx context.Context) ([]Employee, error)

	UpdateBaseSalary(ctx context.Context, id string, salary decimal.Decimal) error
	CreateSalaryRevision(ctx context.Context, revision SalaryRevision) (SalaryRevision, error)
	ListSalaryRevisions(ctx context.Context, employeeID string) ([]SalaryRevision, error)
}
