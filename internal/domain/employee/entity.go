package employee

import (
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Employee is one directory entry. Department is an attribute, not a partition.
type Employee struct {
	ID         string
	FullName   string
	Department string
	Role       user.Role
	BaseSalary decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SalaryRevision records one change of an employee's base salary.
type SalaryRevision struct {
	ID             string
	EmployeeID     string
	PreviousSalary decimal.Decimal
	NewSalary      decimal.Decimal
	EffectiveDate  time.Time
	CreatedAt      time.Time
}
