package employee

import (
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeFilter struct {
	Department *string `json:"department,omitempty"`
	Role       *string `json:"role,omitempty"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Role != nil && user.ParseRole(*f.Role) == user.RoleUnknown {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "unknown role"})
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		FullName:   e.FullName,
		Department: e.Department,
		Role:       string(e.Role),
		IsActive:   e.IsActive,
	}
}

type SalaryRevisionResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	PreviousSalary decimal.Decimal `json:"previous_salary"`
	NewSalary      decimal.Decimal `json:"new_salary"`
	EffectiveDate  string          `json:"effective_date"`
}

func NewSalaryRevisionResponse(r SalaryRevision) SalaryRevisionResponse {
	return SalaryRevisionResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		PreviousSalary: r.PreviousSalary,
		NewSalary:      r.NewSalary,
		EffectiveDate:  r.EffectiveDate.Format("2006-01-02"),
	}
}
