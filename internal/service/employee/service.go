package employee

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if validator.IsEmpty(id) {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return employee.NewEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService. Results are active
// employees ordered by department then name.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var (
		employees []employee.Employee
		err       error
	)
	if filter.Role != nil {
		employees, err = s.employeeRepo.ListActiveByRoles(ctx, []user.Role{user.ParseRole(*filter.Role)})
	} else {
		employees, err = s.employeeRepo.ListActive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		if filter.Department != nil && !strings.EqualFold(emp.Department, *filter.Department) {
			continue
		}
		responses = append(responses, employee.NewEmployeeResponse(emp))
	}

	sort.SliceStable(responses, func(i, j int) bool {
		if responses[i].Department != responses[j].Department {
			return responses[i].Department < responses[j].Department
		}
		return responses[i].FullName < responses[j].FullName
	})

	return responses, nil
}

// ListSalaryRevisions implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListSalaryRevisions(ctx context.Context, employeeID string) ([]employee.SalaryRevisionResponse, error) {
	if _, err := s.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	revisions, err := s.employeeRepo.ListSalaryRevisions(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary revisions: %w", err)
	}

	responses := make([]employee.SalaryRevisionResponse, 0, len(revisions))
	for _, r := range revisions {
		responses = append(responses, employee.NewSalaryRevisionResponse(r))
	}
	return responses, nil
}
