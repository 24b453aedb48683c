package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, full_name, department, role, base_salary, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		found employee.Employee
		role  string
	)
	err := row.Scan(
		&found.ID, &found.FullName, &found.Department, &role,
		&found.BaseSalary, &found.IsActive, &found.CreatedAt, &found.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	found.Role = user.ParseRole(role)
	return found, nil
}

func (e *employeeRepositoryImpl) listEmployees(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		found, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, found)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	found, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}

	return found, nil
}

// ListActiveByRoles implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActiveByRoles(ctx context.Context, roles []user.Role) ([]employee.Employee, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE is_active AND role = ANY($1)
		ORDER BY full_name
	`
	return e.listEmployees(ctx, query, names)
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE is_active ORDER BY full_name`
	return e.listEmployees(ctx, query)
}

// UpdateBaseSalary implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateBaseSalary(ctx context.Context, id string, salary decimal.Decimal) error {
	q := GetQuerier(ctx, e.db)

	query := `UPDATE employees SET base_salary = $1, updated_at = NOW() WHERE id = $2`

	tag, err := q.Exec(ctx, query, salary, id)
	if err != nil {
		return fmt.Errorf("failed to update base salary for employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// CreateSalaryRevision implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CreateSalaryRevision(ctx context.Context, revision employee.SalaryRevision) (employee.SalaryRevision, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO salary_revisions (employee_id, previous_salary, new_salary, effective_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, employee_id, previous_salary, new_salary, effective_date, created_at
	`

	var created employee.SalaryRevision
	err := q.QueryRow(ctx, query,
		revision.EmployeeID, revision.PreviousSalary, revision.NewSalary, revision.EffectiveDate,
	).Scan(
		&created.ID, &created.EmployeeID, &created.PreviousSalary, &created.NewSalary,
		&created.EffectiveDate, &created.CreatedAt,
	)
	if err != nil {
		return employee.SalaryRevision{}, fmt.Errorf("failed to create salary revision: %w", err)
	}

	return created, nil
}

// ListSalaryRevisions implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListSalaryRevisions(ctx context.Context, employeeID string) ([]employee.SalaryRevision, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, employee_id, previous_salary, new_salary, effective_date, created_at
		FROM salary_revisions
		WHERE employee_id = $1
		ORDER BY effective_date DESC, created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query salary revisions: %w", err)
	}
	defer rows.Close()

	var revisions []employee.SalaryRevision
	for rows.Next() {
		var r employee.SalaryRevision
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.PreviousSalary, &r.NewSalary, &r.EffectiveDate, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan salary revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary revisions: %w", err)
	}

	return revisions, nil
}
