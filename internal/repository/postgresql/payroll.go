package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	pr.id, pr.employee_id, pr.pay_period,
	pr.basic_salary, pr.hra, pr.da, pr.conveyance, pr.medical,
	pr.bonus, pr.incentive, pr.overtime_pay,
	pr.pf, pr.esi, pr.lop_deduction, pr.loan_deduction, pr.other_deductions,
	pr.gross_salary, pr.total_earnings, pr.total_deductions, pr.net_pay,
	pr.working_days, pr.present_days, pr.half_days, pr.absent_days,
	pr.status, pr.approved_by, pr.approved_at, pr.paid_at, pr.notes, pr.created_at, pr.updated_at,
	e.full_name`

// payrollSelect joins the employee name onto every record read.
const payrollSelect = `SELECT ` + payrollColumns + `
	FROM payroll_records pr
	JOIN employees e ON pr.employee_id = e.id`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var (
		rec    payroll.PayrollRecord
		status string
	)
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PayPeriod,
		&rec.BasicSalary, &rec.HRA, &rec.DA, &rec.Conveyance, &rec.Medical,
		&rec.Bonus, &rec.Incentive, &rec.OvertimePay,
		&rec.PF, &rec.ESI, &rec.LOPDeduction, &rec.LoanDeduction, &rec.OtherDeductions,
		&rec.GrossSalary, &rec.TotalEarnings, &rec.TotalDeductions, &rec.NetPay,
		&rec.WorkingDays, &rec.PresentDays, &rec.HalfDays, &rec.AbsentDays,
		&status, &rec.ApprovedBy, &rec.ApprovedAt, &rec.PaidAt, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	rec.Status = payroll.PayrollStatus(status)
	return rec, nil
}

func (r *payrollRepository) getOne(ctx context.Context, where string, args ...interface{}) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanPayrollRecord(q.QueryRow(ctx, payrollSelect+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) CreatePayrollRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			employee_id, pay_period,
			basic_salary, hra, da, conveyance, medical,
			bonus, incentive, overtime_pay,
			pf, esi, lop_deduction, loan_deduction, other_deductions,
			gross_salary, total_earnings, total_deductions, net_pay,
			working_days, present_days, half_days, absent_days,
			status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id
	`

	b := record.Breakdown
	var id string
	err := q.QueryRow(ctx, query,
		record.EmployeeID, record.PayPeriod,
		b.BasicSalary, b.HRA, b.DA, b.Conveyance, b.Medical,
		b.Bonus, b.Incentive, b.OvertimePay,
		b.PF, b.ESI, b.LOPDeduction, b.LoanDeduction, b.OtherDeductions,
		b.GrossSalary, b.TotalEarnings, b.TotalDeductions, b.NetPay,
		record.WorkingDays, record.PresentDays, record.HalfDays, record.AbsentDays,
		string(record.Status), record.Notes,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "uk_payroll_employee_period") {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return r.getOne(ctx, "pr.id = $1", id)
}

func (r *payrollRepository) GetPayrollRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	return r.getOne(ctx, "pr.id = $1", id)
}

func (r *payrollRepository) GetPayrollRecordByEmployeePeriod(ctx context.Context, employeeID string, payPeriod string) (payroll.PayrollRecord, error) {
	return r.getOne(ctx, "pr.employee_id = $1 AND pr.pay_period = $2", employeeID, payPeriod)
}

func (r *payrollRepository) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.PayPeriod != nil {
		where += fmt.Sprintf(" AND pr.pay_period = $%d", argIdx)
		args = append(args, *filter.PayPeriod)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM payroll_records pr JOIN employees e ON pr.employee_id = e.id` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	sortColumn := "pr.created_at"
	if filter.SortBy != "" {
		allowedColumns := map[string]string{
			"created_at":    "pr.created_at",
			"pay_period":    "pr.pay_period",
			"employee_name": "e.full_name",
			"net_pay":       "pr.net_pay",
		}
		if col, ok := allowedColumns[filter.SortBy]; ok {
			sortColumn = col
		}
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`%s%s ORDER BY %s %s, pr.id LIMIT $%d OFFSET $%d`,
		payrollSelect, where, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) UpdateDraftRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			basic_salary = $2, hra = $3, da = $4, conveyance = $5, medical = $6,
			bonus = $7, incentive = $8, overtime_pay = $9,
			pf = $10, esi = $11, lop_deduction = $12, loan_deduction = $13, other_deductions = $14,
			gross_salary = $15, total_earnings = $16, total_deductions = $17, net_pay = $18,
			working_days = $19, present_days = $20, half_days = $21, absent_days = $22,
			notes = $23, updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
	`

	b := record.Breakdown
	tag, err := q.Exec(ctx, query,
		record.ID,
		b.BasicSalary, b.HRA, b.DA, b.Conveyance, b.Medical,
		b.Bonus, b.Incentive, b.OvertimePay,
		b.PF, b.ESI, b.LOPDeduction, b.LoanDeduction, b.OtherDeductions,
		b.GrossSalary, b.TotalEarnings, b.TotalDeductions, b.NetPay,
		record.WorkingDays, record.PresentDays, record.HalfDays, record.AbsentDays,
		record.Notes,
	)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.PayrollRecord{}, r.transitionMiss(ctx, record.ID, payroll.ErrPayrollAlreadyFinalized)
	}

	return r.getOne(ctx, "pr.id = $1", record.ID)
}

func (r *payrollRepository) Approve(ctx context.Context, id string, approvedBy string, at time.Time) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = 'approved', approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
	`

	tag, err := q.Exec(ctx, query, id, approvedBy, at)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to approve payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.PayrollRecord{}, r.transitionMiss(ctx, id, payroll.ErrPayrollAlreadyFinalized)
	}

	return r.getOne(ctx, "pr.id = $1", id)
}

func (r *payrollRepository) MarkPaid(ctx context.Context, id string, at time.Time) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = 'paid', paid_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'approved'
	`

	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to mark payroll record paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.PayrollRecord{}, r.transitionMiss(ctx, id, payroll.ErrPayrollNotApproved)
	}

	return r.getOne(ctx, "pr.id = $1", id)
}

// transitionMiss explains a conditional update that matched no row.
func (r *payrollRepository) transitionMiss(ctx context.Context, id string, wrongState error) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payroll_records WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check payroll record: %w", err)
	}
	if !exists {
		return payroll.ErrPayrollRecordNotFound
	}
	return wrongState
}

func (r *payrollRepository) GetAttendanceSummary(ctx context.Context, employeeID string, from, to time.Time) (payroll.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE attendance_status = 'present'),
			COUNT(*) FILTER (WHERE attendance_status = 'half_day'),
			COUNT(*) FILTER (WHERE attendance_status = 'leave')
		FROM day_sessions
		WHERE employee_id = $1
			AND date BETWEEN $2 AND $3
			AND logout_time IS NOT NULL
	`

	s := payroll.AttendanceSummary{EmployeeID: employeeID}
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&s.PresentDays, &s.HalfDays, &s.LeaveDays); err != nil {
		return payroll.AttendanceSummary{}, fmt.Errorf("failed to get attendance summary: %w", err)
	}

	return s, nil
}
