package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/timecard-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollRepository_Lifecycle(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewPayrollRepository(setup.DB)
	ctx := context.Background()
	empID := setup.CreateEmployee(t, "Jane Doe", "employee", "30000")

	breakdown, err := payroll.Compute(payroll.Input{
		BasicSalary: decimal.NewFromInt(30000),
		WorkingDays: 27,
		PresentDays: 27,
	}, payroll.DefaultSchedule())
	require.NoError(t, err)

	created, err := repo.CreatePayrollRecord(ctx, payroll.PayrollRecord{
		EmployeeID:  empID,
		PayPeriod:   "2026-10",
		Breakdown:   breakdown,
		WorkingDays: 27,
		PresentDays: 27,
		Status:      payroll.PayrollStatusDraft,
	})
	require.NoError(t, err)
	assert.True(t, created.NetPay.Equal(decimal.NewFromInt(44250)))
	require.NotNil(t, created.EmployeeName)
	assert.Equal(t, "Jane Doe", *created.EmployeeName)

	_, err = repo.CreatePayrollRecord(ctx, payroll.PayrollRecord{
		EmployeeID: empID, PayPeriod: "2026-10", Breakdown: breakdown, WorkingDays: 27, Status: payroll.PayrollStatusDraft,
	})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)

	_, err = repo.MarkPaid(ctx, created.ID, time.Now())
	assert.ErrorIs(t, err, payroll.ErrPayrollNotApproved)

	approved, err := repo.Approve(ctx, created.ID, "ad-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusApproved, approved.Status)

	_, err = repo.UpdateDraftRecord(ctx, approved)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyFinalized)

	paid, err := repo.MarkPaid(ctx, created.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	_, err = repo.Approve(ctx, "00000000-0000-0000-0000-000000000000", "ad-1", time.Now())
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestPayrollRepository_GetAttendanceSummary(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewPayrollRepository(setup.DB)
	ctx := context.Background()
	empID := setup.CreateEmployee(t, "Jane Doe", "employee", "30000")

	_, err := setup.DB.Exec(ctx, `
		INSERT INTO day_sessions (employee_id, date, role, login_time, logout_time, attendance_status)
		VALUES
			($1, '2026-10-05', 'employee', '09:00', '18:00', 'present'),
			($1, '2026-10-06', 'employee', '09:00', '13:00', 'half_day'),
			($1, '2026-10-07', 'employee', '09:00', '10:00', 'leave'),
			($1, '2026-10-08', 'employee', '09:00', NULL, NULL),
			($1, '2026-11-02', 'employee', '09:00', '18:00', 'present')
	`, empID)
	require.NoError(t, err)

	from, to := payroll.PeriodBounds(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	summary, err := repo.GetAttendanceSummary(ctx, empID, from, to)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PresentDays)
	assert.Equal(t, 1, summary.HalfDays)
	assert.Equal(t, 1, summary.LeaveDays)
}
