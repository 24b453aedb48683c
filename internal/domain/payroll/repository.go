package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access methods for payroll.
type PayrollRepository interface {
	// CreatePayrollRecord returns ErrPayrollRecordAlreadyExists on a duplicate employee/period.
	CreatePayrollRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetPayrollRecordByID(ctx context.Context, id string) (PayrollRecord, error)
	GetPayrollRecordByEmployeePeriod(ctx context.Context, employeeID string, payPeriod string) (PayrollRecord, error)
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)

	// UpdateDraftRecord rewrites amounts and attendance inputs of a draft.
	// ErrPayrollAlreadyFinalized when the stored record is no longer a draft.
	UpdateDraftRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	// Approve moves a draft to approved. ErrPayrollAlreadyFinalized when it is not a draft.
	Approve(ctx context.Context, id string, approvedBy string, at time.Time) (PayrollRecord, error)

	// MarkPaid moves an approved record to paid. ErrPayrollNotApproved when it is not approved.
	MarkPaid(ctx context.Context, id string, at time.Time) (PayrollRecord, error)

	// GetAttendanceSummary counts classified sessions of employeeID dated from..to inclusive.
	GetAttendanceSummary(ctx context.Context, employeeID string, from, to time.Time) (AttendanceSummary, error)
}
