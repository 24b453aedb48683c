package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft    PayrollStatus = "draft"
	PayrollStatusApproved PayrollStatus = "approved"
	PayrollStatusPaid     PayrollStatus = "paid"
)

// Editable reports whether amounts on the record may still change.
func (s PayrollStatus) Editable() bool {
	return s == PayrollStatusDraft
}

// Adjustments are the ad-hoc amounts entered by payroll staff.
type Adjustments struct {
	Bonus           decimal.Decimal
	Incentive       decimal.Decimal
	OvertimePay     decimal.Decimal
	LoanDeduction   decimal.Decimal
	OtherDeductions decimal.Decimal
}

// AttendanceSummary aggregates classified day sessions of one employee.
type AttendanceSummary struct {
	EmployeeID  string
	PresentDays int
	HalfDays    int
	LeaveDays   int
}

// PayrollRecord - Generated payroll result
type PayrollRecord struct {
	ID         string
	EmployeeID string
	PayPeriod  string // YYYY-MM
	Breakdown
	WorkingDays int
	PresentDays int
	HalfDays    int
	AbsentDays  int
	Status      PayrollStatus
	ApprovedBy  *string
	ApprovedAt  *time.Time
	PaidAt      *time.Time
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}

// Adjustments returns the manual amounts stored on the record.
func (r PayrollRecord) Adjustments() Adjustments {
	return Adjustments{
		Bonus:           r.Bonus,
		Incentive:       r.Incentive,
		OvertimePay:     r.OvertimePay,
		LoanDeduction:   r.LoanDeduction,
		OtherDeductions: r.OtherDeductions,
	}
}
