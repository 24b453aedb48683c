package payroll

import (
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// AdjustmentsInput carries optional manual amounts. Nil keeps the stored value.
type AdjustmentsInput struct {
	Bonus           *decimal.Decimal `json:"bonus,omitempty"`
	Incentive       *decimal.Decimal `json:"incentive,omitempty"`
	OvertimePay     *decimal.Decimal `json:"overtime_pay,omitempty"`
	LoanDeduction   *decimal.Decimal `json:"loan_deduction,omitempty"`
	OtherDeductions *decimal.Decimal `json:"other_deductions,omitempty"`
}

// ApplyTo overlays the provided amounts onto base.
func (a AdjustmentsInput) ApplyTo(base Adjustments) Adjustments {
	if a.Bonus != nil {
		base.Bonus = *a.Bonus
	}
	if a.Incentive != nil {
		base.Incentive = *a.Incentive
	}
	if a.OvertimePay != nil {
		base.OvertimePay = *a.OvertimePay
	}
	if a.LoanDeduction != nil {
		base.LoanDeduction = *a.LoanDeduction
	}
	if a.OtherDeductions != nil {
		base.OtherDeductions = *a.OtherDeductions
	}
	return base
}

func (a AdjustmentsInput) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	fields := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"bonus", a.Bonus},
		{"incentive", a.Incentive},
		{"overtime_pay", a.OvertimePay},
		{"loan_deduction", a.LoanDeduction},
		{"other_deductions", a.OtherDeductions},
	}
	for _, f := range fields {
		if f.value != nil && f.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: f.name, Message: "must not be negative"})
		}
	}
	return errs
}

type GeneratePayrollRequest struct {
	EmployeeID  string           `json:"employee_id"`
	PayPeriod   string           `json:"pay_period"`
	WorkingDays *int             `json:"working_days,omitempty"`
	Adjustments AdjustmentsInput `json:"adjustments"`
	Notes       *string          `json:"notes,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	errs = validatePeriod(errs, r.PayPeriod)
	if r.WorkingDays != nil && (*r.WorkingDays < 1 || *r.WorkingDays > 31) {
		errs = append(errs, validator.ValidationError{Field: "working_days", Message: "must be between 1 and 31"})
	}
	errs = r.Adjustments.validate(errs)

	return errs.Err()
}

// GeneratePeriodRequest generates drafts for many employees at once. An empty
// EmployeeIDs means every active employee.
type GeneratePeriodRequest struct {
	PayPeriod   string   `json:"pay_period"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	WorkingDays *int     `json:"working_days,omitempty"`
}

func (r *GeneratePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validatePeriod(errs, r.PayPeriod)
	if r.WorkingDays != nil && (*r.WorkingDays < 1 || *r.WorkingDays > 31) {
		errs = append(errs, validator.ValidationError{Field: "working_days", Message: "must be between 1 and 31"})
	}

	return errs.Err()
}

type UpdateAdjustmentsRequest struct {
	ID          string           `json:"-"`
	Adjustments AdjustmentsInput `json:"adjustments"`
	Notes       *string          `json:"notes,omitempty"`
}

func (r *UpdateAdjustmentsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	errs = r.Adjustments.validate(errs)

	return errs.Err()
}

type ApprovePayrollRequest struct {
	ID         string `json:"-"`
	ApprovedBy string `json:"-"`
}

func (r *ApprovePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if validator.IsEmpty(r.ApprovedBy) {
		errs = append(errs, validator.ValidationError{Field: "approved_by", Message: "approver is required"})
	}

	return errs.Err()
}

type SalaryHikeRequest struct {
	EmployeeID    string          `json:"employee_id"`
	NewSalary     decimal.Decimal `json:"new_salary"`
	EffectiveDate string          `json:"effective_date"`
}

func (r *SalaryHikeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !r.NewSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "new_salary", Message: "new_salary must be positive"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date must be in YYYY-MM-DD format"})
	}

	return errs.Err()
}

func validatePeriod(errs validator.ValidationErrors, period string) validator.ValidationErrors {
	if validator.IsEmpty(period) {
		return append(errs, validator.ValidationError{Field: "pay_period", Message: "pay_period is required"})
	}
	if _, ok := validator.IsValidPeriod(period); !ok {
		errs = append(errs, validator.ValidationError{Field: "pay_period", Message: "pay_period must be in YYYY-MM format"})
	}
	return errs
}

type PayrollFilter struct {
	PayPeriod  *string `json:"pay_period,omitempty"`
	Status     *string `json:"status,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	SortBy     string  `json:"sort_by"`
	SortOrder  string  `json:"sort_order"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.PayPeriod != nil {
		if _, ok := validator.IsValidPeriod(*f.PayPeriod); !ok {
			errs = append(errs, validator.ValidationError{Field: "pay_period", Message: "pay_period must be in YYYY-MM format"})
		}
	}
	if f.Status != nil {
		valid := []string{string(PayrollStatusDraft), string(PayrollStatusApproved), string(PayrollStatusPaid)}
		if !validator.IsInSlice(*f.Status, valid) {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of draft, approved, paid"})
		}
	}

	return errs.Err()
}

// ========== RESPONSES ==========

type PayrollRecordResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	PayPeriod       string          `json:"pay_period"`
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	HRA             decimal.Decimal `json:"hra"`
	DA              decimal.Decimal `json:"da"`
	Conveyance      decimal.Decimal `json:"conveyance"`
	Medical         decimal.Decimal `json:"medical"`
	Bonus           decimal.Decimal `json:"bonus"`
	Incentive       decimal.Decimal `json:"incentive"`
	OvertimePay     decimal.Decimal `json:"overtime_pay"`
	PF              decimal.Decimal `json:"pf"`
	ESI             decimal.Decimal `json:"esi"`
	LOPDeduction    decimal.Decimal `json:"lop_deduction"`
	LoanDeduction   decimal.Decimal `json:"loan_deduction"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	WorkingDays     int             `json:"working_days"`
	PresentDays     int             `json:"present_days"`
	HalfDays        int             `json:"half_days"`
	AbsentDays      int             `json:"absent_days"`
	Status          string          `json:"status"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	PaidAt          *string         `json:"paid_at,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
}

func NewPayrollRecordResponse(r PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		PayPeriod:       r.PayPeriod,
		BasicSalary:     r.BasicSalary,
		HRA:             r.HRA,
		DA:              r.DA,
		Conveyance:      r.Conveyance,
		Medical:         r.Medical,
		Bonus:           r.Bonus,
		Incentive:       r.Incentive,
		OvertimePay:     r.OvertimePay,
		PF:              r.PF,
		ESI:             r.ESI,
		LOPDeduction:    r.LOPDeduction,
		LoanDeduction:   r.LoanDeduction,
		OtherDeductions: r.OtherDeductions,
		GrossSalary:     r.GrossSalary,
		TotalEarnings:   r.TotalEarnings,
		TotalDeductions: r.TotalDeductions,
		NetPay:          r.NetPay,
		WorkingDays:     r.WorkingDays,
		PresentDays:     r.PresentDays,
		HalfDays:        r.HalfDays,
		AbsentDays:      r.AbsentDays,
		Status:          string(r.Status),
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      formatTimePtr(r.ApprovedAt),
		PaidAt:          formatTimePtr(r.PaidAt),
		Notes:           r.Notes,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

// SalaryRevisionResponse is shared with the employee directory.
type SalaryRevisionResponse = employee.SalaryRevisionResponse
