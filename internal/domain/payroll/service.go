package payroll

import "context"

type PayrollService interface {
	// Generate creates the employee's draft for the period, or recomputes the
	// existing draft. Approved and paid records are never touched.
	Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollRecordResponse, error)

	// GeneratePeriod runs Generate for many employees, skipping those already
	// finalized or without a base salary.
	GeneratePeriod(ctx context.Context, req GeneratePeriodRequest) ([]PayrollRecordResponse, error)

	UpdateAdjustments(ctx context.Context, req UpdateAdjustmentsRequest) (PayrollRecordResponse, error)
	Approve(ctx context.Context, req ApprovePayrollRequest) (PayrollRecordResponse, error)
	MarkPaid(ctx context.Context, id string) (PayrollRecordResponse, error)

	Get(ctx context.Context, id string) (PayrollRecordResponse, error)
	List(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)

	// ApplySalaryHike changes the base salary used by future generations and
	// records the revision. Existing records keep their amounts.
	ApplySalaryHike(ctx context.Context, req SalaryHikeRequest) (SalaryRevisionResponse, error)
}
