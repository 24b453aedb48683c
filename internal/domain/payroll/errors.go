package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollAlreadyFinalized    = errors.New("payroll record is already approved or paid")
	ErrPayrollNotApproved         = errors.New("payroll record must be approved before it is paid")
	ErrInvalidPeriod              = errors.New("invalid payroll period, expected YYYY-MM")
	ErrEmployeeHasNoBaseSalary    = errors.New("employee has no base salary configured")
	ErrNegativeNetPay             = errors.New("deductions exceed earnings, net pay would be negative")
	ErrInvalidSalary              = errors.New("salary must be positive")
	ErrInvalidWorkingDays         = errors.New("working days must be positive")
	ErrInvalidAttendance          = errors.New("attendance day counts must not be negative")
	ErrNegativeAdjustment         = errors.New("adjustment amounts must not be negative")
)
