package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PayrollServiceImpl struct {
	transactor          database.Transactor
	payrollRepo         payroll.PayrollRepository
	employeeRepo        employee.EmployeeRepository
	notificationService notification.Service
	schedule            payroll.Schedule
	now                 func() time.Time
}

func NewPayrollService(
	transactor database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	notificationService notification.Service,
	schedule payroll.Schedule,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		transactor:          transactor,
		payrollRepo:         payrollRepo,
		employeeRepo:        employeeRepo,
		notificationService: notificationService,
		schedule:            schedule,
		now:                 time.Now,
	}
}

// ========== GENERATION ==========

func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	start, err := payroll.ParsePeriod(req.PayPeriod)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !emp.IsActive {
		return payroll.PayrollRecordResponse{}, employee.ErrEmployeeInactive
	}
	if !emp.BaseSalary.IsPositive() {
		return payroll.PayrollRecordResponse{}, payroll.ErrEmployeeHasNoBaseSalary
	}

	workingDays := payroll.WorkingDaysInPeriod(start)
	if req.WorkingDays != nil {
		workingDays = *req.WorkingDays
	}

	var result payroll.PayrollRecord
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.GetPayrollRecordByEmployeePeriod(ctx, emp.ID, req.PayPeriod)
		found := err == nil
		if err != nil && !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return err
		}
		if found && !existing.Status.Editable() {
			return payroll.ErrPayrollAlreadyFinalized
		}

		// a regenerated draft keeps the adjustments entered on it
		adjustments := payroll.Adjustments{}
		if found {
			adjustments = existing.Adjustments()
		}
		adjustments = req.Adjustments.ApplyTo(adjustments)

		from, to := payroll.PeriodBounds(start)
		summary, err := s.payrollRepo.GetAttendanceSummary(ctx, emp.ID, from, to)
		if err != nil {
			return fmt.Errorf("failed to summarize attendance: %w", err)
		}

		absent := payroll.AbsentDays(workingDays, summary)
		breakdown, err := payroll.Compute(payroll.Input{
			BasicSalary: emp.BaseSalary,
			WorkingDays: workingDays,
			PresentDays: summary.PresentDays,
			HalfDays:    summary.HalfDays,
			AbsentDays:  absent,
			Adjustments: adjustments,
		}, s.schedule)
		if err != nil {
			return err
		}

		record := payroll.PayrollRecord{
			EmployeeID:  emp.ID,
			PayPeriod:   req.PayPeriod,
			Breakdown:   breakdown,
			WorkingDays: workingDays,
			PresentDays: summary.PresentDays,
			HalfDays:    summary.HalfDays,
			AbsentDays:  absent,
			Status:      payroll.PayrollStatusDraft,
			Notes:       req.Notes,
		}

		if found {
			record.ID = existing.ID
			if record.Notes == nil {
				record.Notes = existing.Notes
			}
			result, err = s.payrollRepo.UpdateDraftRecord(ctx, record)
			return err
		}

		result, err = s.payrollRepo.CreatePayrollRecord(ctx, record)
		return err
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	name := emp.FullName
	result.EmployeeName = &name

	s.notify(ctx, result, notification.TypePayrollGenerated, "Payroll generated",
		fmt.Sprintf("Your payroll draft for %s has been generated. Net pay: %s", result.PayPeriod, result.NetPay.StringFixed(2)))

	return payroll.NewPayrollRecordResponse(result), nil
}

func (s *PayrollServiceImpl) GeneratePeriod(ctx context.Context, req payroll.GeneratePeriodRequest) ([]payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var employees []employee.Employee
	if len(req.EmployeeIDs) > 0 {
		for _, id := range req.EmployeeIDs {
			emp, err := s.employeeRepo.GetByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("employee %s: %w", id, err)
			}
			employees = append(employees, emp)
		}
	} else {
		active, err := s.employeeRepo.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}
		employees = active
	}

	results := make([]payroll.PayrollRecordResponse, 0, len(employees))
	for _, emp := range employees {
		resp, err := s.Generate(ctx, payroll.GeneratePayrollRequest{
			EmployeeID:  emp.ID,
			PayPeriod:   req.PayPeriod,
			WorkingDays: req.WorkingDays,
		})
		switch {
		case err == nil:
			results = append(results, resp)
		case errors.Is(err, payroll.ErrPayrollAlreadyFinalized),
			errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary),
			errors.Is(err, employee.ErrEmployeeInactive):
			slog.Info("Skipping payroll generation", "employee_id", emp.ID, "period", req.PayPeriod, "reason", err.Error())
		case errors.Is(err, payroll.ErrNegativeNetPay):
			slog.Warn("Skipping payroll generation", "employee_id", emp.ID, "period", req.PayPeriod, "error", err)
		default:
			return nil, fmt.Errorf("employee %s: %w", emp.ID, err)
		}
	}

	return results, nil
}

// ========== LIFECYCLE ==========

func (s *PayrollServiceImpl) UpdateAdjustments(ctx context.Context, req payroll.UpdateAdjustmentsRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	var result payroll.PayrollRecord
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.payrollRepo.GetPayrollRecordByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !record.Status.Editable() {
			return payroll.ErrPayrollAlreadyFinalized
		}

		// amounts are recomputed from the salary snapshot on the record
		breakdown, err := payroll.Compute(payroll.Input{
			BasicSalary: record.BasicSalary,
			WorkingDays: record.WorkingDays,
			PresentDays: record.PresentDays,
			HalfDays:    record.HalfDays,
			AbsentDays:  record.AbsentDays,
			Adjustments: req.Adjustments.ApplyTo(record.Adjustments()),
		}, s.schedule)
		if err != nil {
			return err
		}

		record.Breakdown = breakdown
		if req.Notes != nil {
			record.Notes = req.Notes
		}

		result, err = s.payrollRepo.UpdateDraftRecord(ctx, record)
		return err
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return payroll.NewPayrollRecordResponse(result), nil
}

func (s *PayrollServiceImpl) Approve(ctx context.Context, req payroll.ApprovePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.Approve(ctx, req.ID, req.ApprovedBy, s.now())
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	s.notify(ctx, record, notification.TypePayrollApproved, "Payroll approved",
		fmt.Sprintf("Your payroll for %s has been approved. Net pay: %s", record.PayPeriod, record.NetPay.StringFixed(2)))

	return payroll.NewPayrollRecordResponse(record), nil
}

func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	if validator.IsEmpty(id) {
		return payroll.PayrollRecordResponse{}, validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}

	var result payroll.PayrollRecord
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id)
		if err != nil {
			return err
		}
		switch record.Status {
		case payroll.PayrollStatusDraft:
			return payroll.ErrPayrollNotApproved
		case payroll.PayrollStatusPaid:
			return payroll.ErrPayrollAlreadyFinalized
		}

		result, err = s.payrollRepo.MarkPaid(ctx, id, s.now())
		return err
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	s.notify(ctx, result, notification.TypePayrollPaid, "Salary paid",
		fmt.Sprintf("Your salary for %s has been paid. Net pay: %s", result.PayPeriod, result.NetPay.StringFixed(2)))

	return payroll.NewPayrollRecordResponse(result), nil
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return payroll.NewPayrollRecordResponse(record), nil
}

func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	records, total, err := s.payrollRepo.ListPayrollRecords(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	data := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, payroll.NewPayrollRecordResponse(r))
	}

	return payroll.ListPayrollRecordResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== SALARY ==========

func (s *PayrollServiceImpl) ApplySalaryHike(ctx context.Context, req payroll.SalaryHikeRequest) (payroll.SalaryRevisionResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryRevisionResponse{}, err
	}
	effective, _ := validator.IsValidDate(req.EffectiveDate)
	newSalary := req.NewSalary.Round(2)

	var revision employee.SalaryRevision
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !emp.IsActive {
			return employee.ErrEmployeeInactive
		}

		if err := s.employeeRepo.UpdateBaseSalary(ctx, emp.ID, newSalary); err != nil {
			return fmt.Errorf("failed to update base salary: %w", err)
		}

		revision, err = s.employeeRepo.CreateSalaryRevision(ctx, employee.SalaryRevision{
			EmployeeID:     emp.ID,
			PreviousSalary: emp.BaseSalary,
			NewSalary:      newSalary,
			EffectiveDate:  effective,
		})
		if err != nil {
			return fmt.Errorf("failed to record salary revision: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.SalaryRevisionResponse{}, err
	}

	if err := s.notificationService.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: revision.EmployeeID,
		Type:        notification.TypeSalaryRevised,
		Severity:    notification.SeverityInfo,
		Title:       "Salary revised",
		Message: fmt.Sprintf("Your base salary changes from %s to %s effective %s",
			revision.PreviousSalary.StringFixed(2), revision.NewSalary.StringFixed(2), req.EffectiveDate),
		Data: map[string]interface{}{
			"revision_id":    revision.ID,
			"effective_date": req.EffectiveDate,
		},
	}); err != nil {
		slog.Warn("Failed to queue salary revision notification", "employee_id", revision.EmployeeID, "error", err)
	}

	return employee.NewSalaryRevisionResponse(revision), nil
}

// notify tells the employee about a payroll status change. Failures are logged only.
func (s *PayrollServiceImpl) notify(ctx context.Context, record payroll.PayrollRecord, typ notification.NotificationType, title, message string) {
	err := s.notificationService.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: record.EmployeeID,
		Type:        typ,
		Severity:    notification.SeverityInfo,
		Title:       title,
		Message:     message,
		Data: map[string]interface{}{
			"payroll_id": record.ID,
			"pay_period": record.PayPeriod,
			"status":     string(record.Status),
		},
	})
	if err != nil {
		slog.Warn("Failed to queue payroll notification", "payroll_id", record.ID, "type", typ, "error", err)
	}
}
