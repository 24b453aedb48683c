package http

import (
	"net/http"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Payroll Records
	GeneratePayroll(w http.ResponseWriter, r *http.Request)
	GeneratePeriod(w http.ResponseWriter, r *http.Request)
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	UpdateAdjustments(w http.ResponseWriter, r *http.Request)

	// Status
	ApprovePayroll(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)

	// Salary
	ApplySalaryHike(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== PAYROLL RECORDS ==========

func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated", result)
}

func (h *payrollHandlerImpl) GeneratePeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePeriodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.GeneratePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated for period", result)
}

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	result, err := h.payrollService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, "limit", 20)
	filter := payroll.PayrollFilter{
		Page:       page,
		Limit:      limit,
		PayPeriod:  optionalQuery(r, "pay_period"),
		Status:     optionalQuery(r, "status"),
		EmployeeID: optionalQuery(r, "employee_id"),
		SortBy:     "created_at",
		SortOrder:  "desc",
	}
	if sortBy := r.URL.Query().Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := r.URL.Query().Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	result, err := h.payrollService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result.Data, result.Page, result.Limit, result.TotalCount)
}

func (h *payrollHandlerImpl) UpdateAdjustments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	var req payroll.UpdateAdjustmentsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.payrollService.UpdateAdjustments(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== STATUS ==========

func (h *payrollHandlerImpl) ApprovePayroll(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	req := payroll.ApprovePayrollRequest{
		ID:         chi.URLParam(r, "id"),
		ApprovedBy: caller.EmployeeID,
	}

	result, err := h.payrollService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll approved", result)
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll marked as paid", result)
}

// ========== SALARY ==========

func (h *payrollHandlerImpl) ApplySalaryHike(w http.ResponseWriter, r *http.Request) {
	var req payroll.SalaryHikeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.ApplySalaryHike(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary revised", result)
}
