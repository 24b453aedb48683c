package http

import (
	"net/http"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	GetEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	ListSalaryRevisions(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	directory employee.EmployeeService
}

func NewEmployeeHandler(directory employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{directory: directory}
}

// selfOr resolves the {id} path param and admits the caller when it is
// their own id or their role holds perm.
func selfOr(w http.ResponseWriter, r *http.Request, perm user.Permission) (string, bool) {
	caller, ok := identity(w, r)
	if !ok {
		return "", false
	}
	id := chi.URLParam(r, "id")
	if id != caller.EmployeeID && !user.HasPermission(caller.Role, perm) {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return "", false
	}
	return id, true
}

func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := selfOr(w, r, user.PermissionTimecardViewAll)
	if !ok {
		return
	}

	result, err := h.directory.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListEmployees lists active employees, optionally narrowed by department and role.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	results, err := h.directory.ListEmployees(r.Context(), employee.EmployeeFilter{
		Department: optionalQuery(r, "department"),
		Role:       optionalQuery(r, "role"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// ListSalaryRevisions shows an employee their own salary history; payroll
// viewers can read anyone's.
func (h *employeeHandlerImpl) ListSalaryRevisions(w http.ResponseWriter, r *http.Request) {
	id, ok := selfOr(w, r, user.PermissionPayrollView)
	if !ok {
		return
	}

	results, err := h.directory.ListSalaryRevisions(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}
