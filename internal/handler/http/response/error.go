package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, user.ErrInvalidToken),
		errors.Is(err, user.ErrEmployeeClaimMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Timecard
	case errors.Is(err, timecard.ErrSessionNotFound):
		NotFound(w, "No session recorded for this day")
	case errors.Is(err, timecard.ErrInvalidTimeFormat),
		errors.Is(err, timecard.ErrInvalidTimeOrder),
		errors.Is(err, timecard.ErrPermissionTooShort):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timecard.ErrConcurrentUpdate):
		Fail(w, http.StatusConflict, "CONCURRENT_UPDATE", "Session was modified concurrently, retry the request", nil)
	case errors.Is(err, timecard.ErrSessionExists),
		errors.Is(err, timecard.ErrSessionClosed),
		errors.Is(err, timecard.ErrNotLoggedIn),
		errors.Is(err, timecard.ErrLunchAlreadyTaken),
		errors.Is(err, timecard.ErrLunchInProgress),
		errors.Is(err, timecard.ErrLunchNotStarted),
		errors.Is(err, timecard.ErrMaxBreaksExceeded),
		errors.Is(err, timecard.ErrBreakInProgress),
		errors.Is(err, timecard.ErrBreakNotStarted),
		errors.Is(err, timecard.ErrPermissionLocked):
		Conflict(w, err.Error())

	// Payroll
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists),
		errors.Is(err, payroll.ErrPayrollAlreadyFinalized),
		errors.Is(err, payroll.ErrPayrollNotApproved):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary),
		errors.Is(err, payroll.ErrNegativeNetPay),
		errors.Is(err, payroll.ErrInvalidSalary),
		errors.Is(err, payroll.ErrInvalidWorkingDays),
		errors.Is(err, payroll.ErrInvalidAttendance),
		errors.Is(err, payroll.ErrNegativeAdjustment):
		Fail(w, http.StatusUnprocessableEntity, "PAYROLL_REJECTED", err.Error(), nil)

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, err.Error())

	// Notification
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Settings
	case errors.Is(err, settings.ErrSettingNotFound):
		NotFound(w, "Setting not found")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
