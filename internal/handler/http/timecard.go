package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimecardHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	LunchOut(w http.ResponseWriter, r *http.Request)
	LunchIn(w http.ResponseWriter, r *http.Request)
	Break(w http.ResponseWriter, r *http.Request)
	Permission(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	GetMySession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
}

type timecardHandlerImpl struct {
	timecardService timecard.TimecardService
}

func NewTimecardHandler(timecardService timecard.TimecardService) TimecardHandler {
	return &timecardHandlerImpl{
		timecardService: timecardService,
	}
}

// decodeJSON fills dst from the request body and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// identity answers 401 when the caller has no usable token.
func identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return middleware.Identity{}, false
	}
	return id, true
}

// Login implements TimecardHandler.
func (h *timecardHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req timecard.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = id.EmployeeID
	req.Role = string(id.Role)

	result, err := h.timecardService.RecordLogin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Login recorded", result)
}

// LunchOut implements TimecardHandler.
func (h *timecardHandlerImpl) LunchOut(w http.ResponseWriter, r *http.Request) {
	h.clockEvent(w, r, "Lunch out recorded", h.timecardService.RecordLunchOut)
}

// LunchIn implements TimecardHandler.
func (h *timecardHandlerImpl) LunchIn(w http.ResponseWriter, r *http.Request) {
	h.clockEvent(w, r, "Lunch in recorded", h.timecardService.RecordLunchIn)
}

func (h *timecardHandlerImpl) clockEvent(w http.ResponseWriter, r *http.Request, message string,
	record func(ctx context.Context, req timecard.ClockEventRequest) (timecard.SessionResponse, error)) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req timecard.ClockEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = id.EmployeeID

	result, err := record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// Break implements TimecardHandler.
func (h *timecardHandlerImpl) Break(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req timecard.BreakRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = id.EmployeeID

	result, err := h.timecardService.RecordBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break recorded", result)
}

// Permission implements TimecardHandler.
func (h *timecardHandlerImpl) Permission(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req timecard.PermissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = id.EmployeeID

	result, err := h.timecardService.RecordPermission(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Permission recorded", result)
}

// Logout implements TimecardHandler.
func (h *timecardHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req timecard.LogoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = id.EmployeeID
	req.Auto = false

	result, err := h.timecardService.RecordLogout(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logout recorded", result)
}

// GetMySession implements TimecardHandler.
func (h *timecardHandlerImpl) GetMySession(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	result, err := h.timecardService.GetSession(r.Context(), id.EmployeeID, chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSession implements TimecardHandler.
func (h *timecardHandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.timecardService.GetSession(r.Context(), employeeID, chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
