package timecard

import (
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

// ========================================
// EVENT REQUESTS
// ========================================

// EmployeeID and Role are taken from the token, never from the body.

type LoginRequest struct {
	EmployeeID string  `json:"-"`
	Role       string  `json:"-"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Note       *string `json:"note,omitempty"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateEmployeeAndDate(errs, r.EmployeeID, r.Date)
	errs = validateClock(errs, "time", r.Time)

	return errs.Err()
}

// ClockEventRequest carries a single wall-clock event such as lunch-out or lunch-in.
type ClockEventRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

func (r *ClockEventRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateEmployeeAndDate(errs, r.EmployeeID, r.Date)
	errs = validateClock(errs, "time", r.Time)

	return errs.Err()
}

// BreakRequest opens a break with Out, closes the running one with In, or
// records a whole pair when both are given.
type BreakRequest struct {
	EmployeeID string  `json:"-"`
	Date       string  `json:"date"`
	Out        *string `json:"out,omitempty"`
	In         *string `json:"in,omitempty"`
}

func (r *BreakRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateEmployeeAndDate(errs, r.EmployeeID, r.Date)

	if r.Out == nil && r.In == nil {
		errs = append(errs, validator.ValidationError{Field: "out", Message: "out or in is required"})
	}
	if r.Out != nil {
		errs = validateClock(errs, "out", *r.Out)
	}
	if r.In != nil {
		errs = validateClock(errs, "in", *r.In)
	}

	return errs.Err()
}

type PermissionRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date"`
	Minutes    int    `json:"minutes"`
	Reason     string `json:"reason"`
}

func (r *PermissionRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateEmployeeAndDate(errs, r.EmployeeID, r.Date)

	if r.Minutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "minutes", Message: "minutes must not be negative"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	return errs.Err()
}

type LogoutRequest struct {
	EmployeeID string  `json:"-"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Reason     *string `json:"reason,omitempty"`
	// Auto marks a logout issued by the system rather than the employee.
	Auto bool `json:"-"`
}

func (r *LogoutRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateEmployeeAndDate(errs, r.EmployeeID, r.Date)
	errs = validateClock(errs, "time", r.Time)

	return errs.Err()
}

func validateEmployeeAndDate(errs validator.ValidationErrors, employeeID, date string) validator.ValidationErrors {
	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date is required"})
	} else if _, ok := validator.IsValidDate(date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	return errs
}

func validateClock(errs validator.ValidationErrors, field, value string) validator.ValidationErrors {
	if validator.IsEmpty(value) {
		return append(errs, validator.ValidationError{Field: field, Message: field + " is required"})
	}
	if !validator.IsValidClock(value) {
		errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be HH:MM in 24h format"})
	}
	return errs
}

// ========================================
// RESPONSES
// ========================================

type SessionResponse struct {
	ID                 string      `json:"id"`
	EmployeeID         string      `json:"employee_id"`
	Date               string      `json:"date"`
	Role               string      `json:"role"`
	Login              *string     `json:"login,omitempty"`
	Logout             *string     `json:"logout,omitempty"`
	LunchOut           *string     `json:"lunch_out,omitempty"`
	LunchIn            *string     `json:"lunch_in,omitempty"`
	Breaks             []BreakPair `json:"breaks"`
	PermissionMinutes  int         `json:"permission_minutes"`
	PermissionReason   *string     `json:"permission_reason,omitempty"`
	PermissionLocked   bool        `json:"permission_locked"`
	LateLogin          bool        `json:"late_login"`
	LateLoginMinutes   int         `json:"late_login_minutes"`
	AttendanceStatus   *string     `json:"attendance_status,omitempty"`
	StatusReason       *string     `json:"status_reason,omitempty"`
	WorkMinutes        *int        `json:"work_minutes,omitempty"`
	AutoLogoutReason   *string     `json:"auto_logout_reason,omitempty"`
	ManualLogoutReason *string     `json:"manual_logout_reason,omitempty"`
	Version            int         `json:"version"`
}

func NewSessionResponse(s DaySession) SessionResponse {
	breaks := s.Breaks
	if breaks == nil {
		breaks = []BreakPair{}
	}

	var status *string
	if s.AttendanceStatus != nil {
		v := string(*s.AttendanceStatus)
		status = &v
	}

	return SessionResponse{
		ID:                 s.ID,
		EmployeeID:         s.EmployeeID,
		Date:               s.Date.Format("2006-01-02"),
		Role:               string(s.Role),
		Login:              s.Login,
		Logout:             s.Logout,
		LunchOut:           s.LunchOut,
		LunchIn:            s.LunchIn,
		Breaks:             breaks,
		PermissionMinutes:  s.PermissionMinutes,
		PermissionReason:   s.PermissionReason,
		PermissionLocked:   s.PermissionLocked,
		LateLogin:          s.LateLogin,
		LateLoginMinutes:   s.LateLoginMinutes,
		AttendanceStatus:   status,
		StatusReason:       s.StatusReason,
		WorkMinutes:        s.WorkMinutes,
		AutoLogoutReason:   s.AutoLogoutReason,
		ManualLogoutReason: s.ManualLogoutReason,
		Version:            s.Version,
	}
}
