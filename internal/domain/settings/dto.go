package settings

import "github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"

type UpdateTimecardSettingsRequest struct {
	RequiredLoginTime string `json:"required_login_time"`
}

func (r *UpdateTimecardSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequiredLoginTime) {
		errs = append(errs, validator.ValidationError{Field: "required_login_time", Message: "required_login_time is required"})
	} else if !validator.IsValidClock(r.RequiredLoginTime) {
		errs = append(errs, validator.ValidationError{Field: "required_login_time", Message: "required_login_time must be HH:MM in 24h format"})
	}

	return errs.Err()
}

type TimecardSettingsResponse struct {
	RequiredLoginTime string `json:"required_login_time"`
}
