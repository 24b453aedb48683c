package timecard

import (
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

// DefaultRequiredLoginTime applies when the tenant has not configured one.
const DefaultRequiredLoginTime = "10:00"

// Policy holds the thresholds the tracker and classifier enforce.
type Policy struct {
	MaxBreaks                int `yaml:"max_breaks"`
	BreakCapMinutes          int `yaml:"break_cap_minutes"`
	LunchCapMinutes          int `yaml:"lunch_cap_minutes"`
	RequiredWorkMinutes      int `yaml:"required_work_minutes"`
	HalfDayFloorMinutes      int `yaml:"half_day_floor_minutes"`
	LateGraceMinutes         int `yaml:"late_grace_minutes"`
	PermissionMinimumMinutes int `yaml:"permission_minimum_minutes"`
	PermissionLimitMinutes   int `yaml:"permission_limit_minutes"`
}

func DefaultPolicy() Policy {
	return Policy{
		MaxBreaks:                1,
		BreakCapMinutes:          30,
		LunchCapMinutes:          60,
		RequiredWorkMinutes:      480,
		HalfDayFloorMinutes:      240,
		LateGraceMinutes:         0,
		PermissionMinimumMinutes: 30,
		PermissionLimitMinutes:   120,
	}
}

func (p Policy) Validate() error {
	var errs validator.ValidationErrors

	if p.MaxBreaks < 0 {
		errs = append(errs, validator.ValidationError{Field: "max_breaks", Message: "must not be negative"})
	}
	if p.BreakCapMinutes <= 0 {
		errs = append(errs, validator.ValidationError{Field: "break_cap_minutes", Message: "must be positive"})
	}
	if p.LunchCapMinutes <= 0 {
		errs = append(errs, validator.ValidationError{Field: "lunch_cap_minutes", Message: "must be positive"})
	}
	if p.HalfDayFloorMinutes <= 0 {
		errs = append(errs, validator.ValidationError{Field: "half_day_floor_minutes", Message: "must be positive"})
	}
	if p.RequiredWorkMinutes <= p.HalfDayFloorMinutes {
		errs = append(errs, validator.ValidationError{Field: "required_work_minutes", Message: "must be greater than half_day_floor_minutes"})
	}
	if p.LateGraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_grace_minutes", Message: "must not be negative"})
	}
	if p.PermissionMinimumMinutes <= 0 {
		errs = append(errs, validator.ValidationError{Field: "permission_minimum_minutes", Message: "must be positive"})
	}
	if p.PermissionLimitMinutes < p.PermissionMinimumMinutes {
		errs = append(errs, validator.ValidationError{Field: "permission_limit_minutes", Message: "must not be below permission_minimum_minutes"})
	}

	return errs.Err()
}
