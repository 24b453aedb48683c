// Package validator holds the field checks shared by request DTOs and the
// error type the HTTP layer renders as a 422.
package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects every failing field of one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

// Err returns nil for an empty list, so callers never hand back a typed nil.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ToMap keys messages by field; a later message for the same field wins.
func (v ValidationErrors) ToMap() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		out[e.Field] = e.Message
	}
	return out
}

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidDate parses a calendar date in "YYYY-MM-DD" form.
func IsValidDate(s string) (time.Time, bool) {
	d, err := time.Parse(time.DateOnly, s)
	return d, err == nil
}

// IsValidPeriod parses a "YYYY-MM" pay period.
func IsValidPeriod(s string) (time.Time, bool) {
	p, err := time.Parse("2006-01", s)
	return p, err == nil
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidClock accepts a zero-padded 24h "HH:MM" wall-clock value.
func IsValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

func IsInSlice(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
