package timecard

import "errors"

var (
	ErrInvalidTimeFormat = errors.New("time must be HH:MM in 24h format")
	ErrInvalidTimeOrder  = errors.New("event time is earlier than the event it closes")

	// Session lifecycle
	ErrSessionNotFound  = errors.New("no timecard session for this employee and date")
	ErrSessionExists    = errors.New("timecard session already exists for this employee and date")
	ErrSessionClosed    = errors.New("timecard session is already closed by logout")
	ErrConcurrentUpdate = errors.New("timecard session was modified concurrently, retry the request")
	ErrNotLoggedIn      = errors.New("session has no login recorded")

	// Lunch
	ErrLunchAlreadyTaken = errors.New("lunch has already been taken today")
	ErrLunchInProgress   = errors.New("lunch is already in progress")
	ErrLunchNotStarted   = errors.New("lunch-out has not been recorded")

	// Breaks
	ErrMaxBreaksExceeded = errors.New("maximum number of breaks reached for today")
	ErrBreakInProgress   = errors.New("a break is already in progress")
	ErrBreakNotStarted   = errors.New("no break in progress to close")

	// Permission
	ErrPermissionLocked   = errors.New("permission has already been recorded for today")
	ErrPermissionTooShort = errors.New("permission is shorter than the minimum allowed")
)
