package timecard

import (
	"context"
	"time"
)

// SessionRepository persists DaySession records.
type SessionRepository interface {
	// Create inserts a new session with Version 1. Returns ErrSessionExists
	// when the employee already has a session for the date.
	Create(ctx context.Context, session DaySession) (DaySession, error)

	// GetByEmployeeAndDate returns ErrSessionNotFound when no session exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (DaySession, error)

	// Update writes session only if the stored version still equals
	// session.Version, and returns the row with the incremented version.
	// A mismatch yields ErrConcurrentUpdate.
	Update(ctx context.Context, session DaySession) (DaySession, error)

	// ListOpenBefore returns sessions dated before date that have no logout.
	ListOpenBefore(ctx context.Context, date time.Time) ([]DaySession, error)
}
