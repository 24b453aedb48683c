package timecard

import (
	"context"
	"time"
)

// TimecardService records the events of an employee's working day.
type TimecardService interface {
	// RecordLogin opens the day's session. Repeating it returns the existing session unchanged.
	RecordLogin(ctx context.Context, req LoginRequest) (SessionResponse, error)

	RecordLunchOut(ctx context.Context, req ClockEventRequest) (SessionResponse, error)
	RecordLunchIn(ctx context.Context, req ClockEventRequest) (SessionResponse, error)
	RecordBreak(ctx context.Context, req BreakRequest) (SessionResponse, error)
	RecordPermission(ctx context.Context, req PermissionRequest) (SessionResponse, error)

	// RecordLogout closes the session and classifies the day.
	RecordLogout(ctx context.Context, req LogoutRequest) (SessionResponse, error)

	GetSession(ctx context.Context, employeeID string, date string) (SessionResponse, error)

	// CloseStaleSessions logs out every session dated before today that was
	// left open, stamping an auto-logout reason. Returns how many were closed.
	CloseStaleSessions(ctx context.Context, today time.Time) (int, error)

	// Wait blocks until background side effects started so far have finished.
	Wait()
}
