package dailytask

import (
	"context"
	"time"
)

type Repository interface {
	// MarkFirstEntry creates the day's log. An existing log is left as is.
	MarkFirstEntry(ctx context.Context, employeeID string, date time.Time, note *string) error

	// CompleteOnLogout stamps completion on the day's log, creating it if needed.
	CompleteOnLogout(ctx context.Context, employeeID string, date time.Time, logoutTime string) error

	Get(ctx context.Context, employeeID string, date time.Time) (Log, error)
}
