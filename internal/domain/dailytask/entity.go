package dailytask

import "time"

// Log is the informational daily task record linked to a work day. It is not
// authoritative for attendance.
type Log struct {
	EmployeeID     string
	Date           time.Time
	FirstEntryNote *string
	LogoutTime     *string
	CompletedAt    *time.Time
	CreatedAt      time.Time
}
