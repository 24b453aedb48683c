package escalation

import (
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
)

// Kind is the policy limit that was crossed.
type Kind string

const (
	KindLateLogin  Kind = "late_login"
	KindBreak      Kind = "break"
	KindLunch      Kind = "lunch"
	KindPermission Kind = "permission"
)

// Label is the human-readable name used in alert messages.
func (k Kind) Label() string {
	switch k {
	case KindLateLogin:
		return "Late Login"
	case KindBreak:
		return "Break"
	case KindLunch:
		return "Lunch"
	case KindPermission:
		return "Permission extension"
	}
	return string(k)
}

// NotificationType maps the kind onto the stored notification type.
func (k Kind) NotificationType() notification.NotificationType {
	switch k {
	case KindLateLogin:
		return notification.TypeLateLogin
	case KindBreak:
		return notification.TypeBreakOverrun
	case KindLunch:
		return notification.TypeLunchOverrun
	default:
		return notification.TypePermissionOverrun
	}
}

// Event describes one overage. OverageMinutes is how far past the limit the
// employee went; ClockTime is set for late logins.
type Event struct {
	EmployeeID     string
	Role           user.Role
	Date           string
	Kind           Kind
	OverageMinutes int
	TotalMinutes   int
	ClockTime      string
}
