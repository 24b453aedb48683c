package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLateLogin         NotificationType = "late_login"
	TypeBreakOverrun      NotificationType = "break_overrun"
	TypeLunchOverrun      NotificationType = "lunch_overrun"
	TypePermissionOverrun NotificationType = "permission_overrun"
	TypeAutoLogout        NotificationType = "auto_logout"
	TypePayrollGenerated  NotificationType = "payroll_generated"
	TypePayrollApproved   NotificationType = "payroll_approved"
	TypePayrollPaid       NotificationType = "payroll_paid"
	TypeSalaryRevised     NotificationType = "salary_revised"
)

// Severity ranks how urgently a recipient should look at a notification.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notification represents a notification entity. RecipientID is the
// employee id of the person addressed.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Severity    Severity
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// Stream channels a client can listen to with EventSource.addEventListener.
const (
	ChannelEscalation = "escalation"
	ChannelPayroll    = "payroll"
)

// Channel is the stream event name a notification of this type is pushed under.
func (t NotificationType) Channel() string {
	switch t {
	case TypePayrollGenerated, TypePayrollApproved, TypePayrollPaid, TypeSalaryRevised:
		return ChannelPayroll
	}
	return ChannelEscalation
}
