package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/escalation"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/notification"
)

// Config holds escalation configuration
type Config struct {
	// TopAdminID receives every alert regardless of the employee's role.
	TopAdminID string
	// Timeout bounds one delivery. default: 10 seconds
	Timeout time.Duration
	// CriticalOverageMinutes raises severity to critical at or above it. default: 60
	CriticalOverageMinutes int
}

type notifierImpl struct {
	employeeRepo employee.EmployeeRepository
	notifService notification.Service
	config       Config
	wg           sync.WaitGroup
}

func NewEscalationNotifier(employeeRepo employee.EmployeeRepository, notifService notification.Service, cfg Config) escalation.Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CriticalOverageMinutes <= 0 {
		cfg.CriticalOverageMinutes = 60
	}
	return &notifierImpl{
		employeeRepo: employeeRepo,
		notifService: notifService,
		config:       cfg,
	}
}

// Escalate implements escalation.Notifier.
func (n *notifierImpl) Escalate(ctx context.Context, ev escalation.Event) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.config.Timeout)
		defer cancel()

		if err := n.deliver(ctx, ev); err != nil {
			slog.Error("Escalation delivery failed",
				"employee_id", ev.EmployeeID, "kind", ev.Kind, "date", ev.Date, "error", err)
		}
	}()
}

// Wait implements escalation.Notifier.
func (n *notifierImpl) Wait() {
	n.wg.Wait()
}

func (n *notifierImpl) deliver(ctx context.Context, ev escalation.Event) error {
	name := n.displayName(ctx, ev.EmployeeID)
	title, message := Compose(name, ev)

	recipients, err := n.recipients(ctx, ev)
	if err != nil {
		// the top admin still gets the alert
		slog.Warn("Escalation recipients lookup failed", "employee_id", ev.EmployeeID, "role", ev.Role, "error", err)
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients for %s escalation of %s", ev.Kind, ev.EmployeeID)
	}

	severity := notification.SeverityWarning
	if ev.OverageMinutes >= n.config.CriticalOverageMinutes {
		severity = notification.SeverityCritical
	}

	data := map[string]interface{}{
		"employee_id":     ev.EmployeeID,
		"employee_name":   name,
		"kind":            string(ev.Kind),
		"date":            ev.Date,
		"overage_minutes": ev.OverageMinutes,
		"total_minutes":   ev.TotalMinutes,
	}
	if ev.ClockTime != "" {
		data["clock_time"] = ev.ClockTime
	}

	sender := ev.EmployeeID
	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, recipientID := range recipients {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: recipientID,
			SenderID:    &sender,
			Type:        ev.Kind.NotificationType(),
			Severity:    severity,
			Title:       title,
			Message:     message,
			Data:        data,
		})
	}

	return n.notifService.QueueBulkNotification(ctx, reqs)
}

// recipients returns the top admin first, then every active employee whose
// role sits above ev.Role. Ids are unique.
func (n *notifierImpl) recipients(ctx context.Context, ev escalation.Event) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	add(n.config.TopAdminID)

	roles := ev.Role.EscalationRecipients()
	if len(roles) == 0 {
		return ids, nil
	}

	superiors, err := n.employeeRepo.ListActiveByRoles(ctx, roles)
	if err != nil {
		return ids, fmt.Errorf("list employees by roles: %w", err)
	}
	for _, e := range superiors {
		if e.ID == ev.EmployeeID {
			continue
		}
		add(e.ID)
	}

	return ids, nil
}

// displayName falls back to the raw id when the directory cannot answer.
func (n *notifierImpl) displayName(ctx context.Context, employeeID string) string {
	emp, err := n.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		slog.Warn("Escalation name lookup failed, using employee id",
			"employee_id", employeeID, "error", fmt.Errorf("%w: %v", escalation.ErrDirectoryLookupFailed, err))
		return employeeID
	}
	if emp.FullName == "" {
		return employeeID
	}
	return emp.FullName
}

// Compose builds the alert title and message for ev.
func Compose(name string, ev escalation.Event) (string, string) {
	title := ev.Kind.Label() + " alert"
	who := fmt.Sprintf("%s (%s)", name, ev.EmployeeID)

	var message string
	switch ev.Kind {
	case escalation.KindLateLogin:
		message = fmt.Sprintf("%s: %s logged in at %s, %d minutes late on %s",
			ev.Kind.Label(), who, ev.ClockTime, ev.OverageMinutes, ev.Date)
	case escalation.KindPermission:
		message = fmt.Sprintf("%s: %s requested %d minutes of permission, %d minutes over the limit on %s",
			ev.Kind.Label(), who, ev.TotalMinutes, ev.OverageMinutes, ev.Date)
	default:
		message = fmt.Sprintf("%s: %s took %d minutes, %d minutes over the limit on %s",
			ev.Kind.Label(), who, ev.TotalMinutes, ev.OverageMinutes, ev.Date)
	}
	return title, message
}
