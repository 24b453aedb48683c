package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
)

type TimecardJobs struct {
	timecardService timecard.TimecardService
	notificationSvc notification.Service
	topAdminID      string
	interval        time.Duration
	now             func() time.Time
}

// NewTimecardJobs builds the auto-logout job. topAdminID receives a summary
// whenever sessions are closed; leave it empty to skip the summary.
func NewTimecardJobs(
	timecardService timecard.TimecardService,
	notificationSvc notification.Service,
	topAdminID string,
	interval time.Duration,
) *TimecardJobs {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TimecardJobs{
		timecardService: timecardService,
		notificationSvc: notificationSvc,
		topAdminID:      topAdminID,
		interval:        interval,
		now:             time.Now,
	}
}

func (j *TimecardJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "auto_logout_stale_sessions",
		Interval: j.interval,
		Timeout:  5 * time.Minute,
		Fn:       j.AutoLogoutStaleSessions,
	})
}

// AutoLogoutStaleSessions closes sessions from earlier days that never saw a logout.
func (j *TimecardJobs) AutoLogoutStaleSessions(ctx context.Context) error {
	today := j.now().UTC()

	closed, err := j.timecardService.CloseStaleSessions(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to close stale sessions: %w", err)
	}

	if closed == 0 {
		slog.Debug("Cron: No stale sessions found")
		return nil
	}

	slog.Info("Cron: Auto-logged out stale sessions", "count", closed)

	if j.notificationSvc != nil && j.topAdminID != "" {
		err := j.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: j.topAdminID,
			Type:        notification.TypeAutoLogout,
			Severity:    notification.SeverityInfo,
			Title:       "Sessions Auto-Closed",
			Message:     fmt.Sprintf("%d timecard sessions left open before %s were logged out automatically", closed, today.Format("2006-01-02")),
			Data: map[string]interface{}{
				"count":  closed,
				"before": today.Format("2006-01-02"),
			},
		})
		if err != nil {
			slog.Warn("Cron: Failed to queue auto-logout summary", "error", err)
		}
	}

	return nil
}
