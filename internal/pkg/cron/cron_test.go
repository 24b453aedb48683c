package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubTimecardService struct {
	timecard.TimecardService

	mu     sync.Mutex
	closed int
	err    error
	days   []time.Time
}

func (s *stubTimecardService) CloseStaleSessions(ctx context.Context, today time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = append(s.days, today)
	return s.closed, s.err
}

type recordingNotifications struct {
	notification.Service

	queued []notification.CreateNotificationRequest
}

func (r *recordingNotifications) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	r.queued = append(r.queued, req)
	return nil
}

func TestScheduler_StartStop_RunsImmediately(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob(Job{Name: "probe", Interval: time.Hour, Fn: func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
	s.Stop()

	status := s.Status()
	require.Len(t, status, 1)
	assert.Equal(t, "probe", status[0].Name)
	assert.GreaterOrEqual(t, status[0].Runs, 1)
	assert.NoError(t, status[0].LastErr)
}

func TestScheduler_RunOnce_RecordsError(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")
	s.AddJob(Job{Name: "failing", Interval: time.Hour, Fn: func(ctx context.Context) error { return boom }})

	s.RunOnce(context.Background())

	status := s.Status()
	require.Len(t, status, 1)
	assert.Equal(t, 1, status[0].Runs)
	assert.ErrorIs(t, status[0].LastErr, boom)
	s.Stop()
}

func TestScheduler_RunOnce_RecoversPanic(t *testing.T) {
	s := NewScheduler()
	s.AddJob(Job{Name: "auto-logout", Interval: time.Hour, Fn: func(ctx context.Context) error { panic("nil session") }})
	s.AddJob(Job{Name: "after", Interval: time.Hour, Fn: func(ctx context.Context) error { return nil }})

	s.RunOnce(context.Background())

	status := s.Status()
	require.Len(t, status, 2)
	require.Error(t, status[0].LastErr)
	assert.Contains(t, status[0].LastErr.Error(), "auto-logout panicked: nil session")
	assert.Equal(t, 1, status[1].Runs)
	s.Stop()
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := NewScheduler()
	s.AddJob(Job{Name: "slow", Interval: time.Hour, Timeout: 20 * time.Millisecond, Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	s.RunOnce(context.Background())

	assert.ErrorIs(t, s.Status()[0].LastErr, context.DeadlineExceeded)
	s.Stop()
}

func TestTimecardJobs_AutoLogout_NotifiesTopAdmin(t *testing.T) {
	svc := &stubTimecardService{closed: 3}
	notifier := &recordingNotifications{}
	jobs := NewTimecardJobs(svc, notifier, "admin-0", 0)
	jobs.now = func() time.Time { return time.Date(2026, 10, 13, 0, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.AutoLogoutStaleSessions(context.Background()))

	require.Len(t, svc.days, 1)
	assert.Equal(t, "2026-10-13", svc.days[0].Format("2006-01-02"))
	require.Len(t, notifier.queued, 1)
	assert.Equal(t, "admin-0", notifier.queued[0].RecipientID)
	assert.Equal(t, notification.TypeAutoLogout, notifier.queued[0].Type)
	assert.Equal(t, 3, notifier.queued[0].Data["count"])
	assert.Equal(t, time.Hour, jobs.interval)
}

func TestTimecardJobs_AutoLogout_NothingClosed(t *testing.T) {
	svc := &stubTimecardService{}
	notifier := &recordingNotifications{}
	jobs := NewTimecardJobs(svc, notifier, "admin-0", time.Minute)

	require.NoError(t, jobs.AutoLogoutStaleSessions(context.Background()))
	assert.Empty(t, notifier.queued)
}

func TestTimecardJobs_AutoLogout_ServiceError(t *testing.T) {
	svc := &stubTimecardService{err: errors.New("db down")}
	jobs := NewTimecardJobs(svc, nil, "", time.Minute)

	err := jobs.AutoLogoutStaleSessions(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestTimecardJobs_RegisterJobs(t *testing.T) {
	s := NewScheduler()
	NewTimecardJobs(&stubTimecardService{}, nil, "", time.Minute).RegisterJobs(s)

	status := s.Status()
	require.Len(t, status, 1)
	assert.Equal(t, "auto_logout_stale_sessions", status[0].Name)
	s.Stop()
}
