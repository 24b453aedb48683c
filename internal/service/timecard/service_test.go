package timecard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/dailytask"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/escalation"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySessions struct {
	mu        sync.Mutex
	sessions  map[string]timecard.DaySession
	updateErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]timecard.DaySession{}}
}

func sessionKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func cloneSession(s timecard.DaySession) timecard.DaySession {
	s.Breaks = append([]timecard.BreakPair(nil), s.Breaks...)
	return s
}

func (m *memorySessions) Create(ctx context.Context, s timecard.DaySession) (timecard.DaySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey(s.EmployeeID, s.Date)
	if _, ok := m.sessions[key]; ok {
		return timecard.DaySession{}, timecard.ErrSessionExists
	}
	s.ID = key
	s.Version = 1
	m.sessions[key] = cloneSession(s)
	return cloneSession(s), nil
}

func (m *memorySessions) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (timecard.DaySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey(employeeID, date)]
	if !ok {
		return timecard.DaySession{}, timecard.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (m *memorySessions) Update(ctx context.Context, s timecard.DaySession) (timecard.DaySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return timecard.DaySession{}, m.updateErr
	}
	key := sessionKey(s.EmployeeID, s.Date)
	stored, ok := m.sessions[key]
	if !ok {
		return timecard.DaySession{}, timecard.ErrSessionNotFound
	}
	if stored.Version != s.Version {
		return timecard.DaySession{}, timecard.ErrConcurrentUpdate
	}
	s.Version++
	m.sessions[key] = cloneSession(s)
	return cloneSession(s), nil
}

func (m *memorySessions) ListOpenBefore(ctx context.Context, date time.Time) ([]timecard.DaySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []timecard.DaySession
	for _, s := range m.sessions {
		if s.Logout == nil && s.Date.Before(date) {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

// bump simulates a concurrent writer.
func (m *memorySessions) bump(employeeID string, date time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey(employeeID, date)
	s := m.sessions[key]
	s.Version++
	m.sessions[key] = s
}

type fixedSettings struct {
	requiredLogin string
	err           error
}

func (f fixedSettings) GetTimecardSettings(ctx context.Context) (settings.TimecardSettings, error) {
	if f.err != nil {
		return settings.TimecardSettings{}, f.err
	}
	return settings.TimecardSettings{RequiredLoginTime: f.requiredLogin}, nil
}

func (f fixedSettings) UpdateTimecardSettings(ctx context.Context, req settings.UpdateTimecardSettingsRequest) (settings.TimecardSettingsResponse, error) {
	return settings.TimecardSettingsResponse{}, errors.New("read only")
}

type memoryDailyTasks struct {
	mu   sync.Mutex
	logs map[string]dailytask.Log
	err  error
}

func (m *memoryDailyTasks) MarkFirstEntry(ctx context.Context, employeeID string, date time.Time, note *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.logs == nil {
		m.logs = map[string]dailytask.Log{}
	}
	key := sessionKey(employeeID, date)
	if _, ok := m.logs[key]; !ok {
		m.logs[key] = dailytask.Log{EmployeeID: employeeID, Date: date, FirstEntryNote: note}
	}
	return nil
}

func (m *memoryDailyTasks) CompleteOnLogout(ctx context.Context, employeeID string, date time.Time, logoutTime string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.logs == nil {
		m.logs = map[string]dailytask.Log{}
	}
	key := sessionKey(employeeID, date)
	l := m.logs[key]
	l.EmployeeID, l.Date = employeeID, date
	lt := logoutTime
	now := time.Now()
	l.LogoutTime, l.CompletedAt = &lt, &now
	m.logs[key] = l
	return nil
}

func (m *memoryDailyTasks) Get(ctx context.Context, employeeID string, date time.Time) (dailytask.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[sessionKey(employeeID, date)]
	if !ok {
		return dailytask.Log{}, dailytask.ErrLogNotFound
	}
	return l, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []escalation.Event
}

func (r *recordingNotifier) Escalate(ctx context.Context, ev escalation.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingNotifier) Wait() {}

func (r *recordingNotifier) recorded() []escalation.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]escalation.Event(nil), r.events...)
}

type fixture struct {
	svc      timecard.TimecardService
	sessions *memorySessions
	tasks    *memoryDailyTasks
	notifier *recordingNotifier
}

func newFixture(t *testing.T, st settings.SettingsService) fixture {
	t.Helper()
	f := fixture{
		sessions: newMemorySessions(),
		tasks:    &memoryDailyTasks{},
		notifier: &recordingNotifier{},
	}
	if st == nil {
		st = fixedSettings{requiredLogin: "10:00"}
	}
	f.svc = NewTimecardService(f.sessions, st, f.tasks, f.notifier, Config{Policy: timecard.DefaultPolicy()})
	t.Cleanup(f.svc.Wait)
	return f
}

const (
	emp  = "emp-1"
	date = "2026-10-12"
)

func ptr(s string) *string { return &s }

func (f fixture) login(t *testing.T, at string) timecard.SessionResponse {
	t.Helper()
	resp, err := f.svc.RecordLogin(context.Background(), timecard.LoginRequest{
		EmployeeID: emp, Role: "employee", Date: date, Time: at,
	})
	require.NoError(t, err)
	return resp
}

func event(at string) timecard.ClockEventRequest {
	return timecard.ClockEventRequest{EmployeeID: emp, Date: date, Time: at}
}

func TestTimecardService_RecordLogin_OnTime(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.login(t, "09:00")

	assert.Equal(t, "09:00", *resp.Login)
	assert.False(t, resp.LateLogin)
	assert.Zero(t, resp.LateLoginMinutes)
	assert.Equal(t, 1, resp.Version)
	assert.Empty(t, f.notifier.recorded())
}

func TestTimecardService_RecordLogin_LateEscalatesOnce(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.login(t, "10:15")

	assert.True(t, resp.LateLogin)
	assert.Equal(t, 15, resp.LateLoginMinutes)

	events := f.notifier.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, escalation.KindLateLogin, events[0].Kind)
	assert.Equal(t, 15, events[0].OverageMinutes)
	assert.Equal(t, "10:15", events[0].ClockTime)
	assert.Equal(t, user.RoleEmployee, events[0].Role)
}

func TestTimecardService_RecordLogin_ExactlyOnTimeIsNotLate(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.login(t, "10:00")

	assert.False(t, resp.LateLogin)
	assert.Empty(t, f.notifier.recorded())
}

func TestTimecardService_RecordLogin_UsesConfiguredRequiredTime(t *testing.T) {
	f := newFixture(t, fixedSettings{requiredLogin: "09:30"})

	resp := f.login(t, "09:45")

	assert.True(t, resp.LateLogin)
	assert.Equal(t, 15, resp.LateLoginMinutes)
}

func TestTimecardService_RecordLogin_SettingsFailureFallsBackToDefault(t *testing.T) {
	f := newFixture(t, fixedSettings{err: errors.New("connection refused")})

	resp := f.login(t, "10:05")

	assert.True(t, resp.LateLogin)
	assert.Equal(t, 5, resp.LateLoginMinutes)
}

func TestTimecardService_RecordLogin_RepeatIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)

	first := f.login(t, "10:15")
	second := f.login(t, "11:00")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "10:15", *second.Login)
	assert.Len(t, f.notifier.recorded(), 1)
}

func TestTimecardService_RecordLogin_MarksDailyTask(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.RecordLogin(context.Background(), timecard.LoginRequest{
		EmployeeID: emp, Role: "employee", Date: date, Time: "09:00", Note: ptr("standup notes"),
	})
	require.NoError(t, err)
	f.svc.Wait()

	day, _ := validator.IsValidDate(date)
	log, err := f.tasks.Get(context.Background(), emp, day)
	require.NoError(t, err)
	require.NotNil(t, log.FirstEntryNote)
	assert.Equal(t, "standup notes", *log.FirstEntryNote)
}

func TestTimecardService_RecordLogin_DailyTaskFailureDoesNotFail(t *testing.T) {
	f := newFixture(t, nil)
	f.tasks.err = errors.New("daily task store down")

	resp := f.login(t, "09:00")
	f.svc.Wait()

	assert.Equal(t, "09:00", *resp.Login)
}

func TestTimecardService_RecordLogin_InvalidTime(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.RecordLogin(context.Background(), timecard.LoginRequest{
		EmployeeID: emp, Role: "employee", Date: date, Time: "25:00",
	})

	var verr validator.ValidationErrors
	assert.ErrorAs(t, err, &verr)
}

func TestTimecardService_FullDay_Present(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.login(t, "09:00")
	_, err := f.svc.RecordLunchOut(ctx, event("13:00"))
	require.NoError(t, err)
	_, err = f.svc.RecordLunchIn(ctx, event("13:45"))
	require.NoError(t, err)

	resp, err := f.svc.RecordLogout(ctx, timecard.LogoutRequest{EmployeeID: emp, Date: date, Time: "18:00"})
	require.NoError(t, err)

	require.NotNil(t, resp.WorkMinutes)
	assert.Equal(t, 495, *resp.WorkMinutes)
	require.NotNil(t, resp.AttendanceStatus)
	assert.Equal(t, string(timecard.StatusPresent), *resp.AttendanceStatus)
	assert.Empty(t, f.notifier.recorded())

	f.svc.Wait()
	day, _ := validator.IsValidDate(date)
	log, err := f.tasks.Get(ctx, emp, day)
	require.NoError(t, err)
	require.NotNil(t, log.LogoutTime)
	assert.Equal(t, "18:00", *log.LogoutTime)
}

func TestTimecardService_RecordLogout_HalfDay(t *testing.T) {
	f := newFixture(t, nil)

	f.login(t, "09:00")
	resp, err := f.svc.RecordLogout(context.Background(), timecard.LogoutRequest{EmployeeID: emp, Date: date, Time: "14:00"})
	require.NoError(t, err)

	assert.Equal(t, 300, *resp.WorkMinutes)
	assert.Equal(t, string(timecard.StatusHalfDay), *resp.AttendanceStatus)
	require.NotNil(t, resp.StatusReason)
	assert.Contains(t, *resp.StatusReason, "short of the required")
}

func TestTimecardService_RecordLogout_ExcessPermissionIsHalfDay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.login(t, "09:00")
	_, err := f.svc.RecordPermission(ctx, timecard.PermissionRequest{EmployeeID: emp, Date: date, Minutes: 150, Reason: "clinic"})
	require.NoError(t, err)

	resp, err := f.svc.RecordLogout(ctx, timecard.LogoutRequest{EmployeeID: emp, Date: date, Time: "18:00"})
	require.NoError(t, err)
	assert.Equal(t, 540, *resp.WorkMinutes)
	assert.Equal(t, string(timecard.StatusHalfDay), *resp.AttendanceStatus)
	assert.Contains(t, *resp.StatusReason, "exceeds the 120 minute limit by 30")
}

func TestTimecardService_RecordLogout_ManualReason(t *testing.T) {
	f := newFixture(t, nil)

	f.login(t, "09:00")
	resp, err := f.svc.RecordLogout(context.Background(), timecard.LogoutRequest{
		EmployeeID: emp, Date: date, Time: "18:00", Reason: ptr("client visit"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ManualLogoutReason)
	assert.Equal(t, "client visit", *resp.ManualLogoutReason)
	assert.Nil(t, resp.AutoLogoutReason)
}

func TestTimecardService_RecordLogout_BeforeLogin(t *testing.T) {
	f := newFixture(t, nil)

	f.login(t, "09:00")
	_, err := f.svc.RecordLogout(context.Background(), timecard.LogoutRequest{EmployeeID: emp, Date: date, Time: "08:00"})

	assert.ErrorIs(t, err, timecard.ErrInvalidTimeOrder)
}

func TestTimecardService_RecordLogout_BeforeLunchIn(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.login(t, "09:00")
	_, err := f.svc.RecordLunchOut(ctx, event("12:00"))
	require.NoError(t, err)
	_, err = f.svc.RecordLunchIn(ctx, event("13:00"))
	require.NoError(t, err)

	_, err = f.svc.RecordLogout(ctx, timecard.LogoutRequest{EmployeeID: emp, Date: date, Time: "12:30"})
	assert.ErrorIs(t, err, timecard.ErrInvalidTimeOrder)

	resp, err := f.svc.GetSession(ctx, emp, date)
	require.NoError(t, err)
	assert.Nil(t, resp.Logout)
	assert.Nil(t, resp.WorkMinutes)
}

func TestTimecardService_RecordLogout_BeforeBreakEnd(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.login(t, "09:00")
	_, err := f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("16:00"), In: ptr("16:20")})
	require.NoError(t, err)

	_, err = f.svc.RecordLogout(ctx, timecard.LogoutRequest{EmployeeID: emp, Date: date, Time: "16:10"})
	assert.ErrorIs(t, err, timecard.ErrInvalidTimeOrder)

	_, err = f.svc.RecordLogout(ctx, timecard.LogoutRequest{EmployeeID: emp, Date: date, Time: "16:20"})
	assert.NoError(t, err)
}

func TestTimecardService_BreakAndLunchDoNotOverlap(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.login(t, "09:00")
	_, err := f.svc.RecordLunchOut(ctx, event("12:00"))
	require.NoError(t, err)

	_, err = f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("12:10"), In: ptr("12:20")})
	assert.ErrorIs(t, err, timecard.ErrLunchInProgress)

	_, err = f.svc.RecordLunchIn(ctx, event("12:45"))
	require.NoError(t, err)

	// Backdated into the finished lunch.
	_, err = f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("12:30"), In: ptr("12:40")})
	assert.ErrorIs(t, err, timecard.ErrInvalidTimeOrder)

	resp, err := f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("12:45"), In: ptr("13:00")})
	require.NoError(t, err)
	assert.Len(t, resp.Breaks, 1)
}

func TestTimecardService_LunchWaitsForOpenBreak(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.login(t, "09:00")
	_, err := f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("11:50")})
	require.NoError(t, err)

	_, err = f.svc.RecordLunchOut(ctx, event("12:00"))
	assert.ErrorIs(t, err, timecard.ErrBreakInProgress)

	_, err = f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, In: ptr("12:10")})
	require.NoError(t, err)

	_, err = f.svc.RecordLunchOut(ctx, event("12:05"))
	assert.ErrorIs(t, err, timecard.ErrInvalidTimeOrder)

	_, err = f.svc.RecordLunchOut(ctx, event("11:00"))
	require.NoError(t, err)
	_, err = f.svc.RecordLunchIn(ctx, event("12:00"))
	assert.ErrorIs(t, err, timecard.ErrInvalidTimeOrder)
}

func TestTimecardService_ClosedSessionRejectsEvents(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.login(t, "09:00")
	_, err := f.svc.RecordLogout(ctx, timecard.LogoutRequest{EmployeeID: emp, Date: date, Time: "18:00"})
	require.NoError(t, err)

	_, err = f.svc.RecordLunchOut(ctx, event("18:30"))
	assert.ErrorIs(t, err, timecard.ErrSessionClosed)

	_, err = f.svc.RecordLogout(ctx, timecard.LogoutRequest{EmployeeID: emp, Date: date, Time: "19:00"})
	assert.ErrorIs(t, err, timecard.ErrSessionClosed)
}

func TestTimecardService_EventsWithoutLogin(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.RecordLunchOut(context.Background(), event("13:00"))

	assert.ErrorIs(t, err, timecard.ErrSessionNotFound)
}

func TestTimecardService_RecordLunch_Rules(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.login(t, "09:00")

	_, err := f.svc.RecordLunchIn(ctx, event("13:00"))
	assert.ErrorIs(t, err, timecard.ErrLunchNotStarted)

	_, err = f.svc.RecordLunchOut(ctx, event("08:30"))
	assert.ErrorIs(t, err, timecard.ErrInvalidTimeOrder)

	_, err = f.svc.RecordLunchOut(ctx, event("13:00"))
	require.NoError(t, err)

	_, err = f.svc.RecordLunchOut(ctx, event("13:05"))
	assert.ErrorIs(t, err, timecard.ErrLunchInProgress)

	_, err = f.svc.RecordLunchIn(ctx, event("12:00"))
	assert.ErrorIs(t, err, timecard.ErrInvalidTimeOrder)

	_, err = f.svc.RecordLunchIn(ctx, event("13:30"))
	require.NoError(t, err)

	_, err = f.svc.RecordLunchOut(ctx, event("15:00"))
	assert.ErrorIs(t, err, timecard.ErrLunchAlreadyTaken)

	_, err = f.svc.RecordLunchIn(ctx, event("15:30"))
	assert.ErrorIs(t, err, timecard.ErrLunchAlreadyTaken)
}

func TestTimecardService_RecordLunchIn_OverrunEscalates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.login(t, "09:00")

	_, err := f.svc.RecordLunchOut(ctx, event("13:00"))
	require.NoError(t, err)
	_, err = f.svc.RecordLunchIn(ctx, event("14:20"))
	require.NoError(t, err)

	events := f.notifier.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, escalation.KindLunch, events[0].Kind)
	assert.Equal(t, 20, events[0].OverageMinutes)
	assert.Equal(t, 80, events[0].TotalMinutes)
}

func TestTimecardService_RecordBreak_OpenThenClose(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.login(t, "09:00")

	resp, err := f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("11:00")})
	require.NoError(t, err)
	require.Len(t, resp.Breaks, 1)
	assert.Nil(t, resp.Breaks[0].In)

	_, err = f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("11:05")})
	assert.ErrorIs(t, err, timecard.ErrBreakInProgress)

	resp, err = f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, In: ptr("11:20")})
	require.NoError(t, err)
	require.Len(t, resp.Breaks, 1)
	require.NotNil(t, resp.Breaks[0].In)
	assert.Equal(t, "11:20", *resp.Breaks[0].In)
	assert.Empty(t, f.notifier.recorded())
}

func TestTimecardService_RecordBreak_Rules(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.login(t, "09:00")

	_, err := f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, In: ptr("11:00")})
	assert.ErrorIs(t, err, timecard.ErrBreakNotStarted)

	_, err = f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("11:30"), In: ptr("11:00")})
	assert.ErrorIs(t, err, timecard.ErrInvalidTimeOrder)

	_, err = f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("11:00"), In: ptr("11:15")})
	require.NoError(t, err)

	_, err = f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("15:00"), In: ptr("15:10")})
	assert.ErrorIs(t, err, timecard.ErrMaxBreaksExceeded)
}

func TestTimecardService_RecordBreak_OverrunEscalatesExactlyOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.login(t, "09:00")

	_, err := f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, Out: ptr("11:00"), In: ptr("11:45")})
	require.NoError(t, err)

	_, err = f.svc.RecordBreak(ctx, timecard.BreakRequest{EmployeeID: emp, Date: date, In: ptr("11:50")})
	assert.ErrorIs(t, err, timecard.ErrMaxBreaksExceeded)

	_, err = f.svc.RecordLunchOut(ctx, event("13:00"))
	require.NoError(t, err)

	events := f.notifier.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, escalation.KindBreak, events[0].Kind)
	assert.Equal(t, 15, events[0].OverageMinutes)
	assert.Equal(t, 45, events[0].TotalMinutes)
}

func TestTimecardService_RecordPermission_LocksAfterFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.login(t, "09:00")

	resp, err := f.svc.RecordPermission(ctx, timecard.PermissionRequest{EmployeeID: emp, Date: date, Minutes: 60, Reason: "bank"})
	require.NoError(t, err)
	assert.True(t, resp.PermissionLocked)
	assert.Equal(t, 60, resp.PermissionMinutes)

	_, err = f.svc.RecordPermission(ctx, timecard.PermissionRequest{EmployeeID: emp, Date: date, Minutes: 90, Reason: "more"})
	assert.ErrorIs(t, err, timecard.ErrPermissionLocked)
	assert.Empty(t, f.notifier.recorded())
}

func TestTimecardService_RecordPermission_TooShort(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t, "09:00")

	_, err := f.svc.RecordPermission(context.Background(), timecard.PermissionRequest{EmployeeID: emp, Date: date, Minutes: 10, Reason: "coffee"})

	assert.ErrorIs(t, err, timecard.ErrPermissionTooShort)
}

func TestTimecardService_RecordPermission_OverLimitEscalates(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t, "09:00")

	_, err := f.svc.RecordPermission(context.Background(), timecard.PermissionRequest{EmployeeID: emp, Date: date, Minutes: 150, Reason: "hospital"})
	require.NoError(t, err)

	events := f.notifier.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, escalation.KindPermission, events[0].Kind)
	assert.Equal(t, 30, events[0].OverageMinutes)
	assert.Equal(t, 150, events[0].TotalMinutes)
}

func TestTimecardService_ConcurrentUpdateIsRejectedWithoutEscalation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.login(t, "09:00")
	f.sessions.updateErr = timecard.ErrConcurrentUpdate

	_, err := f.svc.RecordPermission(ctx, timecard.PermissionRequest{EmployeeID: emp, Date: date, Minutes: 150, Reason: "hospital"})

	assert.ErrorIs(t, err, timecard.ErrConcurrentUpdate)
	assert.Empty(t, f.notifier.recorded())

	f.sessions.updateErr = nil
	resp, err := f.svc.GetSession(ctx, emp, date)
	require.NoError(t, err)
	assert.False(t, resp.PermissionLocked)
}

func TestTimecardService_VersionAdvancesPerEvent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.login(t, "09:00")

	resp, err := f.svc.RecordLunchOut(ctx, event("13:00"))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Version)

	resp, err = f.svc.RecordLunchIn(ctx, event("13:30"))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Version)
}

func TestTimecardService_GetSession(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.GetSession(ctx, emp, date)
	assert.ErrorIs(t, err, timecard.ErrSessionNotFound)

	_, err = f.svc.GetSession(ctx, emp, "12/10/2026")
	var verr validator.ValidationErrors
	assert.ErrorAs(t, err, &verr)

	f.login(t, "09:00")
	resp, err := f.svc.GetSession(ctx, emp, date)
	require.NoError(t, err)
	assert.Equal(t, date, resp.Date)
}

func TestTimecardService_CloseStaleSessions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.login(t, "09:00")
	_, err := f.svc.RecordLogin(ctx, timecard.LoginRequest{EmployeeID: "emp-2", Role: "intern", Date: date, Time: "20:30"})
	require.NoError(t, err)
	_, err = f.svc.RecordLogin(ctx, timecard.LoginRequest{EmployeeID: "emp-3", Role: "employee", Date: "2026-10-13", Time: "09:00"})
	require.NoError(t, err)

	closed, err := f.svc.CloseStaleSessions(ctx, time.Date(2026, 10, 13, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	first, err := f.svc.GetSession(ctx, emp, date)
	require.NoError(t, err)
	require.NotNil(t, first.Logout)
	assert.Equal(t, "19:00", *first.Logout)
	require.NotNil(t, first.AutoLogoutReason)
	assert.Equal(t, 600, *first.WorkMinutes)

	late, err := f.svc.GetSession(ctx, "emp-2", date)
	require.NoError(t, err)
	assert.Equal(t, "20:30", *late.Logout)
	assert.Equal(t, string(timecard.StatusLeave), *late.AttendanceStatus)

	today, err := f.svc.GetSession(ctx, "emp-3", "2026-10-13")
	require.NoError(t, err)
	assert.Nil(t, today.Logout)
}

func TestTimecardService_MutateReloadsLatestVersion(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.login(t, "09:00")

	day, _ := validator.IsValidDate(date)
	f.sessions.bump(emp, day)

	resp, err := f.svc.RecordLunchOut(ctx, event("13:00"))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Version)
}
