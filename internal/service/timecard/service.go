package timecard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/dailytask"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/escalation"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

// Config holds tracker configuration
type Config struct {
	Policy timecard.Policy
	// AutoLogoutTime is stamped on sessions closed by CloseStaleSessions. default: "19:00"
	AutoLogoutTime string
	// SideEffectTimeout bounds one daily-task call. default: 10 seconds
	SideEffectTimeout time.Duration
}

type TimecardServiceImpl struct {
	sessionRepo     timecard.SessionRepository
	settingsService settings.SettingsService
	dailyTaskRepo   dailytask.Repository
	notifier        escalation.Notifier
	config          Config
	wg              sync.WaitGroup
}

func NewTimecardService(
	sessionRepo timecard.SessionRepository,
	settingsService settings.SettingsService,
	dailyTaskRepo dailytask.Repository,
	notifier escalation.Notifier,
	cfg Config,
) timecard.TimecardService {
	if cfg.AutoLogoutTime == "" {
		cfg.AutoLogoutTime = "19:00"
	}
	if cfg.SideEffectTimeout <= 0 {
		cfg.SideEffectTimeout = 10 * time.Second
	}
	return &TimecardServiceImpl{
		sessionRepo:     sessionRepo,
		settingsService: settingsService,
		dailyTaskRepo:   dailyTaskRepo,
		notifier:        notifier,
		config:          cfg,
	}
}

// RecordLogin implements timecard.TimecardService.
func (s *TimecardServiceImpl) RecordLogin(ctx context.Context, req timecard.LoginRequest) (timecard.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.SessionResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	existing, err := s.sessionRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err == nil {
		return timecard.NewSessionResponse(existing), nil
	}
	if !errors.Is(err, timecard.ErrSessionNotFound) {
		return timecard.SessionResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	loginMinutes, _ := timecard.ToMinutes(req.Time)
	required := s.requiredLoginTime(ctx)
	requiredMinutes, _ := timecard.ToMinutes(required)

	login := req.Time
	session := timecard.DaySession{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Role:       user.ParseRole(req.Role),
		Login:      &login,
		Breaks:     []timecard.BreakPair{},
	}
	if loginMinutes > requiredMinutes+s.config.Policy.LateGraceMinutes {
		session.LateLogin = true
		session.LateLoginMinutes = loginMinutes - requiredMinutes
	}

	created, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		if errors.Is(err, timecard.ErrSessionExists) {
			// lost a race with a concurrent login for the same day
			winner, getErr := s.sessionRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
			if getErr != nil {
				return timecard.SessionResponse{}, fmt.Errorf("failed to get session: %w", getErr)
			}
			return timecard.NewSessionResponse(winner), nil
		}
		return timecard.SessionResponse{}, fmt.Errorf("failed to create session: %w", err)
	}

	if created.LateLogin {
		s.notifier.Escalate(ctx, escalation.Event{
			EmployeeID:     created.EmployeeID,
			Role:           created.Role,
			Date:           req.Date,
			Kind:           escalation.KindLateLogin,
			OverageMinutes: created.LateLoginMinutes,
			ClockTime:      req.Time,
		})
	}

	s.runSideEffect(ctx, "mark_first_entry", req.EmployeeID, func(ctx context.Context) error {
		return s.dailyTaskRepo.MarkFirstEntry(ctx, req.EmployeeID, date, req.Note)
	})

	return timecard.NewSessionResponse(created), nil
}

// RecordLunchOut implements timecard.TimecardService.
func (s *TimecardServiceImpl) RecordLunchOut(ctx context.Context, req timecard.ClockEventRequest) (timecard.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.SessionResponse{}, err
	}

	return s.mutate(ctx, req.EmployeeID, req.Date, func(session *timecard.DaySession) ([]escalation.Event, error) {
		if session.LunchIn != nil {
			return nil, timecard.ErrLunchAlreadyTaken
		}
		if session.LunchOut != nil {
			return nil, timecard.ErrLunchInProgress
		}
		if last, ok := session.LastBreak(); ok && last.Open() {
			return nil, timecard.ErrBreakInProgress
		}
		if err := afterLogin(*session, req.Time); err != nil {
			return nil, err
		}
		if session.BreakOverlaps(req.Time, req.Time) {
			return nil, fmt.Errorf("%w: lunch cannot start during a break", timecard.ErrInvalidTimeOrder)
		}

		t := req.Time
		session.LunchOut = &t
		return nil, nil
	})
}

// RecordLunchIn implements timecard.TimecardService.
func (s *TimecardServiceImpl) RecordLunchIn(ctx context.Context, req timecard.ClockEventRequest) (timecard.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.SessionResponse{}, err
	}

	return s.mutate(ctx, req.EmployeeID, req.Date, func(session *timecard.DaySession) ([]escalation.Event, error) {
		if session.LunchOut == nil {
			return nil, timecard.ErrLunchNotStarted
		}
		if session.LunchIn != nil {
			return nil, timecard.ErrLunchAlreadyTaken
		}
		lunch, err := timecard.OrderedDuration(*session.LunchOut, req.Time)
		if err != nil {
			return nil, err
		}
		if session.BreakOverlaps(*session.LunchOut, req.Time) {
			return nil, fmt.Errorf("%w: lunch cannot span a break", timecard.ErrInvalidTimeOrder)
		}

		t := req.Time
		session.LunchIn = &t

		if over := lunch - s.config.Policy.LunchCapMinutes; over > 0 {
			return []escalation.Event{s.overage(*session, req.Date, escalation.KindLunch, over, lunch)}, nil
		}
		return nil, nil
	})
}

// RecordBreak implements timecard.TimecardService.
func (s *TimecardServiceImpl) RecordBreak(ctx context.Context, req timecard.BreakRequest) (timecard.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.SessionResponse{}, err
	}

	return s.mutate(ctx, req.EmployeeID, req.Date, func(session *timecard.DaySession) ([]escalation.Event, error) {
		var (
			closed   bool
			duration int
		)

		if last, ok := session.LastBreak(); ok && last.Open() {
			if req.In == nil {
				return nil, timecard.ErrBreakInProgress
			}
			d, err := timecard.OrderedDuration(last.Out, *req.In)
			if err != nil {
				return nil, err
			}
			if session.LunchOverlaps(last.Out, *req.In) {
				return nil, fmt.Errorf("%w: break cannot span lunch", timecard.ErrInvalidTimeOrder)
			}
			in := *req.In
			session.Breaks[len(session.Breaks)-1].In = &in
			closed, duration = true, d
		} else {
			if len(session.Breaks) >= s.config.Policy.MaxBreaks {
				return nil, timecard.ErrMaxBreaksExceeded
			}
			if req.Out == nil {
				return nil, timecard.ErrBreakNotStarted
			}
			if session.LunchOpen() {
				return nil, timecard.ErrLunchInProgress
			}
			if err := afterLogin(*session, *req.Out); err != nil {
				return nil, err
			}

			pair := timecard.BreakPair{Out: *req.Out}
			end := *req.Out
			if req.In != nil {
				d, err := timecard.OrderedDuration(*req.Out, *req.In)
				if err != nil {
					return nil, err
				}
				end = *req.In
				in := *req.In
				pair.In = &in
				closed, duration = true, d
			}
			if session.LunchOverlaps(*req.Out, end) {
				return nil, fmt.Errorf("%w: break cannot span lunch", timecard.ErrInvalidTimeOrder)
			}
			session.Breaks = append(session.Breaks, pair)
		}

		if over := duration - s.config.Policy.BreakCapMinutes; closed && over > 0 {
			return []escalation.Event{s.overage(*session, req.Date, escalation.KindBreak, over, duration)}, nil
		}
		return nil, nil
	})
}

// RecordPermission implements timecard.TimecardService.
func (s *TimecardServiceImpl) RecordPermission(ctx context.Context, req timecard.PermissionRequest) (timecard.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.SessionResponse{}, err
	}

	return s.mutate(ctx, req.EmployeeID, req.Date, func(session *timecard.DaySession) ([]escalation.Event, error) {
		if session.PermissionLocked {
			return nil, timecard.ErrPermissionLocked
		}
		if req.Minutes < s.config.Policy.PermissionMinimumMinutes {
			return nil, fmt.Errorf("%w: %d minutes, minimum is %d",
				timecard.ErrPermissionTooShort, req.Minutes, s.config.Policy.PermissionMinimumMinutes)
		}

		reason := req.Reason
		session.PermissionMinutes = req.Minutes
		session.PermissionReason = &reason
		session.PermissionLocked = true

		if over := req.Minutes - s.config.Policy.PermissionLimitMinutes; over > 0 {
			return []escalation.Event{s.overage(*session, req.Date, escalation.KindPermission, over, req.Minutes)}, nil
		}
		return nil, nil
	})
}

// RecordLogout implements timecard.TimecardService.
func (s *TimecardServiceImpl) RecordLogout(ctx context.Context, req timecard.LogoutRequest) (timecard.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.SessionResponse{}, err
	}

	resp, err := s.mutate(ctx, req.EmployeeID, req.Date, func(session *timecard.DaySession) ([]escalation.Event, error) {
		if session.Login == nil {
			return nil, timecard.ErrNotLoggedIn
		}
		total, err := timecard.OrderedDuration(*session.Login, req.Time)
		if err != nil {
			return nil, err
		}
		// Lunch and break stamps must not fall after the logout they are
		// subtracted from.
		if _, err := timecard.OrderedDuration(session.LatestEvent(), req.Time); err != nil {
			return nil, err
		}

		work := total
		if session.LunchOut != nil && session.LunchIn != nil {
			lunch, err := timecard.Duration(*session.LunchOut, *session.LunchIn)
			if err != nil {
				return nil, err
			}
			work -= lunch
		}
		if work < 0 {
			work = 0
		}

		status, reason := timecard.Classify(work, session.PermissionMinutes, s.config.Policy)

		t := req.Time
		session.Logout = &t
		session.WorkMinutes = &work
		session.AttendanceStatus = &status
		session.StatusReason = &reason

		if req.Auto {
			autoReason := "automatic logout"
			if req.Reason != nil && *req.Reason != "" {
				autoReason = *req.Reason
			}
			session.AutoLogoutReason = &autoReason
		} else if req.Reason != nil && *req.Reason != "" {
			manualReason := *req.Reason
			session.ManualLogoutReason = &manualReason
		}
		return nil, nil
	})
	if err != nil {
		return timecard.SessionResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	s.runSideEffect(ctx, "complete_on_logout", req.EmployeeID, func(ctx context.Context) error {
		return s.dailyTaskRepo.CompleteOnLogout(ctx, req.EmployeeID, date, req.Time)
	})

	return resp, nil
}

// GetSession implements timecard.TimecardService.
func (s *TimecardServiceImpl) GetSession(ctx context.Context, employeeID string, date string) (timecard.SessionResponse, error) {
	day, ok := validator.IsValidDate(date)
	if !ok || validator.IsEmpty(employeeID) {
		return timecard.SessionResponse{}, validator.ValidationErrors{
			{Field: "date", Message: "employee and date in YYYY-MM-DD format are required"},
		}
	}

	session, err := s.sessionRepo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return timecard.SessionResponse{}, err
	}
	return timecard.NewSessionResponse(session), nil
}

// CloseStaleSessions implements timecard.TimecardService.
func (s *TimecardServiceImpl) CloseStaleSessions(ctx context.Context, today time.Time) (int, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	sessions, err := s.sessionRepo.ListOpenBefore(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list open sessions: %w", err)
	}

	closed := 0
	for _, session := range sessions {
		logoutAt := s.config.AutoLogoutTime
		if latest := session.LatestEvent(); latest != "" {
			if d, err := timecard.Duration(latest, logoutAt); err == nil && d < 0 {
				logoutAt = latest
			}
		}
		reason := "session left open, closed automatically at " + logoutAt

		_, err := s.RecordLogout(ctx, timecard.LogoutRequest{
			EmployeeID: session.EmployeeID,
			Date:       session.Date.Format("2006-01-02"),
			Time:       logoutAt,
			Reason:     &reason,
			Auto:       true,
		})
		if err != nil {
			if errors.Is(err, timecard.ErrSessionClosed) || errors.Is(err, timecard.ErrConcurrentUpdate) {
				continue
			}
			slog.Error("Failed to auto-close session",
				"employee_id", session.EmployeeID, "date", session.Date.Format("2006-01-02"), "error", err)
			continue
		}
		closed++
	}

	return closed, nil
}

// Wait implements timecard.TimecardService. It also drains pending escalations.
func (s *TimecardServiceImpl) Wait() {
	s.wg.Wait()
	s.notifier.Wait()
}

// mutate loads the open session, applies fn to a private copy and writes it
// back with a version check. Escalations fire only after the write succeeds.
func (s *TimecardServiceImpl) mutate(ctx context.Context, employeeID, date string, fn func(*timecard.DaySession) ([]escalation.Event, error)) (timecard.SessionResponse, error) {
	day, _ := validator.IsValidDate(date)

	session, err := s.sessionRepo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return timecard.SessionResponse{}, err
	}
	if session.Closed() {
		return timecard.SessionResponse{}, timecard.ErrSessionClosed
	}

	session.Breaks = append([]timecard.BreakPair(nil), session.Breaks...)

	events, err := fn(&session)
	if err != nil {
		return timecard.SessionResponse{}, err
	}

	updated, err := s.sessionRepo.Update(ctx, session)
	if err != nil {
		return timecard.SessionResponse{}, err
	}

	for _, ev := range events {
		s.notifier.Escalate(ctx, ev)
	}

	return timecard.NewSessionResponse(updated), nil
}

func (s *TimecardServiceImpl) overage(session timecard.DaySession, date string, kind escalation.Kind, over, total int) escalation.Event {
	return escalation.Event{
		EmployeeID:     session.EmployeeID,
		Role:           session.Role,
		Date:           date,
		Kind:           kind,
		OverageMinutes: over,
		TotalMinutes:   total,
	}
}

// requiredLoginTime never fails: a broken settings store degrades to the default.
func (s *TimecardServiceImpl) requiredLoginTime(ctx context.Context) string {
	cfg, err := s.settingsService.GetTimecardSettings(ctx)
	if err != nil {
		slog.Warn("Failed to load timecard settings, using default required login time",
			"default", timecard.DefaultRequiredLoginTime, "error", err)
		return timecard.DefaultRequiredLoginTime
	}
	return cfg.RequiredLoginTime
}

func (s *TimecardServiceImpl) runSideEffect(ctx context.Context, name, employeeID string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.SideEffectTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			slog.Warn("Daily task side effect failed", "effect", name, "employee_id", employeeID, "error", err)
		}
	}()
}

// afterLogin rejects events stamped before the session's login.
func afterLogin(session timecard.DaySession, t string) error {
	if session.Login == nil {
		return timecard.ErrNotLoggedIn
	}
	_, err := timecard.OrderedDuration(*session.Login, t)
	return err
}
