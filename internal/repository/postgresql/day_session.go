package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type daySessionRepository struct {
	db *database.DB
}

func NewDaySessionRepository(db *database.DB) timecard.SessionRepository {
	return &daySessionRepository{db: db}
}

const daySessionColumns = `
	id, employee_id, date, role,
	login_time, logout_time, lunch_out, lunch_in, breaks,
	permission_minutes, permission_reason, permission_locked,
	late_login, late_login_minutes,
	attendance_status, status_reason, work_minutes,
	auto_logout_reason, manual_logout_reason,
	version, created_at, updated_at`

func scanDaySession(row pgx.Row) (timecard.DaySession, error) {
	var (
		s          timecard.DaySession
		role       string
		breaksJSON []byte
		status     *string
	)
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Date, &role,
		&s.Login, &s.Logout, &s.LunchOut, &s.LunchIn, &breaksJSON,
		&s.PermissionMinutes, &s.PermissionReason, &s.PermissionLocked,
		&s.LateLogin, &s.LateLoginMinutes,
		&status, &s.StatusReason, &s.WorkMinutes,
		&s.AutoLogoutReason, &s.ManualLogoutReason,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return timecard.DaySession{}, err
	}

	s.Role = user.ParseRole(role)
	if status != nil {
		st := timecard.AttendanceStatus(*status)
		s.AttendanceStatus = &st
	}
	s.Breaks = []timecard.BreakPair{}
	if len(breaksJSON) > 0 {
		if err := json.Unmarshal(breaksJSON, &s.Breaks); err != nil {
			return timecard.DaySession{}, fmt.Errorf("failed to unmarshal breaks: %w", err)
		}
	}
	return s, nil
}

func marshalBreaks(breaks []timecard.BreakPair) ([]byte, error) {
	if breaks == nil {
		breaks = []timecard.BreakPair{}
	}
	b, err := json.Marshal(breaks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal breaks: %w", err)
	}
	return b, nil
}

func statusValue(s *timecard.AttendanceStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// Create implements timecard.SessionRepository.
func (r *daySessionRepository) Create(ctx context.Context, session timecard.DaySession) (timecard.DaySession, error) {
	q := GetQuerier(ctx, r.db)

	breaksJSON, err := marshalBreaks(session.Breaks)
	if err != nil {
		return timecard.DaySession{}, err
	}

	query := `
		INSERT INTO day_sessions (
			employee_id, date, role, login_time, breaks,
			late_login, late_login_minutes, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING ` + daySessionColumns

	created, err := scanDaySession(q.QueryRow(ctx, query,
		session.EmployeeID, session.Date, string(session.Role), session.Login, breaksJSON,
		session.LateLogin, session.LateLoginMinutes,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_day_sessions_employee_date") {
			return timecard.DaySession{}, timecard.ErrSessionExists
		}
		return timecard.DaySession{}, fmt.Errorf("failed to create day session: %w", err)
	}

	return created, nil
}

// GetByEmployeeAndDate implements timecard.SessionRepository.
func (r *daySessionRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (timecard.DaySession, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + daySessionColumns + ` FROM day_sessions WHERE employee_id = $1 AND date = $2`

	session, err := scanDaySession(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timecard.DaySession{}, timecard.ErrSessionNotFound
		}
		return timecard.DaySession{}, fmt.Errorf("failed to get day session: %w", err)
	}

	return session, nil
}

// Update implements timecard.SessionRepository. The version predicate makes
// concurrent writers for the same day serialize: only one of them matches.
func (r *daySessionRepository) Update(ctx context.Context, session timecard.DaySession) (timecard.DaySession, error) {
	q := GetQuerier(ctx, r.db)

	breaksJSON, err := marshalBreaks(session.Breaks)
	if err != nil {
		return timecard.DaySession{}, err
	}

	query := `
		UPDATE day_sessions SET
			logout_time = $3, lunch_out = $4, lunch_in = $5, breaks = $6,
			permission_minutes = $7, permission_reason = $8, permission_locked = $9,
			late_login = $10, late_login_minutes = $11,
			attendance_status = $12, status_reason = $13, work_minutes = $14,
			auto_logout_reason = $15, manual_logout_reason = $16,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + daySessionColumns

	updated, err := scanDaySession(q.QueryRow(ctx, query,
		session.ID, session.Version,
		session.Logout, session.LunchOut, session.LunchIn, breaksJSON,
		session.PermissionMinutes, session.PermissionReason, session.PermissionLocked,
		session.LateLogin, session.LateLoginMinutes,
		statusValue(session.AttendanceStatus), session.StatusReason, session.WorkMinutes,
		session.AutoLogoutReason, session.ManualLogoutReason,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timecard.DaySession{}, timecard.ErrConcurrentUpdate
		}
		return timecard.DaySession{}, fmt.Errorf("failed to update day session: %w", err)
	}

	return updated, nil
}

// ListOpenBefore implements timecard.SessionRepository.
func (r *daySessionRepository) ListOpenBefore(ctx context.Context, date time.Time) ([]timecard.DaySession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + daySessionColumns + `
		FROM day_sessions
		WHERE date < $1 AND logout_time IS NULL
		ORDER BY date, employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query open day sessions: %w", err)
	}
	defer rows.Close()

	var sessions []timecard.DaySession
	for rows.Next() {
		s, err := scanDaySession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan day session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate day sessions: %w", err)
	}

	return sessions, nil
}
