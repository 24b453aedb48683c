package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/dailytask"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type dailyTaskRepository struct {
	db *database.DB
}

func NewDailyTaskRepository(db *database.DB) dailytask.Repository {
	return &dailyTaskRepository{db: db}
}

func (r *dailyTaskRepository) MarkFirstEntry(ctx context.Context, employeeID string, date time.Time, note *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_task_logs (employee_id, date, first_entry_note)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, employeeID, date, note); err != nil {
		return fmt.Errorf("failed to mark first entry: %w", err)
	}
	return nil
}

func (r *dailyTaskRepository) CompleteOnLogout(ctx context.Context, employeeID string, date time.Time, logoutTime string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_task_logs (employee_id, date, logout_time, completed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (employee_id, date)
		DO UPDATE SET logout_time = EXCLUDED.logout_time, completed_at = EXCLUDED.completed_at
	`

	if _, err := q.Exec(ctx, query, employeeID, date, logoutTime); err != nil {
		return fmt.Errorf("failed to complete daily task log: %w", err)
	}
	return nil
}

func (r *dailyTaskRepository) Get(ctx context.Context, employeeID string, date time.Time) (dailytask.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, date, first_entry_note, logout_time, completed_at, created_at
		FROM daily_task_logs
		WHERE employee_id = $1 AND date = $2
	`

	var l dailytask.Log
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&l.EmployeeID, &l.Date, &l.FirstEntryNote, &l.LogoutTime, &l.CompletedAt, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dailytask.Log{}, dailytask.ErrLogNotFound
		}
		return dailytask.Log{}, fmt.Errorf("failed to get daily task log: %w", err)
	}
	return l, nil
}
