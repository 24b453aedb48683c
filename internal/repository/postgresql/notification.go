package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

const (
	notificationColumns = `id, recipient_id, sender_id, type, severity, title, message, data, is_read, read_at, created_at`

	insertNotificationSQL = `
		INSERT INTO notifications (id, recipient_id, sender_id, type, severity, title, message, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	// $2 toggles the unread-only view.
	recipientFilterSQL = `recipient_id = $1 AND (NOT $2::boolean OR is_read = false)`
)

// insertArgs assigns an id when missing and encodes Data as JSONB.
func insertArgs(n *notification.Notification) ([]interface{}, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	data, err := json.Marshal(n.Data)
	if err != nil {
		return nil, fmt.Errorf("encode notification data: %w", err)
	}
	return []interface{}{
		n.ID, n.RecipientID, n.SenderID, string(n.Type), string(n.Severity),
		n.Title, n.Message, data, n.IsRead, n.CreatedAt,
	}, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args, err := insertArgs(n)
	if err != nil {
		return err
	}
	if _, err := GetQuerier(ctx, r.db).Exec(ctx, insertNotificationSQL, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// CreateBatch pipelines every insert in one round trip. Outside a
// transaction pgx wraps the batch in an implicit one, so it is all or nothing.
func (r *notificationRepository) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, n := range ns {
		args, err := insertArgs(n)
		if err != nil {
			return err
		}
		batch.Queue(insertNotificationSQL, args...)
	}

	results := GetQuerier(ctx, r.db).SendBatch(ctx, batch)
	for i := range ns {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert notification %d of %d: %w", i+1, len(ns), err)
		}
	}
	return results.Close()
}

func (r *notificationRepository) GetByRecipient(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE `+recipientFilterSQL,
		recipientID, unreadOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	rows, err := q.Query(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE `+recipientFilterSQL+`
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`, recipientID, unreadOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n              notification.Notification
		kind, severity string
		data           []byte
	)
	err := row.Scan(&n.ID, &n.RecipientID, &n.SenderID, &kind, &severity,
		&n.Title, &n.Message, &data, &n.IsRead, &n.ReadAt, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notification.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan notification: %w", err)
	}

	n.Type = notification.NotificationType(kind)
	n.Severity = notification.Severity(severity)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("decode notification data: %w", err)
		}
	}
	return &n, nil
}

func (r *notificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := GetQuerier(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`, recipientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead ignores ids that belong to another recipient or are already read.
func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, recipientID string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := GetQuerier(ctx, r.db).Exec(ctx, `
		UPDATE notifications SET is_read = true, read_at = NOW()
		WHERE recipient_id = $1 AND id = ANY($2) AND is_read = false`, recipientID, ids)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	_, err := GetQuerier(ctx, r.db).Exec(ctx, `
		UPDATE notifications SET is_read = true, read_at = NOW()
		WHERE recipient_id = $1 AND is_read = false`, recipientID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id string, recipientID string) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
