package notification

import (
	"context"
)

// Service stores escalation and payroll notices and fans them out to
// connected supervisors.
type Service interface {
	// Queued writes are batched by background workers; critical ones are
	// written and pushed immediately.
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	GetNotifications(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, recipientID string, notificationID string) error

	Subscribe(ctx context.Context, recipientID string) (<-chan SSEEvent, func())

	// Stop drains the queue and waits for the workers.
	Stop()
}
