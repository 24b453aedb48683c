package notification

import (
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

// CreateNotificationRequest is what producers (escalation, payroll, cron)
// hand to the queue. An empty Severity is stored as info.
type CreateNotificationRequest struct {
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Severity    Severity
	Title       string
	Message     string
	Data        map[string]interface{}
}

type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

func (r *MarkAsReadRequest) Validate() error {
	if len(r.NotificationIDs) == 0 {
		return validator.ValidationErrors{{Field: "notification_ids", Message: "at least one notification id is required"}}
	}
	return nil
}

type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      NotificationType       `json:"type"`
	Severity  Severity               `json:"severity"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationListResponse is one inbox page. Paging fields travel in the
// response meta rather than the body.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`

	Total    int `json:"-"`
	Page     int `json:"-"`
	PageSize int `json:"-"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// SSEEvent is one pushed notification; Event is the stream channel name.
type SSEEvent struct {
	Event string
	Data  NotificationResponse
}
