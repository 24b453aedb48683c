package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

const streamKeepAlive = 30 * time.Second

// NotificationHandler serves the escalation inbox and its live stream.
type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	MarkAllAsRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	inbox     notification.Service
	tokens    jwt.Service
	keepAlive time.Duration
}

func NewNotificationHandler(inbox notification.Service, tokens jwt.Service) NotificationHandler {
	return &notificationHandlerImpl{inbox: inbox, tokens: tokens, keepAlive: streamKeepAlive}
}

// List pages through the caller's inbox, newest first.
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	page, size := pageParams(r, "page_size", 20)
	result, err := h.inbox.GetNotifications(r.Context(), id.EmployeeID, page, size, queryFlag(r, "unread_only"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result, result.Page, result.PageSize, int64(result.Total))
}

func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	count, err := h.inbox.GetUnreadCount(r.Context(), id.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, notification.UnreadCountResponse{UnreadCount: count})
}

func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req notification.MarkAsReadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.inbox.MarkAsRead(r.Context(), id.EmployeeID, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, fmt.Sprintf("%d notification(s) marked as read", len(req.NotificationIDs)), nil)
}

func (h *notificationHandlerImpl) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.inbox.MarkAllAsRead(r.Context(), id.EmployeeID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Inbox cleared", nil)
}

// Delete removes one of the caller's own notifications.
func (h *notificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.inbox.Delete(r.Context(), id.EmployeeID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification deleted", nil)
}

// GetSSEToken trades an access token for a short-lived stream token,
// since EventSource clients cannot send an Authorization header.
func (h *notificationHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.tokens.GenerateSSEToken(id.EmployeeID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}
	response.Success(w, notification.SSETokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream pushes escalations to a supervisor as they are raised. Only
// tokens minted by GetSSEToken are accepted.
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	recipientID, err := h.tokens.ValidateSSEToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Invalid or missing stream token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")

	events, unsubscribe := h.inbox.Subscribe(r.Context(), recipientID)
	defer unsubscribe()

	send := func(name string, payload interface{}) {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
		flusher.Flush()
	}

	send("connected", map[string]string{"status": "connected", "employee_id": recipientID})

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			send(ev.Event, ev.Data)
		case now := <-ticker.C:
			send("ping", map[string]int64{"timestamp": now.Unix()})
		}
	}
}
