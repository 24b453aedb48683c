package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config tunes the write-behind queue. Zero values take the defaults.
type Config struct {
	BatchSize     int           // 100
	FlushInterval time.Duration // 5s
	WorkerCount   int           // 2
	QueueSize     int           // 1000
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 5 * time.Second
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1000
	}
	return c
}

type service struct {
	store notification.Repository
	hub   *sse.Hub
	cfg   Config

	pending  chan notification.CreateNotificationRequest
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewNotificationService starts cfg.WorkerCount batching workers. Call Stop
// on shutdown so queued escalations are not lost.
func NewNotificationService(store notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	cfg = cfg.withDefaults()
	s := &service{
		store:   store,
		hub:     hub,
		cfg:     cfg,
		pending: make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		done:    make(chan struct{}),
	}

	s.wg.Add(cfg.WorkerCount)
	for i := 0; i < cfg.WorkerCount; i++ {
		go s.run(i)
	}

	slog.Info("Notification queue started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)
	return s
}

func (s *service) run(worker int) {
	defer s.wg.Done()

	batch := make([]*notification.Notification, 0, s.cfg.BatchSize)
	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.store.CreateBatch(ctx, batch); err != nil {
			slog.Error("Notification batch insert failed", "worker", worker, "count", len(batch), "error", err)
		} else {
			for _, n := range batch {
				s.push(n)
			}
		}
		batch = make([]*notification.Notification, 0, s.cfg.BatchSize)
	}

	add := func(req notification.CreateNotificationRequest) {
		batch = append(batch, build(req))
		if len(batch) >= s.cfg.BatchSize {
			flush()
		}
	}

	for {
		select {
		case req := <-s.pending:
			add(req)
		case <-ticker.C:
			flush()
		case <-s.done:
			for {
				select {
				case req := <-s.pending:
					add(req)
				default:
					flush()
					return
				}
			}
		}
	}
}

func build(req notification.CreateNotificationRequest) *notification.Notification {
	severity := req.Severity
	if severity == "" {
		severity = notification.SeverityInfo
	}
	return &notification.Notification{
		ID:          uuid.New().String(),
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Severity:    severity,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   time.Now(),
	}
}

func (s *service) push(n *notification.Notification) {
	s.hub.Publish(n.RecipientID, sse.Event{
		RecipientID: n.RecipientID,
		Event:       n.Type.Channel(),
		Data:        toResponse(n),
	})
}

func (s *service) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// QueueNotification writes critical notices, and anything arriving after
// Stop or while the queue is full, synchronously.
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	if req.Severity == notification.SeverityCritical || s.stopped() {
		return s.insertNow(ctx, req)
	}

	select {
	case s.pending <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		slog.Warn("Notification queue full, inserting directly", "recipient_id", req.RecipientID, "type", req.Type)
		return s.insertNow(ctx, req)
	}
}

// QueueBulkNotification logs individual failures and keeps going.
func (s *service) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	for _, req := range reqs {
		if err := s.QueueNotification(ctx, req); err != nil {
			slog.Error("Failed to queue notification", "recipient_id", req.RecipientID, "type", req.Type, "error", err)
		}
	}
	return nil
}

func (s *service) insertNow(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := build(req)
	if err := s.store.Create(ctx, n); err != nil {
		return err
	}
	s.push(n)
	return nil
}

func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Severity:  n.Severity,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// GetNotifications clamps page to >= 1 and pageSize to 1..100 (default 20).
func (s *service) GetNotifications(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := s.store.GetByRecipient(ctx, recipientID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	out := &notification.NotificationListResponse{
		Notifications: make([]notification.NotificationResponse, 0, len(items)),
		UnreadCount:   unread,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}
	for _, n := range items {
		out.Notifications = append(out.Notifications, toResponse(n))
	}
	return out, nil
}

func (s *service) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.store.GetUnreadCount(ctx, recipientID)
}

func (s *service) MarkAsRead(ctx context.Context, recipientID string, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.store.MarkAsRead(ctx, req.NotificationIDs, recipientID)
}

func (s *service) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return s.store.MarkAllAsRead(ctx, recipientID)
}

func (s *service) Delete(ctx context.Context, recipientID string, notificationID string) error {
	return s.store.Delete(ctx, notificationID, recipientID)
}

// Subscribe relays hub events for recipientID until ctx ends. The returned
// func detaches from the hub.
func (s *service) Subscribe(ctx context.Context, recipientID string) (<-chan notification.SSEEvent, func()) {
	in, detach := s.hub.Subscribe(recipientID)
	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			var ev sse.Event
			var open bool
			select {
			case <-ctx.Done():
				return
			case ev, open = <-in:
				if !open {
					return
				}
			}
			data, ok := ev.Data.(notification.NotificationResponse)
			if !ok {
				continue
			}
			select {
			case out <- notification.SSEEvent{Event: ev.Event, Data: data}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, detach
}

// Stop is idempotent.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		slog.Info("Notification queue stopped")
	})
}
