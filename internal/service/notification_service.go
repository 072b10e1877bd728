package service

import (
	"context"
	"log/slog"

	"workconnect/internal/event"
	"workconnect/internal/model"
	"workconnect/pkg/apierror"
)

const notificationsDefault = 20

type NotificationStore interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, error)
	List(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID int64, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// Inbox is a user's notification list with the unread badge count.
type Inbox struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
}

type NotificationService struct {
	store NotificationStore
	bus   event.Bus
}

func NewNotificationService(store NotificationStore, bus event.Bus) *NotificationService {
	return &NotificationService{store: store, bus: bus}
}

// Notify stores n and pushes it to the recipient's open websockets.
// Failures are logged and never reach the caller.
func (s *NotificationService) Notify(ctx context.Context, n model.Notification) {
	if n.UserID <= 0 {
		return
	}
	if n.Type == "" {
		n.Type = model.NotificationSystem
	}

	stored, err := s.store.Create(ctx, n)
	if err != nil {
		slog.Warn("notification insert failed", "user_id", n.UserID, "title", n.Title, "error", err)
		return
	}

	if s.bus != nil {
		s.bus.Publish(event.Event{Type: event.TypeNotification, UserID: stored.UserID, Payload: stored})
	}
}

func (s *NotificationService) List(ctx context.Context, userID int64, limit int) (Inbox, error) {
	items, err := s.store.List(ctx, userID, clampLimit(limit, notificationsDefault, maxPageSize))
	if err != nil {
		return Inbox{}, err
	}
	if items == nil {
		items = []model.Notification{}
	}

	unread, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		return Inbox{}, err
	}
	return Inbox{Notifications: items, UnreadCount: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID int64, req model.NotificationRefRequest) error {
	id := req.NotificationID.Int64()
	if id <= 0 {
		return apierror.FieldError("notification_id", "Notification id is required")
	}
	return s.store.MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
