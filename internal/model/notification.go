package model

import "time"

type NotificationType string

const (
	NotificationApplication NotificationType = "application"
	NotificationStatus      NotificationType = "status_update"
	NotificationJob         NotificationType = "job"
	NotificationSystem      NotificationType = "system"
)

type Notification struct {
	ID        int64            `json:"notification_id"`
	UserID    int64            `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
