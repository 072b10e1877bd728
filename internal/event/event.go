package event

type Type string

const (
	TypeNotification      Type = "notification.created"
	TypeApplicationFiled  Type = "application.submitted"
	TypeApplicationStatus Type = "application.status_changed"
	TypeJobReviewed       Type = "job.reviewed"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp int64  `json:"timestamp"`
	// UserID is the recipient; zero broadcasts to every connected user.
	UserID int64 `json:"-"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
