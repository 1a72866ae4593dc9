package notification

import "time"

// Kind classifies what produced a notification.
type Kind string

const (
	KindMessage          Kind = "message"
	KindTransferSent     Kind = "transfer_sent"
	KindTransferReceived Kind = "transfer_received"
	KindSystem           Kind = "system"
)

// Notification is a per-recipient record of a fan-out side effect.
// Only IsRead ever changes after creation.
type Notification struct {
	ID        string
	UserID    string
	Kind      Kind
	Title     string
	Body      string
	RelatedID string
	IsRead    bool
	CreatedAt time.Time
}
