package dto

import (
	"time"

	notification "go-messenger/internal/pkg/notification/application/domain"
)

// Notification is the wire shape of a notification.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	RelatedID string    `json:"relatedId,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromNotification(n notification.Notification) Notification {
	return Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotification(d Notification) notification.Notification {
	return notification.Notification{
		ID:        d.ID,
		UserID:    d.UserID,
		Kind:      notification.Kind(d.Type),
		Title:     d.Title,
		Body:      d.Body,
		RelatedID: d.RelatedID,
		IsRead:    d.IsRead,
		CreatedAt: d.CreatedAt,
	}
}

func FromNotifications(ns []notification.Notification) []Notification {
	out := make([]Notification, 0, len(ns))
	for _, n := range ns {
		out = append(out, FromNotification(n))
	}
	return out
}
