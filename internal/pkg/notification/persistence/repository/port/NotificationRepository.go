package repository

import (
	"context"
	"errors"

	notification "go-messenger/internal/pkg/notification/application/domain"
)

var ErrNotFound = errors.New("notification repository: not found")

// NotificationRepository persists notifications per recipient.
type NotificationRepository interface {
	// Create stores n and returns it with id and creation time assigned.
	Create(ctx context.Context, n notification.Notification) (notification.Notification, error)
	// ListForUser returns the newest notifications first.
	ListForUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error)
	// MarkRead marks one notification owned by userID; ErrNotFound otherwise.
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}
