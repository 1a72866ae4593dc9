package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-messenger/internal/pkg/apperr"
	notification "go-messenger/internal/pkg/notification/application/domain"
	"go-messenger/internal/pkg/notification/application/dto"
	repository "go-messenger/internal/pkg/notification/persistence/repository/port"
)

// UserPublisher delivers an event to a user's personal channel.
type UserPublisher interface {
	PublishToUser(ctx context.Context, userID, eventType string, payload any) error
}

// DeliverNotificationInput describes one notification for one recipient.
// When Event is set the persisted notification is also published on the
// recipient's personal channel as payload Extra plus a "notification" field.
type DeliverNotificationInput struct {
	Notification notification.Notification
	Event        string
	Extra        map[string]any
}

// DeliverNotificationUseCase persists a notification and pushes it live.
type DeliverNotificationUseCase struct {
	Repo      repository.NotificationRepository
	Publisher UserPublisher
	log       *zap.Logger
}

func NewDeliverNotificationUseCase(repo repository.NotificationRepository, pub UserPublisher, log *zap.Logger) *DeliverNotificationUseCase {
	return &DeliverNotificationUseCase{Repo: repo, Publisher: pub, log: log.With(zap.String("usecase", "deliver_notification"))}
}

// Execute fails only when the notification cannot be stored. A failed live
// push is logged; the recipient still finds the record on the next listing.
func (uc *DeliverNotificationUseCase) Execute(ctx context.Context, in DeliverNotificationInput) (*notification.Notification, error) {
	n := in.Notification
	if n.UserID == "" {
		return nil, errUserRequired
	}
	if n.Kind == "" {
		n.Kind = notification.KindSystem
	}
	n.Title = strings.TrimSpace(n.Title)

	saved, err := uc.Repo.Create(ctx, n)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	if in.Event == "" || uc.Publisher == nil {
		return &saved, nil
	}

	payload := make(map[string]any, len(in.Extra)+1)
	for k, v := range in.Extra {
		payload[k] = v
	}
	payload["notification"] = dto.FromNotification(saved)

	if err := uc.Publisher.PublishToUser(ctx, saved.UserID, in.Event, payload); err != nil {
		uc.log.Warn("notification push failed",
			zap.String("notification_id", saved.ID),
			zap.String("user_id", saved.UserID),
			zap.Error(err))
	}
	return &saved, nil
}
