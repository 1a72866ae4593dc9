package usecase

import (
	"context"

	"go.uber.org/zap"

	"go-messenger/internal/infrastructure/realtime"
	chat "go-messenger/internal/pkg/chat/application/domain"
	"go-messenger/internal/pkg/chat/application/dto"
	notification "go-messenger/internal/pkg/notification/application/domain"
	notificationUC "go-messenger/internal/pkg/notification/application/usecase"
)

// NotificationDeliverer persists one notification and pushes it to its recipient.
type NotificationDeliverer interface {
	Execute(ctx context.Context, in notificationUC.DeliverNotificationInput) (*notification.Notification, error)
}

// NotifyMembersInput carries one accepted message and who should hear about it.
type NotifyMembersInput struct {
	Message      chat.Message
	SenderName   string
	RecipientIDs []string
}

// NotifyMembersUseCase synthesizes a message notification per recipient.
type NotifyMembersUseCase struct {
	Deliverer NotificationDeliverer
	log       *zap.Logger
}

func NewNotifyMembersUseCase(deliverer NotificationDeliverer, log *zap.Logger) *NotifyMembersUseCase {
	return &NotifyMembersUseCase{Deliverer: deliverer, log: log.With(zap.String("usecase", "notify_members"))}
}

var _ MemberNotifier = (*NotifyMembersUseCase)(nil)

// Execute delivers to every recipient independently. A failure for one
// recipient is logged and does not stop the others; it never fails the call
// so a retry cannot duplicate notifications already delivered.
func (uc *NotifyMembersUseCase) Execute(ctx context.Context, in NotifyMembersInput) error {
	title := chat.NotificationTitle(in.SenderName)
	body := chat.Summary(in.Message)
	msg := dto.FromMessage(in.Message)

	for _, recipient := range in.RecipientIDs {
		_, err := uc.Deliverer.Execute(ctx, notificationUC.DeliverNotificationInput{
			Notification: notification.Notification{
				UserID:    recipient,
				Kind:      notification.KindMessage,
				Title:     title,
				Body:      body,
				RelatedID: in.Message.ConversationID,
			},
			Event: realtime.EventMessageNotification,
			Extra: map[string]any{
				"message":        msg,
				"senderName":     in.SenderName,
				"conversationId": in.Message.ConversationID,
			},
		})
		if err != nil {
			uc.log.Warn("notification delivery failed",
				zap.String("recipient_id", recipient),
				zap.String("message_id", in.Message.ID),
				zap.Error(err))
		}
	}
	return nil
}

// NotifyMembers runs the use case inline.
func (uc *NotifyMembersUseCase) NotifyMembers(ctx context.Context, in NotifyMembersInput) error {
	return uc.Execute(ctx, in)
}
