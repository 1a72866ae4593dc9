package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	qport "go-messenger/internal/infrastructure/queue/port"
	"go-messenger/internal/pkg/chat/application/dto"
	"go-messenger/internal/pkg/chat/application/usecase"
)

// NotifyMembersTaskType is the queue task name for member notification after a send.
const NotifyMembersTaskType = "chat:notify_members"

// NotifyMembersMaxRetry bounds redelivery of a task whose payload could not be handled.
const NotifyMembersMaxRetry = 3

const notifyTimeout = 10 * time.Second

// NotifyMembersTaskPayload is the JSON payload transported via the queue.
// It carries the wire form of the message, not the domain type.
type NotifyMembersTaskPayload struct {
	Message      dto.Message `json:"message"`
	SenderName   string      `json:"senderName"`
	RecipientIDs []string    `json:"recipientIds"`
}

// RegisterNotifyMembersTask binds the task handler to the provided server.
func RegisterNotifyMembersTask(srv qport.Server, uc *usecase.NotifyMembersUseCase) {
	srv.Register(NotifyMembersTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyMembersTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return fmt.Errorf("notify members: decode payload: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		return uc.Execute(ctx, usecase.NotifyMembersInput{
			Message:      dto.ToMessage(p.Message),
			SenderName:   p.SenderName,
			RecipientIDs: p.RecipientIDs,
		})
	})
}

// QueueNotifier hands member notification to the queue so the sender's
// request returns once the message is broadcast.
type QueueNotifier struct {
	client qport.Client
}

func NewQueueNotifier(client qport.Client) *QueueNotifier {
	return &QueueNotifier{client: client}
}

var _ usecase.MemberNotifier = (*QueueNotifier)(nil)

func (n *QueueNotifier) NotifyMembers(ctx context.Context, in usecase.NotifyMembersInput) error {
	payload, err := json.Marshal(NotifyMembersTaskPayload{
		Message:      dto.FromMessage(in.Message),
		SenderName:   in.SenderName,
		RecipientIDs: in.RecipientIDs,
	})
	if err != nil {
		return err
	}
	_, err = n.client.Enqueue(ctx, qport.Task{Type: NotifyMembersTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "chat", MaxRetry: NotifyMembersMaxRetry, Timeout: notifyTimeout})
	return err
}
