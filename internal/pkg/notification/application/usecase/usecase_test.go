package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-messenger/internal/pkg/apperr"
	notification "go-messenger/internal/pkg/notification/application/domain"
	"go-messenger/internal/pkg/notification/application/dto"
	"go-messenger/internal/pkg/notification/persistence/repository/adapter"
)

type published struct {
	userID  string
	event   string
	payload any
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *recordingPublisher) PublishToUser(_ context.Context, userID, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{userID, eventType, payload})
	return p.err
}

func TestDeliverPersistsAndPublishes(t *testing.T) {
	repo := adapter.NewMemoryNotificationRepository()
	pub := &recordingPublisher{}
	uc := NewDeliverNotificationUseCase(repo, pub, zap.NewNop())

	saved, err := uc.Execute(context.Background(), DeliverNotificationInput{
		Notification: notification.Notification{UserID: "bob", Kind: notification.KindMessage, Title: "New message from Alice", Body: "hello", RelatedID: "c1"},
		Event:        "message_notification",
		Extra:        map[string]any{"conversationId": "c1", "senderName": "Alice"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "bob", pub.sent[0].userID)
	assert.Equal(t, "message_notification", pub.sent[0].event)
	payload := pub.sent[0].payload.(map[string]any)
	assert.Equal(t, "c1", payload["conversationId"])
	assert.Equal(t, saved.ID, payload["notification"].(dto.Notification).ID)

	items, err := NewListNotificationsUseCase(repo).Execute(context.Background(), ListNotificationsInput{UserID: "bob"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsRead)
}

func TestDeliverSurvivesPushFailure(t *testing.T) {
	repo := adapter.NewMemoryNotificationRepository()
	uc := NewDeliverNotificationUseCase(repo, &recordingPublisher{err: errors.New("bus down")}, zap.NewNop())
	_, err := uc.Execute(context.Background(), DeliverNotificationInput{
		Notification: notification.Notification{UserID: "bob", Title: "t", Body: "b"},
		Event:        "message_notification",
	})
	require.NoError(t, err)
}

func TestDeliverWithoutEventOnlyPersists(t *testing.T) {
	pub := &recordingPublisher{}
	uc := NewDeliverNotificationUseCase(adapter.NewMemoryNotificationRepository(), pub, zap.NewNop())
	saved, err := uc.Execute(context.Background(), DeliverNotificationInput{
		Notification: notification.Notification{UserID: "bob", Title: "Money Sent", Body: "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, notification.KindSystem, saved.Kind)
	assert.Empty(t, pub.sent)

	_, err = uc.Execute(context.Background(), DeliverNotificationInput{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := adapter.NewMemoryNotificationRepository()
	deliver := NewDeliverNotificationUseCase(repo, nil, zap.NewNop())
	first, err := deliver.Execute(ctx, DeliverNotificationInput{Notification: notification.Notification{UserID: "bob", Title: "a", Body: "a"}})
	require.NoError(t, err)
	_, err = deliver.Execute(ctx, DeliverNotificationInput{Notification: notification.Notification{UserID: "bob", Title: "b", Body: "b"}})
	require.NoError(t, err)

	markOne := NewMarkNotificationReadUseCase(repo)
	assert.ErrorIs(t, markOne.Execute(ctx, MarkNotificationReadInput{UserID: "bob", NotificationID: "nope"}), apperr.ErrValidation)
	assert.ErrorIs(t, markOne.Execute(ctx, MarkNotificationReadInput{UserID: "alice", NotificationID: first.ID}), apperr.ErrNotFound)
	require.NoError(t, markOne.Execute(ctx, MarkNotificationReadInput{UserID: "bob", NotificationID: first.ID}))

	n, err := NewMarkAllNotificationsReadUseCase(repo).Execute(ctx, MarkAllNotificationsReadInput{UserID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
