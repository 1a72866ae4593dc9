package usecase

import (
	"context"

	"go-messenger/internal/pkg/apperr"
	notification "go-messenger/internal/pkg/notification/application/domain"
	repository "go-messenger/internal/pkg/notification/persistence/repository/port"
)

type ListNotificationsInput struct {
	UserID string
}

// ListNotificationsUseCase returns the caller's newest notifications.
type ListNotificationsUseCase struct {
	Repo repository.NotificationRepository
}

func NewListNotificationsUseCase(repo repository.NotificationRepository) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{Repo: repo}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, in ListNotificationsInput) ([]notification.Notification, error) {
	if in.UserID == "" {
		return nil, errUserRequired
	}
	items, err := uc.Repo.ListForUser(ctx, in.UserID, DefaultListLimit)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return items, nil
}
