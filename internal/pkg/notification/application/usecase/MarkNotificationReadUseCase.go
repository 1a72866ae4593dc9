package usecase

import (
	"context"
	"errors"

	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/pkg/notification/persistence/repository/port"
)

type MarkNotificationReadInput struct {
	UserID         string
	NotificationID string
}

// MarkNotificationReadUseCase marks one of the caller's notifications as read.
type MarkNotificationReadUseCase struct {
	Repo repository.NotificationRepository
}

func NewMarkNotificationReadUseCase(repo repository.NotificationRepository) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{Repo: repo}
}

func (uc *MarkNotificationReadUseCase) Execute(ctx context.Context, in MarkNotificationReadInput) error {
	if in.UserID == "" {
		return errUserRequired
	}
	if !validID(in.NotificationID) {
		return apperr.Validation("invalid notification id")
	}
	err := uc.Repo.MarkRead(ctx, in.NotificationID, in.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("notification")
	case err != nil:
		return apperr.Persistence(err)
	}
	return nil
}
