package usecase

import (
	"context"

	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/pkg/notification/persistence/repository/port"
)

type MarkAllNotificationsReadInput struct {
	UserID string
}

type MarkAllNotificationsReadUseCase struct {
	Repo repository.NotificationRepository
}

func NewMarkAllNotificationsReadUseCase(repo repository.NotificationRepository) *MarkAllNotificationsReadUseCase {
	return &MarkAllNotificationsReadUseCase{Repo: repo}
}

// Execute returns how many notifications changed state.
func (uc *MarkAllNotificationsReadUseCase) Execute(ctx context.Context, in MarkAllNotificationsReadInput) (int64, error) {
	if in.UserID == "" {
		return 0, errUserRequired
	}
	n, err := uc.Repo.MarkAllRead(ctx, in.UserID)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	return n, nil
}
