package usecase

import (
	"context"

	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

type ListGroupsInput struct {
	UserID string
}

type ListGroupsUseCase struct {
	Repo repository.ChatRepository
}

func NewListGroupsUseCase(repo repository.ChatRepository) *ListGroupsUseCase {
	return &ListGroupsUseCase{Repo: repo}
}

func (uc *ListGroupsUseCase) Execute(ctx context.Context, in ListGroupsInput) ([]chat.Group, error) {
	if in.UserID == "" {
		return nil, apperr.Validation("userId is required")
	}
	groups, err := uc.Repo.ListGroupsForUser(ctx, in.UserID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return groups, nil
}
