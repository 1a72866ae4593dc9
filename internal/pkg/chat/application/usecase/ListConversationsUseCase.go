package usecase

import (
	"context"

	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

type ListConversationsInput struct {
	UserID string
}

// ListConversationsUseCase returns the caller's conversations newest activity
// first with one direct conversation per partner.
type ListConversationsUseCase struct {
	Repo repository.ChatRepository
}

func NewListConversationsUseCase(repo repository.ChatRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]chat.Conversation, error) {
	if in.UserID == "" {
		return nil, apperr.Validation("userId is required")
	}
	convs, err := uc.Repo.ListConversationsForUser(ctx, in.UserID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return chat.DedupeForUser(in.UserID, convs), nil
}
