package usecase

import (
	"context"

	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

type GetConversationInput struct {
	ConversationID string
	UserID         string
}

// GetConversationUseCase returns one conversation with its members to a member.
type GetConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewGetConversationUseCase(repo repository.ChatRepository) *GetConversationUseCase {
	return &GetConversationUseCase{Repo: repo}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) (chat.Conversation, error) {
	return loadMemberConversation(ctx, uc.Repo, in.ConversationID, in.UserID)
}
