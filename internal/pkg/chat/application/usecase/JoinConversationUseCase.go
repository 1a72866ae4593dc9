package usecase

import (
	"context"

	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

type JoinConversationInput struct {
	ConversationID string
	UserID         string
}

// JoinConversationUseCase gates room subscription on membership.
type JoinConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewJoinConversationUseCase(repo repository.ChatRepository) *JoinConversationUseCase {
	return &JoinConversationUseCase{Repo: repo}
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, in JoinConversationInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return apperr.Validation("conversationId is required")
	}
	_, err := loadMemberConversation(ctx, uc.Repo, in.ConversationID, in.UserID)
	return err
}
