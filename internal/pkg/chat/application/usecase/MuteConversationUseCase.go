package usecase

import (
	"context"

	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

type MuteConversationInput struct {
	ConversationID string
	UserID         string
	Mute           bool
}

// MuteConversationUseCase toggles whether the caller is notified about new messages.
type MuteConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewMuteConversationUseCase(repo repository.ChatRepository) *MuteConversationUseCase {
	return &MuteConversationUseCase{Repo: repo}
}

func (uc *MuteConversationUseCase) Execute(ctx context.Context, in MuteConversationInput) (chat.Conversation, error) {
	if _, err := loadMemberConversation(ctx, uc.Repo, in.ConversationID, in.UserID); err != nil {
		return chat.Conversation{}, err
	}
	if err := uc.Repo.SetMuted(ctx, in.ConversationID, in.UserID, in.Mute); err != nil {
		return chat.Conversation{}, repoError(err, "conversation")
	}
	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return chat.Conversation{}, repoError(err, "conversation")
	}
	return conv, nil
}
