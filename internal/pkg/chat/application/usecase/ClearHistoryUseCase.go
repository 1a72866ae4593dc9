package usecase

import (
	"context"

	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

type ClearHistoryInput struct {
	ConversationID string
	UserID         string
}

// HistoryForgetter drops cached per-conversation ordering state.
type HistoryForgetter interface {
	Forget(conversationID string)
}

// ClearHistoryUseCase deletes every message of a conversation for all members.
type ClearHistoryUseCase struct {
	Repo      repository.ChatRepository
	Forgetter HistoryForgetter
}

func NewClearHistoryUseCase(repo repository.ChatRepository, forgetter HistoryForgetter) *ClearHistoryUseCase {
	return &ClearHistoryUseCase{Repo: repo, Forgetter: forgetter}
}

// Execute returns the number of deleted messages.
func (uc *ClearHistoryUseCase) Execute(ctx context.Context, in ClearHistoryInput) (int64, error) {
	if _, err := loadMemberConversation(ctx, uc.Repo, in.ConversationID, in.UserID); err != nil {
		return 0, err
	}
	n, err := uc.Repo.DeleteMessagesByConversation(ctx, in.ConversationID)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	if uc.Forgetter != nil {
		uc.Forgetter.Forget(in.ConversationID)
	}
	return n, nil
}
