package usecase

import (
	"context"
	"time"

	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// GetMessageInput carries parameters to fetch one page of a conversation's history.
// A nil Limit means the default; Before, when set, returns only strictly older messages.
type GetMessageInput struct {
	ConversationID string
	UserID         string
	Limit          *int
	Before         *time.Time
}

// MessagePage is one history page, oldest first.
type MessagePage struct {
	Messages []chat.Message
	HasMore  bool
}

// GetMessageUseCase fetches history for members of a conversation.
type GetMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessageUseCase(repo repository.ChatRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo}
}

// Execute reads newest first from the store and returns the page in display
// order. HasMore is set when the batch filled the limit.
func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) (MessagePage, error) {
	limit, err := pageLimit(in.Limit)
	if err != nil {
		return MessagePage{}, err
	}
	if _, err := loadMemberConversation(ctx, uc.Repo, in.ConversationID, in.UserID); err != nil {
		return MessagePage{}, err
	}

	msgs, err := uc.Repo.GetMessagesByConversation(ctx, in.ConversationID, in.Before, limit)
	if err != nil {
		return MessagePage{}, apperr.Persistence(err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return MessagePage{Messages: msgs, HasMore: len(msgs) == limit}, nil
}

func pageLimit(limit *int) (int, error) {
	switch {
	case limit == nil:
		return DefaultPageLimit, nil
	case *limit <= 0:
		return 0, apperr.Validation("limit must be positive")
	case *limit > MaxPageLimit:
		return MaxPageLimit, nil
	default:
		return *limit, nil
	}
}
