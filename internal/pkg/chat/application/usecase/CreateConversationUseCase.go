package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

// CreateConversationInput requests a conversation between the caller and MemberIDs.
// A direct request reuses the pair's existing conversation.
type CreateConversationInput struct {
	CallerID  string
	MemberIDs []string
	IsGroup   bool
	Title     string
}

type CreateConversationUseCase struct {
	Repo repository.ChatRepository
	Now  func() time.Time
}

func NewCreateConversationUseCase(repo repository.ChatRepository) *CreateConversationUseCase {
	return &CreateConversationUseCase{Repo: repo, Now: time.Now}
}

func (uc *CreateConversationUseCase) Execute(ctx context.Context, in CreateConversationInput) (chat.Conversation, error) {
	if in.CallerID == "" {
		return chat.Conversation{}, apperr.Validation("caller is required")
	}
	if len(in.MemberIDs) == 0 {
		return chat.Conversation{}, apperr.Validation("members are required")
	}
	for _, id := range in.MemberIDs {
		if !validID(id) {
			return chat.Conversation{}, apperr.Validation("invalid member id %q", id)
		}
	}
	members := chat.UniqueMembers(append([]string{in.CallerID}, in.MemberIDs...))
	now := uc.Now()

	if in.IsGroup {
		conv, err := uc.Repo.CreateConversation(ctx, chat.NewGroupConversation(strings.TrimSpace(in.Title), members, now))
		if err != nil {
			return chat.Conversation{}, apperr.Persistence(err)
		}
		return conv, nil
	}

	switch len(members) {
	case 1:
		return uc.createOrReuseDirect(ctx, in.CallerID, in.CallerID, now)
	case 2:
		return uc.createOrReuseDirect(ctx, members[0], members[1], now)
	default:
		return chat.Conversation{}, apperr.Validation("a direct conversation has at most two members")
	}
}

// createOrReuseDirect returns the pair's most recently active conversation,
// creating one when none exists. A concurrent create that loses the unique
// index race re-reads the winner.
func (uc *CreateConversationUseCase) createOrReuseDirect(ctx context.Context, a, b string, now time.Time) (chat.Conversation, error) {
	existing, err := uc.Repo.FindDirectConversations(ctx, a, b)
	if err != nil {
		return chat.Conversation{}, apperr.Persistence(err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	conv, err := uc.Repo.CreateConversation(ctx, chat.NewDirectConversation(a, b, now))
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrDirectConversationExists) {
		return chat.Conversation{}, apperr.Persistence(err)
	}
	existing, err = uc.Repo.FindDirectConversations(ctx, a, b)
	if err != nil {
		return chat.Conversation{}, apperr.Persistence(err)
	}
	if len(existing) == 0 {
		return chat.Conversation{}, apperr.Persistence(repository.ErrDirectConversationExists)
	}
	return existing[0], nil
}
