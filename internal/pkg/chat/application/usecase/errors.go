package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

// Error taxonomy shared with the other slices.
var (
	ErrPersistence = apperr.ErrPersistence
	ErrForbidden   = apperr.ErrForbidden
	ErrValidation  = apperr.ErrValidation
	ErrNotFound    = apperr.ErrNotFound
)

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// repoError maps a repository failure onto the taxonomy. entity names the
// addressed record for not-found errors.
func repoError(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return apperr.Persistence(err)
}

// domainError maps aggregate rule violations onto the taxonomy.
func domainError(err error) error {
	switch {
	case errors.Is(err, chat.ErrNotParticipant), errors.Is(err, chat.ErrUserBlocked):
		return apperr.Forbidden(err)
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrInvalidMessageType),
		errors.Is(err, chat.ErrInvalidConversation), errors.Is(err, chat.ErrGroupNameRequired):
		return apperr.Validation("%v", err)
	default:
		return err
	}
}

// loadMemberConversation fetches a conversation and requires userID to be a member.
func loadMemberConversation(ctx context.Context, repo repository.ChatRepository, conversationID, userID string) (chat.Conversation, error) {
	if !validID(conversationID) {
		return chat.Conversation{}, apperr.Validation("invalid conversationId")
	}
	conv, err := repo.GetConversation(ctx, conversationID)
	if err != nil {
		return chat.Conversation{}, repoError(err, "conversation")
	}
	if !conv.HasMember(userID) {
		return chat.Conversation{}, apperr.Forbidden(chat.ErrNotParticipant)
	}
	return conv, nil
}
