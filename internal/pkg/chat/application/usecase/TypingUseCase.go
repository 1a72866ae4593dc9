package usecase

import (
	"context"

	"go-messenger/internal/infrastructure/realtime"
	"go-messenger/internal/pkg/apperr"
)

type TypingInput struct {
	ConversationID string
	UserID         string
	IsTyping       bool
}

// TypingEvent is the payload of typing.
type TypingEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	IsTyping       bool   `json:"isTyping"`
}

// TypingUseCase relays a typing indicator to the conversation's group except
// the sender. Nothing is stored.
type TypingUseCase struct {
	Publisher ConversationPublisher
}

func NewTypingUseCase(pub ConversationPublisher) *TypingUseCase {
	return &TypingUseCase{Publisher: pub}
}

func (uc *TypingUseCase) Execute(ctx context.Context, in TypingInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return apperr.Validation("conversationId is required")
	}
	return uc.Publisher.PublishToConversation(ctx, in.ConversationID, realtime.EventTyping, TypingEvent{
		ConversationID: in.ConversationID,
		UserID:         in.UserID,
		IsTyping:       in.IsTyping,
	}, in.UserID)
}
