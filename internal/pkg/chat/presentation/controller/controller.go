package controller

import (
	"time"

	chat "go-messenger/internal/pkg/chat/application/domain"
	"go-messenger/internal/pkg/chat/application/dto"
	"go-messenger/internal/pkg/chat/application/usecase"
)

// requestTimeout bounds every REST handler's use case call.
const requestTimeout = 3 * time.Second

func newMessageEvent(m chat.Message) usecase.NewMessageEvent {
	return usecase.NewMessageEvent{Message: dto.FromMessage(m)}
}
