package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	"go-messenger/internal/pkg/chat/application/dto"
	"go-messenger/internal/pkg/chat/application/usecase"
)

// SendMessageController is the HTTP fallback for clients without a live socket.
// It runs the same fan-out as send_message.
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(uc *usecase.SendMessageUseCase) *SendMessageController {
	return &SendMessageController{UC: uc}
}

type sendMessageRequest struct {
	ConversationID string            `json:"conversationId" binding:"required"`
	Type           string            `json:"type"`
	Text           string            `json:"text"`
	Attachments    []chat.Attachment `json:"attachments"`
	Nonce          string            `json:"nonce"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, apperr.Validation("%v", err))
			return
		}

		// The persistence step carries its own timeout.
		msg, err := h.UC.Execute(c.Request.Context(), usecase.SendMessageInput{
			ConversationID: req.ConversationID,
			SenderID:       auth.UserID(c),
			Type:           req.Type,
			Text:           req.Text,
			Attachments:    req.Attachments,
			Nonce:          req.Nonce,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": dto.FromMessage(*msg)})
	}
}
