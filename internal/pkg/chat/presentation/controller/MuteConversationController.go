package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/pkg/apperr"
	"go-messenger/internal/pkg/chat/application/dto"
	"go-messenger/internal/pkg/chat/application/usecase"
)

type MuteConversationController struct {
	UC *usecase.MuteConversationUseCase
}

func NewMuteConversationController(uc *usecase.MuteConversationUseCase) *MuteConversationController {
	return &MuteConversationController{UC: uc}
}

type muteRequest struct {
	Mute *bool `json:"mute" binding:"required"`
}

func (h *MuteConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req muteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, apperr.Validation("mute is required"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.MuteConversationInput{
			ConversationID: c.Param("id"),
			UserID:         auth.UserID(c),
			Mute:           *req.Mute,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversation": dto.FromConversation(conv)})
	}
}
