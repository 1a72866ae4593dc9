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

type GetConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewGetConversationController(uc *usecase.GetConversationUseCase) *GetConversationController {
	return &GetConversationController{UC: uc}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.GetConversationInput{ConversationID: c.Param("id"), UserID: auth.UserID(c)})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversation": dto.FromConversation(conv)})
	}
}
