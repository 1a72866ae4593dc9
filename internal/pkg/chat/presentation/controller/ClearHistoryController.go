package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/pkg/apperr"
	"go-messenger/internal/pkg/chat/application/usecase"
)

// ClearHistoryController deletes a conversation's messages for every member.
type ClearHistoryController struct {
	UC *usecase.ClearHistoryUseCase
}

func NewClearHistoryController(uc *usecase.ClearHistoryUseCase) *ClearHistoryController {
	return &ClearHistoryController{UC: uc}
}

func (h *ClearHistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		n, err := h.UC.Execute(ctx, usecase.ClearHistoryInput{ConversationID: c.Param("id"), UserID: auth.UserID(c)})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": n})
	}
}
