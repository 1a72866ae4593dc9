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

// CreateConversationController opens a direct conversation (reusing the
// pair's existing one) or a plain group conversation.
type CreateConversationController struct {
	UC *usecase.CreateConversationUseCase
}

func NewCreateConversationController(uc *usecase.CreateConversationUseCase) *CreateConversationController {
	return &CreateConversationController{UC: uc}
}

type createConversationRequest struct {
	MemberIDs []string `json:"memberIds"`
	IsGroup   bool     `json:"isGroup"`
	Title     string   `json:"title"`
}

func (h *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, apperr.Validation("%v", err))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.CreateConversationInput{
			CallerID:  auth.UserID(c),
			MemberIDs: req.MemberIDs,
			IsGroup:   req.IsGroup,
			Title:     req.Title,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"conversation": dto.FromConversation(conv)})
	}
}
