package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/pkg/apperr"
	"go-messenger/internal/pkg/chat/application/dto"
	"go-messenger/internal/pkg/chat/application/usecase"
)

// GetMessageController serves one history page: ?limit=N&before=<RFC3339 timestamp>.
type GetMessageController struct {
	UC *usecase.GetMessageUseCase
}

func NewGetMessageController(uc *usecase.GetMessageUseCase) *GetMessageController {
	return &GetMessageController{UC: uc}
}

func (h *GetMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		in := usecase.GetMessageInput{ConversationID: c.Param("id"), UserID: auth.UserID(c)}

		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				apperr.Respond(c, apperr.Validation("limit must be an integer"))
				return
			}
			in.Limit = &n
		}
		if v := c.Query("before"); v != "" {
			before, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				apperr.Respond(c, apperr.Validation("before must be an RFC3339 timestamp"))
				return
			}
			in.Before = &before
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		page, err := h.UC.Execute(ctx, in)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"messages": dto.FromMessages(page.Messages),
			"hasMore":  page.HasMore,
		})
	}
}
