package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/pkg/apperr"
	"go-messenger/internal/pkg/user/application/dto"
	"go-messenger/internal/pkg/user/application/usecase"
)

type GetMeController struct {
	UC *usecase.GetMeUseCase
}

func NewGetMeController(uc *usecase.GetMeUseCase) *GetMeController {
	return &GetMeController{UC: uc}
}

func (h *GetMeController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		u, err := h.UC.Execute(ctx, auth.UserID(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": dto.FromMe(u)})
	}
}
