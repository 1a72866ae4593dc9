package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/pkg/apperr"
	"go-messenger/internal/pkg/user/application/dto"
	"go-messenger/internal/pkg/user/application/usecase"
)

// SearchUsersController serves GET /users?q=&limit=.
type SearchUsersController struct {
	UC *usecase.SearchUsersUseCase
}

func NewSearchUsersController(uc *usecase.SearchUsersUseCase) *SearchUsersController {
	return &SearchUsersController{UC: uc}
}

func (h *SearchUsersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		in := usecase.SearchUsersInput{Query: c.Query("q")}
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				in.Limit = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		users, err := h.UC.Execute(ctx, in)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": dto.FromUsers(users)})
	}
}
