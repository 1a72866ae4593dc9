package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/pkg/apperr"
	"go-messenger/internal/pkg/user/application/dto"
	"go-messenger/internal/pkg/user/application/usecase"
	repository "go-messenger/internal/repository/port"
)

// relationUseCase is satisfied by the friend and block use cases.
type relationUseCase interface {
	Execute(ctx context.Context, in usecase.RelationInput) error
}

// listUseCase is satisfied by ListFriendsUseCase and ListBlockedUseCase.
type listUseCase interface {
	Execute(ctx context.Context, userID string) ([]repository.User, error)
}

// RelationBodyController handles POST endpoints taking {userId}.
type RelationBodyController struct {
	UC relationUseCase
}

func NewRelationBodyController(uc relationUseCase) *RelationBodyController {
	return &RelationBodyController{UC: uc}
}

func (h *RelationBodyController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req relationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, apperr.Validation("userId is required"))
			return
		}
		respondRelation(c, h.UC, req.UserID)
	}
}

// RelationParamController handles DELETE endpoints addressed by :id.
type RelationParamController struct {
	UC relationUseCase
}

func NewRelationParamController(uc relationUseCase) *RelationParamController {
	return &RelationParamController{UC: uc}
}

func (h *RelationParamController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondRelation(c, h.UC, c.Param("id"))
	}
}

func respondRelation(c *gin.Context, uc relationUseCase, target string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := uc.Execute(ctx, usecase.RelationInput{CallerID: auth.UserID(c), UserID: target}); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListRelationController lists the caller's friends or blocked users under key.
type ListRelationController struct {
	UC  listUseCase
	key string
}

func NewListRelationController(uc listUseCase, key string) *ListRelationController {
	return &ListRelationController{UC: uc, key: key}
}

func (h *ListRelationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		users, err := h.UC.Execute(ctx, auth.UserID(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{h.key: dto.FromUsers(users)})
	}
}
