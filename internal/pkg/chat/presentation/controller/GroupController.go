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

type CreateGroupController struct {
	UC *usecase.CreateGroupUseCase
}

func NewCreateGroupController(uc *usecase.CreateGroupUseCase) *CreateGroupController {
	return &CreateGroupController{UC: uc}
}

type createGroupRequest struct {
	Name      string   `json:"name"`
	AvatarURL string   `json:"avatarUrl"`
	MemberIDs []string `json:"memberIds"`
}

func (h *CreateGroupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, apperr.Validation("%v", err))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		g, conv, err := h.UC.Execute(ctx, usecase.CreateGroupInput{
			CreatorID: auth.UserID(c),
			Name:      req.Name,
			AvatarURL: req.AvatarURL,
			MemberIDs: req.MemberIDs,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"group": dto.FromGroup(g), "conversation": dto.FromConversation(conv)})
	}
}

type ListGroupsController struct {
	UC *usecase.ListGroupsUseCase
}

func NewListGroupsController(uc *usecase.ListGroupsUseCase) *ListGroupsController {
	return &ListGroupsController{UC: uc}
}

func (h *ListGroupsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		groups, err := h.UC.Execute(ctx, usecase.ListGroupsInput{UserID: auth.UserID(c)})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"groups": dto.FromGroups(groups)})
	}
}

type AddGroupMemberController struct {
	UC *usecase.AddGroupMemberUseCase
}

func NewAddGroupMemberController(uc *usecase.AddGroupMemberUseCase) *AddGroupMemberController {
	return &AddGroupMemberController{UC: uc}
}

type addGroupMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *AddGroupMemberController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addGroupMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, apperr.Validation("userId is required"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		g, err := h.UC.Execute(ctx, usecase.AddGroupMemberInput{
			GroupID:  c.Param("id"),
			CallerID: auth.UserID(c),
			UserID:   req.UserID,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"group": dto.FromGroup(g)})
	}
}

type DeleteGroupController struct {
	UC *usecase.DeleteGroupUseCase
}

func NewDeleteGroupController(uc *usecase.DeleteGroupUseCase) *DeleteGroupController {
	return &DeleteGroupController{UC: uc}
}

func (h *DeleteGroupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := h.UC.Execute(ctx, usecase.DeleteGroupInput{GroupID: c.Param("id"), CallerID: auth.UserID(c)}); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
