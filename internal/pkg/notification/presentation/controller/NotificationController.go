package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/pkg/apperr"
	"go-messenger/internal/pkg/notification/application/dto"
	"go-messenger/internal/pkg/notification/application/usecase"
)

const requestTimeout = 3 * time.Second

type ListNotificationsController struct {
	UC *usecase.ListNotificationsUseCase
}

func NewListNotificationsController(uc *usecase.ListNotificationsUseCase) *ListNotificationsController {
	return &ListNotificationsController{UC: uc}
}

func (h *ListNotificationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		ns, err := h.UC.Execute(ctx, usecase.ListNotificationsInput{UserID: auth.UserID(c)})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": dto.FromNotifications(ns)})
	}
}

// MarkNotificationReadController only affects notifications addressed to the caller.
type MarkNotificationReadController struct {
	UC *usecase.MarkNotificationReadUseCase
}

func NewMarkNotificationReadController(uc *usecase.MarkNotificationReadUseCase) *MarkNotificationReadController {
	return &MarkNotificationReadController{UC: uc}
}

func (h *MarkNotificationReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.MarkNotificationReadInput{UserID: auth.UserID(c), NotificationID: c.Param("id")})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

type MarkAllNotificationsReadController struct {
	UC *usecase.MarkAllNotificationsReadUseCase
}

func NewMarkAllNotificationsReadController(uc *usecase.MarkAllNotificationsReadUseCase) *MarkAllNotificationsReadController {
	return &MarkAllNotificationsReadController{UC: uc}
}

func (h *MarkAllNotificationsReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		n, err := h.UC.Execute(ctx, usecase.MarkAllNotificationsReadInput{UserID: auth.UserID(c)})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "updated": n})
	}
}
