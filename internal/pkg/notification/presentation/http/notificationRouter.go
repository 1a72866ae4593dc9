package http

import (
	"github.com/gin-gonic/gin"

	"go-messenger/internal/pkg/notification/application/usecase"
	"go-messenger/internal/pkg/notification/presentation/controller"
	repository "go-messenger/internal/pkg/notification/persistence/repository/port"
)

// RegisterRoutes registers notification endpoints under the given authenticated router group.
func RegisterRoutes(g *gin.RouterGroup, repo repository.NotificationRepository) {
	notifications := g.Group("/notifications")
	notifications.GET("", controller.NewListNotificationsController(usecase.NewListNotificationsUseCase(repo)).Handle())
	notifications.PUT("/read-all", controller.NewMarkAllNotificationsReadController(usecase.NewMarkAllNotificationsReadUseCase(repo)).Handle())
	notifications.PUT("/:id/read", controller.NewMarkNotificationReadController(usecase.NewMarkNotificationReadUseCase(repo)).Handle())
}
