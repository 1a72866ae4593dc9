package http

import (
	"github.com/gin-gonic/gin"

	"go-messenger/internal/pkg/ledger/application/usecase"
	"go-messenger/internal/pkg/ledger/presentation/controller"
)

// RegisterRoutes registers wallet endpoints under the given authenticated router group.
func RegisterRoutes(g *gin.RouterGroup, transfer *usecase.TransferUseCase, history *usecase.GetHistoryUseCase) {
	wallet := g.Group("/wallet")
	wallet.POST("/transfer", controller.NewTransferController(transfer).Handle())
	wallet.GET("/history", controller.NewHistoryController(history).Handle())
}
