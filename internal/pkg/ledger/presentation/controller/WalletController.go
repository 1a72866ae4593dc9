package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/pkg/apperr"
	"go-messenger/internal/pkg/ledger/application/dto"
	"go-messenger/internal/pkg/ledger/application/usecase"
)

const requestTimeout = 3 * time.Second

type transferRequest struct {
	ToUsername string `json:"toUsername" binding:"required"`
	Amount     int64  `json:"amount" binding:"required"`
}

type TransferController struct {
	UC *usecase.TransferUseCase
}

func NewTransferController(uc *usecase.TransferUseCase) *TransferController {
	return &TransferController{UC: uc}
}

func (h *TransferController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, apperr.Validation("%v", err))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		res, err := h.UC.Execute(ctx, usecase.TransferInput{
			FromUserID: auth.UserID(c),
			ToUsername: req.ToUsername,
			Amount:     req.Amount,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":          true,
			"balance":     res.SenderBalance,
			"transaction": dto.FromTransaction(res.Transaction),
		})
	}
}

type HistoryController struct {
	UC *usecase.GetHistoryUseCase
}

func NewHistoryController(uc *usecase.GetHistoryUseCase) *HistoryController {
	return &HistoryController{UC: uc}
}

func (h *HistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		txs, err := h.UC.Execute(ctx, auth.UserID(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": dto.FromTransactions(txs)})
	}
}
