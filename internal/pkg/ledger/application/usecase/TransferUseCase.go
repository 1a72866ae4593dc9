package usecase

import (
	"context"

	"go.uber.org/zap"

	"go-messenger/internal/infrastructure/realtime"
	"go-messenger/internal/pkg/apperr"
	ledger "go-messenger/internal/pkg/ledger/application/domain"
	repository "go-messenger/internal/pkg/ledger/persistence/repository/port"
	notification "go-messenger/internal/pkg/notification/application/domain"
	notificationUC "go-messenger/internal/pkg/notification/application/usecase"
)

// NotificationDeliverer persists one notification and pushes it on the recipient's personal channel.
type NotificationDeliverer interface {
	Execute(ctx context.Context, in notificationUC.DeliverNotificationInput) (*notification.Notification, error)
}

type TransferInput struct {
	FromUserID string
	ToUsername string
	Amount     int64
}

// WalletEvent is the payload of wallet_notification.
type WalletEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// TransferUseCase moves balance between users and tells both parties.
type TransferUseCase struct {
	Repo      repository.LedgerRepository
	Deliverer NotificationDeliverer
	log       *zap.Logger
}

func NewTransferUseCase(repo repository.LedgerRepository, deliverer NotificationDeliverer, log *zap.Logger) *TransferUseCase {
	return &TransferUseCase{Repo: repo, Deliverer: deliverer, log: log.With(zap.String("usecase", "transfer"))}
}

// Execute commits the transfer first. Notifying either party is best effort
// and never undoes a committed transfer.
func (uc *TransferUseCase) Execute(ctx context.Context, in TransferInput) (repository.TransferResult, error) {
	if in.FromUserID == "" {
		return repository.TransferResult{}, apperr.Validation("sender is required")
	}
	t, err := ledger.NewTransfer(in.FromUserID, in.ToUsername, in.Amount)
	if err != nil {
		return repository.TransferResult{}, transferError(err)
	}

	res, err := uc.Repo.Transfer(ctx, t)
	if err != nil {
		return repository.TransferResult{}, transferError(err)
	}

	tx := res.Transaction
	uc.emit(ctx, tx.ToUserID, notification.KindTransferReceived, "Money Received", ledger.ReceivedMessage(tx.Amount, tx.FromUsername), tx.ID)
	uc.emit(ctx, tx.FromUserID, notification.KindTransferSent, "Money Sent", ledger.SentMessage(tx.Amount, tx.ToUsername), tx.ID)
	return res, nil
}

func (uc *TransferUseCase) emit(ctx context.Context, userID string, kind notification.Kind, title, message, txID string) {
	if uc.Deliverer == nil {
		return
	}
	_, err := uc.Deliverer.Execute(ctx, notificationUC.DeliverNotificationInput{
		Notification: notification.Notification{
			UserID:    userID,
			Kind:      kind,
			Title:     title,
			Body:      message,
			RelatedID: txID,
		},
		Event: realtime.EventWalletNotification,
		Extra: map[string]any{"type": "success", "message": message},
	})
	if err != nil {
		uc.log.Warn("wallet notification failed", zap.String("user_id", userID), zap.String("transaction_id", txID), zap.Error(err))
	}
}

func transferError(err error) error {
	if ledger.IsRejection(err) {
		return apperr.Validation("%v", err)
	}
	return apperr.Persistence(err)
}
