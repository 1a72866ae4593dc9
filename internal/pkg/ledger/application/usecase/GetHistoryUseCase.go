package usecase

import (
	"context"

	"go-messenger/internal/pkg/apperr"
	ledger "go-messenger/internal/pkg/ledger/application/domain"
	repository "go-messenger/internal/pkg/ledger/persistence/repository/port"
)

const HistoryLimit = 50

type GetHistoryUseCase struct {
	Repo repository.LedgerRepository
}

func NewGetHistoryUseCase(repo repository.LedgerRepository) *GetHistoryUseCase {
	return &GetHistoryUseCase{Repo: repo}
}

func (uc *GetHistoryUseCase) Execute(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	if userID == "" {
		return nil, apperr.Validation("userId is required")
	}
	txs, err := uc.Repo.History(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return txs, nil
}
