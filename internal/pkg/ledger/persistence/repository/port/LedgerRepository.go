package repository

import (
	"context"

	ledger "go-messenger/internal/pkg/ledger/application/domain"
)

// TransferResult is what a committed transfer leaves behind.
type TransferResult struct {
	Transaction   ledger.Transaction
	SenderBalance int64
}

// LedgerRepository moves balances between users.
type LedgerRepository interface {
	// Transfer debits the sender, credits the recipient resolved by username and
	// records the transaction atomically. It fails with one of the ledger
	// rejection errors, in which case nothing changed.
	Transfer(ctx context.Context, t ledger.Transfer) (TransferResult, error)
	// History returns the user's transactions in either direction, newest first.
	History(ctx context.Context, userID string, limit int) ([]ledger.Transaction, error)
}
