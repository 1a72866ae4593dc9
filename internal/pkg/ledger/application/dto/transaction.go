package dto

import (
	"time"

	ledger "go-messenger/internal/pkg/ledger/application/domain"
)

type Party struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Transaction struct {
	ID          string    `json:"id"`
	FromUser    *Party    `json:"fromUser,omitempty"`
	ToUser      Party     `json:"toUser"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromTransaction(t ledger.Transaction) Transaction {
	out := Transaction{
		ID:          t.ID,
		ToUser:      Party{ID: t.ToUserID, Username: t.ToUsername},
		Amount:      t.Amount,
		Type:        string(t.Kind),
		Status:      string(t.Status),
		Description: t.Description,
		Hash:        t.Hash,
		CreatedAt:   t.CreatedAt,
	}
	if t.FromUserID != "" {
		out.FromUser = &Party{ID: t.FromUserID, Username: t.FromUsername}
	}
	return out
}

func FromTransactions(ts []ledger.Transaction) []Transaction {
	out := make([]Transaction, 0, len(ts))
	for _, t := range ts {
		out = append(out, FromTransaction(t))
	}
	return out
}
