package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	ledger "go-messenger/internal/pkg/ledger/application/domain"
	repository "go-messenger/internal/pkg/ledger/persistence/repository/port"
	userRepo "go-messenger/internal/repository/port"
)

// UserTable gives exclusive access to the in-memory user records.
type UserTable interface {
	Locked(fn func(users map[string]*userRepo.User) error) error
}

// MemoryLedgerRepository applies transfers against an in-memory user table.
type MemoryLedgerRepository struct {
	users UserTable
	mu    sync.RWMutex
	txs   []ledger.Transaction
	now   func() time.Time
}

var _ repository.LedgerRepository = (*MemoryLedgerRepository)(nil)

func NewMemoryLedgerRepository(users UserTable) *MemoryLedgerRepository {
	return &MemoryLedgerRepository{users: users, now: time.Now}
}

func (r *MemoryLedgerRepository) Transfer(ctx context.Context, t ledger.Transfer) (repository.TransferResult, error) {
	if err := ctx.Err(); err != nil {
		return repository.TransferResult{}, err
	}
	var res repository.TransferResult
	err := r.users.Locked(func(users map[string]*userRepo.User) error {
		sender, ok := users[t.FromUserID]
		if !ok {
			return ledger.ErrSenderNotFound
		}
		var recipient *userRepo.User
		for _, u := range users {
			if u.Username != "" && u.Username == t.ToUsername {
				recipient = u
				break
			}
		}
		switch {
		case recipient == nil:
			return ledger.ErrRecipientNotFound
		case recipient.ID == sender.ID:
			return ledger.ErrSelfTransfer
		case sender.Balance < t.Amount:
			return ledger.ErrInsufficientBalance
		}

		sender.Balance -= t.Amount
		recipient.Balance += t.Amount
		res.SenderBalance = sender.Balance
		res.Transaction = ledger.Transaction{
			ID:           uuid.NewString(),
			FromUserID:   sender.ID,
			FromUsername: sender.Username,
			ToUserID:     recipient.ID,
			ToUsername:   recipient.Username,
			Amount:       t.Amount,
			Kind:         ledger.KindTransfer,
			Status:       ledger.StatusSuccess,
			Description:  ledger.Description(recipient.Name()),
			Hash:         t.Hash,
			CreatedAt:    r.now(),
		}
		r.mu.Lock()
		r.txs = append(r.txs, res.Transaction)
		r.mu.Unlock()
		return nil
	})
	if err != nil {
		return repository.TransferResult{}, err
	}
	return res, nil
}

func (r *MemoryLedgerRepository) History(ctx context.Context, userID string, limit int) ([]ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []ledger.Transaction
	for i := len(r.txs) - 1; i >= 0; i-- {
		t := r.txs[i]
		if t.FromUserID == userID || t.ToUserID == userID {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
