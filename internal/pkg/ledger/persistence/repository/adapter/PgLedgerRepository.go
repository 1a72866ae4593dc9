package adapter

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	ledger "go-messenger/internal/pkg/ledger/application/domain"
	repository "go-messenger/internal/pkg/ledger/persistence/repository/port"
)

type PgLedgerRepository struct {
	pool *pgxpool.Pool
}

var _ repository.LedgerRepository = (*PgLedgerRepository)(nil)

func NewPgLedgerRepository(pool *pgxpool.Pool) *PgLedgerRepository {
	return &PgLedgerRepository{pool: pool}
}

type account struct {
	id, username, displayName string
	balance                   int64
}

// Transfer locks both rows in id order so opposite concurrent transfers cannot deadlock.
func (r *PgLedgerRepository) Transfer(ctx context.Context, t ledger.Transfer) (repository.TransferResult, error) {
	var res repository.TransferResult
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id, username, display_name, balance
			FROM chat.app_user
			WHERE id = $1 OR username = $2
			ORDER BY id
			FOR UPDATE
		`, t.FromUserID, t.ToUsername)
		if err != nil {
			return err
		}
		var sender, recipient *account
		for rows.Next() {
			var a account
			if err := rows.Scan(&a.id, &a.username, &a.displayName, &a.balance); err != nil {
				rows.Close()
				return err
			}
			if a.id == t.FromUserID {
				sender = &a
			}
			if a.username == t.ToUsername {
				recipient = &a
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		switch {
		case sender == nil:
			return ledger.ErrSenderNotFound
		case recipient == nil:
			return ledger.ErrRecipientNotFound
		case recipient.id == sender.id:
			return ledger.ErrSelfTransfer
		case sender.balance < t.Amount:
			return ledger.ErrInsufficientBalance
		}

		if err := tx.QueryRow(ctx, `
			UPDATE chat.app_user SET balance = balance - $2 WHERE id = $1 RETURNING balance
		`, sender.id, t.Amount).Scan(&res.SenderBalance); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE chat.app_user SET balance = balance + $2 WHERE id = $1
		`, recipient.id, t.Amount); err != nil {
			return err
		}

		recipientName := recipient.displayName
		if recipientName == "" {
			recipientName = recipient.username
		}
		res.Transaction = ledger.Transaction{
			FromUserID:   sender.id,
			FromUsername: sender.username,
			ToUserID:     recipient.id,
			ToUsername:   recipient.username,
			Amount:       t.Amount,
			Kind:         ledger.KindTransfer,
			Status:       ledger.StatusSuccess,
			Description:  ledger.Description(recipientName),
			Hash:         t.Hash,
		}
		return tx.QueryRow(ctx, `
			INSERT INTO chat.ledger_transaction (from_user, to_user, amount, kind, status, description, hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id::text, created_at
		`, sender.id, recipient.id, t.Amount, string(ledger.KindTransfer), string(ledger.StatusSuccess),
			res.Transaction.Description, t.Hash).Scan(&res.Transaction.ID, &res.Transaction.CreatedAt)
	})
	if err != nil {
		return repository.TransferResult{}, err
	}
	return res, nil
}

func (r *PgLedgerRepository) History(ctx context.Context, userID string, limit int) ([]ledger.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id::text, COALESCE(t.from_user, ''), COALESCE(fu.username, ''), t.to_user, COALESCE(tu.username, ''),
		       t.amount, t.kind, t.status, t.description, t.hash, t.created_at
		FROM chat.ledger_transaction t
		LEFT JOIN chat.app_user fu ON fu.id = t.from_user
		LEFT JOIN chat.app_user tu ON tu.id = t.to_user
		WHERE t.from_user = $1 OR t.to_user = $1
		ORDER BY t.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var (
			t            ledger.Transaction
			kind, status string
		)
		if err := rows.Scan(&t.ID, &t.FromUserID, &t.FromUsername, &t.ToUserID, &t.ToUsername,
			&t.Amount, &kind, &status, &t.Description, &t.Hash, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Kind = ledger.Kind(kind)
		t.Status = ledger.Status(status)
		out = append(out, t)
	}
	return out, rows.Err()
}
