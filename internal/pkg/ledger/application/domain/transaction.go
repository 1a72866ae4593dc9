package ledger

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidAmount       = errors.New("ledger: amount must be positive")
	ErrRecipientRequired   = errors.New("ledger: recipient username is required")
	ErrSelfTransfer        = errors.New("ledger: cannot transfer to self")
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")
	ErrRecipientNotFound   = errors.New("ledger: recipient not found")
	ErrSenderNotFound      = errors.New("ledger: sender not found")
)

type Kind string

const (
	KindTransfer Kind = "TRANSFER"
	KindSystem   Kind = "SYSTEM"
	KindReward   Kind = "REWARD"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Transaction is one recorded balance movement.
type Transaction struct {
	ID           string
	FromUserID   string
	FromUsername string
	ToUserID     string
	ToUsername   string
	Amount       int64
	Kind         Kind
	Status       Status
	Description  string
	Hash         string
	CreatedAt    time.Time
}

// Transfer is a validated request to move Amount from one user to another.
type Transfer struct {
	FromUserID string
	ToUsername string
	Amount     int64
	Hash       string
}

// NewTransfer validates the request and assigns its hash.
func NewTransfer(fromUserID, toUsername string, amount int64) (Transfer, error) {
	toUsername = strings.TrimSpace(toUsername)
	switch {
	case toUsername == "":
		return Transfer{}, ErrRecipientRequired
	case amount <= 0:
		return Transfer{}, ErrInvalidAmount
	}
	hash, err := NewHash()
	if err != nil {
		return Transfer{}, err
	}
	return Transfer{FromUserID: fromUserID, ToUsername: toUsername, Amount: amount, Hash: hash}, nil
}

// NewHash returns a random 32-byte identifier rendered as 0x-prefixed hex.
func NewHash() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("ledger: hash: %w", err)
	}
	return "0x" + hex.EncodeToString(b[:]), nil
}

func Description(recipientName string) string {
	return "Transfer to " + recipientName
}

// ReceivedMessage and SentMessage are the texts both parties are notified with.
func ReceivedMessage(amount int64, fromUsername string) string {
	return fmt.Sprintf("You received $%d from %s", amount, fromUsername)
}

func SentMessage(amount int64, toUsername string) string {
	return fmt.Sprintf("Transfer successful: $%d sent to %s", amount, toUsername)
}

// IsRejection reports whether err is a business rule violation rather than a storage failure.
func IsRejection(err error) bool {
	for _, target := range []error{ErrInvalidAmount, ErrRecipientRequired, ErrSelfTransfer, ErrInsufficientBalance, ErrRecipientNotFound, ErrSenderNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
