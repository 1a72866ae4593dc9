package usecase

import (
	"errors"
	"strings"

	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/repository/port"
)

func repoError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.NotFound("user")
	}
	return apperr.Persistence(err)
}

// pairInput validates a caller acting on another user.
func pairInput(callerID, targetID string) (string, error) {
	targetID = strings.TrimSpace(targetID)
	if callerID == "" || targetID == "" {
		return "", apperr.Validation("userId is required")
	}
	if targetID == callerID {
		return "", apperr.Validation("cannot target yourself")
	}
	return targetID, nil
}
