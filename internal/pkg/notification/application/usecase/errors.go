package usecase

import (
	"github.com/google/uuid"

	"go-messenger/internal/pkg/apperr"
)

// DefaultListLimit caps how many notifications a listing returns.
const DefaultListLimit = 50

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var errUserRequired = apperr.Validation("userId is required")
