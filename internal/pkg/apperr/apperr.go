// Package apperr holds the error taxonomy shared by every use case and its
// mapping onto HTTP statuses and websocket error codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-messenger/internal/infrastructure/auth"
)

var (
	ErrPersistence = errors.New("persistence error")
	ErrForbidden   = errors.New("forbidden")
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
)

// Persistence wraps an infrastructure failure.
func Persistence(err error) error {
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// Validation builds a validation error with a caller-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Forbidden wraps cause as a forbidden error. cause may be nil.
func Forbidden(cause error) error {
	if cause == nil {
		return ErrForbidden
	}
	return fmt.Errorf("%w: %w", ErrForbidden, cause)
}

// NotFound names the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

// Classify returns the HTTP status and wire code for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// Message is the caller-facing text for err. Persistence details are not exposed.
func Message(err error) string {
	if _, code := Classify(err); code == "internal_error" {
		return "unexpected persistence error"
	}
	return err.Error()
}

// Respond writes err as a JSON error body.
func Respond(c *gin.Context, err error) {
	status, code := Classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": Message(err), "code": code})
}
