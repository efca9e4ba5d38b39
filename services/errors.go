package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Error kinds returned by the engine. Callers match them with errors.Is.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidState          = errors.New("invalid state")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidInput          = errors.New("invalid input")
	ErrRetryable             = errors.New("conflicting operation, retry")
)

// driver messages that mean "someone else holds the lock"
var lockContentionMarkers = []string{
	"database is locked",
	"database table is locked",
	"sqlite_busy",
	"deadlock",
	"lock wait timeout",
	"could not obtain lock",
	"could not serialize access",
	"sqlstate 40001",
	"sqlstate 40p01",
	"sqlstate 55p03",
}

// classifyDBError turns lock contention and expired deadlines into ErrRetryable
// and missing rows into ErrNotFound. Engine errors pass through untouched.
func classifyDBError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrNotFound, ErrInvalidState, ErrInsufficientInventory, ErrInvalidInput, ErrRetryable} {
		if errors.Is(err, known) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrRetryable, err)
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range lockContentionMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %w", ErrRetryable, err)
		}
	}
	return err
}

// ErrorKind names the engine error category, "ok" for nil and "internal" otherwise.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrRetryable):
		return "retryable"
	default:
		return "internal"
	}
}
