package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassifyDBError(t *testing.T) {
	assert.Nil(t, classifyDBError(nil))
	assert.ErrorIs(t, classifyDBError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, classifyDBError(context.DeadlineExceeded), ErrRetryable)
	assert.ErrorIs(t, classifyDBError(errors.New("database is locked")), ErrRetryable)
	assert.ErrorIs(t, classifyDBError(errors.New("Error 1213: Deadlock found when trying to get lock")), ErrRetryable)
	assert.ErrorIs(t, classifyDBError(errors.New("ERROR: could not obtain lock on row (SQLSTATE 55P03)")), ErrRetryable)

	wrapped := fmt.Errorf("beverage x: %w", ErrInsufficientInventory)
	assert.Equal(t, wrapped, classifyDBError(wrapped))

	plain := errors.New("syntax error")
	assert.Equal(t, plain, classifyDBError(plain))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "ok", ErrorKind(nil))
	assert.Equal(t, "not_found", ErrorKind(fmt.Errorf("x: %w", ErrNotFound)))
	assert.Equal(t, "invalid_state", ErrorKind(ErrInvalidState))
	assert.Equal(t, "insufficient_inventory", ErrorKind(ErrInsufficientInventory))
	assert.Equal(t, "invalid_input", ErrorKind(ErrInvalidInput))
	assert.Equal(t, "retryable", ErrorKind(ErrRetryable))
	assert.Equal(t, "internal", ErrorKind(errors.New("boom")))
}
