// Package storage provides the data persistence layer for the mintleaf
// application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mintleaf-fin/mintleaf/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidExpense  = errors.New("invalid expense")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateExpense validates an expense before insertion.
func validateExpense(expense *model.Expense) error {
	if expense == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if strings.TrimSpace(expense.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidExpense)
	}
	if expense.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	if expense.OwnerID == 0 {
		return fmt.Errorf("%w: missing owner", ErrInvalidExpense)
	}
	if expense.CategoryID == 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidExpense)
	}
	return nil
}

// validateSnapshot validates a model snapshot before persistence.
func validateSnapshot(snapshot *model.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}
	if len(snapshot.Payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidSnapshot)
	}
	if snapshot.Version <= 0 {
		return fmt.Errorf("%w: missing version", ErrInvalidSnapshot)
	}
	if snapshot.TrainedAt.IsZero() {
		return fmt.Errorf("%w: missing trained_at", ErrInvalidSnapshot)
	}
	return nil
}
