// Package service defines the interfaces between the classification core
// and its persistence collaborators.
package service

import (
	"context"
	"time"

	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/shopspring/decimal"
)

// ExpenseFilter defines filtering options for expense queries. Date bounds
// are inclusive calendar dates. Amount filters use exact decimal
// comparison, never float equality.
type ExpenseFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	ExactAmount *decimal.Decimal
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	Limit       int
	NewestFirst bool
}

// ExpenseReader is the read-only slice of Storage the duplicate detector
// and the learned classifier depend on.
type ExpenseReader interface {
	ListExpenses(ctx context.Context, ownerID int64, filter ExpenseFilter) ([]model.Expense, error)
	CountExpenses(ctx context.Context, ownerID int64) (int, error)
}

// CategoryReader resolves categories for a user. Lookups are two-tier:
// the user's own categories first, then the shared defaults (nil owner).
type CategoryReader interface {
	GetCategories(ctx context.Context, ownerID int64) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, ownerID int64, name string) (*model.Category, error)
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	ExpenseReader
	CategoryReader

	// CreateOrGetCategory returns the active category with the given name,
	// creating a user-owned one if none exists. Used by statement import
	// to auto-vivify unseen category names.
	CreateOrGetCategory(ctx context.Context, ownerID int64, name string) (*model.Category, error)

	SaveExpense(ctx context.Context, expense *model.Expense) error
	GetExpenseByID(ctx context.Context, id, ownerID int64) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id, ownerID int64) (bool, error)

	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is a database transaction scope over the expense operations that need
// all-or-nothing semantics.
type Tx interface {
	GetExpenseByID(ctx context.Context, id, ownerID int64) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id, ownerID int64) (bool, error)
	Commit() error
	Rollback() error
}

// ModelStore persists trained classifier snapshots keyed by user id.
// Load returns (nil, nil) when no snapshot exists. Save must replace any
// previous snapshot atomically: a concurrent reader sees either the old
// complete snapshot or the new one, never a torn write.
type ModelStore interface {
	Load(ctx context.Context, ownerID int64) (*model.Snapshot, error)
	Save(ctx context.Context, ownerID int64, snapshot *model.Snapshot) error
	Delete(ctx context.Context, ownerID int64) error
}
