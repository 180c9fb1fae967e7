// Package testutil provides shared fixtures for storage-backed tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDB wraps an in-memory migrated SQLite store for tests. Migrations
// seed the shared default categories, so category resolution works out of
// the box.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database and registers its
// cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// AddExpense inserts an expense for the given owner, resolving the
// category by name (shared defaults included) and parsing the amount and
// date from strings for test readability.
func (db *TestDB) AddExpense(ownerID int64, title, amount, date, category string) model.Expense {
	db.t.Helper()
	ctx := context.Background()

	cat, err := db.Storage.CreateOrGetCategory(ctx, ownerID, category)
	if err != nil {
		db.t.Fatalf("failed to resolve category %q: %v", category, err)
	}

	expense := model.Expense{
		OwnerID:    ownerID,
		Title:      title,
		Amount:     db.Amount(amount),
		Date:       db.Date(date),
		CategoryID: cat.ID,
	}
	if err := db.Storage.SaveExpense(ctx, &expense); err != nil {
		db.t.Fatalf("failed to save expense %q: %v", title, err)
	}
	return expense
}

// Amount parses a decimal amount string.
func (db *TestDB) Amount(s string) decimal.Decimal {
	db.t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		db.t.Fatalf("bad amount %q: %v", s, err)
	}
	return d
}

// Date parses a YYYY-MM-DD calendar date.
func (db *TestDB) Date(s string) time.Time {
	db.t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		db.t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}
