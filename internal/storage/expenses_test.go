package storage

import (
	"context"
	"testing"
	"time"

	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/service"
	"github.com/shopspring/decimal"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return store
}

func testAmount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad amount %q: %v", s, err)
	}
	return d
}

func testDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func insertExpense(t *testing.T, store *SQLiteStorage, ownerID int64, title, amount, date string) model.Expense {
	t.Helper()
	ctx := context.Background()

	cat, err := store.CreateOrGetCategory(ctx, ownerID, "Shopping")
	if err != nil {
		t.Fatalf("failed to resolve category: %v", err)
	}

	expense := model.Expense{
		OwnerID:    ownerID,
		Title:      title,
		Amount:     testAmount(t, amount),
		Date:       testDate(t, date),
		CategoryID: cat.ID,
	}
	if err := store.SaveExpense(ctx, &expense); err != nil {
		t.Fatalf("failed to save expense: %v", err)
	}
	return expense
}

func TestSaveExpense(t *testing.T) {
	store := createTestStorage(t)

	expense := insertExpense(t, store, 1, "Coffee Shop", "4.75", "2024-03-01")

	if expense.ID == 0 {
		t.Error("expected ID to be populated after save")
	}
	if expense.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be populated after save")
	}
}

func TestSaveExpenseValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		expense *model.Expense
	}{
		{name: "nil expense", expense: nil},
		{
			name: "empty title",
			expense: &model.Expense{
				OwnerID:    1,
				Amount:     testAmount(t, "5"),
				Date:       testDate(t, "2024-03-01"),
				CategoryID: 1,
			},
		},
		{
			name: "zero date",
			expense: &model.Expense{
				OwnerID:    1,
				Title:      "Coffee",
				Amount:     testAmount(t, "5"),
				CategoryID: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SaveExpense(ctx, tt.expense); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestGetExpenseByIDOwnerScoped(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	saved := insertExpense(t, store, 1, "Grocery Store", "54.20", "2024-03-02")

	got, err := store.GetExpenseByID(ctx, saved.ID, 1)
	if err != nil {
		t.Fatalf("GetExpenseByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected expense, got nil")
	}
	if got.Title != "Grocery Store" {
		t.Errorf("got title %q, want %q", got.Title, "Grocery Store")
	}
	if !got.Amount.Equal(saved.Amount) {
		t.Errorf("got amount %s, want %s", got.Amount, saved.Amount)
	}

	// Another owner sees nothing.
	other, err := store.GetExpenseByID(ctx, saved.ID, 2)
	if err != nil {
		t.Fatalf("GetExpenseByID failed: %v", err)
	}
	if other != nil {
		t.Error("expected nil for a different owner")
	}
}

func TestDeleteExpense(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	saved := insertExpense(t, store, 1, "Gas Station", "38.00", "2024-03-03")

	// Wrong owner deletes nothing.
	deleted, err := store.DeleteExpense(ctx, saved.ID, 2)
	if err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if deleted {
		t.Error("expected no deletion for a different owner")
	}

	deleted, err = store.DeleteExpense(ctx, saved.ID, 1)
	if err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if !deleted {
		t.Error("expected deletion to report true")
	}

	got, err := store.GetExpenseByID(ctx, saved.ID, 1)
	if err != nil {
		t.Fatalf("GetExpenseByID failed: %v", err)
	}
	if got != nil {
		t.Error("expected expense to be gone after delete")
	}
}

func TestCountExpenses(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	insertExpense(t, store, 1, "One", "1.00", "2024-03-01")
	insertExpense(t, store, 1, "Two", "2.00", "2024-03-02")
	insertExpense(t, store, 2, "Other user", "3.00", "2024-03-03")

	count, err := store.CountExpenses(ctx, 1)
	if err != nil {
		t.Fatalf("CountExpenses failed: %v", err)
	}
	if count != 2 {
		t.Errorf("got count %d, want 2", count)
	}
}

func TestListExpensesDateRange(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	insertExpense(t, store, 1, "Before", "10.00", "2024-02-28")
	insertExpense(t, store, 1, "Inside A", "10.00", "2024-03-01")
	insertExpense(t, store, 1, "Inside B", "10.00", "2024-03-03")
	insertExpense(t, store, 1, "After", "10.00", "2024-03-10")

	start := testDate(t, "2024-03-01")
	end := testDate(t, "2024-03-03")

	expenses, err := store.ListExpenses(ctx, 1, service.ExpenseFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(expenses))
	}
	if expenses[0].Title != "Inside A" || expenses[1].Title != "Inside B" {
		t.Errorf("unexpected titles %q, %q", expenses[0].Title, expenses[1].Title)
	}
}

func TestListExpensesExactAmount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	// Same value written with different text forms must still compare
	// equal.
	insertExpense(t, store, 1, "Short form", "10.5", "2024-03-01")
	insertExpense(t, store, 1, "Long form", "10.50", "2024-03-02")
	insertExpense(t, store, 1, "Different", "10.51", "2024-03-03")

	amount := testAmount(t, "10.50")
	expenses, err := store.ListExpenses(ctx, 1, service.ExpenseFilter{ExactAmount: &amount})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(expenses))
	}
}

func TestListExpensesAmountRange(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	insertExpense(t, store, 1, "Low", "5.00", "2024-03-01")
	insertExpense(t, store, 1, "Mid", "10.00", "2024-03-02")
	insertExpense(t, store, 1, "High", "20.00", "2024-03-03")

	minAmt := testAmount(t, "6")
	maxAmt := testAmount(t, "15")
	expenses, err := store.ListExpenses(ctx, 1, service.ExpenseFilter{
		MinAmount: &minAmt,
		MaxAmount: &maxAmt,
	})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Title != "Mid" {
		t.Fatalf("expected only the mid expense, got %d", len(expenses))
	}
}

func TestListExpensesNewestFirstWithLimit(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	insertExpense(t, store, 1, "Oldest", "1.00", "2024-03-01")
	insertExpense(t, store, 1, "Middle", "2.00", "2024-03-02")
	insertExpense(t, store, 1, "Newest", "3.00", "2024-03-03")

	expenses, err := store.ListExpenses(ctx, 1, service.ExpenseFilter{
		NewestFirst: true,
		Limit:       2,
	})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(expenses))
	}
	if expenses[0].Title != "Newest" || expenses[1].Title != "Middle" {
		t.Errorf("unexpected order: %q, %q", expenses[0].Title, expenses[1].Title)
	}
}

func TestListExpensesLimitAfterAmountFilter(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	// The first rows by date do not match the amount filter; the limit
	// must apply to matching rows, not scanned rows.
	insertExpense(t, store, 1, "Miss A", "1.00", "2024-03-01")
	insertExpense(t, store, 1, "Miss B", "1.00", "2024-03-02")
	insertExpense(t, store, 1, "Hit A", "9.00", "2024-03-03")
	insertExpense(t, store, 1, "Hit B", "9.00", "2024-03-04")

	amount := testAmount(t, "9.00")
	expenses, err := store.ListExpenses(ctx, 1, service.ExpenseFilter{
		ExactAmount: &amount,
		Limit:       2,
	})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(expenses))
	}
}
