package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/service"
	"github.com/shopspring/decimal"
)

// dateLayout is the calendar-date storage format. Expenses carry dates,
// not timestamps.
const dateLayout = "2006-01-02"

// SaveExpense inserts a new expense and populates its id and creation
// time.
func (s *SQLiteStorage) SaveExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (owner_id, title, description, amount, date, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.OwnerID,
		expense.Title,
		expense.Description,
		expense.Amount.String(),
		model.DateOnly(expense.Date).Format(dateLayout),
		expense.CategoryID,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get expense ID: %w", err)
	}

	expense.ID = id
	expense.CreatedAt = now
	return nil
}

// GetExpenseByID returns the expense with the given id, scoped to its
// owner. Returns nil when no such expense exists for that owner.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id, ownerID int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getExpenseByID(ctx, s.db, id, ownerID)
}

// DeleteExpense removes an expense owned by the given user. Returns false
// when the id does not resolve to an expense of that owner.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id, ownerID int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return deleteExpense(ctx, s.db, id, ownerID)
}

// CountExpenses returns the total number of expenses recorded for a user.
func (s *SQLiteStorage) CountExpenses(ctx context.Context, ownerID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE owner_id = ?`, ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// ListExpenses returns a user's expenses matching the filter. Date bounds
// are pushed down to SQL; amount comparisons run on the decoded decimals
// so equality is exact regardless of how the amount text was normalized.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, ownerID int64, filter service.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := strings.Builder{}
	query.WriteString(`
		SELECT id, owner_id, title, description, amount, date, category_id, created_at
		FROM expenses
		WHERE owner_id = ?`)
	args := []any{ownerID}

	if filter.StartDate != nil {
		query.WriteString(` AND date >= ?`)
		args = append(args, model.DateOnly(*filter.StartDate).Format(dateLayout))
	}
	if filter.EndDate != nil {
		query.WriteString(` AND date <= ?`)
		args = append(args, model.DateOnly(*filter.EndDate).Format(dateLayout))
	}

	if filter.NewestFirst {
		query.WriteString(` ORDER BY date DESC, id DESC`)
	} else {
		query.WriteString(` ORDER BY date ASC, id ASC`)
	}

	// Amount filters are applied after scanning, so the limit can only be
	// pushed down when no amount filter would re-shrink the result.
	pushLimit := filter.ExactAmount == nil && filter.MinAmount == nil && filter.MaxAmount == nil
	if filter.Limit > 0 && pushLimit {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var expenses []model.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}

		if filter.ExactAmount != nil && !expense.Amount.Equal(*filter.ExactAmount) {
			continue
		}
		if filter.MinAmount != nil && expense.Amount.Cmp(*filter.MinAmount) < 0 {
			continue
		}
		if filter.MaxAmount != nil && expense.Amount.Cmp(*filter.MaxAmount) > 0 {
			continue
		}

		expenses = append(expenses, expense)
		if filter.Limit > 0 && len(expenses) >= filter.Limit {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	slog.Debug("listed expenses", "owner_id", ownerID, "count", len(expenses))
	return expenses, nil
}

func getExpenseByID(ctx context.Context, q querier, id, ownerID int64) (*model.Expense, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, amount, date, category_id, created_at
		FROM expenses
		WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)

	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func deleteExpense(ctx context.Context, q querier, id, ownerID int64) (bool, error) {
	result, err := q.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// rowScanner covers sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (model.Expense, error) {
	var (
		expense     model.Expense
		description sql.NullString
		amountText  string
		dateText    string
	)

	err := row.Scan(
		&expense.ID,
		&expense.OwnerID,
		&expense.Title,
		&description,
		&amountText,
		&dateText,
		&expense.CategoryID,
		&expense.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Expense{}, err
		}
		return model.Expense{}, fmt.Errorf("failed to scan expense: %w", err)
	}

	expense.Description = description.String

	expense.Amount, err = decimal.NewFromString(amountText)
	if err != nil {
		return model.Expense{}, fmt.Errorf("failed to parse stored amount %q: %w", amountText, err)
	}

	expense.Date, err = time.ParseInLocation(dateLayout, dateText, time.UTC)
	if err != nil {
		return model.Expense{}, fmt.Errorf("failed to parse stored date %q: %w", dateText, err)
	}

	return expense, nil
}
