// Package dedupe implements duplicate detection for expense transactions
// using tiered matching over amount, date, and title similarity.
package dedupe

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/service"
	"github.com/mintleaf-fin/mintleaf/internal/similarity"
	"github.com/shopspring/decimal"
)

const (
	// DefaultThreshold is the title-similarity threshold for the exact and
	// window tiers when the caller does not supply one.
	DefaultThreshold = 0.85

	// fuzzyAmountThreshold applies to the fuzzy-amount tier. It is
	// stricter than the caller-supplied threshold because the amount
	// itself is already approximate there.
	fuzzyAmountThreshold = 0.90

	// DefaultPairWindow bounds how many recent expenses a batch scan
	// compares pairwise.
	DefaultPairWindow = 100

	dateWindowDays = 2
	pairWindowDays = 7
	batchPairScore = 0.8
)

var amountTolerance = decimal.NewFromFloat(0.01) // ±1%

// Detector checks candidates against a user's expense history.
type Detector struct {
	storage service.Storage
}

// New creates a duplicate detector backed by the given storage.
func New(storage service.Storage) *Detector {
	return &Detector{storage: storage}
}

// IsDuplicate decides whether the candidate near-duplicates an existing
// expense. Tiers are checked in order, short-circuiting on the first
// match:
//
//  1. identical amount and date, title similarity above threshold
//  2. identical amount within ±2 calendar days, similarity above threshold
//  3. amount within ±1% on the exact same date, similarity above 0.90
//
// Non-positive amounts never match the fuzzy-amount tier; the exact-amount
// tiers still apply to them. A threshold of zero or less selects
// DefaultThreshold.
func (d *Detector) IsDuplicate(ctx context.Context, ownerID int64, cand model.Candidate, threshold float64) (model.DuplicateDecision, error) {
	if err := validateCandidate(cand); err != nil {
		return model.DuplicateDecision{}, err
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	date := model.DateOnly(cand.Date)

	// Tier 1: exact amount, exact date.
	exact, err := d.storage.ListExpenses(ctx, ownerID, service.ExpenseFilter{
		StartDate:   &date,
		EndDate:     &date,
		ExactAmount: &cand.Amount,
	})
	if err != nil {
		return model.DuplicateDecision{}, fmt.Errorf("failed to query exact matches: %w", err)
	}
	if decision, ok := bestMatch(cand.Title, exact, threshold); ok {
		slog.Debug("duplicate found", "tier", "exact", "matched_id", decision.MatchedID)
		return decision, nil
	}

	// Tier 2: exact amount within a ±2 day window.
	windowStart := date.AddDate(0, 0, -dateWindowDays)
	windowEnd := date.AddDate(0, 0, dateWindowDays)
	windowed, err := d.storage.ListExpenses(ctx, ownerID, service.ExpenseFilter{
		StartDate:   &windowStart,
		EndDate:     &windowEnd,
		ExactAmount: &cand.Amount,
	})
	if err != nil {
		return model.DuplicateDecision{}, fmt.Errorf("failed to query date window: %w", err)
	}
	if decision, ok := bestMatch(cand.Title, windowed, threshold); ok {
		slog.Debug("duplicate found", "tier", "window", "matched_id", decision.MatchedID)
		return decision, nil
	}

	// Tier 3: fuzzy amount (±1%) on the same date. Refunds and zero
	// amounts are excluded here; a 1% band around a non-positive amount
	// is not meaningful.
	if cand.Amount.Sign() > 0 {
		minAmount := cand.Amount.Mul(decimal.NewFromInt(1).Sub(amountTolerance))
		maxAmount := cand.Amount.Mul(decimal.NewFromInt(1).Add(amountTolerance))
		fuzzy, err := d.storage.ListExpenses(ctx, ownerID, service.ExpenseFilter{
			StartDate: &date,
			EndDate:   &date,
			MinAmount: &minAmount,
			MaxAmount: &maxAmount,
		})
		if err != nil {
			return model.DuplicateDecision{}, fmt.Errorf("failed to query fuzzy amounts: %w", err)
		}
		if decision, ok := bestMatch(cand.Title, fuzzy, fuzzyAmountThreshold); ok {
			slog.Debug("duplicate found", "tier", "fuzzy_amount", "matched_id", decision.MatchedID)
			return decision, nil
		}
	}

	return model.DuplicateDecision{}, nil
}

// bestMatch returns the first expense whose title similarity exceeds the
// threshold.
func bestMatch(title string, expenses []model.Expense, threshold float64) (model.DuplicateDecision, bool) {
	for _, e := range expenses {
		score := similarity.Score(title, e.Title)
		if score > threshold {
			return model.DuplicateDecision{
				IsDuplicate: true,
				MatchedID:   e.ID,
				Score:       score,
			}, true
		}
	}
	return model.DuplicateDecision{}, false
}

// FindAllPairs scans the most recent windowSize expenses for duplicate
// pairs: equal amounts, dates within 7 days, title similarity above 0.8.
// Results are ordered by descending similarity. The scan is intentionally
// O(windowSize²); the window is small and bounded.
func (d *Detector) FindAllPairs(ctx context.Context, ownerID int64, windowSize int) ([]model.DuplicatePair, error) {
	if windowSize <= 0 {
		windowSize = DefaultPairWindow
	}

	expenses, err := d.storage.ListExpenses(ctx, ownerID, service.ExpenseFilter{
		Limit:       windowSize,
		NewestFirst: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent expenses: %w", err)
	}

	var pairs []model.DuplicatePair
	for i := range expenses {
		for j := i + 1; j < len(expenses); j++ {
			a, b := expenses[i], expenses[j]

			if daysApart(a.Date, b.Date) > pairWindowDays {
				continue
			}
			if !a.Amount.Equal(b.Amount) {
				continue
			}

			score := similarity.Score(a.Title, b.Title)
			if score > batchPairScore {
				pairs = append(pairs, model.DuplicatePair{A: a, B: b, Score: score})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})

	slog.Debug("duplicate pair scan complete",
		"scanned", len(expenses),
		"pairs", len(pairs))
	return pairs, nil
}

// Merge resolves a duplicate pair by deleting one record and keeping the
// other. It returns false, without mutating anything, when either id does
// not resolve to an expense owned by the user. The deletion is
// transactional: on any persistence failure no partial state remains.
func (d *Detector) Merge(ctx context.Context, ownerID, keepID, deleteID int64) (bool, error) {
	if keepID == deleteID {
		return false, fmt.Errorf("%w: cannot merge an expense with itself", common.ErrInvalidInput)
	}

	tx, err := d.storage.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	keep, err := tx.GetExpenseByID(ctx, keepID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to load expense %d: %w", keepID, err)
	}
	toDelete, err := tx.GetExpenseByID(ctx, deleteID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to load expense %d: %w", deleteID, err)
	}
	if keep == nil || toDelete == nil {
		return false, nil
	}

	deleted, err := tx.DeleteExpense(ctx, deleteID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense %d: %w", deleteID, err)
	}
	if !deleted {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit merge: %w", err)
	}

	slog.Info("merged duplicate expenses",
		"kept", keepID,
		"deleted", deleteID)
	return true, nil
}

func validateCandidate(cand model.Candidate) error {
	if cand.Title == "" {
		return fmt.Errorf("%w: candidate title is empty", common.ErrInvalidInput)
	}
	if cand.Date.IsZero() {
		return fmt.Errorf("%w: candidate date is unset", common.ErrInvalidDate)
	}
	return nil
}

func daysApart(a, b time.Time) int {
	diff := int(model.DateOnly(a).Sub(model.DateOnly(b)).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}
