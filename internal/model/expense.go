// Package model defines the core domain types shared across the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is a not-yet-persisted transaction under evaluation for
// category and duplicate status. It arrives from manual entry or from a
// parsed statement and is never stored directly.
type Candidate struct {
	Date        time.Time
	Title       string
	Description string
	Amount      decimal.Decimal
}

// CombinedText joins title and description into the single text input used
// for classification. Training and prediction must build features from the
// same combination, so every call site goes through this helper.
func (c Candidate) CombinedText() string {
	return CombinedText(c.Title, c.Description)
}

// CombinedText joins a title and an optional description.
func CombinedText(title, description string) string {
	if strings.TrimSpace(description) == "" {
		return title
	}
	return title + " " + description
}

// Expense is a previously persisted, categorized transaction. It is the
// comparison corpus for duplicate detection and the training corpus for the
// learned classifier.
type Expense struct {
	Date        time.Time
	CreatedAt   time.Time
	Title       string
	Description string
	Amount      decimal.Decimal
	ID          int64
	OwnerID     int64
	CategoryID  int64
}

// CombinedText joins the expense title and description, matching the
// feature construction used for candidates.
func (e Expense) CombinedText() string {
	return CombinedText(e.Title, e.Description)
}

// DateOnly truncates a timestamp to its calendar date in UTC. All date
// comparisons in duplicate detection operate on calendar dates.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
