package keyword

import (
	"context"
	"testing"

	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCategories is a CategoryReader backed by a fixed name→id map.
type stubCategories struct {
	byName map[string]int64
}

func (s *stubCategories) GetCategories(_ context.Context, _ int64) ([]model.Category, error) {
	cats := make([]model.Category, 0, len(s.byName))
	for name, id := range s.byName {
		cats = append(cats, model.Category{ID: id, Name: name, IsActive: true})
	}
	return cats, nil
}

func (s *stubCategories) GetCategoryByName(_ context.Context, _ int64, name string) (*model.Category, error) {
	id, ok := s.byName[name]
	if !ok {
		return nil, nil
	}
	return &model.Category{ID: id, Name: name, IsActive: true}, nil
}

func allCategories() *stubCategories {
	return &stubCategories{byName: map[string]int64{
		"Food & Dining":       1,
		"Transportation":      2,
		"Shopping":            3,
		"Entertainment":       4,
		"Healthcare":          5,
		"Housing & Utilities": 6,
		"Education":           7,
		"Other":               8,
	}}
}

func TestClassifier_Classify(t *testing.T) {
	ctx := context.Background()
	c := NewClassifier(allCategories())

	tests := []struct {
		name   string
		text   string
		wantID int64
	}{
		{
			name:   "coffee shop",
			text:   "Starbucks Coffee Run",
			wantID: 1,
		},
		{
			name:   "ride share",
			text:   "Uber trip to airport",
			wantID: 2,
		},
		{
			name:   "online shopping",
			text:   "amazon order electronics",
			wantID: 3,
		},
		{
			name:   "streaming",
			text:   "Netflix subscription",
			wantID: 4,
		},
		{
			name:   "pharmacy",
			text:   "Apollo pharmacy medicine",
			wantID: 5,
		},
		{
			name:   "electricity bill",
			text:   "electricity bill payment",
			wantID: 6,
		},
		{
			name:   "online course",
			text:   "udemy course on golang",
			wantID: 7,
		},
		{
			name:   "no keyword match falls back to Other",
			text:   "xyzzy qwtzx",
			wantID: 8,
		},
		{
			name:   "case insensitive",
			text:   "STARBUCKS COFFEE",
			wantID: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(ctx, 1, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got)
		})
	}
}

func TestClassifier_WholeWordOutscoresSubstring(t *testing.T) {
	ctx := context.Background()
	cats := &stubCategories{byName: map[string]int64{"A": 1, "B": 2}}

	c := NewClassifierWithTable(cats, []CategoryKeywords{
		{Category: "A", Keywords: []string{"eat"}},   // substring of "eatery"
		{Category: "B", Keywords: []string{"eatery"}}, // whole word, scores 2
	})

	got, err := c.Classify(ctx, 1, "downtown eatery")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestClassifier_TieBreakFirstDeclaredWins(t *testing.T) {
	ctx := context.Background()
	cats := &stubCategories{byName: map[string]int64{"First": 1, "Second": 2}}

	c := NewClassifierWithTable(cats, []CategoryKeywords{
		{Category: "First", Keywords: []string{"alpha"}},
		{Category: "Second", Keywords: []string{"beta"}},
	})

	// One whole-word hit each: identical scores, table order decides.
	got, err := c.Classify(ctx, 1, "alpha beta")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestClassifier_NoFallbackCategory(t *testing.T) {
	ctx := context.Background()
	// User has no categories at all, not even "Other".
	c := NewClassifier(&stubCategories{byName: map[string]int64{}})

	got, err := c.Classify(ctx, 1, "mystery charge")
	require.NoError(t, err)
	assert.Zero(t, got, "missing fallback category must yield no classification")
}

func TestClassifier_WinnerMissingFallsBackToOther(t *testing.T) {
	ctx := context.Background()
	// Keywords point at Food & Dining but the user only has "Other".
	c := NewClassifier(&stubCategories{byName: map[string]int64{"Other": 8}})

	got, err := c.Classify(ctx, 1, "Starbucks Coffee")
	require.NoError(t, err)
	assert.Equal(t, int64(8), got)
}
