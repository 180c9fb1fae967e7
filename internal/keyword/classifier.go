// Package keyword implements deterministic keyword-based expense
// classification. It is the fallback path when no trained model is
// available or the learned prediction is not confident enough.
package keyword

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/service"
)

// Classifier scores free text against a static keyword table and resolves
// the winning category name to the user's category id.
type Classifier struct {
	categories service.CategoryReader
	table      []scoredCategory
}

type scoredCategory struct {
	name     string
	keywords []compiledKeyword
}

type compiledKeyword struct {
	word *regexp.Regexp
	text string
}

// NewClassifier creates a classifier over the default keyword table.
func NewClassifier(categories service.CategoryReader) *Classifier {
	return NewClassifierWithTable(categories, DefaultKeywords())
}

// NewClassifierWithTable creates a classifier over a custom table. Table
// order is the tie-break order: on equal scores the earlier entry wins.
func NewClassifierWithTable(categories service.CategoryReader, table []CategoryKeywords) *Classifier {
	c := &Classifier{categories: categories}

	for _, ck := range table {
		sc := scoredCategory{name: ck.Category}
		for _, kw := range ck.Keywords {
			kw = strings.ToLower(kw)
			sc.keywords = append(sc.keywords, compiledKeyword{
				text: kw,
				word: regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`),
			})
		}
		c.table = append(c.table, sc)
	}

	return c
}

// Classify maps text to a category id for the given user. Whole-word
// keyword hits score 2, substring-only hits score 1; the category with the
// strictly highest total wins. With no keyword hits at all the fallback
// category ("Other") is returned. The returned id is zero only when even
// the fallback category does not exist for the user, which signals the
// caller to prompt for a manual selection.
func (c *Classifier) Classify(ctx context.Context, ownerID int64, text string) (int64, error) {
	lower := strings.ToLower(text)

	bestScore := 0
	bestName := ""
	for _, sc := range c.table {
		score := 0
		for _, kw := range sc.keywords {
			if !strings.Contains(lower, kw.text) {
				continue
			}
			if kw.word.MatchString(lower) {
				score += 2
			} else {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestName = sc.name
		}
	}

	if bestName != "" {
		id, err := c.resolve(ctx, ownerID, bestName)
		if err != nil {
			return 0, err
		}
		if id != 0 {
			slog.Debug("keyword classification",
				"category", bestName,
				"score", bestScore)
			return id, nil
		}
		// The winning category does not exist for this user; fall through
		// to the catch-all.
	}

	id, err := c.resolve(ctx, ownerID, model.FallbackCategoryName)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		slog.Debug("no fallback category for user", "owner_id", ownerID)
	}
	return id, nil
}

func (c *Classifier) resolve(ctx context.Context, ownerID int64, name string) (int64, error) {
	cat, err := c.categories.GetCategoryByName(ctx, ownerID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve category %q: %w", name, err)
	}
	if cat == nil {
		return 0, nil
	}
	return cat.ID, nil
}
