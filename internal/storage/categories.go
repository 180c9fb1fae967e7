package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/mintleaf-fin/mintleaf/internal/model"
)

// GetCategories returns all active categories visible to a user: the
// user's own plus the shared defaults (NULL owner). This is the single
// two-tier resolution point; callers never filter on owner scope
// themselves.
func (s *SQLiteStorage) GetCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, is_active, created_at
		FROM categories
		WHERE (owner_id = ? OR owner_id IS NULL) AND is_active = 1
		ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "owner_id", ownerID, "count", len(categories))
	return categories, nil
}

// GetCategoryByName resolves a category name for a user. The user's own
// category wins over a shared default of the same name. Returns nil when
// no active category matches.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, ownerID int64, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	// owner_id IS NULL sorts last, so the user-scoped row wins.
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, is_active, created_at
		FROM categories
		WHERE (owner_id = ? OR owner_id IS NULL) AND name = ? AND is_active = 1
		ORDER BY owner_id IS NULL
		LIMIT 1`, ownerID, name)

	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateOrGetCategory returns the active category matching the given name,
// creating a user-owned one when none exists. Matching is forgiving:
// exact name first, then a case-insensitive pass, then a levenshtein
// distance of one, so statement imports do not spawn typo-duplicates like
// "Dinning" next to "Dining".
func (s *SQLiteStorage) CreateOrGetCategory(ctx context.Context, ownerID int64, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	existing, err := s.GetCategoryByName(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	categories, err := s.GetCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if near := nearestCategory(name, categories); near != nil {
		slog.Debug("reusing near-match category",
			"requested", name,
			"matched", near.Name)
		return near, nil
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (owner_id, name, is_active, created_at)
		VALUES (?, ?, 1, ?)`,
		ownerID, name, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	slog.Info("created new category", "name", name, "id", id, "owner_id", ownerID)
	return &model.Category{
		ID:        id,
		OwnerID:   &ownerID,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
	}, nil
}

// nearestCategory returns an existing category whose name matches the
// requested one case-insensitively or within a levenshtein distance of
// one. Nil when nothing is close enough.
func nearestCategory(name string, categories []model.Category) *model.Category {
	lower := strings.ToLower(name)

	for i := range categories {
		if strings.ToLower(categories[i].Name) == lower {
			return &categories[i]
		}
	}
	for i := range categories {
		if levenshtein.ComputeDistance(lower, strings.ToLower(categories[i].Name)) <= 1 {
			return &categories[i]
		}
	}
	return nil
}

func scanCategory(row rowScanner) (model.Category, error) {
	var (
		cat     model.Category
		ownerID sql.NullInt64
	)

	err := row.Scan(&cat.ID, &ownerID, &cat.Name, &cat.IsActive, &cat.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Category{}, err
		}
		return model.Category{}, fmt.Errorf("failed to scan category: %w", err)
	}

	if ownerID.Valid {
		owner := ownerID.Int64
		cat.OwnerID = &owner
	}
	return cat, nil
}
