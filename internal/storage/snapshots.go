package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintleaf-fin/mintleaf/internal/model"
)

// Load returns the model snapshot for a user, or (nil, nil) when none has
// been saved yet.
func (s *SQLiteStorage) Load(ctx context.Context, ownerID int64) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var snap model.Snapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT version, payload, trained_at, sample_count
		FROM model_snapshots
		WHERE owner_id = ?`, ownerID,
	).Scan(&snap.Version, &snap.Payload, &snap.TrainedAt, &snap.SampleCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model snapshot: %w", err)
	}

	return &snap, nil
}

// Save replaces the user's model snapshot. The UPSERT runs as a single
// statement inside SQLite's transaction, so a concurrent reader sees the
// old snapshot or the new one, never a partial write.
func (s *SQLiteStorage) Save(ctx context.Context, ownerID int64, snapshot *model.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO model_snapshots (owner_id, version, payload, trained_at, sample_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			trained_at = excluded.trained_at,
			sample_count = excluded.sample_count,
			updated_at = excluded.updated_at`,
		ownerID,
		snapshot.Version,
		snapshot.Payload,
		snapshot.TrainedAt,
		snapshot.SampleCount,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save model snapshot: %w", err)
	}

	slog.Debug("saved model snapshot",
		"owner_id", ownerID,
		"sample_count", snapshot.SampleCount)
	return nil
}

// Delete removes the user's model snapshot if one exists.
func (s *SQLiteStorage) Delete(ctx context.Context, ownerID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM model_snapshots WHERE owner_id = ?`, ownerID,
	); err != nil {
		return fmt.Errorf("failed to delete model snapshot: %w", err)
	}
	return nil
}
