package storage

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mintleaf-fin/mintleaf/internal/model"
)

// FileModelStore persists model snapshots as one file per user under a
// directory. Writes go to a temporary file first and are published with a
// rename, so readers never observe a torn snapshot.
type FileModelStore struct {
	dir string
}

// NewFileModelStore creates a file-backed snapshot store rooted at dir.
func NewFileModelStore(dir string) (*FileModelStore, error) {
	if err := validateString(dir, "dir"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}
	return &FileModelStore{dir: dir}, nil
}

func (f *FileModelStore) path(ownerID int64) string {
	return filepath.Join(f.dir, fmt.Sprintf("classifier_user_%d.model", ownerID))
}

// Load reads a user's snapshot, or returns (nil, nil) when absent. A file
// that exists but cannot be decoded is reported as an error; callers treat
// that the same as having no model.
func (f *FileModelStore) Load(ctx context.Context, ownerID int64) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(ownerID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode model snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot to a temp file in the same directory, syncs
// it, then renames it over the previous one.
func (f *FileModelStore) Save(ctx context.Context, ownerID int64, snapshot *model.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode model snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	// Flush to disk before the rename so a crash cannot publish a
	// truncated snapshot.
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	if err := os.Rename(tmpName, f.path(ownerID)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	slog.Debug("saved model snapshot file",
		"owner_id", ownerID,
		"sample_count", snapshot.SampleCount)
	return nil
}

// Delete removes a user's snapshot file if one exists.
func (f *FileModelStore) Delete(ctx context.Context, ownerID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	err := os.Remove(f.path(ownerID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete model snapshot: %w", err)
	}
	return nil
}
