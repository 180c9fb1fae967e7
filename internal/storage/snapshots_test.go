package storage

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/mintleaf-fin/mintleaf/internal/model"
)

func testSnapshot(sampleCount int) *model.Snapshot {
	return &model.Snapshot{
		Version:     model.SnapshotVersion,
		Payload:     []byte("opaque classifier bytes"),
		TrainedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		SampleCount: sampleCount,
	}
}

func TestSnapshotLoadAbsent(t *testing.T) {
	store := createTestStorage(t)

	snapshot, err := store.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snapshot != nil {
		t.Error("expected nil snapshot for an untrained user")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	saved := testSnapshot(25)
	if err := store.Save(ctx, 1, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a snapshot")
	}
	if !bytes.Equal(loaded.Payload, saved.Payload) {
		t.Error("payload did not round-trip")
	}
	if loaded.SampleCount != 25 {
		t.Errorf("got sample count %d, want 25", loaded.SampleCount)
	}
	if loaded.Version != model.SnapshotVersion {
		t.Errorf("got version %d, want %d", loaded.Version, model.SnapshotVersion)
	}
	if !loaded.TrainedAt.Equal(saved.TrainedAt) {
		t.Errorf("got trained_at %v, want %v", loaded.TrainedAt, saved.TrainedAt)
	}
}

func TestSnapshotSaveOverwrites(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.Save(ctx, 1, testSnapshot(10)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, 1, testSnapshot(40)); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.SampleCount != 40 {
		t.Errorf("got sample count %d, want the newer 40", loaded.SampleCount)
	}
}

func TestSnapshotPerUser(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.Save(ctx, 1, testSnapshot(10)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	other, err := store.Load(ctx, 2)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if other != nil {
		t.Error("snapshot must not leak across users")
	}
}

func TestSnapshotDelete(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.Save(ctx, 1, testSnapshot(10)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	loaded, err := store.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Error("expected snapshot to be gone after delete")
	}

	// Deleting an absent snapshot is not an error.
	if err := store.Delete(ctx, 1); err != nil {
		t.Errorf("Delete of absent snapshot failed: %v", err)
	}
}

func TestSnapshotSaveValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		snapshot *model.Snapshot
		name     string
	}{
		{name: "nil snapshot", snapshot: nil},
		{name: "empty payload", snapshot: &model.Snapshot{Version: 1, TrainedAt: time.Now()}},
		{name: "missing version", snapshot: &model.Snapshot{Payload: []byte("x"), TrainedAt: time.Now()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Save(ctx, 1, tt.snapshot); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
