// Package importer runs batch statement imports: each parsed candidate is
// duplicate-checked and classified, then inserted; the learned classifier
// is retrained at most once after the whole batch.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mintleaf-fin/mintleaf/internal/dedupe"
	"github.com/mintleaf-fin/mintleaf/internal/engine"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/service"
)

// Result summarizes one import batch.
type Result struct {
	BatchID    string
	Imported   int
	Duplicates int
	Unmatched  int
	Retrained  bool
	Training   model.TrainingResult
}

// Progress is called after each processed candidate. Used by the CLI to
// drive a progress bar; nil is fine.
type Progress func(done, total int)

// Importer wires the detector and engine into a batch pipeline.
type Importer struct {
	storage  service.Storage
	detector *dedupe.Detector
	engine   *engine.Engine
	ownerID  int64
}

// New creates an importer for one user.
func New(ownerID int64, storage service.Storage, detector *dedupe.Detector, eng *engine.Engine) *Importer {
	return &Importer{
		storage:  storage,
		detector: detector,
		engine:   eng,
		ownerID:  ownerID,
	}
}

// Import processes candidates in order. Duplicates are skipped, not
// inserted. Candidates that cannot be classified (no fallback category)
// are counted as unmatched and skipped. After the batch, the engine is
// asked once whether a retrain is due and, if so, retrained inline.
func (im *Importer) Import(ctx context.Context, candidates []model.Candidate, progress Progress) (*Result, error) {
	result := &Result{BatchID: uuid.NewString()}

	slog.Info("starting statement import",
		"batch_id", result.BatchID,
		"owner_id", im.ownerID,
		"candidates", len(candidates))

	for i, cand := range candidates {
		if err := im.importOne(ctx, cand, result); err != nil {
			return nil, fmt.Errorf("import failed at row %d (%q): %w", i+1, cand.Title, err)
		}
		if progress != nil {
			progress(i+1, len(candidates))
		}
	}

	// Retrain once for the whole batch, never per row.
	due, err := im.engine.ShouldRetrain(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check retraining: %w", err)
	}
	if due {
		training, err := im.engine.Train(ctx)
		if err != nil {
			return nil, fmt.Errorf("post-import training failed: %w", err)
		}
		result.Retrained = training.Success
		result.Training = training
	}

	slog.Info("statement import complete",
		"batch_id", result.BatchID,
		"imported", result.Imported,
		"duplicates", result.Duplicates,
		"unmatched", result.Unmatched,
		"retrained", result.Retrained)

	return result, nil
}

func (im *Importer) importOne(ctx context.Context, cand model.Candidate, result *Result) error {
	decision, err := im.detector.IsDuplicate(ctx, im.ownerID, cand, dedupe.DefaultThreshold)
	if err != nil {
		return err
	}
	if decision.IsDuplicate {
		slog.Debug("skipping duplicate",
			"title", cand.Title,
			"matched_id", decision.MatchedID,
			"score", decision.Score)
		result.Duplicates++
		return nil
	}

	classification, err := im.engine.Classify(ctx, cand.Title, cand.Description)
	if err != nil {
		return err
	}
	if !classification.Classified() {
		result.Unmatched++
		return nil
	}

	expense := model.Expense{
		OwnerID:     im.ownerID,
		Title:       cand.Title,
		Description: cand.Description,
		Amount:      cand.Amount,
		Date:        cand.Date,
		CategoryID:  classification.CategoryID,
	}
	if err := im.storage.SaveExpense(ctx, &expense); err != nil {
		return err
	}

	result.Imported++
	return nil
}
