// Package engine orchestrates expense classification: the learned
// classifier first when it is trained and confident, the keyword
// classifier otherwise.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/keyword"
	"github.com/mintleaf-fin/mintleaf/internal/learned"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/service"
)

// Config holds configuration options for the classification engine.
type Config struct {
	// ConfidenceThreshold is the minimum learned-classifier confidence
	// for accepting its prediction instead of falling back to keywords.
	ConfidenceThreshold float64

	// MinTotalSamples and MinNewSamples parameterize the retraining
	// decision; see learned.Classifier.NeedsTraining.
	MinTotalSamples int
	MinNewSamples   int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.6,
		MinTotalSamples:     learned.DefaultMinTotal,
		MinNewSamples:       learned.DefaultMinNew,
	}
}

// Engine classifies expenses for a single user.
type Engine struct {
	keyword *keyword.Classifier
	learned *learned.Classifier
	config  Config
	ownerID int64
}

// New creates an engine for one user. Passing a nil model store disables
// the learned path entirely; classification then always uses keywords.
func New(ownerID int64, storage service.Storage, modelStore service.ModelStore) *Engine {
	return NewWithConfig(ownerID, storage, modelStore, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(ownerID int64, storage service.Storage, modelStore service.ModelStore, config Config) *Engine {
	if config.ConfidenceThreshold <= 0 {
		config.ConfidenceThreshold = DefaultConfig().ConfidenceThreshold
	}

	e := &Engine{
		keyword: keyword.NewClassifier(storage),
		config:  config,
		ownerID: ownerID,
	}
	if modelStore != nil {
		e.learned = learned.NewClassifier(ownerID, storage, modelStore)
	}
	return e
}

// Classify assigns a category to the given title and optional
// description. The learned classifier is consulted first; its prediction
// is accepted when its confidence meets the threshold. Any learned-path
// failure or low-confidence prediction degrades silently to the keyword
// classifier. A zero CategoryID in the result means even the fallback
// category is missing and the caller must prompt the user.
func (e *Engine) Classify(ctx context.Context, title, description string) (model.ClassificationResult, error) {
	if strings.TrimSpace(title) == "" {
		return model.ClassificationResult{}, fmt.Errorf("%w: title is empty", common.ErrInvalidInput)
	}

	text := model.CombinedText(title, description)

	if e.learned != nil {
		pred, err := e.learned.Predict(ctx, text)
		if err != nil {
			// Learned-path failures must never surface; keywords always
			// produce an answer.
			slog.Warn("learned prediction failed, falling back to keywords",
				"owner_id", e.ownerID,
				"error", err)
		} else if pred.OK {
			if pred.Confidence >= e.config.ConfidenceThreshold {
				slog.Debug("classified by learned model",
					"category", pred.Category,
					"confidence", pred.Confidence)
				return model.ClassificationResult{
					CategoryID: pred.CategoryID,
					Method:     model.MethodML,
					Confidence: pred.Confidence,
				}, nil
			}
			slog.Debug("learned confidence below threshold, using keywords",
				"confidence", pred.Confidence,
				"threshold", e.config.ConfidenceThreshold)
		}
	}

	categoryID, err := e.keyword.Classify(ctx, e.ownerID, text)
	if err != nil {
		return model.ClassificationResult{}, err
	}

	return model.ClassificationResult{
		CategoryID: categoryID,
		Method:     model.MethodKeyword,
	}, nil
}

// Train refits the learned classifier on the user's full current history.
func (e *Engine) Train(ctx context.Context) (model.TrainingResult, error) {
	if e.learned == nil {
		return model.TrainingResult{Message: "learned classification is disabled"}, nil
	}
	return e.learned.Train(ctx)
}

// ShouldRetrain reports whether a training pass is due. Always false when
// the learned path is disabled.
func (e *Engine) ShouldRetrain(ctx context.Context) (bool, error) {
	if e.learned == nil {
		return false, nil
	}
	return e.learned.NeedsTraining(ctx, e.config.MinTotalSamples, e.config.MinNewSamples)
}

// State reports the learned classifier's lifecycle state.
func (e *Engine) State(ctx context.Context) (model.TrainingState, error) {
	if e.learned == nil {
		return model.StateUntrained, nil
	}
	return e.learned.State(ctx)
}
