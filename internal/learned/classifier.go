// Package learned implements the supervised per-user expense classifier.
// It trains a TF-IDF naive Bayes model on the user's own categorized
// history and persists the trained state as an opaque versioned snapshot.
package learned

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/jbrukh/bayesian"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/service"
)

const (
	// minCorpus is the minimum total labeled expenses before any training
	// is attempted.
	minCorpus = 10

	// minPerCategory is the minimum samples a category needs to take part
	// in a training pass. Categories below it are excluded from the label
	// set entirely, which keeps the model from collapsing onto a single
	// majority label.
	minPerCategory = 3

	// minCategories is the minimum number of usable categories.
	minCategories = 2

	// accuracyMinSamples is the corpus size from which a 20% holdout
	// accuracy estimate is computed. Below it the estimate would be
	// meaningless, so none is reported.
	accuracyMinSamples = 20

	// holdoutFraction of the corpus reserved for the accuracy estimate.
	holdoutFraction = 0.2

	// holdoutSeed keeps the train/test split reproducible.
	holdoutSeed = 42

	// DefaultMinTotal is the corpus size that triggers a first training.
	DefaultMinTotal = 20

	// DefaultMinNew is how many expenses must accumulate after a training
	// pass before the model is considered stale.
	DefaultMinNew = 10
)

// Classifier is the per-user learned classifier. State is loaded lazily
// from the ModelStore on first use and kept for the session.
type Classifier struct {
	storage service.Storage
	store   service.ModelStore
	state   *trainedState
	ownerID int64
	loaded  bool
	mu      sync.Mutex
}

// NewClassifier creates a learned classifier for one user.
func NewClassifier(ownerID int64, storage service.Storage, store service.ModelStore) *Classifier {
	return &Classifier{
		ownerID: ownerID,
		storage: storage,
		store:   store,
	}
}

type document struct {
	label  string
	tokens []string
}

// Train refits the model on the user's complete current history and
// persists a replacement snapshot. Too small a corpus, or too few
// categories with enough samples, produces a failed TrainingResult rather
// than an error; errors are reserved for persistence failures, which
// leave the previous snapshot untouched.
func (c *Classifier) Train(ctx context.Context) (model.TrainingResult, error) {
	expenses, err := c.storage.ListExpenses(ctx, c.ownerID, service.ExpenseFilter{})
	if err != nil {
		return model.TrainingResult{}, fmt.Errorf("failed to load training corpus: %w", err)
	}

	if len(expenses) < minCorpus {
		return model.TrainingResult{
			SampleCount: len(expenses),
			Message:     fmt.Sprintf("not enough expenses to train (minimum %d required)", minCorpus),
		}, nil
	}

	labelIDs, names, err := c.labelSet(ctx)
	if err != nil {
		return model.TrainingResult{}, err
	}

	// Expenses whose category has vanished or gone inactive drop out of
	// the corpus here.
	var docs []document
	counts := make(map[string]int)
	for _, e := range expenses {
		label, ok := names[e.CategoryID]
		if !ok {
			continue
		}
		docs = append(docs, document{label: label, tokens: Tokenize(e.CombinedText())})
		counts[label]++
	}

	usable := make(map[string]bool)
	for label, n := range counts {
		if n >= minPerCategory {
			usable[label] = true
		}
	}
	if len(usable) < minCategories {
		return model.TrainingResult{
			SampleCount: len(docs),
			Message: fmt.Sprintf("need at least %d categories with %d+ samples each",
				minCategories, minPerCategory),
		}, nil
	}

	filtered := docs[:0]
	for _, d := range docs {
		if usable[d.label] {
			filtered = append(filtered, d)
		}
	}

	classes := make([]bayesian.Class, 0, len(usable))
	trainedLabels := make(map[string]int64, len(usable))
	for label := range usable {
		classes = append(classes, bayesian.Class(label))
		trainedLabels[label] = labelIDs[label]
	}

	var accuracy float64
	accuracyKnown := false
	if len(filtered) >= accuracyMinSamples {
		accuracy = estimateAccuracy(filtered, classes)
		accuracyKnown = true
	}

	final := fit(filtered, classes)

	state := &trainedState{
		classifier:  final,
		labelIDs:    trainedLabels,
		trainedAt:   time.Now().UTC(),
		sampleCount: len(filtered),
	}

	snap, err := encodeSnapshot(state)
	if err != nil {
		return model.TrainingResult{}, err
	}
	if err := c.store.Save(ctx, c.ownerID, snap); err != nil {
		return model.TrainingResult{}, fmt.Errorf("failed to persist model snapshot: %w", err)
	}

	c.mu.Lock()
	c.state = state
	c.loaded = true
	c.mu.Unlock()

	slog.Info("trained classifier",
		"owner_id", c.ownerID,
		"samples", len(filtered),
		"categories", len(classes),
		"accuracy_known", accuracyKnown)

	return model.TrainingResult{
		Success:       true,
		SampleCount:   len(filtered),
		Accuracy:      accuracy,
		AccuracyKnown: accuracyKnown,
	}, nil
}

// fit trains a TF-IDF naive Bayes classifier over the documents.
func fit(docs []document, classes []bayesian.Class) *bayesian.Classifier {
	classifier := bayesian.NewClassifierTfIdf(classes...)
	for _, d := range docs {
		if len(d.tokens) == 0 {
			continue
		}
		classifier.Learn(d.tokens, bayesian.Class(d.label))
	}
	classifier.ConvertTermsFreqToTfIdf()
	return classifier
}

// estimateAccuracy holds out 20% of the corpus, trains on the rest, and
// scores the holdout. The shuffle is seeded so the estimate is
// reproducible across runs.
func estimateAccuracy(docs []document, classes []bayesian.Class) float64 {
	shuffled := make([]document, len(docs))
	copy(shuffled, docs)
	rng := rand.New(rand.NewSource(holdoutSeed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testN := int(float64(len(shuffled)) * holdoutFraction)
	if testN == 0 {
		return 0
	}
	test := shuffled[:testN]
	train := shuffled[testN:]

	classifier := fit(train, classes)

	correct := 0
	scored := 0
	for _, d := range test {
		if len(d.tokens) == 0 {
			continue
		}
		scored++
		_, inx, _ := classifier.LogScores(d.tokens)
		if string(classifier.Classes[inx]) == d.label {
			correct++
		}
	}
	if scored == 0 {
		return 0
	}
	return float64(correct) / float64(scored)
}

// Predict scores text against the trained model. The result's OK field is
// false when no usable model exists or the model cannot score the input;
// neither condition is an error, the caller falls back to keywords.
func (c *Classifier) Predict(ctx context.Context, text string) (model.Prediction, error) {
	state, err := c.load(ctx)
	if err != nil {
		return model.Prediction{}, err
	}
	if state == nil {
		return model.Prediction{}, nil
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return model.Prediction{}, nil
	}

	scores, inx, _, err := state.classifier.SafeProbScores(tokens)
	if err != nil {
		// Numeric underflow on a pathological input. Treat as
		// unclassifiable rather than failing the request.
		slog.Debug("prediction underflow", "owner_id", c.ownerID, "error", err)
		return model.Prediction{}, nil
	}

	probabilities := make(map[string]float64, len(scores))
	for i, class := range state.classifier.Classes {
		probabilities[string(class)] = scores[i]
	}

	best := string(state.classifier.Classes[inx])
	categoryID, ok := state.labelIDs[best]
	if !ok || categoryID == 0 {
		return model.Prediction{}, nil
	}

	return model.Prediction{
		OK:            true,
		CategoryID:    categoryID,
		Category:      best,
		Confidence:    scores[inx],
		Probabilities: probabilities,
	}, nil
}

// NeedsTraining reports whether a (re)training pass is due: a first
// training once minTotal expenses exist, or a retrain once minNew
// expenses accumulated since the last pass.
func (c *Classifier) NeedsTraining(ctx context.Context, minTotal, minNew int) (bool, error) {
	if minTotal <= 0 {
		minTotal = DefaultMinTotal
	}
	if minNew <= 0 {
		minNew = DefaultMinNew
	}

	total, err := c.storage.CountExpenses(ctx, c.ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to count expenses: %w", err)
	}

	state, err := c.load(ctx)
	if err != nil {
		return false, err
	}

	if state == nil {
		return total >= minTotal, nil
	}
	return total-state.sampleCount >= minNew, nil
}

// State reports the classifier lifecycle state for this user.
func (c *Classifier) State(ctx context.Context) (model.TrainingState, error) {
	state, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	if state == nil {
		return model.StateUntrained, nil
	}

	stale, err := c.NeedsTraining(ctx, DefaultMinTotal, DefaultMinNew)
	if err != nil {
		return "", err
	}
	if stale {
		return model.StateStale, nil
	}
	return model.StateTrained, nil
}

// TrainedAt returns the timestamp of the last successful training pass,
// or the zero time when untrained.
func (c *Classifier) TrainedAt(ctx context.Context) (time.Time, error) {
	state, err := c.load(ctx)
	if err != nil || state == nil {
		return time.Time{}, err
	}
	return state.trainedAt, nil
}

// load returns the decoded trained state, loading it from the store on
// first call. A missing, corrupt, or version-incompatible snapshot yields
// a nil state: classification degrades to keywords instead of failing.
func (c *Classifier) load(ctx context.Context) (*trainedState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.state, nil
	}

	snap, err := c.store.Load(ctx, c.ownerID)
	if err != nil {
		slog.Warn("failed to load model snapshot, treating as untrained",
			"owner_id", c.ownerID,
			"error", err)
		c.loaded = true
		return nil, nil
	}
	if snap == nil {
		c.loaded = true
		return nil, nil
	}

	state, err := decodeSnapshot(snap)
	if err != nil {
		slog.Warn("unreadable model snapshot, treating as untrained",
			"owner_id", c.ownerID,
			"error", err)
		c.loaded = true
		return nil, nil
	}

	c.state = state
	c.loaded = true
	return c.state, nil
}

// labelSet loads the user's visible categories and returns both
// directions of the name/id mapping. When a user-owned category shadows a
// shared default of the same name, the user-owned id wins for the
// name→id direction; the id→name direction keeps every id so expenses
// filed under either copy still contribute to training.
func (c *Classifier) labelSet(ctx context.Context) (map[string]int64, map[int64]string, error) {
	categories, err := c.storage.GetCategories(ctx, c.ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load categories: %w", err)
	}

	labels := make(map[string]int64, len(categories))
	names := make(map[int64]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
		if _, exists := labels[cat.Name]; exists && cat.IsShared() {
			continue
		}
		labels[cat.Name] = cat.ID
	}
	return labels, names, nil
}
