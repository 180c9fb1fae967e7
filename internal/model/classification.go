package model

// ClassificationMethod identifies which classifier produced a category.
type ClassificationMethod string

const (
	// MethodML means the learned classifier produced the category with
	// sufficient confidence.
	MethodML ClassificationMethod = "ml"
	// MethodKeyword means the keyword classifier produced the category.
	MethodKeyword ClassificationMethod = "keyword"
)

// ClassificationResult is the outcome of classifying a candidate.
// CategoryID is zero only when even the fallback category is absent, in
// which case the caller must prompt for a manual selection.
type ClassificationResult struct {
	Method     ClassificationMethod
	Confidence float64
	CategoryID int64
}

// Classified reports whether a category was assigned.
func (r ClassificationResult) Classified() bool {
	return r.CategoryID != 0
}

// Prediction is the result of asking the learned classifier for a
// category. OK is false when no trained model exists or the model could
// not score the input; the caller is expected to branch on it rather than
// treat the condition as an error.
type Prediction struct {
	Probabilities map[string]float64
	Category      string
	Confidence    float64
	CategoryID    int64
	OK            bool
}

// TrainingResult reports the outcome of a training pass. A failed pass
// (too few samples, too few categories) is a normal result, not an error.
type TrainingResult struct {
	Message       string
	SampleCount   int
	Accuracy      float64
	AccuracyKnown bool
	Success       bool
}

// DuplicateDecision is the outcome of a single duplicate check. It is
// returned synchronously and never persisted.
type DuplicateDecision struct {
	Score       float64
	MatchedID   int64
	IsDuplicate bool
}

// DuplicatePair is one entry in a batch duplicate scan, ordered by
// descending similarity score.
type DuplicatePair struct {
	A     Expense
	B     Expense
	Score float64
}

// TrainingState describes the lifecycle of a per-user learned classifier.
type TrainingState string

const (
	// StateUntrained means no model snapshot exists for the user yet.
	StateUntrained TrainingState = "untrained"
	// StateTrained means a current model snapshot exists.
	StateTrained TrainingState = "trained"
	// StateStale means a snapshot exists but enough new expenses have
	// accumulated that a retrain is due.
	StateStale TrainingState = "stale"
)
