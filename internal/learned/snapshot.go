package learned

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/jbrukh/bayesian"
	"github.com/mintleaf-fin/mintleaf/internal/model"
)

// snapshotPayload is the encoded body of a model snapshot: the serialized
// bayesian classifier plus the label set it was trained against, mapped to
// category ids.
type snapshotPayload struct {
	LabelIDs   map[string]int64
	Classifier []byte
}

// trainedState is the decoded, in-memory form of a snapshot.
type trainedState struct {
	classifier  *bayesian.Classifier
	labelIDs    map[string]int64
	trainedAt   time.Time
	sampleCount int
}

// encodeSnapshot packages a trained classifier into a persistable
// snapshot.
func encodeSnapshot(state *trainedState) (*model.Snapshot, error) {
	var clsBuf bytes.Buffer
	if err := state.classifier.WriteGob(&clsBuf); err != nil {
		return nil, fmt.Errorf("failed to serialize classifier: %w", err)
	}

	var payload bytes.Buffer
	err := gob.NewEncoder(&payload).Encode(snapshotPayload{
		LabelIDs:   state.labelIDs,
		Classifier: clsBuf.Bytes(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot payload: %w", err)
	}

	return &model.Snapshot{
		Version:     model.SnapshotVersion,
		TrainedAt:   state.trainedAt,
		SampleCount: state.sampleCount,
		Payload:     payload.Bytes(),
	}, nil
}

// decodeSnapshot restores a trained classifier from a snapshot. An
// unknown version or an undecodable payload is an error; the caller
// treats either as having no trained model.
func decodeSnapshot(snap *model.Snapshot) (*trainedState, error) {
	if snap.Version != model.SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	var payload snapshotPayload
	if err := gob.NewDecoder(bytes.NewReader(snap.Payload)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot payload: %w", err)
	}
	if len(payload.Classifier) == 0 || len(payload.LabelIDs) == 0 {
		return nil, fmt.Errorf("snapshot payload is incomplete")
	}

	classifier, err := bayesian.NewClassifierFromReader(bytes.NewReader(payload.Classifier))
	if err != nil {
		return nil, fmt.Errorf("failed to restore classifier: %w", err)
	}

	return &trainedState{
		classifier:  classifier,
		labelIDs:    payload.LabelIDs,
		trainedAt:   snap.TrainedAt,
		sampleCount: snap.SampleCount,
	}, nil
}
