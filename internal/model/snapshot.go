package model

import "time"

// SnapshotVersion is the current model snapshot format version. Snapshots
// carrying an unknown version are treated as unreadable, which downgrades
// classification to the keyword method rather than failing.
const SnapshotVersion = 1

// Snapshot is a persisted trained-classifier state for one user. Payload
// is an opaque encoded blob owned by the learned package; the surrounding
// metadata is kept unencoded so stores can report on it cheaply.
//
// A snapshot is always written as a complete replacement of any previous
// one. SampleCount reflects the exact number of expenses used in the most
// recent successful training pass.
type Snapshot struct {
	TrainedAt   time.Time
	Payload     []byte
	Version     int
	SampleCount int
}
