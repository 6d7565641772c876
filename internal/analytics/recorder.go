package analytics

import (
	"context"

	"github.com/arise-learning/arise/internal/metrics"
	"github.com/arise-learning/arise/internal/storage"
	"go.uber.org/zap"
)

// Recorder persists one history snapshot per assignment.
type Recorder struct {
	store  storage.Storage
	logger *zap.Logger
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store storage.Storage, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger}
}

// Record appends a snapshot of a for runID.
//
// When the store is unavailable it does nothing and returns (nil, nil); the
// caller still owns a valid assignment. Query failures are returned.
func (r *Recorder) Record(ctx context.Context, runID string, a ClusterAssignment) (*storage.Snapshot, error) {
	if r.store == nil {
		return nil, nil
	}

	snap, err := r.store.RecordSnapshot(ctx, a.Snapshot(runID))
	switch {
	case err == nil:
		metrics.SnapshotsRecorded.Inc()
		return &snap, nil
	case storage.IsUnavailable(err):
		r.logger.Debug("snapshot not persisted, store unavailable", zap.String("student_id", a.StudentID))
		return nil, nil
	default:
		return nil, err
	}
}
