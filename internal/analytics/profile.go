/*
Package analytics turns raw interaction logs into behavior profiles,
clusters students into behavior groups and attaches a recommendation.

Pipeline:
  raw logs → Aggregate → Classify (whiten + k-means) → Recommend → Recorder
*/
package analytics

import "github.com/arise-learning/arise/internal/storage"

// BehaviorProfile holds a student's averaged interaction metrics.
type BehaviorProfile struct {
	StudentID       string  `json:"student_id"`
	AvgResponseTime float64 `json:"avg_response_time"`
	AvgAttempts     float64 `json:"avg_attempts"`
	Accuracy        float64 `json:"accuracy"`
}

// ClusterAssignment is a profile with its cluster label and recommendation.
type ClusterAssignment struct {
	BehaviorProfile
	Cluster        int    `json:"cluster"`
	Recommendation string `json:"recommendation"`
}

// Snapshot converts the assignment into a history row for runID.
func (a ClusterAssignment) Snapshot(runID string) storage.Snapshot {
	return storage.Snapshot{
		RunID:           runID,
		StudentID:       a.StudentID,
		AvgResponseTime: a.AvgResponseTime,
		AvgAttempts:     a.AvgAttempts,
		Accuracy:        a.Accuracy,
		Cluster:         a.Cluster,
		Recommendation:  a.Recommendation,
	}
}
