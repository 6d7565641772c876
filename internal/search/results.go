/*
Package search implements full-text search over student behavior.

Each student's latest history snapshot is indexed in an in-memory Bleve
index. Queries match recommendation text or exact student IDs and can be
restricted to one cluster.
*/
package search

import (
	"time"

	"github.com/arise-learning/arise/internal/storage"
)

// SearchResult represents a single search result with relevance score.
type SearchResult struct {
	StudentID       string  `json:"student_id"`
	Recommendation  string  `json:"recommendation"`
	Cluster         int     `json:"cluster"`
	Accuracy        float64 `json:"accuracy"`
	AvgResponseTime float64 `json:"avg_response_time"`
	Score           float64 `json:"score"`
}

// StudentDocument is a snapshot as stored in the search index.
type StudentDocument struct {
	StudentID       string    `json:"student_id"`
	Recommendation  string    `json:"recommendation"`
	Cluster         float64   `json:"cluster"`
	Accuracy        float64   `json:"accuracy"`
	AvgResponseTime float64   `json:"avg_response_time"`
	RecordedAt      time.Time `json:"recorded_at"`
}

func newStudentDocument(s storage.Snapshot) StudentDocument {
	return StudentDocument{
		StudentID:       s.StudentID,
		Recommendation:  s.Recommendation,
		Cluster:         float64(s.Cluster),
		Accuracy:        s.Accuracy,
		AvgResponseTime: s.AvgResponseTime,
		RecordedAt:      s.RecordedAt,
	}
}

// latestPerStudent keeps the newest snapshot of each student. Ties on
// RecordedAt go to the higher ID.
func latestPerStudent(snaps []storage.Snapshot) map[string]storage.Snapshot {
	latest := make(map[string]storage.Snapshot)
	for _, s := range snaps {
		cur, ok := latest[s.StudentID]
		if !ok || s.RecordedAt.After(cur.RecordedAt) ||
			(s.RecordedAt.Equal(cur.RecordedAt) && s.ID > cur.ID) {
			latest[s.StudentID] = s
		}
	}
	return latest
}
