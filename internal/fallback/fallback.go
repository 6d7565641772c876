/*
Package fallback supplies the fixed synthetic data served when the
persistent store is unreachable.

Every value is shaped like its live-store counterpart so that clients
cannot tell the two apart structurally.
*/
package fallback

import (
	"time"

	"github.com/arise-learning/arise/internal/storage"
)

// DemoStudentID is the student used by the synthetic datasets.
const DemoStudentID = "24KQ1A5444"

// Logs returns the synthetic raw interaction logs analyzed when the store
// is unavailable.
func Logs() []storage.InteractionLog {
	return []storage.InteractionLog{
		{StudentID: "24KQ1A5444", ResponseTime: 15.2, Attempts: 1.8, Correct: 0.85, Marks: mark(85)},
		{StudentID: "24KQ1A5445", ResponseTime: 18.5, Attempts: 2.1, Correct: 0.78, Marks: mark(78)},
		{StudentID: "24KQ1A5446", ResponseTime: 12.3, Attempts: 1.5, Correct: 0.92, Marks: mark(92)},
		{StudentID: "24KQ1A5447", ResponseTime: 20.1, Attempts: 2.5, Correct: 0.70, Marks: mark(70)},
	}
}

// Assignment mirrors one row of an analysis response.
type Assignment struct {
	StudentID       string
	AvgResponseTime float64
	AvgAttempts     float64
	Accuracy        float64
	Cluster         int
	Recommendation  string
}

// Analysis returns the fixed result served when a reachable store holds no
// logs to analyze.
func Analysis() []Assignment {
	return []Assignment{
		{StudentID: "24KQ1A5444", AvgResponseTime: 15.2, AvgAttempts: 1.8, Accuracy: 0.85, Cluster: 0, Recommendation: "Advanced challenge questions recommended"},
		{StudentID: "24KQ1A5445", AvgResponseTime: 18.5, AvgAttempts: 2.1, Accuracy: 0.78, Cluster: 1, Recommendation: "Practice timed quizzes"},
	}
}

// History returns a five-day synthetic series for studentID, oldest first.
func History(studentID string, now time.Time) []storage.Snapshot {
	series := []struct {
		daysAgo      int
		accuracy     float64
		responseTime float64
	}{
		{5, 0.75, 18},
		{4, 0.80, 16},
		{3, 0.82, 15},
		{2, 0.85, 14},
		{1, 0.85, 15},
	}

	snaps := make([]storage.Snapshot, 0, len(series))
	for i, p := range series {
		snaps = append(snaps, storage.Snapshot{
			ID:              int64(i + 1),
			StudentID:       studentID,
			AvgResponseTime: p.responseTime,
			AvgAttempts:     1.8,
			Accuracy:        p.accuracy,
			Cluster:         0,
			Recommendation:  "Advanced challenge questions recommended",
			RecordedAt:      now.AddDate(0, 0, -p.daysAgo),
		})
	}
	return snaps
}

// StudentSnapshot returns the single synthetic snapshot used by per-student
// lookups.
func StudentSnapshot(studentID string) storage.Snapshot {
	return storage.Snapshot{
		StudentID:       studentID,
		AvgResponseTime: 15.2,
		AvgAttempts:     1.8,
		Accuracy:        0.85,
		Cluster:         0,
		Recommendation:  "Advanced challenge questions recommended",
	}
}

// StudentMarks returns the synthetic marks used by per-student lookups.
func StudentMarks() []int {
	return []int{85}
}

// Marks returns the synthetic marks list served when the store is
// unavailable.
func Marks() []int {
	return []int{85, 78, 92, 88, 76, 82, 90, 79, 81, 86, 75, 89, 84, 77, 91}
}

// DegradedMarks is served when a reachable store fails the marks query.
func DegradedMarks() []int {
	return []int{85, 78, 92, 88, 76, 82, 90, 79}
}

// Dataset is the bulk export shape.
type Dataset struct {
	BehaviorHistory []storage.Snapshot       `json:"behavior_history"`
	Logs            []storage.InteractionLog `json:"logs"`
	Marks           []int                    `json:"marks"`
}

// Export returns the synthetic bulk export.
func Export(now time.Time) Dataset {
	return Dataset{
		BehaviorHistory: []storage.Snapshot{
			{
				ID:              1,
				StudentID:       "24KQ1A5444",
				AvgResponseTime: 15.2,
				AvgAttempts:     1.8,
				Accuracy:        0.85,
				Cluster:         0,
				Recommendation:  "Advanced challenge questions recommended",
				RecordedAt:      now.AddDate(0, 0, -5),
			},
			{
				ID:              2,
				StudentID:       "24KQ1A5445",
				AvgResponseTime: 18.5,
				AvgAttempts:     2.1,
				Accuracy:        0.78,
				Cluster:         1,
				Recommendation:  "Practice timed quizzes",
				RecordedAt:      now.AddDate(0, 0, -3),
			},
		},
		Logs: []storage.InteractionLog{
			{ID: 1, StudentID: "24KQ1A5444", ResponseTime: 14.5, Attempts: 1, Correct: 1, Marks: mark(85), LoggedAt: now.AddDate(0, 0, -1)},
			{ID: 2, StudentID: "24KQ1A5445", ResponseTime: 19.2, Attempts: 2, Correct: 1, Marks: mark(78), LoggedAt: now.AddDate(0, 0, -2)},
		},
		Marks: []int{85, 78, 92, 88, 76, 82, 90, 79},
	}
}

// Empty returns an export with empty, non-nil collections.
func Empty() Dataset {
	return Dataset{
		BehaviorHistory: []storage.Snapshot{},
		Logs:            []storage.InteractionLog{},
		Marks:           []int{},
	}
}

func mark(v int) *int { return &v }
