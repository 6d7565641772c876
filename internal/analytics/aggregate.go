package analytics

import (
	"sort"

	"github.com/arise-learning/arise/internal/storage"
)

// Aggregate groups logs by exact student ID and averages response time,
// attempts and correctness. Profiles are sorted by student ID.
func Aggregate(logs []storage.InteractionLog) []BehaviorProfile {
	if len(logs) == 0 {
		return []BehaviorProfile{}
	}

	// Running means stay finite for any finite input, where plain sums of
	// values near math.MaxFloat64 would overflow.
	type means struct {
		responseTime float64
		attempts     float64
		correct      float64
		n            int
	}

	groups := make(map[string]*means)
	for _, l := range logs {
		g, ok := groups[l.StudentID]
		if !ok {
			g = &means{}
			groups[l.StudentID] = g
		}
		g.n++
		n := float64(g.n)
		g.responseTime += (l.ResponseTime - g.responseTime) / n
		g.attempts += (l.Attempts - g.attempts) / n
		g.correct += (l.Correct - g.correct) / n
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	profiles := make([]BehaviorProfile, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		profiles = append(profiles, BehaviorProfile{
			StudentID:       id,
			AvgResponseTime: g.responseTime,
			AvgAttempts:     g.attempts,
			Accuracy:        g.correct,
		})
	}
	return profiles
}
