package analytics

import "testing"

func TestRecommend(t *testing.T) {
	tests := []struct {
		name    string
		profile BehaviorProfile
		want    string
	}{
		{"low accuracy wins over everything", BehaviorProfile{Accuracy: 0.4, AvgResponseTime: 30, AvgAttempts: 5}, RecommendFundamentals},
		{"slow responder", BehaviorProfile{Accuracy: 0.9, AvgResponseTime: 25, AvgAttempts: 5}, RecommendTimedQuizzes},
		{"many attempts", BehaviorProfile{Accuracy: 0.9, AvgResponseTime: 10, AvgAttempts: 2.5}, RecommendHints},
		{"strong student", BehaviorProfile{Accuracy: 0.9, AvgResponseTime: 10, AvgAttempts: 1}, RecommendAdvanced},
		{"accuracy boundary is not low", BehaviorProfile{Accuracy: 0.5, AvgResponseTime: 10, AvgAttempts: 1}, RecommendAdvanced},
		{"response boundary is not slow", BehaviorProfile{Accuracy: 0.9, AvgResponseTime: 20, AvgAttempts: 1}, RecommendAdvanced},
		{"attempts boundary is not many", BehaviorProfile{Accuracy: 0.9, AvgResponseTime: 10, AvgAttempts: 2}, RecommendAdvanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recommend(tt.profile); got != tt.want {
				t.Errorf("Recommend() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecommendIgnoresCluster(t *testing.T) {
	p := BehaviorProfile{Accuracy: 0.9, AvgResponseTime: 10, AvgAttempts: 1}
	a := ClusterAssignment{BehaviorProfile: p, Cluster: 2}
	b := ClusterAssignment{BehaviorProfile: p, Cluster: 0}
	if Recommend(a.BehaviorProfile) != Recommend(b.BehaviorProfile) {
		t.Error("recommendation must depend only on the profile")
	}
}
