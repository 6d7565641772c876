package analytics

// Recommendation messages.
const (
	RecommendFundamentals = "Review fundamentals with guided videos"
	RecommendTimedQuizzes = "Practice timed quizzes"
	RecommendHints        = "Use step-by-step hints"
	RecommendAdvanced     = "Advanced challenge questions recommended"
)

// Policy thresholds. Comparisons are strict.
const (
	minAccuracy     = 0.5
	maxResponseTime = 20
	maxAttempts     = 2
)

// Recommend maps a profile to one recommendation. Rules are evaluated in
// order and the first match wins. The cluster label plays no part.
func Recommend(p BehaviorProfile) string {
	switch {
	case p.Accuracy < minAccuracy:
		return RecommendFundamentals
	case p.AvgResponseTime > maxResponseTime:
		return RecommendTimedQuizzes
	case p.AvgAttempts > maxAttempts:
		return RecommendHints
	default:
		return RecommendAdvanced
	}
}
