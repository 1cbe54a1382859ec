package scoring

import "github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"

// Relevance weighting for related-item lookups. This is deliberately a
// different formula from the canonical overall score: every signal is first
// normalized onto [0,1] and the result is stretched to a 0..100 scale for
// risk bucketing. Do not reuse it for catalog rankings.
type RelevanceWeights struct {
	Severity           float64
	ExploitProbability float64
	Exposure           float64
	Activity           float64
}

// DefaultRelevanceWeights is the production relevance profile.
func DefaultRelevanceWeights() RelevanceWeights {
	return RelevanceWeights{
		Severity:           0.30,
		ExploitProbability: 0.40,
		Exposure:           0.20,
		Activity:           0.10,
	}
}

// Relevance risk buckets on the 0..100 scale.
const (
	relevanceHigh   = 85.0
	relevanceMedium = 60.0
)

// RelevanceScore computes the 0..100 relevance heuristic:
//
//	100 * (0.30*sev/10 + 0.40*epss + 0.20*exposure/10 + 0.10*activity/10)
func (w RelevanceWeights) RelevanceScore(ns vuln.NormalizedSignals) float64 {
	return 100.0 * (w.Severity*(ns.Severity.Value/10.0) +
		w.ExploitProbability*ns.ExploitProbability.Value +
		w.Exposure*(ns.Exposure.Value/10.0) +
		w.Activity*(ns.Activity.Value/10.0))
}

// RiskLevel buckets a relevance score for display.
func RiskLevel(score float64) string {
	switch {
	case score >= relevanceHigh:
		return "high"
	case score >= relevanceMedium:
		return "medium"
	default:
		return "low"
	}
}
