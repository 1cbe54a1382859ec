package scoring

import "github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"

// Recommendation rule thresholds.
const (
	urgentPatchSeverity = 9.0
	monitoringExploit   = 0.5
	mitigationExposure  = 8.0
)

// rule is one independent threshold rule. Rules never short-circuit each
// other; every rule sees the same score result.
type rule struct {
	recType string
	action  string
	matches func(vuln.ScoreResult) bool
}

// Fixed evaluation order. Each rule contributes a distinct type, so a set
// can never contain duplicates.
var rules = []rule{
	{
		recType: "urgent_patch",
		action:  "Apply vendor patch immediately (if available).",
		matches: func(r vuln.ScoreResult) bool { return r.Components.Severity >= urgentPatchSeverity },
	},
	{
		recType: "monitoring",
		action:  "Deploy IDS/WAF signatures and block known IoCs/PoCs.",
		matches: func(r vuln.ScoreResult) bool { return r.Components.ExploitProbability >= monitoringExploit },
	},
	{
		recType: "mitigation",
		action:  "Disable vulnerable features and restrict exposure surface.",
		matches: func(r vuln.ScoreResult) bool { return r.Components.Exposure >= mitigationExposure },
	},
}

var defaultRecommendation = vuln.Recommendation{
	Type:   "review",
	Action: "Track vendor advisories and schedule regular updates.",
}

// Recommend evaluates every rule in order and returns the matched actions.
// The result is never empty: when no rule fires, a single review entry is
// returned.
func Recommend(result vuln.ScoreResult) []vuln.Recommendation {
	var recs []vuln.Recommendation
	for _, r := range rules {
		if r.matches(result) {
			recs = append(recs, vuln.Recommendation{Type: r.recType, Action: r.action})
		}
	}
	if len(recs) == 0 {
		recs = append(recs, defaultRecommendation)
	}
	return recs
}
