package scoring

import (
	"fmt"
	"strings"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

// Per-label explanatory sentences for the generated summary. No model is
// involved; the text is a deterministic function of the classifier output.
var (
	severityPhrases = map[string]string{
		"critical": "a critically severe vulnerability",
		"high":     "a high-severity vulnerability",
		"medium":   "a medium-severity vulnerability",
		"low":      "a low-severity vulnerability",
		"none":     "a vulnerability with no recorded severity",
	}
	exploitPhrases = map[string]string{
		"very-likely": "Real-world exploitation is very likely.",
		"likely":      "Real-world exploitation is moderately likely.",
		"unlikely":    "Real-world exploitation is currently unlikely.",
		"unknown":     "No exploitation-probability data is available.",
	}
	exposurePhrases = map[string]string{
		"severe":   "Internal asset exposure is severe and needs priority handling.",
		"moderate": "Internal asset exposure is moderate and should be managed.",
		"low":      "Internal asset exposure is low.",
		"unknown":  "No exposure data is available; exposure is treated as zero.",
	}
	activityPhrases = map[string]string{
		"active":        "Attacker activity has been observed frequently in the recent window.",
		"sporadic":      "Some attacker activity has been observed recently.",
		"minimal":       "Recent attacker activity is minimal but not zero.",
		"none-observed": "No attacker activity has been observed or recorded.",
	}
)

// BuildSummary renders the deterministic score summary for a vulnerability.
// Signals that were never measured carry a "(no data)" marker so a missing
// feed is not read as a measured zero.
func BuildSummary(basic *vuln.Vulnerability, result *vuln.ScoreResult) string {
	var parts []string

	head := fmt.Sprintf("%s is %s.", basic.ID, severityPhrases[result.Labels.Severity])
	if summary := strings.TrimSpace(basic.Summary); summary != "" {
		head += " Description: " + summary
	}
	parts = append(parts, head)

	parts = append(parts, fmt.Sprintf(
		"Severity %s [%.1f], exploitation probability %s [%.2f], exposure %s [%.1f], activity %s [%.1f]; combined score %.2f.",
		Annotate(result.Labels.Severity, result.Signals.Severity), result.Components.Severity,
		Annotate(result.Labels.ExploitProbability, result.Signals.ExploitProbability), result.Components.ExploitProbability,
		Annotate(result.Labels.Exposure, result.Signals.Exposure), result.Components.Exposure,
		Annotate(result.Labels.Activity, result.Signals.Activity), result.Components.Activity,
		result.Overall,
	))

	parts = append(parts,
		exploitPhrases[result.Labels.ExploitProbability]+" "+
			exposurePhrases[result.Labels.Exposure]+" "+
			activityPhrases[result.Labels.Activity])

	return strings.Join(parts, " ")
}
