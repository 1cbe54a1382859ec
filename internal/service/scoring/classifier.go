package scoring

import "github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"

// band is one inclusive-lower-bound classification band.
type band struct {
	min   float64
	label string
}

// Band tables are evaluated high to low; the first band whose lower bound
// the value meets wins. The final entry catches both measured zero and
// absent data; origin keeps those apart in explanatory text.
var (
	severityBands = []band{
		{9.0, "critical"},
		{7.0, "high"},
		{4.0, "medium"},
		{0.0, "low"}, // exclusive: > 0
	}
	severityFloor = "none"

	exploitBands = []band{
		{0.7, "very-likely"},
		{0.4, "likely"},
		{0.0, "unlikely"},
	}
	exploitFloor = "unknown"

	exposureBands = []band{
		{8.0, "severe"},
		{5.0, "moderate"},
		{0.0, "low"},
	}
	exposureFloor = "unknown"

	activityBands = []band{
		{7.0, "active"},
		{3.0, "sporadic"},
		{0.0, "minimal"},
	}
	activityFloor = "none-observed"
)

func classify(v float64, bands []band, floor string) string {
	for _, b := range bands {
		if b.min > 0 {
			if v >= b.min {
				return b.label
			}
			continue
		}
		// zero-bound band is exclusive so that 0 falls through to the floor
		if v > 0 {
			return b.label
		}
	}
	return floor
}

// SeverityLabel classifies a severity value (0..10).
func SeverityLabel(v float64) string { return classify(v, severityBands, severityFloor) }

// ExploitLabel classifies an exploitation probability (0..1).
func ExploitLabel(v float64) string { return classify(v, exploitBands, exploitFloor) }

// ExposureLabel classifies an exposure score (0..10).
func ExposureLabel(v float64) string { return classify(v, exposureBands, exposureFloor) }

// ActivityLabel classifies an activity score (0..10).
func ActivityLabel(v float64) string { return classify(v, activityBands, activityFloor) }

// Classify labels every component of a normalized signal set.
func Classify(ns vuln.NormalizedSignals) vuln.Labels {
	return vuln.Labels{
		Severity:           SeverityLabel(ns.Severity.Value),
		ExploitProbability: ExploitLabel(ns.ExploitProbability.Value),
		Exposure:           ExposureLabel(ns.Exposure.Value),
		Activity:           ActivityLabel(ns.Activity.Value),
	}
}

// Annotate appends the no-data marker to a label when the signal was never
// measured. "low" from a measured zero and "low (no data)" from a missing
// row must read differently.
func Annotate(label string, sig vuln.Signal) string {
	if !sig.Present() {
		return label + " (no data)"
	}
	return label
}
