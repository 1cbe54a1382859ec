package scoring

import (
	"fmt"
	"math"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

// Weights for the canonical overall score. The sum must be exactly 1.0;
// NewAggregator rejects any other profile at construction time.
type Weights struct {
	Severity           float64 `json:"severity"`
	ExploitProbability float64 `json:"exploit_probability"`
	Exposure           float64 `json:"exposure"`
	Activity           float64 `json:"activity"`
}

// DefaultWeights is the production weight profile.
func DefaultWeights() Weights {
	return Weights{
		Severity:           0.60,
		ExploitProbability: 0.25,
		Exposure:           0.10,
		Activity:           0.05,
	}
}

const weightSumTolerance = 1e-9

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Severity + w.ExploitProbability + w.Exposure + w.Activity
}

// Validate checks the sum-to-one invariant.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("score weights must sum to 1.0, got %v", w.Sum())
	}
	return nil
}

// Aggregator combines normalized signals into the canonical overall score:
//
//	overall = 0.60*severity + 0.25*(epss*10) + 0.10*exposure + 0.05*activity
//
// Exploit probability lives on [0,1] and is rescaled to the [0,10] scale
// shared by the other signals before weighting.
type Aggregator struct {
	weights Weights
}

// NewAggregator builds an aggregator, enforcing the weight invariant.
func NewAggregator(w Weights) (*Aggregator, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{weights: w}, nil
}

// Aggregate returns the unrounded overall score and the display-rounded
// component values. The unrounded value is kept for ranking so rounding
// never decides ties.
func (a *Aggregator) Aggregate(ns vuln.NormalizedSignals) (float64, vuln.ComponentScores) {
	overall := a.weights.Severity*ns.Severity.Value +
		a.weights.ExploitProbability*(ns.ExploitProbability.Value*10.0) +
		a.weights.Exposure*ns.Exposure.Value +
		a.weights.Activity*ns.Activity.Value

	components := vuln.ComponentScores{
		Severity:           Round2(ns.Severity.Value),
		ExploitProbability: Round4(ns.ExploitProbability.Value),
		Exposure:           Round2(ns.Exposure.Value),
		Activity:           Round2(ns.Activity.Value),
	}
	return overall, components
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to 4 decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
