package scoring

import (
	"testing"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

func TestRelevanceScore(t *testing.T) {
	w := DefaultRelevanceWeights()

	t.Run("maximal signals reach 100", func(t *testing.T) {
		ns := vuln.NormalizedSignals{
			Severity:           present(10),
			ExploitProbability: present(1),
			Exposure:           present(10),
			Activity:           present(10),
		}
		if got := w.RelevanceScore(ns); Round1(got) != 100.0 {
			t.Errorf("score = %v, want 100", got)
		}
	})

	t.Run("reference value", func(t *testing.T) {
		// 100*(0.30*0.98 + 0.40*0.42 + 0.20*0.85 + 0.10*0.60) = 69.2
		ns := vuln.NormalizedSignals{
			Severity:           present(9.8),
			ExploitProbability: present(0.42),
			Exposure:           present(8.5),
			Activity:           present(6.0),
		}
		if got := Round1(w.RelevanceScore(ns)); got != 69.2 {
			t.Errorf("score = %v, want 69.2", got)
		}
	})

	t.Run("absent signals score zero", func(t *testing.T) {
		if got := w.RelevanceScore(vuln.NormalizedSignals{}); got != 0 {
			t.Errorf("score = %v, want 0", got)
		}
	})
}

func TestRiskLevelBuckets(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, "high"},
		{85, "high"},
		{84.9, "medium"},
		{60, "medium"},
		{59.9, "low"},
		{0, "low"},
	}
	for _, c := range cases {
		if got := RiskLevel(c.score); got != c.want {
			t.Errorf("RiskLevel(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}
