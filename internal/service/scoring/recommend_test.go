package scoring

import (
	"testing"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

func resultWith(severity, exploit, exposure float64) vuln.ScoreResult {
	return vuln.ScoreResult{
		ID: "CVE-2024-0001",
		Components: vuln.ComponentScores{
			Severity:           severity,
			ExploitProbability: exploit,
			Exposure:           exposure,
		},
	}
}

func recTypes(recs []vuln.Recommendation) []string {
	types := make([]string, len(recs))
	for i, r := range recs {
		types[i] = r.Type
	}
	return types
}

func TestRecommendSingleRule(t *testing.T) {
	// severity=9.5, epss=0.1, exposure=2.0: only urgent_patch fires
	recs := Recommend(resultWith(9.5, 0.1, 2.0))

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1: %v", len(recs), recTypes(recs))
	}
	if recs[0].Type != "urgent_patch" {
		t.Errorf("type = %q, want urgent_patch", recs[0].Type)
	}
}

func TestRecommendRulesAreIndependent(t *testing.T) {
	recs := Recommend(resultWith(9.9, 0.8, 9.0))

	want := []string{"urgent_patch", "monitoring", "mitigation"}
	got := recTypes(recs)
	if len(got) != len(want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types = %v, want %v (fixed order)", got, want)
		}
	}

	seen := map[string]bool{}
	for _, typ := range got {
		if seen[typ] {
			t.Errorf("duplicate type %q", typ)
		}
		seen[typ] = true
	}
}

func TestRecommendNeverEmpty(t *testing.T) {
	// all below every threshold
	recs := Recommend(resultWith(2.0, 0.05, 1.0))

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want exactly 1 review", len(recs))
	}
	if recs[0].Type != "review" {
		t.Errorf("type = %q, want review", recs[0].Type)
	}
	if recs[0].Action == "" {
		t.Error("review recommendation has no action text")
	}
}

func TestRecommendThresholdBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		result vuln.ScoreResult
		want   string
	}{
		{"severity exactly 9.0", resultWith(9.0, 0, 0), "urgent_patch"},
		{"epss exactly 0.5", resultWith(0, 0.5, 0), "monitoring"},
		{"exposure exactly 8.0", resultWith(0, 0, 8.0), "mitigation"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			recs := Recommend(c.result)
			if len(recs) != 1 || recs[0].Type != c.want {
				t.Errorf("got %v, want single %q", recTypes(recs), c.want)
			}
		})
	}
}
