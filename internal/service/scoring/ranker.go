package scoring

import (
	"sort"
	"time"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

// Candidate pairs a score result with the recency used for tie-breaking.
type Candidate struct {
	Result  vuln.ScoreResult
	Recency time.Time // latest of (last_modified, published); zero when neither exists
}

// MaxRankingLimit bounds every ranked listing.
const MaxRankingLimit = 100

// ClampLimit normalizes a requested listing size into [1, MaxRankingLimit],
// substituting def for non-positive values.
func ClampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxRankingLimit {
		return MaxRankingLimit
	}
	return limit
}

// Rank orders candidates into a deterministic sequence and assigns 1-based
// contiguous ranks over the truncated result. The sort key is total given
// unique IDs: unrounded overall desc, recency desc, ID asc.
func Rank(candidates []Candidate, limit int) []vuln.RankingEntry {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Result.Exact != sorted[j].Result.Exact {
			return sorted[i].Result.Exact > sorted[j].Result.Exact
		}
		if !sorted[i].Recency.Equal(sorted[j].Recency) {
			return sorted[i].Recency.After(sorted[j].Recency)
		}
		return sorted[i].Result.ID < sorted[j].Result.ID
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]vuln.RankingEntry, 0, len(sorted))
	for i, c := range sorted {
		entries = append(entries, vuln.RankingEntry{
			Rank:       i + 1,
			ID:         c.Result.ID,
			Score:      c.Result.Overall,
			Components: c.Result.Components,
			Link:       "/cve/" + c.Result.ID,
		})
	}
	return entries
}
