package vuln

import (
	"regexp"
	"strings"
	"time"
)

// Vulnerability is a catalog entry identified by a CVE-style ID.
type Vulnerability struct {
	ID      string `json:"cve"`
	Summary string `json:"summary"`
}

// Timestamps holds the lifecycle dates of a vulnerability. Either may be
// missing in the backing store.
type Timestamps struct {
	Published    *time.Time `json:"published,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// Latest returns the most recent of the two timestamps, or the zero time
// when neither is present. Used as the ranking tie-breaker.
func (t Timestamps) Latest() time.Time {
	var latest time.Time
	if t.Published != nil {
		latest = *t.Published
	}
	if t.LastModified != nil && t.LastModified.After(latest) {
		latest = *t.LastModified
	}
	return latest
}

// RawSignals carries the nullable signal columns for one vulnerability
// exactly as stored. Resolution of primary/fallback/emulated fields is the
// normalizer's job, not the store's.
type RawSignals struct {
	ID string

	// Severity (CVSS-like, 0..10)
	CVSSScore  *float64 // primary: core.cves.cvss_score
	CVSSLegacy *float64 // fallback: core.cves.cvss_v31_score

	// Exploitation probability (EPSS-like, 0..1)
	EPSS         *float64 // primary: core.epss.epss
	EPSSFallback *float64 // fallback: core.cves.epss_score

	// Exposure (KVE-like, 0..10)
	KVEScore  *float64 // primary: core.kve.kve_score
	KEVListed *bool    // emulation proxy: core.kev.kev_flag

	// Attacker activity (0..10, window-scoped)
	ActivityScore *float64 // core.activity.activity_score

	Published    *time.Time
	LastModified *time.Time
}

// Timestamps extracts the lifecycle dates carried on a signal row.
func (r RawSignals) Timestamps() Timestamps {
	return Timestamps{Published: r.Published, LastModified: r.LastModified}
}

// Origin tags how a signal value was obtained. Arithmetic treats absent as
// zero, but display text must keep "measured zero" and "no data" apart.
type Origin string

const (
	OriginPrimary  Origin = "primary"
	OriginFallback Origin = "fallback"
	OriginEmulated Origin = "emulated"
	OriginAbsent   Origin = "absent"
)

// Signal is one normalized signal value together with its provenance.
type Signal struct {
	Value  float64 `json:"value"`
	Origin Origin  `json:"origin"`
}

// Present reports whether any source supplied a value for this signal.
func (s Signal) Present() bool {
	return s.Origin != OriginAbsent
}

// NormalizedSignals holds all four signal kinds after domain clamping and
// the primary/fallback/emulated resolution chain.
type NormalizedSignals struct {
	Severity           Signal `json:"severity"`
	ExploitProbability Signal `json:"exploit_probability"`
	Exposure           Signal `json:"exposure"`
	Activity           Signal `json:"activity"`
}

// ComponentScores are the per-signal values that fed the overall score,
// rounded for display (exploit probability to 4 decimals, the rest to 2).
type ComponentScores struct {
	Severity           float64 `json:"severity"`
	ExploitProbability float64 `json:"exploit_probability"`
	Exposure           float64 `json:"exposure"`
	Activity           float64 `json:"activity"`
}

// Labels are the categorical classifications of each component.
type Labels struct {
	Severity           string `json:"severity"`
	ExploitProbability string `json:"exploit_probability"`
	Exposure           string `json:"exposure"`
	Activity           string `json:"activity"`
}

// ScoreResult is the full scoring outcome for one vulnerability. It is
// computed per request and never persisted.
type ScoreResult struct {
	ID         string          `json:"cve"`
	Overall    float64         `json:"overall_score"` // rounded to 2 decimals
	Components ComponentScores `json:"components"`
	Labels     Labels          `json:"labels"`

	// Exact keeps the unrounded overall score so ranking comparisons are
	// not distorted by display rounding.
	Exact float64 `json:"-"`

	// Signals preserves provenance for explanatory text.
	Signals NormalizedSignals `json:"-"`
}

// RankingEntry is one row of a ranked listing.
type RankingEntry struct {
	Rank       int             `json:"rank"`
	ID         string          `json:"cve"`
	Score      float64         `json:"score"`
	Components ComponentScores `json:"components"`
	Link       string          `json:"link"`
}

// RelatedItem is one entry of a related-vulnerability listing. Score is the
// relevance heuristic on a 0..100 scale, not the canonical overall score.
type RelatedItem struct {
	ID        string  `json:"cve"`
	RiskLevel string  `json:"risk_level"` // high | medium | low
	Score     float64 `json:"score"`
}

// Recommendation is one rule-engine action. Type is unique within a set.
type Recommendation struct {
	Type   string `json:"type"`
	Action string `json:"action"`
}

// TimelineEvent is one dated lifecycle event.
type TimelineEvent struct {
	Name string `json:"name"` // Published | LastModified
	Date string `json:"date"` // ISO-8601
}

// SearchHit is one catalog search result.
type SearchHit struct {
	ID      string `json:"cve"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
}

// NewsArticle is one CVE-related news item.
type NewsArticle struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	CVEs  []string `json:"cves"`
}

// LatestUpdate is one recently-modified catalog entry.
type LatestUpdate struct {
	ID      string `json:"cve"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
}

var (
	idPattern     = regexp.MustCompile(`^[A-Z]+-\d{4}-\d+$`)
	windowPattern = regexp.MustCompile(`^\d{1,4}[hdw]$`)
)

// NormalizeID uppercases and trims a vulnerability ID.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ValidateID reports whether id matches the PREFIX-PARTITION-SEQUENCE shape.
func ValidateID(id string) bool {
	return idPattern.MatchString(id)
}

// ValidateWindow reports whether a ranking window string such as "7d" or
// "30d" is well formed.
func ValidateWindow(window string) bool {
	return windowPattern.MatchString(window)
}

// PartitionKey extracts the numeric middle token of an ID (the year of a
// CVE identifier). It returns "" when the ID does not carry one.
func PartitionKey(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return ""
	}
	key := parts[1]
	if key == "" {
		return ""
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return key
}
