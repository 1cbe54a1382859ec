package vuln

import (
	"context"
	"time"
)

// CandidateQuery bounds a candidate listing for ranking and related-item
// lookups.
type CandidateQuery struct {
	Window       string
	PartitionKey string // restrict to CVE-<partition>-% when non-empty
	ExcludeID    string
	Limit        int
}

// SignalSource supplies raw signal values per vulnerability. It owns no
// scoring logic.
type SignalSource interface {
	// GetBasic returns the catalog entry or ErrNotFound.
	GetBasic(ctx context.Context, id string) (*Vulnerability, error)

	// GetSignals returns the raw signal row for one ID and activity window,
	// or ErrNotFound when the ID is unknown.
	GetSignals(ctx context.Context, id, window string) (*RawSignals, error)

	// ListCandidates returns raw signal rows for a bounded candidate pool.
	ListCandidates(ctx context.Context, q CandidateQuery) ([]RawSignals, error)

	// GetTimestamps returns the lifecycle dates or ErrNotFound.
	GetTimestamps(ctx context.Context, id string) (*Timestamps, error)
}

// SearchQuery describes a catalog search.
type SearchQuery struct {
	Query string
	Mode  string // "cve" | "keyword" | "" (auto-detect)
	Limit int
}

// CatalogReader serves the catalog browsing endpoints that need no scoring.
type CatalogReader interface {
	Search(ctx context.Context, q SearchQuery) ([]SearchHit, error)
	LatestUpdates(ctx context.Context, limit int) ([]LatestUpdate, error)
	NewsBetween(ctx context.Context, from, to time.Time, limit int) ([]NewsArticle, error)
}

// ImportRecord is one catalog row produced by a feed import.
type ImportRecord struct {
	ID           string
	Summary      string
	Severity     string // CRITICAL | HIGH | MEDIUM | LOW | NONE
	CVSSScore    *float64
	EPSSScore    *float64
	Published    *time.Time
	LastModified *time.Time
}

// CatalogWriter persists imported feed records.
type CatalogWriter interface {
	UpsertBatch(ctx context.Context, records []ImportRecord) (int, error)
}
