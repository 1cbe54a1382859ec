package vuln

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

// SignalSource implements vuln.SignalSource over the core.* signal tables.
// Fallback resolution between primary and legacy columns happens in the
// normalizer, so every query returns the raw columns untouched.
type SignalSource struct {
	db *pgxpool.Pool
}

// NewSignalSource creates a new Postgres-backed signal source
func NewSignalSource(db *pgxpool.Pool) *SignalSource {
	return &SignalSource{db: db}
}

// GetBasic returns the catalog entry for one CVE ID
func (s *SignalSource) GetBasic(ctx context.Context, id string) (*domain.Vulnerability, error) {
	query := `
		SELECT cve_id, COALESCE(summary, '')
		FROM core.cves
		WHERE cve_id = $1
	`

	var v domain.Vulnerability
	err := s.db.QueryRow(ctx, query, id).Scan(&v.ID, &v.Summary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: query basic: %v", domain.ErrBackendUnavailable, err)
	}
	return &v, nil
}

// GetSignals returns the raw signal row for one CVE ID and activity window
func (s *SignalSource) GetSignals(ctx context.Context, id, window string) (*domain.RawSignals, error) {
	query := `
		SELECT
		  c.cve_id,
		  c.cvss_score,
		  c.cvss_v31_score,
		  e.epss,
		  c.epss_score,
		  k.kve_score,
		  kv.kev_flag,
		  a.activity_score,
		  c.published,
		  c.last_modified
		FROM core.cves c
		LEFT JOIN core.epss     e  ON e.cve_id = c.cve_id
		LEFT JOIN core.kve      k  ON k.cve_id = c.cve_id
		LEFT JOIN core.kev      kv ON kv.cve_id = c.cve_id
		LEFT JOIN core.activity a  ON a.cve_id = c.cve_id AND a.time_window = $2
		WHERE c.cve_id = $1
		LIMIT 1
	`

	var raw domain.RawSignals
	err := s.db.QueryRow(ctx, query, id, window).Scan(
		&raw.ID,
		&raw.CVSSScore,
		&raw.CVSSLegacy,
		&raw.EPSS,
		&raw.EPSSFallback,
		&raw.KVEScore,
		&raw.KEVListed,
		&raw.ActivityScore,
		&raw.Published,
		&raw.LastModified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: query signals: %v", domain.ErrBackendUnavailable, err)
	}
	return &raw, nil
}

// ListCandidates returns raw signal rows for a bounded candidate pool.
// Rows are pre-ordered by severity so a capped pool keeps the entries most
// likely to survive ranking; the authoritative order is computed in Go.
func (s *SignalSource) ListCandidates(ctx context.Context, q domain.CandidateQuery) ([]domain.RawSignals, error) {
	query := `
		SELECT
		  c.cve_id,
		  c.cvss_score,
		  c.cvss_v31_score,
		  e.epss,
		  c.epss_score,
		  k.kve_score,
		  kv.kev_flag,
		  a.activity_score,
		  c.published,
		  c.last_modified
		FROM core.cves c
		LEFT JOIN core.epss     e  ON e.cve_id = c.cve_id
		LEFT JOIN core.kve      k  ON k.cve_id = c.cve_id
		LEFT JOIN core.kev      kv ON kv.cve_id = c.cve_id
		LEFT JOIN core.activity a  ON a.cve_id = c.cve_id AND a.time_window = $1
		WHERE ($2 = '' OR c.cve_id <> $2)
		  AND ($3 = '' OR c.cve_id LIKE '%-' || $3 || '-%')
		ORDER BY c.cvss_score DESC NULLS LAST, c.cve_id ASC
		LIMIT $4
	`

	rows, err := s.db.Query(ctx, query, q.Window, q.ExcludeID, q.PartitionKey, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query candidates: %v", domain.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var candidates []domain.RawSignals
	for rows.Next() {
		var raw domain.RawSignals
		if err := rows.Scan(
			&raw.ID,
			&raw.CVSSScore,
			&raw.CVSSLegacy,
			&raw.EPSS,
			&raw.EPSSFallback,
			&raw.KVEScore,
			&raw.KEVListed,
			&raw.ActivityScore,
			&raw.Published,
			&raw.LastModified,
		); err != nil {
			return nil, fmt.Errorf("%w: scan candidate: %v", domain.ErrBackendUnavailable, err)
		}
		candidates = append(candidates, raw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", domain.ErrBackendUnavailable, err)
	}

	return candidates, nil
}

// GetTimestamps returns the lifecycle dates for one CVE ID
func (s *SignalSource) GetTimestamps(ctx context.Context, id string) (*domain.Timestamps, error) {
	query := `
		SELECT published, last_modified
		FROM core.cves
		WHERE cve_id = $1
	`

	var ts domain.Timestamps
	err := s.db.QueryRow(ctx, query, id).Scan(&ts.Published, &ts.LastModified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: query timestamps: %v", domain.ErrBackendUnavailable, err)
	}
	return &ts, nil
}
