package vuln

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

// Importer writes imported CVE feed records into core.cves.
type Importer struct {
	db *pgxpool.Pool
}

// NewImporter creates a new importer
func NewImporter(db *pgxpool.Pool) *Importer {
	return &Importer{db: db}
}

const upsertCVE = `
	INSERT INTO core.cves
	  (cve_id, summary, severity, cvss_score, epss_score, published, last_modified)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (cve_id) DO UPDATE SET
	  summary       = EXCLUDED.summary,
	  severity      = EXCLUDED.severity,
	  cvss_score    = COALESCE(EXCLUDED.cvss_score, core.cves.cvss_score),
	  epss_score    = COALESCE(EXCLUDED.epss_score, core.cves.epss_score),
	  published     = COALESCE(EXCLUDED.published, core.cves.published),
	  last_modified = COALESCE(EXCLUDED.last_modified, core.cves.last_modified)
`

// UpsertBatch writes a batch of records in one round trip and returns the
// number of rows applied.
func (im *Importer) UpsertBatch(ctx context.Context, records []domain.ImportRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(upsertCVE,
			rec.ID,
			rec.Summary,
			rec.Severity,
			rec.CVSSScore,
			rec.EPSSScore,
			rec.Published,
			rec.LastModified,
		)
	}

	results := im.db.SendBatch(ctx, batch)
	defer results.Close()

	applied := 0
	for range records {
		if _, err := results.Exec(); err != nil {
			return applied, fmt.Errorf("%w: upsert batch: %v", domain.ErrBackendUnavailable, err)
		}
		applied++
	}
	return applied, nil
}
