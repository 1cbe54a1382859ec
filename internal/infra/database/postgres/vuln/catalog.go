package vuln

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

// CatalogReader implements vuln.CatalogReader: search, latest updates and
// daily news. These endpoints carry no scoring logic.
type CatalogReader struct {
	db *pgxpool.Pool
}

// NewCatalogReader creates a new catalog reader
func NewCatalogReader(db *pgxpool.Pool) *CatalogReader {
	return &CatalogReader{db: db}
}

// Search looks up CVEs by exact ID or by keyword over ID and summary.
// An empty mode auto-detects: queries shaped like CVE IDs search by ID.
func (r *CatalogReader) Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchHit, error) {
	mode := q.Mode
	normalized := domain.NormalizeID(q.Query)
	if mode == "" {
		if strings.HasPrefix(normalized, "CVE-") {
			mode = "cve"
		} else {
			mode = "keyword"
		}
	}

	var (
		query string
		arg   string
	)
	if mode == "cve" {
		query = `
			SELECT cve_id, COALESCE(NULLIF(summary, ''), '(no summary)')
			FROM core.cves
			WHERE cve_id = $1
			ORDER BY last_modified DESC NULLS LAST
			LIMIT $2
		`
		arg = normalized
	} else {
		query = `
			SELECT cve_id, COALESCE(NULLIF(summary, ''), '(no summary)')
			FROM core.cves
			WHERE cve_id ILIKE $1 OR summary ILIKE $1
			ORDER BY last_modified DESC NULLS LAST
			LIMIT $2
		`
		arg = "%" + q.Query + "%"
	}

	rows, err := r.db.Query(ctx, query, arg, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query search: %v", domain.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var hit domain.SearchHit
		if err := rows.Scan(&hit.ID, &hit.Summary); err != nil {
			return nil, fmt.Errorf("%w: scan search hit: %v", domain.ErrBackendUnavailable, err)
		}
		hit.Link = "/cve/" + hit.ID
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", domain.ErrBackendUnavailable, err)
	}
	return hits, nil
}

// LatestUpdates returns the most recently modified published CVEs
func (r *CatalogReader) LatestUpdates(ctx context.Context, limit int) ([]domain.LatestUpdate, error) {
	query := `
		SELECT cve_id, COALESCE(NULLIF(summary, ''), '(no summary)')
		FROM core.cves
		WHERE COALESCE(state, 'PUBLISHED') = 'PUBLISHED'
		ORDER BY last_modified DESC NULLS LAST
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query latest updates: %v", domain.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var updates []domain.LatestUpdate
	for rows.Next() {
		var u domain.LatestUpdate
		if err := rows.Scan(&u.ID, &u.Summary); err != nil {
			return nil, fmt.Errorf("%w: scan update: %v", domain.ErrBackendUnavailable, err)
		}
		u.Link = "/cve/" + u.ID
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", domain.ErrBackendUnavailable, err)
	}
	return updates, nil
}

// NewsBetween returns CVE-related news articles published inside [from, to),
// best-scored first
func (r *CatalogReader) NewsBetween(ctx context.Context, from, to time.Time, limit int) ([]domain.NewsArticle, error) {
	query := `
		SELECT
		  title,
		  url,
		  COALESCE(cve_ids, ARRAY[]::text[])
		FROM core.news_articles
		WHERE published_at >= $1 AND published_at < $2
		ORDER BY score DESC NULLS LAST, published_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query news: %v", domain.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var articles []domain.NewsArticle
	for rows.Next() {
		var a domain.NewsArticle
		if err := rows.Scan(&a.Title, &a.URL, &a.CVEs); err != nil {
			return nil, fmt.Errorf("%w: scan article: %v", domain.ErrBackendUnavailable, err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", domain.ErrBackendUnavailable, err)
	}
	return articles, nil
}
