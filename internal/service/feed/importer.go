// Package feed imports per-CVE JSON feed files into the catalog.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/service/scoring"
)

// batchSize rows per upsert round trip
const batchSize = 200

// entry is the shape of one feed file. Keys the feed does not carry simply
// stay nil.
type entry struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Details     string `json:"details"`

	OWSScore *struct {
		Score      *float64 `json:"score"`
		Components *struct {
			Exploitation *float64 `json:"exploitation"`
		} `json:"components"`
	} `json:"ows_score"`

	Published    string `json:"published"`
	LastModified string `json:"lastModified"`
}

// Importer walks a directory of CVE-*.json files and upserts them through a
// CatalogWriter.
type Importer struct {
	store vuln.CatalogWriter
}

// NewImporter creates a feed importer
func NewImporter(store vuln.CatalogWriter) *Importer {
	return &Importer{store: store}
}

// Result summarizes one import run.
type Result struct {
	Files   int
	Applied int
	Skipped int
}

// ImportDir imports every CVE-*.json file under dir. Structurally broken
// files are logged and skipped, never fatal.
func (im *Importer) ImportDir(ctx context.Context, dir string) (*Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "CVE-*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob feed dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CVE JSON files under %s", dir)
	}
	sort.Strings(files)

	log.Info().
		Int("files", len(files)).
		Str("dir", dir).
		Msg("🚀 CVE feed import started")

	result := &Result{Files: len(files)}
	batch := make([]vuln.ImportRecord, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		applied, err := im.store.UpsertBatch(ctx, batch)
		result.Applied += applied
		batch = batch[:0]
		return err
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec, err := ParseFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("Feed file skipped")
			result.Skipped++
			continue
		}

		batch = append(batch, *rec)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := flush(); err != nil {
		return result, err
	}

	log.Info().
		Int("applied", result.Applied).
		Int("skipped", result.Skipped).
		Msg("✅ CVE feed import completed")

	return result, nil
}

// ParseFile decodes one feed file. The CVE ID comes from the filename stem.
func ParseFile(path string) (*vuln.ImportRecord, error) {
	id := vuln.NormalizeID(strings.TrimSuffix(filepath.Base(path), ".json"))
	if !vuln.ValidateID(id) {
		return nil, fmt.Errorf("filename %q is not a CVE id", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	rec := &vuln.ImportRecord{
		ID:      id,
		Summary: firstNonEmpty(e.Summary, e.Description, e.Details),
	}

	if e.OWSScore != nil {
		rec.CVSSScore = e.OWSScore.Score
		if e.OWSScore.Components != nil {
			rec.EPSSScore = e.OWSScore.Components.Exploitation
		}
	}
	if rec.CVSSScore != nil {
		rec.Severity = strings.ToUpper(scoring.SeverityLabel(*rec.CVSSScore))
	}

	rec.Published = parseTime(e.Published)
	rec.LastModified = parseTime(e.LastModified)

	return rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
