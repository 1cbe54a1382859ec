package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
)

// Config holds the scoring service tuning knobs.
type Config struct {
	Weights          Weights
	Relevance        RelevanceWeights
	Workers          int           // bounded pool size for candidate scoring
	FetchTimeout     time.Duration // per-fetch deadline against the signal source
	CandidatePool    int           // rows pulled from the store per ranking request
	DefaultWindow    string
	DefaultRankLimit int
}

// DefaultConfig returns the production configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights:          DefaultWeights(),
		Relevance:        DefaultRelevanceWeights(),
		Workers:          16,
		FetchTimeout:     5 * time.Second,
		CandidatePool:    500,
		DefaultWindow:    "7d",
		DefaultRankLimit: 10,
	}
}

// Service is the signal aggregation and ranking engine. It holds no mutable
// state beyond in-flight fetch deduplication; every score is recomputed per
// request from current signal values.
type Service struct {
	source vuln.SignalSource
	agg    *Aggregator
	cfg    *Config

	// sf collapses concurrent identical fetches. It is not a cache: once a
	// fetch completes, the next request hits the source again.
	sf singleflight.Group
}

// NewService wires the engine. Weight profiles that do not sum to 1.0 are a
// construction-time failure, never a request-time one.
func NewService(source vuln.SignalSource, cfg *Config) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	agg, err := NewAggregator(cfg.Weights)
	if err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultConfig().FetchTimeout
	}
	if cfg.CandidatePool <= 0 {
		cfg.CandidatePool = DefaultConfig().CandidatePool
	}
	return &Service{source: source, agg: agg, cfg: cfg}, nil
}

// Window returns the validated activity window, substituting the default
// for an empty string.
func (s *Service) Window(window string) (string, error) {
	if window == "" {
		return s.cfg.DefaultWindow, nil
	}
	if !vuln.ValidateWindow(window) {
		return "", fmt.Errorf("%w: window %q", vuln.ErrInvalidInput, window)
	}
	return window, nil
}

// DefaultRankLimit exposes the configured default listing size.
func (s *Service) DefaultRankLimit() int { return s.cfg.DefaultRankLimit }

// Basic returns the catalog entry for one ID.
func (s *Service) Basic(ctx context.Context, id string) (*vuln.Vulnerability, error) {
	id, err := s.checkID(id)
	if err != nil {
		return nil, err
	}
	return s.fetchBasic(ctx, id)
}

// Scores computes the full score result for one vulnerability.
func (s *Service) Scores(ctx context.Context, id, window string) (*vuln.ScoreResult, error) {
	id, err := s.checkID(id)
	if err != nil {
		return nil, err
	}
	window, err = s.Window(window)
	if err != nil {
		return nil, err
	}

	raw, err := s.fetchSignals(ctx, id, window)
	if err != nil {
		return nil, err
	}
	result := s.score(raw)
	return &result, nil
}

// Rankings scores the candidate pool and returns the top entries. On a
// backend failure the listing degrades to an empty result instead of
// propagating the error.
func (s *Service) Rankings(ctx context.Context, window string, limit int) ([]vuln.RankingEntry, error) {
	window, err := s.Window(window)
	if err != nil {
		return nil, err
	}
	limit = ClampLimit(limit, s.cfg.DefaultRankLimit)

	rows, err := s.listCandidates(ctx, vuln.CandidateQuery{
		Window: window,
		Limit:  s.cfg.CandidatePool,
	})
	if err != nil {
		log.Warn().Err(err).Str("window", window).Msg("Ranking degraded to empty result")
		return []vuln.RankingEntry{}, nil
	}

	candidates, err := s.scoreAll(ctx, rows)
	if err != nil {
		return nil, err
	}
	return Rank(candidates, limit), nil
}

// Related returns up to limit heuristically related vulnerabilities,
// preferring entries that share the queried ID's partition (year) and never
// including the queried ID itself.
func (s *Service) Related(ctx context.Context, id string, limit int) ([]vuln.RelatedItem, error) {
	id, err := s.checkID(id)
	if err != nil {
		return nil, err
	}
	limit = ClampLimit(limit, 5)

	rows, err := s.listCandidates(ctx, vuln.CandidateQuery{
		Window:       s.cfg.DefaultWindow,
		PartitionKey: vuln.PartitionKey(id),
		ExcludeID:    id,
		Limit:        s.cfg.CandidatePool,
	})
	if err != nil {
		log.Warn().Err(err).Str("cve", id).Msg("Related lookup degraded to empty result")
		return []vuln.RelatedItem{}, nil
	}

	type scored struct {
		id    string
		score float64
	}
	items := make([]scored, 0, len(rows))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range rows {
		row := rows[i]
		if row.ID == id {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ns := Normalize(&row)
			sc := s.cfg.Relevance.RelevanceScore(ns)
			mu.Lock()
			items = append(items, scored{id: row.ID, score: sc})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].id < items[j].id
	})
	if len(items) > limit {
		items = items[:limit]
	}

	related := make([]vuln.RelatedItem, 0, len(items))
	for _, it := range items {
		related = append(related, vuln.RelatedItem{
			ID:        it.id,
			RiskLevel: RiskLevel(it.score),
			Score:     Round1(it.score),
		})
	}
	return related, nil
}

// Recommendations evaluates the threshold rules for one vulnerability.
func (s *Service) Recommendations(ctx context.Context, id, window string) ([]vuln.Recommendation, error) {
	result, err := s.Scores(ctx, id, window)
	if err != nil {
		return nil, err
	}
	return Recommend(*result), nil
}

// Timeline returns the dated lifecycle events, only for dates that exist.
func (s *Service) Timeline(ctx context.Context, id string) ([]vuln.TimelineEvent, error) {
	id, err := s.checkID(id)
	if err != nil {
		return nil, err
	}
	ts, err := s.fetchTimestamps(ctx, id)
	if err != nil {
		return nil, err
	}

	events := make([]vuln.TimelineEvent, 0, 2)
	if ts.Published != nil {
		events = append(events, vuln.TimelineEvent{Name: "Published", Date: ts.Published.Format(time.RFC3339)})
	}
	if ts.LastModified != nil {
		events = append(events, vuln.TimelineEvent{Name: "LastModified", Date: ts.LastModified.Format(time.RFC3339)})
	}
	return events, nil
}

// Summary builds the deterministic score narrative for one vulnerability.
func (s *Service) Summary(ctx context.Context, id, window string) (string, error) {
	basic, err := s.Basic(ctx, id)
	if err != nil {
		return "", err
	}
	result, err := s.Scores(ctx, id, window)
	if err != nil {
		return "", err
	}
	return BuildSummary(basic, result), nil
}

// score runs the pure normalize → aggregate → classify pipeline.
func (s *Service) score(raw *vuln.RawSignals) vuln.ScoreResult {
	ns := Normalize(raw)
	exact, components := s.agg.Aggregate(ns)
	return vuln.ScoreResult{
		ID:         raw.ID,
		Overall:    Round2(exact),
		Exact:      exact,
		Components: components,
		Labels:     Classify(ns),
		Signals:    ns,
	}
}

// scoreAll fans candidate scoring out over the bounded worker pool and
// collects ranking candidates.
func (s *Service) scoreAll(ctx context.Context, rows []vuln.RawSignals) ([]Candidate, error) {
	candidates := make([]Candidate, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range rows {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := rows[i]
			candidates[i] = Candidate{
				Result:  s.score(&row),
				Recency: row.Timestamps().Latest(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (s *Service) checkID(id string) (string, error) {
	id = vuln.NormalizeID(id)
	if !vuln.ValidateID(id) {
		return "", fmt.Errorf("%w: id %q", vuln.ErrInvalidInput, id)
	}
	return id, nil
}

// fetchBasic deduplicates concurrent identical lookups via singleflight.
func (s *Service) fetchBasic(ctx context.Context, id string) (*vuln.Vulnerability, error) {
	v, err, _ := s.sf.Do("basic:"+id, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
		return s.source.GetBasic(fctx, id)
	})
	if err != nil {
		return nil, s.mapFetchErr(err)
	}
	return v.(*vuln.Vulnerability), nil
}

func (s *Service) fetchSignals(ctx context.Context, id, window string) (*vuln.RawSignals, error) {
	v, err, _ := s.sf.Do("signals:"+id+":"+window, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
		return s.source.GetSignals(fctx, id, window)
	})
	if err != nil {
		return nil, s.mapFetchErr(err)
	}
	return v.(*vuln.RawSignals), nil
}

func (s *Service) fetchTimestamps(ctx context.Context, id string) (*vuln.Timestamps, error) {
	v, err, _ := s.sf.Do("timestamps:"+id, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
		return s.source.GetTimestamps(fctx, id)
	})
	if err != nil {
		return nil, s.mapFetchErr(err)
	}
	return v.(*vuln.Timestamps), nil
}

func (s *Service) listCandidates(ctx context.Context, q vuln.CandidateQuery) ([]vuln.RawSignals, error) {
	fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	return s.source.ListCandidates(fctx, q)
}

// mapFetchErr folds store failures into the error taxonomy: unknown IDs stay
// ErrNotFound, everything else becomes ErrBackendUnavailable.
func (s *Service) mapFetchErr(err error) error {
	if errors.Is(err, vuln.ErrNotFound) || errors.Is(err, vuln.ErrInvalidInput) || errors.Is(err, vuln.ErrBackendUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", vuln.ErrBackendUnavailable, err)
}
