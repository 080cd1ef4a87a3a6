// Package pipeline orchestrates a hunt: query fan-out across providers,
// extraction, deduplication, scoring, filtering, and ranking, in that
// fixed order.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/osintlab/tgscout/internal/analyze"
	"github.com/osintlab/tgscout/internal/cache"
	"github.com/osintlab/tgscout/internal/dedupe"
	"github.com/osintlab/tgscout/internal/extract"
	"github.com/osintlab/tgscout/internal/model"
	"github.com/osintlab/tgscout/internal/provider"
	"github.com/osintlab/tgscout/internal/query"
	"github.com/osintlab/tgscout/internal/rank"
	"github.com/osintlab/tgscout/internal/score"
	"github.com/osintlab/tgscout/internal/worker"
)

// Pipeline runs complete hunts. It holds no per-run state; concurrent
// hunts share only the injected cache.
type Pipeline struct {
	cfg       *model.Config
	providers []provider.Provider
	generator *query.Generator
	extractor *extract.Extractor
	scorer    *score.Scorer
	limiter   *worker.Limiter
	cache     cache.Cache       // nil disables caching
	analyzer  *analyze.Analyzer // nil disables annotations
	log       *slog.Logger
}

// New assembles a pipeline. cache and analyzer may be nil.
func New(cfg *model.Config, providers []provider.Provider, resultCache cache.Cache, analyzer *analyze.Analyzer, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		providers: providers,
		generator: query.NewGenerator(cfg.Hunt.MaxVariations),
		extractor: extract.NewExtractor(),
		scorer:    score.NewScorer(),
		limiter:   worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst, cfg.Hunt.RequestDelay),
		cache:     resultCache,
		analyzer:  analyzer,
		log:       log,
	}
}

// ValidateIdentifier rejects targets the run cannot work with. This is
// looser than extract.IsValidIdentifier: the user may search partial
// or decorated names.
func ValidateIdentifier(identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if len(identifier) < 3 || len(identifier) > 64 {
		return &model.ValidationError{Field: "identifier", Message: "length must be in [3,64]"}
	}
	for i := 0; i < len(identifier); i++ {
		if identifier[i] <= ' ' || identifier[i] > '~' {
			return &model.ValidationError{Field: "identifier", Message: "must be printable ASCII without spaces"}
		}
	}
	return nil
}

// Hunt runs the whole pipeline for one identifier. Only pre-run
// validation fails the call; provider failures degrade coverage and are
// reported in the result's error list.
func (p *Pipeline) Hunt(ctx context.Context, identifier string, opts model.Options) (*model.HuntResult, error) {
	identifier = strings.TrimSpace(identifier)
	if err := ValidateIdentifier(identifier); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	key := cache.ResultKey(identifier, opts)
	if opts.UseCache && p.cache != nil {
		if raw, found := p.cache.Get(key); found {
			var cached model.HuntResult
			if err := json.Unmarshal(raw, &cached); err == nil {
				cached.Metadata.FromCache = true
				cached.Metadata.Options = opts
				// Statistics follow the caller's options, not those of
				// the run that populated the entry.
				switch {
				case opts.IncludeStats && cached.Statistics == nil:
					cached.Statistics = Summarize(cached.Results)
				case !opts.IncludeStats:
					cached.Statistics = nil
				}
				p.log.Debug("cache hit", "identifier", identifier)
				return &cached, nil
			}
			_ = p.cache.Delete(key)
		}
	}

	// 1. Query phases: all raw hits are collected before any pipeline
	// stage runs, so dedup and scoring see a deterministic input set.
	hits, runErrors := p.runPhases(ctx, identifier, opts)

	// 2. Extraction
	var drafts []model.Candidate
	for i := range hits {
		drafts = append(drafts, p.extractor.Extract(hits[i], identifier)...)
	}

	// 3. Deduplication
	merged := dedupe.Merge(drafts)
	totalFound := len(merged)

	// 4. Scoring
	scored := make([]model.Candidate, 0, len(merged))
	for _, c := range merged {
		scored = append(scored, p.scorer.Score(c, identifier))
	}

	// 5. Quality filter, caller threshold included
	minConfidence := p.cfg.Hunt.MinConfidence
	if opts.MinConfidence > minConfidence {
		minConfidence = opts.MinConfidence
	}
	filtered := rank.Filter(scored, minConfidence)

	// 6. Ranking
	ranked := rank.Rank(filtered, identifier)
	if len(ranked) > opts.MaxResults {
		ranked = ranked[:opts.MaxResults]
	}

	result := &model.HuntResult{
		Results: ranked,
		Metadata: model.Metadata{
			Identifier: identifier,
			TotalFound: totalFound,
			Timestamp:  time.Now().UTC(),
			Options:    opts,
		},
		Errors: runErrors,
	}
	if opts.IncludeStats {
		result.Statistics = Summarize(ranked)
	}

	// Annotations are metadata only; they never change confidence and
	// their failure never fails the run.
	if p.analyzer != nil {
		annotations, err := p.analyzer.Annotate(ctx, identifier, ranked)
		if err != nil {
			p.log.Warn("analysis failed", "error", err)
		} else {
			result.Metadata.Annotations = annotations
		}
	}

	if opts.UseCache && p.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := p.cache.Set(key, raw, p.cfg.Cache.TTL); err != nil {
				p.log.Warn("cache store failed", "error", err)
			}
		}
	}

	p.log.Info("hunt complete",
		"identifier", identifier,
		"hits", len(hits),
		"candidates", totalFound,
		"results", len(ranked),
		"errors", len(runErrors))
	return result, nil
}

// runPhases executes every query phase against every live provider.
// Providers work in parallel, at most Concurrency.ProviderWorkers at a
// time; within one provider, queries are issued
// sequentially in generation order with the mandatory delay between
// calls. Hits are stitched together in fixed provider order.
func (p *Pipeline) runPhases(ctx context.Context, identifier string, opts model.Options) ([]model.RawHit, []model.RunError) {
	var allHits []model.RawHit
	var allErrors []model.RunError

	// A provider that fails authentication is skipped for the rest of
	// the run, across phases.
	sidelined := make(map[string]bool)

	workers := p.cfg.Concurrency.ProviderWorkers
	if workers <= 0 {
		workers = len(p.providers)
	}
	sem := make(chan struct{}, workers)

	for _, phase := range query.Phases() {
		queries := p.generator.Queries(identifier, phase)
		if len(queries) == 0 {
			continue
		}

		outcomes := make([]phaseOutcome, len(p.providers))

		var wg sync.WaitGroup
		for i, prov := range p.providers {
			if sidelined[prov.Name()] {
				continue
			}
			wg.Add(1)
			go func(idx int, prov provider.Provider) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				outcomes[idx] = p.runProviderPhase(ctx, prov, queries, phase, opts.SubCollection)
			}(i, prov)
		}
		wg.Wait()

		for i, prov := range p.providers {
			allHits = append(allHits, outcomes[i].hits...)
			allErrors = append(allErrors, outcomes[i].errs...)
			if outcomes[i].unavailable {
				sidelined[prov.Name()] = true
			}
		}
	}

	return allHits, allErrors
}

type phaseOutcome struct {
	hits        []model.RawHit
	errs        []model.RunError
	unavailable bool
}

// runProviderPhase walks one provider through a phase's query batch in
// order. The first unavailable error abandons the provider's remaining
// queries; transient errors abandon only the query that hit them.
func (p *Pipeline) runProviderPhase(ctx context.Context, prov provider.Provider, queries []string, phase model.Phase, scope string) phaseOutcome {
	var out phaseOutcome

	for _, q := range queries {
		if ctx.Err() != nil {
			return out
		}
		if err := p.limiter.WaitWithDelay(ctx, prov.Name()); err != nil {
			return out
		}

		got, err := p.searchWithRetry(ctx, prov, q, scope)
		if err != nil {
			out.errs = append(out.errs, model.RunError{
				Provider: prov.Name(),
				Phase:    phase,
				Query:    q,
				Message:  err.Error(),
			})
			if isUnavailable(err) {
				p.log.Warn("provider sidelined", "provider", prov.Name(), "error", err)
				out.unavailable = true
				return out
			}
			p.log.Debug("query abandoned", "provider", prov.Name(), "query", q, "error", err)
			continue
		}

		for i := range got {
			got[i].Phase = phase
			if got[i].Query == "" {
				got[i].Query = q
			}
		}
		out.hits = append(out.hits, got...)
	}
	return out
}
