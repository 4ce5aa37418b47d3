// Package pipeline orchestrates insight generation end to end: cache
// check, context collection, market enrichment, generation, parsing, and
// persistence with retention.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finlens/insight-go/collect"
	"github.com/finlens/insight-go/core"
	"github.com/finlens/insight-go/genai"
	"github.com/finlens/insight-go/logger"
	"github.com/finlens/insight-go/parse"
	"github.com/finlens/insight-go/prompt"
	"github.com/finlens/insight-go/schema"
	"github.com/finlens/insight-go/search"
	"github.com/finlens/insight-go/store"
)

// Stage labels one phase of a pipeline run, for progress streaming.
type Stage string

const (
	StageCacheCheck Stage = "cache_check"
	StageCollecting Stage = "collecting"
	StageEnriching  Stage = "enriching"
	StageGenerating Stage = "generating"
	StageParsing    Stage = "parsing"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
)

// Options tunes the pipeline.
type Options struct {
	// MaxAge is the freshness window for cached analyses.
	MaxAge time.Duration
	// KeepPerType caps retained analyses per user and type.
	KeepPerType int
	// MaxTokens caps each generation response.
	MaxTokens int
}

// RunOptions tunes one run.
type RunOptions struct {
	// Force skips the cache check and always generates.
	Force bool
	// OnStage, when set, fires on each stage transition in order.
	OnStage func(Stage)
}

// call is one in-flight generation that concurrent runs can join.
type call struct {
	done chan struct{}
	res  *core.PipelineResult
	err  error
}

// Service runs the pipeline. At most one generation is in flight per
// user and type; concurrent requests for the same key share its result.
type Service struct {
	analyses  store.Analyses
	collector *collect.Collector
	searcher  search.Searcher
	gen       genai.Generator
	opts      Options
	now       func() time.Time

	mu       sync.Mutex
	inflight map[string]*call
}

// New wires a pipeline service. Zero option fields fall back to 24h
// freshness, 5 retained records, and the generator's token default.
func New(analyses store.Analyses, collector *collect.Collector, searcher search.Searcher, gen genai.Generator, opts Options) *Service {
	if opts.MaxAge <= 0 {
		opts.MaxAge = 24 * time.Hour
	}
	if opts.KeepPerType <= 0 {
		opts.KeepPerType = 5
	}
	return &Service{
		analyses:  analyses,
		collector: collector,
		searcher:  searcher,
		gen:       gen,
		opts:      opts,
		now:       time.Now,
		inflight:  make(map[string]*call),
	}
}

// Run produces an insight for the user and type. A sufficiently fresh
// cached analysis short-circuits unless opts.Force is set. Returns
// core.ErrNoData when the type needs transactions and the user has none.
func (s *Service) Run(ctx context.Context, userID string, t core.InsightType, opts RunOptions) (*core.PipelineResult, error) {
	fire := func(st Stage) {
		if opts.OnStage != nil {
			opts.OnStage(st)
		}
	}

	if !opts.Force {
		fire(StageCacheCheck)
		if res, ok := s.cached(ctx, userID, t); ok {
			fire(StageDone)
			return res, nil
		}
	}

	key := userID + "|" + string(t)
	s.mu.Lock()
	if c, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		fire(StageGenerating)
		select {
		case <-c.done:
			if c.err != nil {
				return nil, c.err
			}
			fire(StageDone)
			return c.res, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &call{done: make(chan struct{})}
	s.inflight[key] = c
	s.mu.Unlock()

	c.res, c.err = s.generate(ctx, userID, t, fire)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
	close(c.done)

	return c.res, c.err
}

// cached returns a fresh stored analysis, if one exists. Read failures
// log and fall through to generation: a flaky store read should not
// block a result the pipeline can still produce.
func (s *Service) cached(ctx context.Context, userID string, t core.InsightType) (*core.PipelineResult, bool) {
	rec, err := s.analyses.Latest(ctx, userID, t)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			logger.L().WithFields(logrus.Fields{"userID": userID, "insightType": t}).
				Warnf("cache read failed, regenerating: %v", err)
		}
		return nil, false
	}
	if rec.StaleAfter(s.opts.MaxAge, s.now()) {
		return nil, false
	}
	return resultFromRecord(rec, true, false), true
}

// generate runs the full pipeline past the cache.
func (s *Service) generate(ctx context.Context, userID string, t core.InsightType, fire func(Stage)) (*core.PipelineResult, error) {
	log := logger.L().WithFields(logrus.Fields{"userID": userID, "insightType": t})
	start := s.now()

	fire(StageCollecting)
	pc, err := s.collector.Collect(ctx, userID, t)
	if err != nil {
		return nil, fmt.Errorf("failed to collect context: %w", err)
	}
	if t.RequiresTransactions() && pc.TransactionCount == 0 {
		return nil, core.ErrNoData
	}

	var audit *core.SearchAudit
	if t == core.InvestmentInsights {
		fire(StageEnriching)
		audit = s.enrich(ctx, pc)
	}

	fire(StageGenerating)
	msgs := prompt.Build(t, pc)
	raw, err := s.gen.Complete(ctx, msgs, core.GenerateOptions{MaxTokens: s.opts.MaxTokens})
	if err != nil {
		log.Errorf("generation failed: %v", err)
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	fire(StageParsing)
	rec := buildRecord(userID, t, raw, pc, audit)

	fire(StagePersisting)
	if err := s.analyses.Insert(ctx, rec); err != nil {
		log.Errorf("failed to persist analysis: %v", err)
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}
	if _, err := s.analyses.Prune(ctx, userID, t, s.opts.KeepPerType); err != nil {
		// The new record is durable; a failed sweep only delays cleanup.
		log.Errorf("retention sweep failed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"dataPoints": pc.TransactionCount,
		"durationMs": s.now().Sub(start).Milliseconds(),
	}).Info("insight generated")

	fire(StageDone)
	return resultFromRecord(rec, false, false), nil
}

// enrich adds market context for investment insights. Best-effort: any
// failure logs a warning and generation proceeds without it.
func (s *Service) enrich(ctx context.Context, pc *core.PipelineContext) *core.SearchAudit {
	res, err := s.searcher.MarketContext(ctx, pc.StockSymbols, pc.FundNames)
	if err != nil {
		logger.L().Warnf("market enrichment failed: %v", err)
		return nil
	}
	if res.Context == "" {
		return nil
	}
	pc.MarketContext = res.Context
	return &core.SearchAudit{Queries: res.Queries, SnippetCount: res.SnippetCount}
}

// buildRecord parses the model response and assembles the record to
// persist. Parsing never fails the run: unrecognized output is stored as
// raw content.
func buildRecord(userID string, t core.InsightType, raw string, pc *core.PipelineContext, audit *core.SearchAudit) *core.AnalysisRecord {
	rec := &core.AnalysisRecord{
		UserID:        userID,
		Type:          t,
		DataPoints:    pc.TransactionCount,
		SearchContext: audit,
	}

	parsed := parse.Parse(raw)
	if parsed.Mode == parse.ModeRaw {
		logger.L().WithFields(logrus.Fields{"userID": userID, "insightType": t}).
			Warn("response is not JSON, storing raw content")
		rec.Content = parsed.Raw
		return rec
	}
	if parsed.Mode == parse.ModeExtracted {
		logger.L().WithFields(logrus.Fields{"userID": userID, "insightType": t}).
			Warn("response wrapped JSON in extra text, object extracted")
	}

	sd, sections, ok := schema.Convert(parsed.Data)
	if !ok {
		logger.L().WithFields(logrus.Fields{"userID": userID, "insightType": t}).
			Warn("unrecognized response shape, storing raw content")
		rec.Content = parsed.Raw
		return rec
	}

	rec.StructuredData = sd
	rec.Sections = sections
	rec.Content = schema.Render(sections)
	return rec
}

// Latest returns the newest stored analysis without generating, marking
// it stale when it is older than the freshness window.
func (s *Service) Latest(ctx context.Context, userID string, t core.InsightType) (*core.PipelineResult, error) {
	rec, err := s.analyses.Latest(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	return resultFromRecord(rec, true, rec.StaleAfter(s.opts.MaxAge, s.now())), nil
}

// History returns stored analyses, newest first.
func (s *Service) History(ctx context.Context, userID string, t core.InsightType, limit int) ([]core.AnalysisRecord, error) {
	if limit <= 0 || limit > s.opts.KeepPerType {
		limit = s.opts.KeepPerType
	}
	return s.analyses.History(ctx, userID, t, limit)
}

// Purge clears the stored history for the user and type.
func (s *Service) Purge(ctx context.Context, userID string, t core.InsightType) (int, error) {
	return s.analyses.Purge(ctx, userID, t)
}

func resultFromRecord(rec *core.AnalysisRecord, fromCache, stale bool) *core.PipelineResult {
	return &core.PipelineResult{
		Type:           rec.Type,
		Content:        rec.Content,
		Sections:       rec.Sections,
		StructuredData: rec.StructuredData,
		DataPoints:     rec.DataPoints,
		GeneratedAt:    rec.GeneratedAt,
		FromCache:      fromCache,
		Stale:          stale,
		SearchContext:  rec.SearchContext,
	}
}
