// Package search runs the full query pipeline: sanitize, parse, retrieve
// catalog features and live events concurrently, rank, summarize, cache.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/query"
	"github.com/ketjandr/nasa-spaceapps-project/internal/metrics"
)

// Request bounds.
const (
	DefaultLimit = 10
	MaxLimit     = 50

	DefaultEventDays = 30
	MaxEventDays     = 365

	// historyTimeout bounds the detached history write after a response
	// has already been produced.
	historyTimeout = 5 * time.Second
)

// Request is one search call. Zero values mean defaults; normalize fills
// them in before the pipeline runs.
type Request struct {
	Query         string
	TargetBody    body.Body // optional hint, never overrides a detected body
	Limit         int
	IncludeEvents bool
	EventDays     int
	SessionID     string
}

func (r *Request) normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.EventDays <= 0 {
		r.EventDays = DefaultEventDays
	}
	if r.EventDays > MaxEventDays {
		r.EventDays = MaxEventDays
	}
}

// Deps collects the service's collaborators. History and Summarizer are
// optional; the pipeline skips those stages when nil.
type Deps struct {
	Catalog    CatalogReader
	Events     EventFeed
	Parser     QueryParser
	Embedder   Embedder
	Cache      ResultCache
	History    HistoryRecorder
	Summarizer Summarizer
	Logger     *zap.Logger
}

// Service executes searches over the feature catalog and the live event feed.
type Service struct {
	catalog    CatalogReader
	events     EventFeed
	parser     QueryParser
	embedder   Embedder
	cache      ResultCache
	history    HistoryRecorder
	summarizer Summarizer
	logger     *zap.Logger
}

// New creates a search service.
func New(d Deps) *Service {
	return &Service{
		catalog:    d.Catalog,
		events:     d.Events,
		parser:     d.Parser,
		embedder:   d.Embedder,
		cache:      d.Cache,
		history:    d.History,
		summarizer: d.Summarizer,
		logger:     d.Logger,
	}
}

// Search runs one query end to end. Catalog retrieval, the event feed and
// query embedding run concurrently; only validation, parsing and catalog
// failures surface as errors. A dead event feed or embedder degrades the
// result instead of failing the search.
func (s *Service) Search(ctx context.Context, req Request) (domain.SearchResult, error) {
	req.normalize()

	q := query.Sanitize(req.Query)
	if err := query.Validate(q); err != nil {
		return domain.SearchResult{}, err
	}

	key := cacheKey(q, req.TargetBody)
	if res, ok := s.cache.Get(key); ok {
		return res, nil
	}

	start := time.Now()

	it, err := s.parser.Parse(ctx, q, req.TargetBody)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("parse query: %w", err)
	}

	var (
		features []domain.Feature
		events   []domain.Event
		queryVec []float32
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		features, err = s.catalog.Search(gctx, catalogFilter(it))
		if err != nil {
			return fmt.Errorf("catalog search: %w", err)
		}
		return nil
	})

	if req.IncludeEvents && it.IsEvent() {
		if categoryID, ok := domain.EventCategoryID(it.EventCategory()); ok {
			days, limit := req.EventDays, req.Limit
			g.Go(func() error {
				evs, err := s.events.EventsByCategory(gctx, categoryID, days, limit)
				if err != nil {
					// Fail open: the catalog half of the search still answers.
					metrics.EventFeedErrorsTotal.Inc()
					s.logger.Warn("Event feed unavailable, continuing with catalog only",
						zap.String("category", categoryID),
						zap.Error(err),
					)
					return nil
				}
				events = evs
				return nil
			})
		} else {
			s.logger.Warn("No feed category for detected event intent",
				zap.String("event_category", it.EventCategory()),
			)
		}
	}

	if it.Source() == intent.SourceDeterministic {
		g.Go(func() error {
			emb, err := s.embedder.Embed(gctx, q)
			if err != nil {
				s.logger.Warn("Query embedding failed, ranking without similarity",
					zap.Error(err),
				)
				queryVec = domain.ZeroVector()
				return nil
			}
			queryVec = emb.Embedding
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.SearchResult{}, err
	}

	results, eventCount, featureCount := rank(features, events, queryVec, it, req.Limit)

	res := domain.SearchResult{
		Query:        q,
		Intent:       it,
		Results:      results,
		TotalResults: eventCount + featureCount,
		EventCount:   eventCount,
		FeatureCount: featureCount,
	}
	if s.summarizer != nil {
		res.Summary = s.summarizer.Summarize(ctx, q, results)
	}

	s.cache.Put(key, res)
	s.recordHistory(req.SessionID, q, it, len(results))

	searchType := it.SearchType().String()
	metrics.SearchesTotal.WithLabelValues(searchType).Inc()
	metrics.SearchDuration.WithLabelValues(searchType).Observe(time.Since(start).Seconds())

	s.logger.Info("Search completed",
		zap.String("query", q),
		zap.String("search_type", searchType),
		zap.String("intent_source", it.Source().String()),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// recordHistory writes the search to history on a detached context so a
// slow history store never delays the response. Best effort.
func (s *Service) recordHistory(sessionID, q string, it intent.Intent, resultCount int) {
	if s.history == nil {
		return
	}
	entry := domain.HistoryEntry{
		SessionID:    sessionID,
		Query:        q,
		SearchType:   it.SearchType().String(),
		TargetBody:   it.TargetBody().String(),
		Category:     it.Category(),
		ResultsCount: resultCount,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warn("History write failed", zap.Error(err))
		}
	}()
}

// cacheKey is lowercase query text plus the body hint, "all" when no hint
// was given. The detected body is deliberately not part of the key: the
// same text always parses the same way.
func cacheKey(q string, b body.Body) string {
	part := "all"
	if b.IsValid() {
		part = b.String()
	}
	return strings.ToLower(q) + ":" + part
}

// catalogFilter translates a parsed intent into the catalog retrieval
// filter. Retrieval stays broad; scoring does the fine selection.
func catalogFilter(it intent.Intent) domain.CatalogFilter {
	f := domain.CatalogFilter{
		Category:   it.Category(),
		Size:       it.Size(),
		OriginOnly: it.OriginOnly(),
		Limit:      domain.MaxCatalogCandidates,
	}
	if b := it.TargetBody(); b.IsValid() {
		f.Body = b.String()
	}
	return f
}
