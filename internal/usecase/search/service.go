package search

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"searchkit/internal/domain"
	"searchkit/internal/infra/logger"
	"searchkit/internal/infra/tracer"
)

// DefaultSearchCount applies when SearchOptions.Count is zero.
const DefaultSearchCount = 10

// SearchOptions tunes a simple web or news search. The zero value means
// count 10, offset 0, country US, language en, no freshness filter.
type SearchOptions struct {
	Count     int
	Offset    int
	Country   string
	Lang      string
	Freshness domain.Freshness
}

// Service is the search orchestration layer. Its four public operations
// never return an error to the caller: failure is always represented
// in-band in the returned value.
type Service struct {
	provider domain.SearchProvider
	cache    Cache
	logger   *slog.Logger
}

// NewService wires the orchestration layer. cache may be nil to disable
// caching entirely (every call reaches the provider).
func NewService(provider domain.SearchProvider, cache Cache, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		provider: provider,
		cache:    cache,
		logger:   log,
	}
}

// WebSearch performs a cached web search. On failure it returns a single
// in-band error record instead of raising.
func (s *Service) WebSearch(ctx context.Context, query string, opts SearchOptions) []domain.SearchResult {
	return s.simpleSearch(ctx, "search.web", query, opts, domain.FilterWeb)
}

// NewsSearch performs a cached news search. The freshness filter defaults to
// past-week, and only news-kind records are returned and cached.
func (s *Service) NewsSearch(ctx context.Context, query string, opts SearchOptions) []domain.SearchResult {
	if opts.Freshness == domain.FreshnessNone {
		opts.Freshness = domain.FreshnessPastWeek
	}
	return s.simpleSearch(ctx, "search.news", query, opts, domain.FilterNews)
}

func (s *Service) simpleSearch(ctx context.Context, op, query string, opts SearchOptions, filter domain.ResultFilter) []domain.SearchResult {
	ctx, span := tracer.StartSpan(ctx, op,
		trace.WithAttributes(tracer.StringAttr("search.query", query)),
	)
	defer span.End()

	q := s.buildQuery(query, opts, filter)
	key := Key(q)

	if cached, ok := s.cacheGet(key); ok {
		s.logger.Debug("returning cached result", "op", op, "query", query)
		span.SetAttributes(tracer.StringAttr("search.cache", "hit"), tracer.IntAttr("search.results", len(cached)))
		tracer.SetOK(span)
		return cached
	}
	span.SetAttributes(tracer.StringAttr("search.cache", "miss"))

	results, err := s.provider.Search(ctx, q)
	if err != nil {
		tracer.RecordError(span, err)
		s.logger.Error("search failed", "op", op, "query", query, "error", err)
		return []domain.SearchResult{domain.ErrorResult(query, err)}
	}

	if filter == domain.FilterNews {
		results = newsOnly(results)
	}

	s.cachePut(key, results)

	span.SetAttributes(tracer.IntAttr("search.results", len(results)))
	tracer.SetOK(span)
	s.logger.Info("search completed", "op", op, "query", query, "results", len(results))
	return results
}

// buildQuery applies option defaults and clamping; every provider call and
// cache key goes through here.
func (s *Service) buildQuery(query string, opts SearchOptions, filter domain.ResultFilter) domain.SearchQuery {
	count := opts.Count
	if count == 0 {
		count = DefaultSearchCount
	}
	return domain.SearchQuery{
		Text:      query,
		Count:     count,
		Offset:    opts.Offset,
		Country:   opts.Country,
		Lang:      opts.Lang,
		Freshness: opts.Freshness,
		Filter:    filter,
	}.Clamp()
}

func (s *Service) cacheGet(key string) ([]domain.SearchResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *Service) cachePut(key string, results []domain.SearchResult) {
	if s.cache != nil {
		s.cache.Put(key, results)
	}
}

// newRequestID mints a ULID for log/trace correlation of one invocation.
func newRequestID() string {
	return ulid.Make().String()
}

// newsOnly keeps news-kind records, preserving order.
func newsOnly(results []domain.SearchResult) []domain.SearchResult {
	filtered := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Kind == domain.KindNews {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
