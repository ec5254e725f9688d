// Package searchkit is a resilient search orchestration layer over the
// Brave Search API. Its four operations (web search, news search, adaptive
// multi-variant search, and concurrent research aggregation) absorb provider
// flakiness, cache normalized results, and degrade gracefully on partial
// failure. None of the operations ever returns an error to the caller;
// failures come back in-band as data.
package searchkit

import (
	"context"
	"errors"

	"searchkit/internal/adapter/brave"
	"searchkit/internal/domain"
	"searchkit/internal/infra/config"
	"searchkit/internal/infra/logger"
	"searchkit/internal/infra/tracer"
	"searchkit/internal/usecase/search"
)

// Re-exported types forming the public contract.
type (
	Config          = config.Config
	Service         = search.Service
	SearchOptions   = search.SearchOptions
	ResearchOptions = search.ResearchOptions

	SearchQuery     = domain.SearchQuery
	SearchResult    = domain.SearchResult
	SmartResult     = domain.SmartResult
	StrategyAttempt = domain.StrategyAttempt
	ResearchBundle  = domain.ResearchBundle
	Freshness       = domain.Freshness
	Category        = domain.Category
	ResearchDepth   = domain.ResearchDepth
	TimeRange       = domain.TimeRange
	Kind            = domain.Kind
)

// Re-exported enum values.
const (
	KindWeb   = domain.KindWeb
	KindNews  = domain.KindNews
	KindFAQ   = domain.KindFAQ
	KindError = domain.KindError

	FreshnessNone      = domain.FreshnessNone
	FreshnessPastDay   = domain.FreshnessPastDay
	FreshnessPastWeek  = domain.FreshnessPastWeek
	FreshnessPastMonth = domain.FreshnessPastMonth
	FreshnessPastYear  = domain.FreshnessPastYear

	DepthLight  = domain.DepthLight
	DepthMedium = domain.DepthMedium
	DepthDeep   = domain.DepthDeep

	RangeRecent = domain.RangeRecent
	RangeYear   = domain.RangeYear
	RangeAll    = domain.RangeAll
)

// DefaultResearchOptions mirrors the historical research defaults.
func DefaultResearchOptions() ResearchOptions { return search.DefaultResearchOptions() }

// LoadConfig reads the YAML config at path with environment overrides.
// A missing file is fine; defaults plus environment are used.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config { return config.Defaults() }

// New builds the search layer from configuration: logger, tracing, provider
// client with optional throttle and circuit breaker, cache backend, and the
// sweep janitor. The returned shutdown function must be called on exit.
func New(ctx context.Context, cfg *Config) (*Service, func(context.Context) error, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}

	traceShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		logCloser()
		return nil, nil, err
	}

	var provider domain.SearchProvider = brave.NewClient(cfg.Provider, log)
	if cfg.Provider.RatePerSec > 0 {
		provider = brave.NewThrottledProvider(provider, cfg.Provider.RatePerSec, cfg.Provider.RateBurst)
	}
	if cfg.Breaker.Enabled {
		provider = brave.NewBreakerProvider(provider, cfg.Breaker, log)
	}

	var cache search.Cache
	var cacheCloser func() error
	switch cfg.Cache.Backend {
	case "sqlite":
		sqliteCache, err := search.NewSQLiteCache(cfg.Cache.Path, cfg.Cache.TTL, log)
		if err != nil {
			traceShutdown(ctx)
			logCloser()
			return nil, nil, err
		}
		cache = sqliteCache
		cacheCloser = sqliteCache.Close
	default:
		cache = search.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	}

	var janitor *search.Janitor
	if cfg.Cache.SweepSchedule != "" {
		janitor, err = search.StartJanitor(cfg.Cache.SweepSchedule, cache, log)
		if err != nil {
			if cacheCloser != nil {
				cacheCloser()
			}
			traceShutdown(ctx)
			logCloser()
			return nil, nil, err
		}
	}

	svc := search.NewService(provider, cache, log)

	shutdown := func(ctx context.Context) error {
		var errs []error
		if janitor != nil {
			janitor.Stop()
		}
		if cacheCloser != nil {
			errs = append(errs, cacheCloser())
		}
		errs = append(errs, traceShutdown(ctx))
		errs = append(errs, logCloser())
		return errors.Join(errs...)
	}

	return svc, shutdown, nil
}
