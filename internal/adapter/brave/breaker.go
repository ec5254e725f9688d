package brave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sony/gobreaker/v2"

	"searchkit/internal/domain"
	"searchkit/internal/infra/config"
)

// BreakerProvider wraps a SearchProvider with circuit breaker protection.
// When the provider fails repeatedly, the circuit opens and subsequent calls
// fail fast without reaching the provider, preventing retry storms against
// an already struggling API.
type BreakerProvider struct {
	inner   domain.SearchProvider
	breaker *gobreaker.CircuitBreaker[[]domain.SearchResult]
	logger  *slog.Logger
}

// NewBreakerProvider wraps inner with a circuit breaker. Zero-valued config
// fields fall back to the defaults in config.Defaults().
func NewBreakerProvider(inner domain.SearchProvider, cfg config.BreakerConfig, logger *slog.Logger) *BreakerProvider {
	defaults := config.Defaults().Breaker
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = defaults.MaxFailures
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.Interval == 0 {
		cfg.Interval = defaults.Interval
	}

	cb := gobreaker.NewCircuitBreaker[[]domain.SearchResult](gobreaker.Settings{
		Name:        "search:" + inner.Name(),
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		// Caller mistakes (bad params, missing credential) say nothing
		// about provider health and must not trip the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil || !domain.IsRetryableError(err)
		},
	})

	return &BreakerProvider{inner: inner, breaker: cb, logger: logger}
}

// Search implements domain.SearchProvider. Calls route through the breaker.
func (p *BreakerProvider) Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	results, err := p.breaker.Execute(func() ([]domain.SearchResult, error) {
		return p.inner.Search(ctx, q)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("provider %q circuit open: %w", p.inner.Name(), err)
		}
		return nil, err
	}
	return results, nil
}

// Name implements domain.SearchProvider.
func (p *BreakerProvider) Name() string { return p.inner.Name() }

// State returns the current circuit breaker state for monitoring.
func (p *BreakerProvider) State() gobreaker.State {
	return p.breaker.State()
}

var _ domain.SearchProvider = (*BreakerProvider)(nil)
