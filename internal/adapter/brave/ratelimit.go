package brave

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"searchkit/internal/domain"
)

// ThrottledProvider enforces a client-side request quota in front of a
// SearchProvider. It waits for a token rather than rejecting, so a burst of
// concurrent category searches queues up instead of burning the provider's
// rate limit.
type ThrottledProvider struct {
	inner   domain.SearchProvider
	limiter *rate.Limiter
}

// NewThrottledProvider wraps inner with a token bucket of perSec tokens per
// second and the given burst size. burst values below 1 are raised to 1.
func NewThrottledProvider(inner domain.SearchProvider, perSec float64, burst int) *ThrottledProvider {
	if burst < 1 {
		burst = 1
	}
	return &ThrottledProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
	}
}

// Search implements domain.SearchProvider. It blocks until a token is
// available or the context is done.
func (p *ThrottledProvider) Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	return p.inner.Search(ctx, q)
}

// Name implements domain.SearchProvider.
func (p *ThrottledProvider) Name() string { return p.inner.Name() }

var _ domain.SearchProvider = (*ThrottledProvider)(nil)
