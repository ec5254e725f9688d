package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchkit/internal/adapter/brave"
	"searchkit/internal/domain"
	"searchkit/internal/infra/config"
	"searchkit/internal/infra/logger"
)

// mockProvider implements domain.SearchProvider and records every query.
type mockProvider struct {
	mu         sync.Mutex
	calls      []domain.SearchQuery
	searchFunc func(q domain.SearchQuery) ([]domain.SearchResult, error)
}

func (m *mockProvider) Search(_ context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, q)
	fn := m.searchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(q)
	}
	return nil, nil
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockProvider) call(i int) domain.SearchQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[i]
}

func newTestService(p domain.SearchProvider, c Cache) *Service {
	return NewService(p, c, logger.Discard())
}

func TestWebSearchClampsCount(t *testing.T) {
	p := &mockProvider{}
	svc := newTestService(p, nil)

	svc.WebSearch(context.Background(), "x", SearchOptions{Count: 50})
	assert.Equal(t, 20, p.call(0).Count)

	svc.WebSearch(context.Background(), "x", SearchOptions{Count: -3})
	assert.Equal(t, 1, p.call(1).Count)
}

func TestWebSearchDefaultCount(t *testing.T) {
	p := &mockProvider{}
	svc := newTestService(p, nil)

	svc.WebSearch(context.Background(), "x", SearchOptions{})
	assert.Equal(t, DefaultSearchCount, p.call(0).Count)
}

func TestWebSearchErrorInBand(t *testing.T) {
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		return nil, domain.ErrRateLimit
	}}
	svc := newTestService(p, nil)

	results := svc.WebSearch(context.Background(), "doomed", SearchOptions{})

	require.Len(t, results, 1)
	assert.Equal(t, domain.KindError, results[0].Kind)
	assert.Equal(t, "doomed", results[0].Title)
	assert.Contains(t, results[0].Description, "rate limit")
}

func TestWebSearchErrorNotCached(t *testing.T) {
	fail := true
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		if fail {
			return nil, domain.ErrNetwork
		}
		return webResults("recovered"), nil
	}}
	svc := newTestService(p, NewMemoryCache(time.Hour, 0))

	first := svc.WebSearch(context.Background(), "x", SearchOptions{})
	assert.Equal(t, domain.KindError, first[0].Kind)

	fail = false
	second := svc.WebSearch(context.Background(), "x", SearchOptions{})
	require.Len(t, second, 1)
	assert.Equal(t, "recovered", second[0].Title, "a failed search must not poison the cache")
}

func TestWebSearchCacheHitSkipsProvider(t *testing.T) {
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		return webResults("a"), nil
	}}
	svc := newTestService(p, NewMemoryCache(time.Hour, 0))

	svc.WebSearch(context.Background(), "x", SearchOptions{})
	svc.WebSearch(context.Background(), "x", SearchOptions{})

	assert.Equal(t, 1, p.callCount(), "second identical search must come from cache")
}

func TestNewsSearchDefaultsAndFilters(t *testing.T) {
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		return []domain.SearchResult{
			{Kind: domain.KindWeb, Title: "w"},
			{Kind: domain.KindNews, Title: "n1"},
			{Kind: domain.KindNews, Title: "n2"},
		}, nil
	}}
	svc := newTestService(p, nil)

	results := svc.NewsSearch(context.Background(), "x", SearchOptions{})

	q := p.call(0)
	assert.Equal(t, domain.FilterNews, q.Filter)
	assert.Equal(t, domain.FreshnessPastWeek, q.Freshness, "news freshness defaults to past-week")

	require.Len(t, results, 2)
	assert.Equal(t, "n1", results[0].Title)
	assert.Equal(t, "n2", results[1].Title)
}

func TestNewsSearchCachesFilteredResults(t *testing.T) {
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		return []domain.SearchResult{
			{Kind: domain.KindWeb, Title: "w"},
			{Kind: domain.KindNews, Title: "n"},
		}, nil
	}}
	svc := newTestService(p, NewMemoryCache(time.Hour, 0))

	svc.NewsSearch(context.Background(), "x", SearchOptions{})
	cached := svc.NewsSearch(context.Background(), "x", SearchOptions{})

	assert.Equal(t, 1, p.callCount())
	require.Len(t, cached, 1)
	assert.Equal(t, domain.KindNews, cached[0].Kind)
}

// End-to-end through the real provider client against a fake server.
func TestWebSearchEndToEnd(t *testing.T) {
	var gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCount = r.URL.Query().Get("count")
		w.Write([]byte(`{"web": {"results": [
			{"title": "r1", "url": "https://r1", "description": "d1"},
			{"title": "r2", "url": "https://r2", "description": "d2"},
			{"title": "r3", "url": "https://r3", "description": "d3"}
		]}}`))
	}))
	defer srv.Close()

	client := brave.NewClient(config.ProviderConfig{
		BaseURL: srv.URL,
		APIKey:  "k",
		Timeout: 5 * time.Second,
	}, logger.Discard())
	cache := NewMemoryCache(time.Hour, 0)
	svc := newTestService(client, cache)

	results := svc.WebSearch(context.Background(), "quantum computing", SearchOptions{Count: 25})

	assert.Equal(t, "20", gotCount, "over-large count must reach the provider clamped")
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, domain.KindWeb, r.Kind)
	}

	stored, ok := cache.Get("web:quantum computing:20:0:US:en:none")
	require.True(t, ok, "results must be cached under the canonical key")
	assert.Equal(t, results, stored)
}

func TestWebSearchProviderErrorTaxonomy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := brave.NewClient(config.ProviderConfig{BaseURL: srv.URL, APIKey: "k"}, logger.Discard())
	svc := newTestService(client, nil)

	results := svc.WebSearch(context.Background(), "x", SearchOptions{})
	require.Len(t, results, 1)
	assert.Equal(t, domain.KindError, results[0].Kind)
	assert.Contains(t, results[0].Description, "rate limit")
}
