package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchkit/internal/domain"
)

func TestSmartSearchEarlyExit(t *testing.T) {
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		return webResults("a", "b", "c", "d", "e", "f"), nil
	}}
	svc := newTestService(p, nil)

	out := svc.SmartSearch(context.Background(), "golang generics", 3, 5)

	assert.Equal(t, 1, p.callCount(), "first variant clearing the threshold must stop the loop")
	require.Len(t, out.Metadata.History, 1)
	assert.True(t, out.Metadata.History[0].Success)
	assert.Equal(t, 6, out.Metadata.History[0].ResultCount)
	assert.Len(t, out.Results, 6)
	assert.Equal(t, 1, out.Metadata.SuccessfulAttempts)
}

func TestSmartSearchBestEffortFallback(t *testing.T) {
	counts := []int{2, 4, 3}
	call := 0
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		call++
		titles := make([]string, counts[call-1])
		for i := range titles {
			titles[i] = fmt.Sprintf("v%d-%d", call, i)
		}
		return webResults(titles...), nil
	}}
	svc := newTestService(p, nil)

	out := svc.SmartSearch(context.Background(), "obscure topic", 3, 5)

	assert.Equal(t, 3, p.callCount(), "all variants run when none clears the threshold")
	require.Len(t, out.Metadata.History, 3)
	assert.Len(t, out.Results, 4, "the attempt with the most results wins")
	assert.Equal(t, 4, out.Metadata.FinalResultCount)
	assert.Equal(t, 0, out.Metadata.SuccessfulAttempts)
	for _, h := range out.Metadata.History {
		assert.False(t, h.Success)
	}
	// The winning set is the one from the second variant.
	assert.Equal(t, "v2-0", out.Results[0].Title)
}

func TestSmartSearchAllVariantsError(t *testing.T) {
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		return nil, domain.ErrRateLimit
	}}
	svc := newTestService(p, nil)

	out := svc.SmartSearch(context.Background(), "x", 3, 5)

	assert.Empty(t, out.Results)
	assert.NotNil(t, out.Results, "results must be an empty sequence, not absent")
	require.Len(t, out.Metadata.History, 3)
	for _, h := range out.Metadata.History {
		assert.False(t, h.Success)
		assert.Contains(t, h.Error, "rate limit")
	}
}

func TestSmartSearchErrorDoesNotAbortLoop(t *testing.T) {
	call := 0
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		call++
		if call == 1 {
			return nil, domain.ErrNetwork
		}
		return webResults("a", "b", "c", "d", "e"), nil
	}}
	svc := newTestService(p, nil)

	out := svc.SmartSearch(context.Background(), "x", 3, 5)

	assert.Equal(t, 2, p.callCount())
	require.Len(t, out.Metadata.History, 2)
	assert.NotEmpty(t, out.Metadata.History[0].Error)
	assert.True(t, out.Metadata.History[1].Success)
	assert.Len(t, out.Results, 5)
}

func TestSmartSearchVariantSequence(t *testing.T) {
	p := &mockProvider{searchFunc: func(domain.SearchQuery) ([]domain.SearchResult, error) {
		return nil, nil // zero results everywhere: every variant runs
	}}
	svc := newTestService(p, nil)

	svc.SmartSearch(context.Background(), "foo bar", 4, 5)

	require.Equal(t, 4, p.callCount())
	assert.Equal(t, "foo bar", p.call(0).Text)
	assert.Equal(t, `"foo bar"`, p.call(1).Text)
	assert.Equal(t, "foo bar", p.call(2).Text)
	assert.Equal(t, domain.FreshnessPastYear, p.call(2).Freshness)
	assert.Equal(t, "foo AND bar", p.call(3).Text)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 20, p.call(i).Count, "strategy attempts request the provider maximum")
	}
}

func TestSmartSearchTruncatesToMaxAttempts(t *testing.T) {
	p := &mockProvider{}
	svc := newTestService(p, nil)

	out := svc.SmartSearch(context.Background(), "x", 2, 5)

	assert.Equal(t, 2, p.callCount())
	assert.Equal(t, 2, out.Metadata.TotalAttempts)
}

func TestSmartSearchDefaults(t *testing.T) {
	p := &mockProvider{}
	svc := newTestService(p, nil)

	out := svc.SmartSearch(context.Background(), "x", 0, 0)

	assert.Equal(t, DefaultMaxAttempts, p.callCount())
	assert.Equal(t, "x", out.Metadata.OriginalQuery)
	assert.NotEmpty(t, out.Metadata.RequestID)
}
