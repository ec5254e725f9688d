package search

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"searchkit/internal/domain"
	"searchkit/internal/infra/tracer"
)

// Defaults for the adaptive search loop.
const (
	DefaultMaxAttempts     = 3
	DefaultResultThreshold = 5
	strategySearchCount    = 20
)

// variant is one reformulated query + parameter combination tried by the
// adaptive loop.
type variant struct {
	query  string
	params map[string]string
}

// strategyVariants returns the fixed, ordered variant sequence for a query:
// verbatim, exact phrase, past-year freshness, and an AND-joined rewrite.
// The AND rewrite is a heuristic; the provider's handling of boolean
// operators in free text is not guaranteed.
func strategyVariants(query string) []variant {
	return []variant{
		{query: query, params: map[string]string{}},
		{query: `"` + query + `"`, params: map[string]string{}},
		{query: query, params: map[string]string{"freshness": string(domain.FreshnessPastYear)}},
		{query: strings.ReplaceAll(query, " ", " AND "), params: map[string]string{}},
	}
}

// SmartSearch tries query variants strictly in order until one clears the
// result threshold, keeping the best attempt seen as a fallback. The loop is
// intentionally sequential: whether to continue depends on the previous
// attempt's outcome, so ordering and early exit are part of the contract.
// Failed attempts are recorded and do not abort the loop.
func (s *Service) SmartSearch(ctx context.Context, query string, maxAttempts, resultThreshold int) domain.SmartResult {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if resultThreshold <= 0 {
		resultThreshold = DefaultResultThreshold
	}

	requestID := newRequestID()
	ctx, span := tracer.StartSpan(ctx, "search.smart",
		trace.WithAttributes(
			tracer.StringAttr("search.query", query),
			tracer.StringAttr("search.request_id", requestID),
		),
	)
	defer span.End()

	variants := strategyVariants(query)
	if maxAttempts < len(variants) {
		variants = variants[:maxAttempts]
	}

	var history []domain.StrategyAttempt
	var best []domain.SearchResult

	for i, v := range variants {
		attempt := i + 1
		q := domain.SearchQuery{
			Text:      v.query,
			Count:     strategySearchCount,
			Freshness: domain.Freshness(v.params["freshness"]),
			Filter:    domain.FilterWeb,
		}.Clamp()

		s.logger.Info("strategy attempt", "request_id", requestID, "attempt", attempt, "query", v.query)
		results, err := s.provider.Search(ctx, q)
		if err != nil {
			history = append(history, domain.StrategyAttempt{
				Attempt: attempt,
				Query:   v.query,
				Params:  v.params,
				Success: false,
				Error:   err.Error(),
			})
			s.logger.Warn("strategy attempt failed", "request_id", requestID, "attempt", attempt, "error", err)
			continue
		}

		success := len(results) >= resultThreshold
		history = append(history, domain.StrategyAttempt{
			Attempt:     attempt,
			Query:       v.query,
			Params:      v.params,
			ResultCount: len(results),
			Success:     success,
		})

		if success {
			best = results
			s.logger.Info("strategy succeeded", "request_id", requestID, "attempt", attempt, "results", len(results))
			break
		}
		if len(results) > len(best) {
			best = results
		}
	}

	succeeded := 0
	for _, h := range history {
		if h.Success {
			succeeded++
		}
	}

	span.SetAttributes(
		tracer.IntAttr("search.attempts", len(history)),
		tracer.IntAttr("search.results", len(best)),
	)
	tracer.SetOK(span)

	if best == nil {
		best = []domain.SearchResult{}
	}
	return domain.SmartResult{
		Results: best,
		Metadata: domain.SmartMetadata{
			RequestID:          requestID,
			OriginalQuery:      query,
			TotalAttempts:      len(history),
			SuccessfulAttempts: succeeded,
			FinalResultCount:   len(best),
			History:            history,
		},
	}
}
