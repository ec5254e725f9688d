package search

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"searchkit/internal/domain"
	"searchkit/internal/infra/tracer"
)

// academicHints is appended to the topic for the academic category.
const academicHints = " site:edu OR site:org OR filetype:pdf OR academic OR research OR study"

// academicSearchCount is fixed regardless of depth, as is the news
// past-month freshness default.
const academicSearchCount = 10

// ResearchOptions tunes a research aggregation. Use DefaultResearchOptions
// as the starting point; a zero Depth or TimeRange falls back to medium/all.
type ResearchOptions struct {
	Depth           domain.ResearchDepth
	IncludeAcademic bool
	IncludeNews     bool
	TimeRange       domain.TimeRange
}

// DefaultResearchOptions mirrors the historical defaults: medium depth, all
// categories, no time restriction.
func DefaultResearchOptions() ResearchOptions {
	return ResearchOptions{
		Depth:           domain.DepthMedium,
		IncludeAcademic: true,
		IncludeNews:     true,
		TimeRange:       domain.RangeAll,
	}
}

// depthCounts maps depth to (web, news) result counts.
func depthCounts(d domain.ResearchDepth) (webCount, newsCount int) {
	switch d {
	case domain.DepthLight:
		return 10, 5
	case domain.DepthDeep:
		return 20, 15
	default:
		return 15, 10
	}
}

// rangeFreshness maps the coarse time range onto a provider freshness filter.
func rangeFreshness(r domain.TimeRange) domain.Freshness {
	switch r {
	case domain.RangeRecent:
		return domain.FreshnessPastMonth
	case domain.RangeYear:
		return domain.FreshnessPastYear
	default:
		return domain.FreshnessNone
	}
}

type categoryTask struct {
	category domain.Category
	query    domain.SearchQuery
}

// ResearchSearch fans out up to three independent category searches
// concurrently and joins them wait-for-all: a failure in one category is
// captured at that category's boundary and never cancels or taints the
// others. The bundle always comes back populated; nothing is raised.
func (s *Service) ResearchSearch(ctx context.Context, topic string, opts ResearchOptions) domain.ResearchBundle {
	if opts.Depth == "" {
		opts.Depth = domain.DepthMedium
	}
	if opts.TimeRange == "" {
		opts.TimeRange = domain.RangeAll
	}

	requestID := newRequestID()
	ctx, span := tracer.StartSpan(ctx, "search.research",
		trace.WithAttributes(
			tracer.StringAttr("search.topic", topic),
			tracer.StringAttr("search.depth", string(opts.Depth)),
			tracer.StringAttr("search.request_id", requestID),
		),
	)
	defer span.End()

	webCount, newsCount := depthCounts(opts.Depth)

	tasks := []categoryTask{{
		category: domain.CategoryWeb,
		query: domain.SearchQuery{
			Text:      topic,
			Count:     webCount,
			Freshness: rangeFreshness(opts.TimeRange),
			Filter:    domain.FilterWeb,
		}.Clamp(),
	}}
	if opts.IncludeAcademic {
		tasks = append(tasks, categoryTask{
			category: domain.CategoryAcademic,
			query: domain.SearchQuery{
				Text:   topic + academicHints,
				Count:  academicSearchCount,
				Filter: domain.FilterWeb,
			}.Clamp(),
		})
	}
	if opts.IncludeNews {
		tasks = append(tasks, categoryTask{
			category: domain.CategoryNews,
			query: domain.SearchQuery{
				Text:      topic,
				Count:     newsCount,
				Freshness: domain.FreshnessPastMonth,
				Filter:    domain.FilterNews,
			}.Clamp(),
		})
	}

	outcomes := make([]domain.CategoryResult, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(idx int, t categoryTask) {
			defer wg.Done()
			results, err := s.provider.Search(ctx, t.query)
			if err != nil {
				s.logger.Warn("research category failed",
					"request_id", requestID, "category", string(t.category), "error", err)
				outcomes[idx] = domain.CategoryResult{Error: err.Error()}
				return
			}
			outcomes[idx] = domain.CategoryResult{Results: results}
		}(i, task)
	}
	wg.Wait()

	categories := make(map[domain.Category]domain.CategoryResult, len(tasks))
	summary := domain.ResearchSummary{CompletedAt: time.Now()}
	for i, task := range tasks {
		categories[task.category] = outcomes[i]
		summary.SourcesAttempted = append(summary.SourcesAttempted, task.category)
		if !outcomes[i].Failed() {
			summary.SourcesSucceeded = append(summary.SourcesSucceeded, task.category)
			summary.TotalResults += len(outcomes[i].Results)
		}
	}

	span.SetAttributes(
		tracer.IntAttr("search.sources_attempted", len(summary.SourcesAttempted)),
		tracer.IntAttr("search.sources_succeeded", len(summary.SourcesSucceeded)),
		tracer.IntAttr("search.results", summary.TotalResults),
	)
	tracer.SetOK(span)
	s.logger.Info("research completed",
		"request_id", requestID,
		"topic", topic,
		"attempted", len(summary.SourcesAttempted),
		"succeeded", len(summary.SourcesSucceeded),
		"results", summary.TotalResults,
	)

	return domain.ResearchBundle{
		RequestID: requestID,
		Topic:     topic,
		Strategy: domain.ResearchStrategy{
			Depth:           opts.Depth,
			IncludeAcademic: opts.IncludeAcademic,
			IncludeNews:     opts.IncludeNews,
			TimeRange:       opts.TimeRange,
		},
		Categories: categories,
		Summary:    summary,
	}
}
