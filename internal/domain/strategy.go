package domain

import "time"

// StrategyAttempt records one iteration of the adaptive search loop.
// Attempts are append-only; they are never mutated after creation.
type StrategyAttempt struct {
	Attempt     int               `json:"attempt"`
	Query       string            `json:"query"`
	Params      map[string]string `json:"params"`
	ResultCount int               `json:"result_count"`
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
}

// SmartMetadata describes how a SmartSearch invocation unfolded.
type SmartMetadata struct {
	RequestID          string            `json:"request_id"`
	OriginalQuery      string            `json:"original_query"`
	TotalAttempts      int               `json:"total_attempts"`
	SuccessfulAttempts int               `json:"successful_attempts"`
	FinalResultCount   int               `json:"final_result_count"`
	History            []StrategyAttempt `json:"search_history"`
}

// SmartResult is the outcome of a SmartSearch invocation.
type SmartResult struct {
	Results  []SearchResult `json:"results"`
	Metadata SmartMetadata  `json:"search_metadata"`
}

// Category is one independently-searched branch of a research request.
type Category string

const (
	CategoryWeb      Category = "web"
	CategoryAcademic Category = "academic"
	CategoryNews     Category = "news"
)

// ResearchDepth selects how many results each research category requests.
type ResearchDepth string

const (
	DepthLight  ResearchDepth = "light"
	DepthMedium ResearchDepth = "medium"
	DepthDeep   ResearchDepth = "deep"
)

// TimeRange is the coarse research recency filter mapped onto Freshness.
type TimeRange string

const (
	RangeRecent TimeRange = "recent"
	RangeYear   TimeRange = "year"
	RangeAll    TimeRange = "all"
)

// ResearchStrategy echoes the effective parameters of a research request.
type ResearchStrategy struct {
	Depth           ResearchDepth `json:"depth"`
	IncludeAcademic bool          `json:"include_academic"`
	IncludeNews     bool          `json:"include_news"`
	TimeRange       TimeRange     `json:"time_range"`
}

// CategoryResult is the tagged outcome of one research category: either a
// result list or an error message, never both. One category's error does not
// invalidate another's results.
type CategoryResult struct {
	Results []SearchResult `json:"results,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Failed reports whether the category ended in an error.
func (c CategoryResult) Failed() bool { return c.Error != "" }

// ResearchSummary aggregates per-category outcomes.
type ResearchSummary struct {
	TotalResults     int        `json:"total_results"`
	SourcesAttempted []Category `json:"sources_attempted"`
	SourcesSucceeded []Category `json:"sources_succeeded"`
	CompletedAt      time.Time  `json:"search_completed"`
}

// ResearchBundle is the full outcome of one research invocation. The
// Categories map and the result slices inside it are owned by the caller
// once returned.
type ResearchBundle struct {
	RequestID  string                      `json:"request_id"`
	Topic      string                      `json:"topic"`
	Strategy   ResearchStrategy            `json:"search_strategy"`
	Categories map[Category]CategoryResult `json:"results"`
	Summary    ResearchSummary             `json:"summary"`
}
