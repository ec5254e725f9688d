package domain

import "context"

// Kind identifies the section of the provider response a result came from.
type Kind string

const (
	KindWeb  Kind = "web"
	KindNews Kind = "news"
	KindFAQ  Kind = "faq"
	// KindError marks the in-band failure record returned by the simple
	// search operations instead of a result list.
	KindError Kind = "error"
)

// Freshness is a provider time filter. Empty means no filter.
type Freshness string

const (
	FreshnessNone      Freshness = ""
	FreshnessPastDay   Freshness = "pd"
	FreshnessPastWeek  Freshness = "pw"
	FreshnessPastMonth Freshness = "pm"
	FreshnessPastYear  Freshness = "py"
)

// ValidFreshness reports whether f is one of the provider's accepted values.
func ValidFreshness(f Freshness) bool {
	switch f {
	case FreshnessNone, FreshnessPastDay, FreshnessPastWeek, FreshnessPastMonth, FreshnessPastYear:
		return true
	}
	return false
}

// ResultFilter selects the provider's result mode.
type ResultFilter string

const (
	FilterWeb  ResultFilter = "web"
	FilterNews ResultFilter = "news"
)

// Count bounds enforced before any provider call.
const (
	MinSearchCount = 1
	MaxSearchCount = 20
)

// SearchQuery is one fully-specified provider request.
type SearchQuery struct {
	Text      string
	Count     int
	Offset    int
	Country   string
	Lang      string
	Freshness Freshness
	Filter    ResultFilter
}

// Clamp returns a copy of q with Count forced into [MinSearchCount, MaxSearchCount]
// and empty fields defaulted. All cache keys and provider calls are built from
// the clamped query, never the caller's raw one.
func (q SearchQuery) Clamp() SearchQuery {
	if q.Count < MinSearchCount {
		q.Count = MinSearchCount
	}
	if q.Count > MaxSearchCount {
		q.Count = MaxSearchCount
	}
	if q.Country == "" {
		q.Country = "US"
	}
	if q.Lang == "" {
		q.Lang = "en"
	}
	if q.Filter == "" {
		q.Filter = FilterWeb
	}
	if !ValidFreshness(q.Freshness) {
		q.Freshness = FreshnessNone
	}
	return q
}

// SearchResult is one normalized result record. All fields are plain strings;
// values absent from the provider payload are empty, never null downstream.
type SearchResult struct {
	Kind        Kind   `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Snippet     string `json:"snippet,omitempty"`
	Age         string `json:"age,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ErrorResult builds the in-band failure record for the simple search
// operations: the historical "list containing one error object" shape.
func ErrorResult(query string, err error) SearchResult {
	return SearchResult{
		Kind:        KindError,
		Title:       query,
		Description: err.Error(),
	}
}

// SearchProvider is the seam between the orchestration layer and the search
// provider. Implementations perform exactly one provider round-trip per call
// and never retry; retry and fan-out policy live above this interface.
type SearchProvider interface {
	Search(ctx context.Context, q SearchQuery) ([]SearchResult, error)
	Name() string
}
