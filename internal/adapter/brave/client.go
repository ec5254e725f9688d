package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"searchkit/internal/domain"
	"searchkit/internal/infra/config"
)

// maxResponseBody is the maximum response body size read from the provider.
const maxResponseBody = 1 * 1024 * 1024 // 1 MB

// WebSearchEndpoint is the provider's combined web/news search endpoint.
const WebSearchEndpoint = "web/search"

// Client is the stateless HTTP client for the Brave Search API. It performs
// exactly one outbound GET per Request call. Retries, caching, and fan-out
// are strictly the responsibility of higher layers.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a provider client with a configured timeout.
func NewClient(cfg config.ProviderConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Request performs one GET against {base}/{endpoint} with the given query
// parameters. The credential is injected here and must not appear in params.
// A missing credential fails before any network I/O.
func (c *Client) Request(ctx context.Context, endpoint string, params url.Values) (*Payload, error) {
	if c.apiKey == "" {
		return nil, domain.ErrNoCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	// Accept-Encoding is left to the transport: setting it by hand would
	// disable its transparent gzip decompression.
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, mapStatus(resp.StatusCode)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &payload, nil
}

// Search implements domain.SearchProvider: one request, normalized results.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	q = q.Clamp()
	payload, err := c.Request(ctx, WebSearchEndpoint, Params(q))
	if err != nil {
		return nil, domain.WrapOp("brave search", err)
	}
	results := Normalize(payload)
	c.logger.Debug("brave search completed", "query", q.Text, "filter", string(q.Filter), "results", len(results))
	return results, nil
}

// Name implements domain.SearchProvider.
func (c *Client) Name() string { return "brave" }

// Params builds the provider query string from a clamped query.
func Params(q domain.SearchQuery) url.Values {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("count", strconv.Itoa(q.Count))
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("country", q.Country)
	params.Set("search_lang", q.Lang)
	params.Set("result_filter", string(q.Filter))
	if q.Freshness != domain.FreshnessNone {
		params.Set("freshness", string(q.Freshness))
	}
	return params
}

// mapStatus converts a non-200 provider status to the error taxonomy.
func mapStatus(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: provider returned 401", domain.ErrAuthInvalid)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: provider returned 429", domain.ErrRateLimit)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: provider returned 400", domain.ErrInvalidParams)
	default:
		return &domain.StatusError{Code: code}
	}
}

// Compile-time interface check.
var _ domain.SearchProvider = (*Client)(nil)
