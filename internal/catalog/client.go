package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrNoResults is returned when the catalog reports no match for a search
// query or movie identifier. It is distinct from transport failures.
var ErrNoResults = errors.New("no results found")

// Client represents a catalog API client
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientConfig holds configuration for the catalog client
type ClientConfig struct {
	APIKey          string
	Endpoint        string
	TimeoutSeconds  int
	RateLimitPerSec float64
	// HTTPClient overrides the default client, primarily for tests
	HTTPClient *http.Client
}

// NewClient creates a new catalog API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 15
	}
	if cfg.RateLimitPerSec <= 0 {
		cfg.RateLimitPerSec = 4
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}
	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), 1),
	}
}

// doRequest executes a rate-limited HTTP GET request with the given query
// parameters. Context cancellation errors pass through unwrapped so callers
// can distinguish a superseded request from a real failure.
func (c *Client) doRequest(ctx context.Context, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("apikey", c.apiKey)
	requestURL := fmt.Sprintf("%s?%s", c.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("catalog API error (status %d): %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// Search searches the catalog for movies matching the query title
func (c *Client) Search(ctx context.Context, query string) ([]MovieSummary, error) {
	params := url.Values{}
	params.Set("s", query)

	resp, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if searchResp.Response != "True" {
		return nil, fmt.Errorf("%w: %s", ErrNoResults, searchResp.Error)
	}

	return searchResp.Search, nil
}

// Detail fetches a single movie's full record by its imdbID
func (c *Client) Detail(ctx context.Context, imdbID string) (*MovieDetail, error) {
	params := url.Values{}
	params.Set("i", imdbID)

	resp, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var detail MovieDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode movie detail: %w", err)
	}

	if detail.Response != "True" {
		return nil, fmt.Errorf("%w: %s", ErrNoResults, detail.Error)
	}

	return &detail, nil
}
