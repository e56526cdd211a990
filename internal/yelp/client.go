// Package yelp provides a client for the bearer-token business search API.
package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production endpoint of the search API.
const DefaultBaseURL = "https://api.yelp.com/v3"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Result limit bounds. The deployed cap sits between MinLimit and MaxLimit;
// values outside that range are clamped.
const (
	DefaultLimit = 50
	MinLimit     = 30
	MaxLimit     = 50
)

const (
	categoryRestaurants = "restaurants"
	sortByRating        = "rating"
)

// Error represents a failure while calling the search API.
type Error struct {
	Location   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error for %q: %s: %v", e.Location, e.Message, e.Cause)
	}
	return fmt.Sprintf("search error for %q: %s", e.Location, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Limit   int
}

// DefaultOptions returns sensible defaults for the client.
func DefaultOptions() *Options {
	return &Options{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Limit:   DefaultLimit,
	}
}

// Client calls the business search API. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	limit      int
	httpClient *http.Client
}

// NewClient creates a search client authenticated with the given API key.
func NewClient(apiKey string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		limit:   clampLimit(opts.Limit),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// clampLimit forces the result limit into the supported range.
func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < MinLimit:
		return MinLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Search issues one GET to the business search endpoint for a free-text
// location and returns the raw listings, highest rated first. Only the first
// page is retrieved; there is no pagination. Non-200 responses and transport
// failures return a typed *Error so callers can distinguish an upstream
// failure from a genuinely empty result.
func (c *Client) Search(ctx context.Context, location string) ([]Business, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/businesses/search", nil)
	if err != nil {
		return nil, &Error{
			Location: location,
			Message:  "failed to create request",
			Cause:    err,
		}
	}

	q := url.Values{}
	q.Set("location", location)
	q.Set("categories", categoryRestaurants)
	q.Set("limit", strconv.Itoa(c.limit))
	q.Set("sort_by", sortByRating)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{
			Location: location,
			Message:  "HTTP request failed",
			Cause:    err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Location:   location,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	var decoded SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Error{
			Location:   location,
			StatusCode: resp.StatusCode,
			Message:    "failed to decode response body",
			Cause:      err,
		}
	}

	// A body without a businesses key decodes to a nil slice.
	if decoded.Businesses == nil {
		return []Business{}, nil
	}
	return decoded.Businesses, nil
}
