// Package relay delivers collected batches to a downstream consumer over HTTP.
// Delivery is best effort: callers log a failed notification and move on,
// nothing is queued or retried.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jordan/restaurant-collector/internal/types"
)

// DefaultTimeout is the default timeout for a notification request.
const DefaultTimeout = 10 * time.Second

// Notifier sends a collected batch to a downstream consumer.
type Notifier interface {
	Notify(ctx context.Context, userID string, restaurants []types.Restaurant) error
}

// Error represents an error during batch delivery.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("relay error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("relay error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the webhook behavior.
type Options struct {
	Timeout time.Duration
}

// DefaultOptions returns sensible defaults for delivery.
func DefaultOptions() *Options {
	return &Options{
		Timeout: DefaultTimeout,
	}
}

// Webhook posts batches as JSON to a fixed URL.
type Webhook struct {
	url        string
	httpClient *http.Client
}

// NewWebhook creates a webhook notifier targeting url.
func NewWebhook(url string, opts *Options) *Webhook {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Webhook{
		url: url,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

type batchPayload struct {
	UserID      string             `json:"user_id,omitempty"`
	Count       int                `json:"count"`
	Restaurants []types.Restaurant `json:"restaurants"`
}

// Notify posts the batch to the webhook URL. Any non-2xx response is an error.
func (w *Webhook) Notify(ctx context.Context, userID string, restaurants []types.Restaurant) error {
	body, err := json.Marshal(batchPayload{
		UserID:      userID,
		Count:       len(restaurants),
		Restaurants: restaurants,
	})
	if err != nil {
		return &Error{
			URL:     w.url,
			Message: "failed to marshal batch",
			Cause:   err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return &Error{
			URL:     w.url,
			Message: "failed to create request",
			Cause:   err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return &Error{
			URL:     w.url,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			URL:     w.url,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return nil
}
