package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SSEWriter streams collection progress to a client as Server-Sent Events.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares the response for an event stream. It fails when the
// underlying writer cannot flush between events.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent marshals data and flushes it under the named event type.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError reports a failed pass. The stream ends after this event.
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}

// WriteComplete closes a successful pass with its final counts.
func (s *SSEWriter) WriteComplete(location, status string, count int) {
	s.WriteEvent("complete", map[string]any{ //nolint:errcheck
		"location": location,
		"status":   status,
		"count":    count,
	})
}
