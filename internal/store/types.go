package store

import (
	"time"

	"github.com/google/uuid"
)

// Collection run status values
const (
	RunStatusRunning = "running"
)

// CollectionRun records one collection pass over a location
type CollectionRun struct {
	ID          uuid.UUID  `json:"id"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	Written     int        `json:"written"`
	Skipped     int        `json:"skipped"`
	Failed      int        `json:"failed"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ListOptions contains filters for listing restaurants
type ListOptions struct {
	Cuisine   string  // Match any cuisine entry exactly (Yelp category title)
	MinRating float64 // Only restaurants rated at or above this
	Limit     int     // Pagination limit
	Offset    int     // Pagination offset
}
