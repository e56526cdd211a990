// Package pipeline provides the high-level orchestration for restaurant collection.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jordan/restaurant-collector/internal/logger"
	"github.com/jordan/restaurant-collector/internal/normalize"
	"github.com/jordan/restaurant-collector/internal/seen"
	"github.com/jordan/restaurant-collector/internal/telemetry"
	"github.com/jordan/restaurant-collector/internal/types"
	"github.com/jordan/restaurant-collector/internal/yelp"
)

// Location collection outcomes. A location is "found" as soon as the search
// returned listings, even if some of them later fail to store; the batch
// counts carry that detail.
const (
	StatusFound       = "found"
	StatusEmpty       = "empty"
	StatusFetchFailed = "fetch_failed"
)

// Progress stages emitted while collecting a location
const (
	StageFetching = "fetching"
	StageStored   = "stored"
	StageDone     = "done"
)

// ProgressEvent represents a progress update during a collection pass
type ProgressEvent struct {
	Stage    string `json:"stage"`
	Location string `json:"location"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when collection progress occurs
type ProgressCallback func(event ProgressEvent)

// Searcher fetches raw listings for a location.
type Searcher interface {
	Search(ctx context.Context, location string) ([]yelp.Business, error)
}

// Notifier delivers a collected batch downstream.
type Notifier interface {
	Notify(ctx context.Context, userID string, restaurants []types.Restaurant) error
}

// Store is the persistence surface the collector writes to.
type Store interface {
	UpsertRestaurant(ctx context.Context, r *types.Restaurant) (*types.Restaurant, error)
	MarkRestaurantsFound(ctx context.Context, userID string, restaurants []types.Restaurant) error
	CreateCollectionRun(ctx context.Context, location string) (uuid.UUID, error)
	FinishCollectionRun(ctx context.Context, runID uuid.UUID, status string, written, skipped, failed int) error
}

// RecordError reports a single listing that could not be processed
type RecordError struct {
	Name string
	Err  error
}

// BatchResult summarizes one processed page of listings
type BatchResult struct {
	Written     int                `json:"written"`
	Skipped     int                `json:"skipped"`
	Failed      int                `json:"failed"`
	Restaurants []types.Restaurant `json:"restaurants"`
	Errors      []RecordError      `json:"-"`
}

// LocationResult is the outcome of collecting one location. Status
// distinguishes a genuinely empty result set from an upstream failure.
type LocationResult struct {
	Location string      `json:"location"`
	Status   string      `json:"status"`
	Batch    BatchResult `json:"batch"`
	Err      error       `json:"-"`
}

// Options holds the optional collaborators of a Collector
type Options struct {
	Notifier   Notifier
	OnProgress ProgressCallback
	Logger     *zap.SugaredLogger
}

// Collector runs the fetch, normalize, dedupe, store sequence for locations.
type Collector struct {
	searcher   Searcher
	store      Store
	seen       *seen.Cache
	notifier   Notifier
	onProgress ProgressCallback
	log        *zap.SugaredLogger
}

// New creates a Collector. The seen cache is shared across calls so repeat
// listings within its TTL are skipped without a store round trip.
func New(searcher Searcher, store Store, cache *seen.Cache, opts Options) *Collector {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger("pipeline")
	}
	return &Collector{
		searcher:   searcher,
		store:      store,
		seen:       cache,
		notifier:   opts.Notifier,
		onProgress: opts.OnProgress,
		log:        log,
	}
}

// WithProgress returns a copy of the Collector that reports progress to cb.
// The copy shares the seen cache and collaborators with the original.
func (c *Collector) WithProgress(cb ProgressCallback) *Collector {
	clone := *c
	clone.onProgress = cb
	return &clone
}

// emitProgress calls the progress callback if configured
func (c *Collector) emitProgress(stage, location, message string, content any) {
	if c.onProgress != nil {
		c.onProgress(ProgressEvent{
			Stage:    stage,
			Location: location,
			Message:  message,
			Content:  content,
		})
	}
}

// ProcessBatch normalizes and stores listings in input order. A listing
// whose id is already in the seen cache is skipped. Per-listing failures
// are logged with the listing's name and counted, but never abort the
// batch: a page of N listings can produce anywhere from 0 to N writes.
// The store's conflict key, not the seen cache, is what guarantees
// uniqueness across restarts.
func (c *Collector) ProcessBatch(ctx context.Context, listings []yelp.Business) BatchResult {
	result := BatchResult{Restaurants: []types.Restaurant{}}

	for i := range listings {
		business := &listings[i]

		if business.ID != "" {
			if c.seen.Contains(business.ID) {
				result.Skipped++
				c.log.Debugw("Skipping already seen listing", "yelp_id", business.ID)
				continue
			}
			c.seen.Add(business.ID)
		}

		restaurant, err := normalize.Normalize(*business)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RecordError{Name: business.Name, Err: err})
			c.log.Warnw("Skipping unusable listing", "name", business.Name, "error", err)
			continue
		}

		stored, err := c.store.UpsertRestaurant(ctx, restaurant)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RecordError{Name: restaurant.Name, Err: err})
			c.log.Errorw("Failed to store restaurant", "name", restaurant.Name, "error", err)
			continue
		}

		result.Written++
		result.Restaurants = append(result.Restaurants, *stored)
		c.log.Infow("Stored restaurant", "name", stored.Name, "yelp_id", stored.YelpID)
		c.emitProgress(StageStored, "", "Stored restaurant: "+stored.Name, stored)
	}

	telemetry.ObserveListings(result.Written, result.Skipped, result.Failed)
	return result
}

// CollectLocation fetches listings for one location and processes them.
func (c *Collector) CollectLocation(ctx context.Context, location string) LocationResult {
	c.log.Infow("Starting restaurant collection", "location", location)
	c.emitProgress(StageFetching, location, "Searching listings for "+location, nil)

	runID, err := c.store.CreateCollectionRun(ctx, location)
	if err != nil {
		c.log.Warnw("Failed to record collection run", "location", location, "error", err)
	}

	start := time.Now()
	listings, err := c.searcher.Search(ctx, location)
	telemetry.ObserveFetch(time.Since(start), err)
	if err != nil {
		c.log.Errorw("Search failed", "location", location, "error", err)
		result := LocationResult{
			Location: location,
			Status:   StatusFetchFailed,
			Batch:    BatchResult{Restaurants: []types.Restaurant{}},
			Err:      err,
		}
		c.finishRun(ctx, runID, result)
		return result
	}

	if len(listings) == 0 {
		c.log.Infow("No restaurants found", "location", location)
		result := LocationResult{
			Location: location,
			Status:   StatusEmpty,
			Batch:    BatchResult{Restaurants: []types.Restaurant{}},
		}
		c.finishRun(ctx, runID, result)
		return result
	}

	batch := c.ProcessBatch(ctx, listings)
	result := LocationResult{
		Location: location,
		Status:   StatusFound,
		Batch:    batch,
	}

	c.log.Infow("Completed restaurant collection",
		"location", location,
		"written", batch.Written,
		"skipped", batch.Skipped,
		"failed", batch.Failed,
	)
	c.emitProgress(StageDone, location, "Completed collection for "+location, batch)
	c.finishRun(ctx, runID, result)
	return result
}

// CollectForUser collects one location on behalf of a user. When listings
// were found, the user's record is flagged with the batch and the optional
// notifier is invoked. Both follow-ups are best effort; their failures are
// logged and do not change the result.
func (c *Collector) CollectForUser(ctx context.Context, location, userID string) LocationResult {
	result := c.CollectLocation(ctx, location)
	if result.Status != StatusFound || len(result.Batch.Restaurants) == 0 {
		return result
	}

	if userID != "" {
		if err := c.store.MarkRestaurantsFound(ctx, userID, result.Batch.Restaurants); err != nil {
			c.log.Warnw("Failed to update user with results", "user_id", userID, "error", err)
		} else {
			c.log.Infow("Updated user with restaurant data",
				"user_id", userID,
				"count", len(result.Batch.Restaurants),
			)
		}
	}

	if c.notifier != nil {
		if err := c.notifier.Notify(ctx, userID, result.Batch.Restaurants); err != nil {
			c.log.Warnw("Batch notification failed", "error", err)
		}
	}

	return result
}

// CollectAll processes locations sequentially in the given order. It stops
// early when the context is cancelled and returns the results gathered so
// far.
func (c *Collector) CollectAll(ctx context.Context, locations []string) []LocationResult {
	results := make([]LocationResult, 0, len(locations))
	for _, location := range locations {
		if ctx.Err() != nil {
			c.log.Warnw("Collection cancelled", "remaining", len(locations)-len(results))
			break
		}
		results = append(results, c.CollectLocation(ctx, location))
	}
	return results
}

// finishRun closes the collection run record if one was created
func (c *Collector) finishRun(ctx context.Context, runID uuid.UUID, result LocationResult) {
	telemetry.ObserveRun(result.Status)
	if runID == uuid.Nil {
		return
	}
	err := c.store.FinishCollectionRun(ctx, runID, result.Status,
		result.Batch.Written, result.Batch.Skipped, result.Batch.Failed)
	if err != nil {
		c.log.Warnw("Failed to finish collection run", "run_id", runID, "error", err)
	}
}
