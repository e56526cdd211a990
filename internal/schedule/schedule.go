// Package schedule triggers recurring collection passes at a fixed interval.
package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jordan/restaurant-collector/internal/logger"
	"github.com/jordan/restaurant-collector/internal/pipeline"
)

// Runner executes one full collection pass over a list of locations.
type Runner interface {
	CollectAll(ctx context.Context, locations []string) []pipeline.LocationResult
}

// Options holds the optional settings of a Scheduler
type Options struct {
	RunAtStart bool
	Logger     *zap.SugaredLogger
}

// Scheduler invokes a collection pass once per interval over a static list
// of locations. Passes run in the scheduler's own goroutine, so a pass that
// outlives the interval delays the next tick instead of overlapping it.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	locations  []string
	runAtStart bool
	log        *zap.SugaredLogger
}

// New creates a Scheduler that triggers runner every interval.
func New(runner Runner, interval time.Duration, locations []string, opts Options) *Scheduler {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger("schedule")
	}
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		locations:  locations,
		runAtStart: opts.RunAtStart,
		log:        log,
	}
}

// Run blocks until ctx is cancelled, triggering a collection pass on every
// tick. It returns the context's error on shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Infow("Scheduler started",
		"interval", s.interval,
		"locations", len(s.locations),
		"run_at_start", s.runAtStart,
	)

	if s.runAtStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Infow("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()
	results := s.runner.CollectAll(ctx, s.locations)

	var written, skipped, failed, fetchFailures int
	for _, result := range results {
		written += result.Batch.Written
		skipped += result.Batch.Skipped
		failed += result.Batch.Failed
		if result.Status == pipeline.StatusFetchFailed {
			fetchFailures++
		}
	}

	s.log.Infow("Scheduled collection finished",
		"elapsed", time.Since(start),
		"locations", len(results),
		"written", written,
		"skipped", skipped,
		"failed", failed,
		"fetch_failures", fetchFailures,
	)
}
