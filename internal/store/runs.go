package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateCollectionRun creates a new collection run record and returns its ID
func (s *Store) CreateCollectionRun(ctx context.Context, location string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO collection_runs (location, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		location,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create collection run: %w", err)
	}
	return id, nil
}

// FinishCollectionRun marks a collection run as finished with its counts
func (s *Store) FinishCollectionRun(ctx context.Context, runID uuid.UUID, status string, written, skipped, failed int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE collection_runs
		 SET status = $1, written = $2, skipped = $3, failed = $4, completed_at = NOW()
		 WHERE id = $5`,
		status, written, skipped, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish collection run: %w", err)
	}
	return nil
}

// ListCollectionRuns retrieves recent collection runs
func (s *Store) ListCollectionRuns(ctx context.Context, limit int) ([]CollectionRun, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, location, status, written, skipped, failed, started_at, completed_at
		 FROM collection_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection runs: %w", err)
	}
	defer rows.Close()

	var runs []CollectionRun
	for rows.Next() {
		var run CollectionRun
		if err := rows.Scan(&run.ID, &run.Location, &run.Status, &run.Written,
			&run.Skipped, &run.Failed, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collection run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
