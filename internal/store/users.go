package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jordan/restaurant-collector/internal/types"
)

// MarkRestaurantsFound flags a user as having restaurant results and
// attaches the batch to their row.
func (s *Store) MarkRestaurantsFound(ctx context.Context, userID string, restaurants []types.Restaurant) error {
	payload, err := json.Marshal(restaurants)
	if err != nil {
		return fmt.Errorf("failed to marshal restaurants for user %s: %w", userID, err)
	}

	result, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET restaurants_found = TRUE, restaurants = $2, updated_at = NOW()
		 WHERE id = $1`,
		userID, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}
