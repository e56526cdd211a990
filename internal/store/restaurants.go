package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jordan/restaurant-collector/internal/types"
)

// UpsertRestaurant creates or updates a restaurant keyed on yelp_id. On
// conflict every listing field is refreshed but created_at keeps the value
// from the first insert, so it records when the restaurant was first seen.
func (s *Store) UpsertRestaurant(ctx context.Context, r *types.Restaurant) (*types.Restaurant, error) {
	locationJSON, err := json.Marshal(r.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal location: %w", err)
	}
	cuisineJSON, err := json.Marshal(r.Cuisine)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cuisine: %w", err)
	}
	transactionsJSON, err := json.Marshal(r.Transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transactions: %w", err)
	}

	stored := *r
	err = s.pool.QueryRow(ctx,
		`INSERT INTO restaurants (name, location, address, link, cuisine, main_cuisine,
		                          phone, rating, price, image_url, review_count,
		                          transactions, yelp_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (yelp_id) DO UPDATE SET
		     name = $1,
		     location = $2,
		     address = $3,
		     link = $4,
		     cuisine = $5,
		     main_cuisine = $6,
		     phone = $7,
		     rating = $8,
		     price = $9,
		     image_url = $10,
		     review_count = $11,
		     transactions = $12,
		     updated_at = $15
		 RETURNING id, created_at, updated_at`,
		r.Name, locationJSON, r.Address, r.Link, cuisineJSON, r.MainCuisine,
		r.Phone, r.Rating, r.Price, r.ImageURL, r.ReviewCount,
		transactionsJSON, r.YelpID, r.CreatedAt, r.UpdatedAt,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert restaurant %s: %w", r.Name, err)
	}

	return &stored, nil
}

// GetRestaurantByYelpID retrieves a restaurant by its Yelp business ID
func (s *Store) GetRestaurantByYelpID(ctx context.Context, yelpID string) (*types.Restaurant, error) {
	var r types.Restaurant
	var locationJSON, cuisineJSON, transactionsJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, name, location, address, link, cuisine, main_cuisine, phone,
		        rating, price, image_url, review_count, transactions, yelp_id,
		        created_at, updated_at
		 FROM restaurants WHERE yelp_id = $1`,
		yelpID,
	).Scan(&r.ID, &r.Name, &locationJSON, &r.Address, &r.Link, &cuisineJSON,
		&r.MainCuisine, &r.Phone, &r.Rating, &r.Price, &r.ImageURL,
		&r.ReviewCount, &transactionsJSON, &r.YelpID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	// Parse JSONB fields
	if err := json.Unmarshal(locationJSON, &r.Location); err != nil {
		return nil, fmt.Errorf("failed to parse stored location: %w", err)
	}
	if cuisineJSON != nil {
		_ = json.Unmarshal(cuisineJSON, &r.Cuisine)
	}
	if transactionsJSON != nil {
		_ = json.Unmarshal(transactionsJSON, &r.Transactions)
	}

	return &r, nil
}

// ListRestaurants lists restaurants with optional filters and pagination.
// It returns the page of rows plus the total count matching the filters.
func (s *Store) ListRestaurants(ctx context.Context, opts ListOptions) ([]types.Restaurant, int, error) {
	// Build WHERE clause dynamically
	var conditions []string
	var args []interface{}
	argIndex := 1

	if opts.Cuisine != "" {
		cuisineFilter, err := json.Marshal([]string{opts.Cuisine})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal cuisine filter: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf("cuisine @> $%d", argIndex))
		args = append(args, cuisineFilter)
		argIndex++
	}

	if opts.MinRating > 0 {
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", argIndex))
		args = append(args, opts.MinRating)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Get total count
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM restaurants %s", whereClause)
	var total int
	err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count restaurants: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT id, name, location, address, link, cuisine, main_cuisine, phone,
		        rating, price, image_url, review_count, transactions, yelp_id,
		        created_at, updated_at
		 FROM restaurants %s
		 ORDER BY rating DESC NULLS LAST, name ASC
		 LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []types.Restaurant
	for rows.Next() {
		var r types.Restaurant
		var locationJSON, cuisineJSON, transactionsJSON []byte

		err := rows.Scan(&r.ID, &r.Name, &locationJSON, &r.Address, &r.Link,
			&cuisineJSON, &r.MainCuisine, &r.Phone, &r.Rating, &r.Price,
			&r.ImageURL, &r.ReviewCount, &transactionsJSON, &r.YelpID,
			&r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan restaurant: %w", err)
		}

		if err := json.Unmarshal(locationJSON, &r.Location); err != nil {
			return nil, 0, fmt.Errorf("failed to parse stored location: %w", err)
		}
		if cuisineJSON != nil {
			_ = json.Unmarshal(cuisineJSON, &r.Cuisine)
		}
		if transactionsJSON != nil {
			_ = json.Unmarshal(transactionsJSON, &r.Transactions)
		}

		restaurants = append(restaurants, r)
	}

	return restaurants, total, nil
}

// DeleteAllRestaurants clears the restaurants table and reports how many
// rows were removed.
func (s *Store) DeleteAllRestaurants(ctx context.Context) (int64, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM restaurants`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete restaurants: %w", err)
	}
	return result.RowsAffected(), nil
}
