// Package types provides type definitions for structured data used throughout the restaurant-collector system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// MainCuisineUnknown is the main cuisine assigned to a listing with no categories.
const MainCuisineUnknown = "Unknown"

// Restaurant is the canonical record produced by the normalizer and persisted
// to the store. A fresh record is built on every pipeline pass; persistence
// overwrites on conflict rather than merging.
type Restaurant struct {
	ID   uuid.UUID `json:"id,omitempty"`
	Name string    `json:"name"`

	// Location is the ordered (latitude, longitude) pair.
	Location [2]float64 `json:"location"`

	// Address is the display-address lines joined with ", ".
	Address string `json:"address"`

	Link     *string `json:"link,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`

	// Cuisine preserves the upstream category order; may be empty.
	Cuisine []string `json:"cuisine"`

	// MainCuisine is the first cuisine, or "Unknown" when Cuisine is empty.
	// Never empty.
	MainCuisine string `json:"main_cuisine"`

	Rating      *float64 `json:"rating,omitempty"`
	Price       *string  `json:"price,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`

	Transactions []string `json:"transactions"`

	// YelpID is the upstream listing identifier and the store's conflict key.
	YelpID string `json:"yelp_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Latitude returns the first element of the location pair.
func (r *Restaurant) Latitude() float64 {
	return r.Location[0]
}

// Longitude returns the second element of the location pair.
func (r *Restaurant) Longitude() float64 {
	return r.Location[1]
}
