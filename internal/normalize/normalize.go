// Package normalize maps raw search listings into canonical restaurant records.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/jordan/restaurant-collector/internal/types"
	"github.com/jordan/restaurant-collector/internal/yelp"
)

// Error represents a precondition violation on a raw listing.
type Error struct {
	YelpID string
	Field  string
}

func (e *Error) Error() string {
	if e.YelpID != "" {
		return fmt.Sprintf("listing %s: missing required field %q", e.YelpID, e.Field)
	}
	return fmt.Sprintf("listing: missing required field %q", e.Field)
}

// Normalize maps one raw listing into a canonical record stamped with the
// current UTC time. It has no side effects and never writes anywhere.
func Normalize(raw yelp.Business) (*types.Restaurant, error) {
	return NormalizeAt(raw, time.Now().UTC())
}

// NormalizeAt is the pure core of Normalize. Calling it twice with the same
// listing and instant yields identical records. A listing without id, name,
// or coordinates cannot be represented canonically and is rejected.
func NormalizeAt(raw yelp.Business, now time.Time) (*types.Restaurant, error) {
	if raw.ID == "" {
		return nil, &Error{Field: "id"}
	}
	if raw.Name == "" {
		return nil, &Error{YelpID: raw.ID, Field: "name"}
	}
	if raw.Coordinates == nil {
		return nil, &Error{YelpID: raw.ID, Field: "coordinates"}
	}

	// Upstream order is preserved; the first category decides the main cuisine.
	cuisine := make([]string, 0, len(raw.Categories))
	for _, category := range raw.Categories {
		cuisine = append(cuisine, category.Title)
	}
	mainCuisine := types.MainCuisineUnknown
	if len(cuisine) > 0 {
		mainCuisine = cuisine[0]
	}

	var address string
	if raw.Location != nil {
		address = strings.Join(raw.Location.DisplayAddress, ", ")
	}

	transactions := make([]string, 0, len(raw.Transactions))
	transactions = append(transactions, raw.Transactions...)

	return &types.Restaurant{
		// Slashes in listing names collide with storage path separators.
		Name:         strings.ReplaceAll(raw.Name, "/", " "),
		Location:     [2]float64{raw.Coordinates.Latitude, raw.Coordinates.Longitude},
		Address:      address,
		Link:         raw.URL,
		Phone:        raw.Phone,
		ImageURL:     raw.ImageURL,
		Cuisine:      cuisine,
		MainCuisine:  mainCuisine,
		Rating:       raw.Rating,
		Price:        raw.Price,
		ReviewCount:  raw.ReviewCount,
		Transactions: transactions,
		YelpID:       raw.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
