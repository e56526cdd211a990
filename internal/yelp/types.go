package yelp

// SearchResponse is the decoded body of a business search call.
type SearchResponse struct {
	Businesses []Business `json:"businesses"`
	Total      int        `json:"total"`
}

// Business is one raw listing as returned by the search API.
// Only ID and Name are guaranteed to be present; every other field may be
// absent upstream and is modeled as a pointer or nilable slice.
type Business struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Location     *Location    `json:"location,omitempty"`
	URL          *string      `json:"url,omitempty"`
	Categories   []Category   `json:"categories,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	Rating       *float64     `json:"rating,omitempty"`
	Price        *string      `json:"price,omitempty"`
	ImageURL     *string      `json:"image_url,omitempty"`
	ReviewCount  *int         `json:"review_count,omitempty"`
	Transactions []string     `json:"transactions,omitempty"`
}

// Coordinates holds a listing's position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location holds a listing's address lines.
type Location struct {
	Address1       *string  `json:"address1,omitempty"`
	City           *string  `json:"city,omitempty"`
	ZipCode        *string  `json:"zip_code,omitempty"`
	State          *string  `json:"state,omitempty"`
	DisplayAddress []string `json:"display_address"`
}

// Category is one category label attached to a listing.
type Category struct {
	Alias string `json:"alias,omitempty"`
	Title string `json:"title"`
}
