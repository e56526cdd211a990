package server

import (
	"net/http"
	"strconv"

	"github.com/jordan/restaurant-collector/internal/server/middleware"
	"github.com/jordan/restaurant-collector/internal/store"
	"github.com/jordan/restaurant-collector/internal/types"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// ListRestaurantsResponse represents the response for listing restaurants
type ListRestaurantsResponse struct {
	Restaurants []types.Restaurant `json:"restaurants"`
	Count       int                `json:"count"`
	Limit       int                `json:"limit"`
	Offset      int                `json:"offset"`
}

// handleListRestaurants lists stored restaurants with optional filters and pagination
func (s *Server) handleListRestaurants(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50, 100)
	offset := parseQueryInt(r, "offset", 0, 0)

	opts := store.ListOptions{
		Cuisine: r.URL.Query().Get("cuisine"),
		Limit:   limit,
		Offset:  offset,
	}

	if ratingStr := r.URL.Query().Get("min_rating"); ratingStr != "" {
		rating, err := strconv.ParseFloat(ratingStr, 64)
		if err != nil || rating < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid min_rating")
			return
		}
		opts.MinRating = rating
	}

	restaurants, total, err := s.store.ListRestaurants(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ListRestaurantsResponse{
		Restaurants: restaurants,
		Count:       total,
		Limit:       limit,
		Offset:      offset,
	})
}

// handleGetRestaurant retrieves a restaurant by its external id
func (s *Server) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	yelpID := r.PathValue("yelp_id")
	if yelpID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Restaurant ID is required")
		return
	}

	restaurant, err := s.store.GetRestaurantByYelpID(r.Context(), yelpID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if restaurant == nil {
		nferr := &ErrRestaurantNotFound{YelpID: yelpID}
		s.errorResponse(w, HTTPStatus(nferr), nferr.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, restaurant)
}

// handleDeleteRestaurants removes every stored restaurant. The route is
// wrapped by the auth middleware, so the operator identity is available here.
func (s *Server) handleDeleteRestaurants(w http.ResponseWriter, r *http.Request) {
	operatorID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	deleted, err := s.store.DeleteAllRestaurants(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.log.Infow("Purged restaurants", "deleted", deleted, "operator", operatorID)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"deleted": deleted,
	})
}
