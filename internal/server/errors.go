// Package server provides the HTTP REST API for the restaurant collector.
package server

import (
	"fmt"
	"net/http"
)

// ErrRestaurantNotFound indicates no stored restaurant matches the external id
type ErrRestaurantNotFound struct {
	YelpID string
}

func (e *ErrRestaurantNotFound) Error() string {
	return fmt.Sprintf("restaurant not found: %s", e.YelpID)
}

// ErrCollectionFailed indicates the upstream search could not be completed
type ErrCollectionFailed struct {
	Location string
	Cause    error
}

func (e *ErrCollectionFailed) Error() string {
	return fmt.Sprintf("collection failed for %q: %v", e.Location, e.Cause)
}

func (e *ErrCollectionFailed) Unwrap() error {
	return e.Cause
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrRestaurantNotFound:
		return http.StatusNotFound
	case *ErrCollectionFailed:
		return http.StatusBadGateway
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
