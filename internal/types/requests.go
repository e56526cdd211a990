package types

import (
	"github.com/go-playground/validator/v10"
)

// CollectRequest represents an inbound request to collect restaurants for a location.
// UserID is an opaque requester token echoed back in the response.
type CollectRequest struct {
	Location string `json:"location" validate:"required,min=1"`
	UserID   string `json:"user_id,omitempty"`
}

// CollectResponse represents the response to a collect request.
// Status distinguishes a genuinely empty result from an upstream failure.
type CollectResponse struct {
	UserID      string       `json:"user_id,omitempty"`
	Location    string       `json:"location"`
	Status      string       `json:"status"`
	Count       int          `json:"count"`
	Restaurants []Restaurant `json:"restaurants"`
	Error       string       `json:"error,omitempty"`
}

// Validate validates the CollectRequest using the validator.
func (r *CollectRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
