package server

import (
	"encoding/json"
	"net/http"

	"github.com/jordan/restaurant-collector/internal/pipeline"
	"github.com/jordan/restaurant-collector/internal/types"
)

// decodeCollectRequest reads and validates the request body shared by the
// blocking and streaming collect endpoints.
func (s *Server) decodeCollectRequest(w http.ResponseWriter, r *http.Request) (*types.CollectRequest, bool) {
	var req types.CollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	if err := req.Validate(); err != nil {
		verr := &ErrValidation{Field: "location", Message: "location is required"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return nil, false
	}
	return &req, true
}

// collectResponse converts a pipeline result into the API response shape.
func collectResponse(req *types.CollectRequest, result pipeline.LocationResult) types.CollectResponse {
	return types.CollectResponse{
		UserID:      req.UserID,
		Location:    result.Location,
		Status:      result.Status,
		Count:       len(result.Batch.Restaurants),
		Restaurants: result.Batch.Restaurants,
	}
}

// handleCollect runs one collection pass for the requested location and
// returns the stored restaurants.
func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCollectRequest(w, r)
	if !ok {
		return
	}

	result := s.collector.CollectForUser(r.Context(), req.Location, req.UserID)
	if result.Status == pipeline.StatusFetchFailed {
		cerr := &ErrCollectionFailed{Location: req.Location, Cause: result.Err}
		s.errorResponse(w, HTTPStatus(cerr), cerr.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, collectResponse(req, result))
}

// handleCollectStream runs a collection pass and streams progress via SSE.
func (s *Server) handleCollectStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCollectRequest(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	streaming := s.collector.WithProgress(func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.log.Errorw("Failed to write SSE event", "error", err)
		}
	})

	// The pass runs synchronously; progress events flush as they happen.
	result := streaming.CollectForUser(r.Context(), req.Location, req.UserID)
	if result.Status == pipeline.StatusFetchFailed {
		sse.WriteError(result.Err.Error())
		return
	}

	sse.WriteComplete(result.Location, result.Status, len(result.Batch.Restaurants))
}
