package server

import (
	"net/http"
)

// handleListRuns lists recent collection runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50, 100)

	runs, err := s.store.ListCollectionRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}
