package api

import (
	"net/http"
	"strconv"

	"github.com/homeguardhq/homeguard-core/internal/activity"
)

// handleListLogs returns the newest activity entries. The optional limit
// query parameter is clamped to the store's maximum.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	limit := activity.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.activity.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing activity log failed", "error", err)
		writeInternalError(w, "listing activity log failed")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleClearLogs empties the activity log.
func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	if err := s.activity.Clear(r.Context()); err != nil {
		s.logger.Error("clearing activity log failed", "error", err)
		writeInternalError(w, "clearing activity log failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
