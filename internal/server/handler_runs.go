package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// maxListLimit caps the limit query parameter of GET /runs.
const maxListLimit = 100

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if s.store == nil {
		respondError(w, reqID, http.StatusServiceUnavailable, ErrCodeUnavailable, "run history is not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, reqID, http.StatusBadRequest, ErrCodeBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.WithField("request_id", reqID).Errorf("list runs: %v", err)
		respondError(w, reqID, http.StatusInternalServerError, ErrCodeInternal, "failed to list runs")
		return
	}
	respondOK(w, reqID, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if s.store == nil {
		respondError(w, reqID, http.StatusServiceUnavailable, ErrCodeUnavailable, "run history is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.logger.WithField("request_id", reqID).Errorf("get run %s: %v", id, err)
		respondError(w, reqID, http.StatusInternalServerError, ErrCodeInternal, "failed to load run")
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, ErrCodeNotFound, "run "+id+" not found")
		return
	}
	respondOK(w, reqID, run)
}
