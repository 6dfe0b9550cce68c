package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cragline/modcatalog/internal/catalog"
	"github.com/cragline/modcatalog/internal/difficulty"
	"github.com/cragline/modcatalog/internal/gamebanana"
	"github.com/cragline/modcatalog/internal/storage"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondServiceError maps catalog/difficulty/lookup errors to HTTP status
// codes. Everything unrecognized is a 500 with the detail kept in the log.
func respondServiceError(w http.ResponseWriter, err error, op string) {
	var malformed *difficulty.MalformedSubmissionError
	var invalidAssignment *difficulty.InvalidAssignmentError
	var nonContiguous *difficulty.NonContiguousOrderError
	var lookupErr *gamebanana.LookupError

	switch {
	case errors.As(err, &malformed):
		respondError(w, http.StatusBadRequest, "malformed_difficulties", malformed.Error())
	case errors.As(err, &invalidAssignment):
		respondError(w, http.StatusBadRequest, "invalid_map_difficulty", invalidAssignment.Error())
	case errors.As(err, &nonContiguous):
		slog.Error("corrupt difficulty tree", "error", err, "op", op)
		respondError(w, http.StatusInternalServerError, "corrupt_difficulty_tree", "stored difficulty tree is inconsistent")
	case errors.Is(err, catalog.ErrValidation):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, catalog.ErrModNotFound),
		errors.Is(err, catalog.ErrMapNotFound),
		errors.Is(err, catalog.ErrPublisherNotFound),
		errors.Is(err, catalog.ErrUserNotFound),
		errors.Is(err, catalog.ErrTechNotFound),
		errors.Is(err, catalog.ErrDifficultyNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, gamebanana.ErrNotFound):
		respondError(w, http.StatusNotFound, "gamebanana_not_found", "no matching gamebanana account")
	case errors.As(err, &lookupErr):
		slog.Error("gamebanana lookup failed", "error", err, "op", op)
		respondError(w, http.StatusBadGateway, "gamebanana_unavailable", "identity lookup failed")
	case errors.Is(err, storage.ErrDuplicate):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	default:
		slog.Error("internal error", "error", err, "op", op)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to "+op)
	}
}

// urlParamID parses the numeric {id} route parameter
func urlParamID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter with a default
func queryInt(r *http.Request, name string, def int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v
		}
	}
	return def
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
