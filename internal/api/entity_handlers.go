package api

import (
	"encoding/json"
	"net/http"

	"github.com/cragline/modcatalog/internal/models"
)

// Publisher handlers

func (s *Server) handleCreatePublisher(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePublisherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	p, err := s.catalog.CreatePublisher(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "create publisher")
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetPublisher(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "publisher id is required")
		return
	}

	p, err := s.catalog.GetPublisher(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get publisher")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePublisher(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "publisher id is required")
		return
	}

	if err := s.catalog.DeletePublisher(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete publisher")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "publisher deleted",
	})
}

func (s *Server) handleListPublishers(w http.ResponseWriter, r *http.Request) {
	filters := models.PublisherFilters{
		Name:   r.URL.Query().Get("name"),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("linked"); raw == "true" || raw == "false" {
		linked := raw == "true"
		filters.Linked = &linked
	}

	publishers, err := s.catalog.ListPublishers(r.Context(), filters)
	if err != nil {
		respondServiceError(w, err, "list publishers")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"publishers": publishers,
		"total":      len(publishers),
	})
}

// User handlers

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	u, err := s.catalog.CreateUser(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "create user")
		return
	}

	respondJSON(w, http.StatusCreated, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "user id is required")
		return
	}

	u, err := s.catalog.GetUser(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get user")
		return
	}

	respondJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "user id is required")
		return
	}

	if err := s.catalog.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "user deleted",
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.catalog.ListUsers(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		respondServiceError(w, err, "list users")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": len(users),
	})
}

func (s *Server) handleLinkUserGamebanana(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "user id is required")
		return
	}

	var req models.LinkGamebananaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	u, err := s.catalog.LinkUserGamebanana(r.Context(), id, req.GamebananaUsername)
	if err != nil {
		respondServiceError(w, err, "link user gamebanana")
		return
	}

	respondJSON(w, http.StatusOK, u)
}

// Tech handlers

func (s *Server) handleCreateTech(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	t, err := s.catalog.CreateTech(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "create tech")
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTech(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "tech id is required")
		return
	}

	t, err := s.catalog.GetTech(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get tech")
		return
	}

	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTech(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "tech id is required")
		return
	}

	if err := s.catalog.DeleteTech(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete tech")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "tech deleted",
	})
}

func (s *Server) handleListTech(w http.ResponseWriter, r *http.Request) {
	tech, err := s.catalog.ListTech(r.Context())
	if err != nil {
		respondServiceError(w, err, "list tech")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tech":  tech,
		"total": len(tech),
	})
}
