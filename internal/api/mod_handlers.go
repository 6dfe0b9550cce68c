package api

import (
	"encoding/json"
	"net/http"

	"github.com/cragline/modcatalog/internal/models"
)

// Mod handlers

func (s *Server) handleCreateMod(w http.ResponseWriter, r *http.Request) {
	var req models.CreateModRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	mod, err := s.catalog.CreateMod(r.Context(), ActorFromContext(r.Context()), req)
	if err != nil {
		respondServiceError(w, err, "create mod")
		return
	}

	s.events.Broadcast(Event{Type: EventCreated, Entity: "mod", EntityID: mod.ID, Name: mod.Name})
	respondJSON(w, http.StatusCreated, mod)
}

func (s *Server) handleGetMod(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "mod id is required")
		return
	}

	mod, err := s.catalog.GetMod(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get mod")
		return
	}

	respondJSON(w, http.StatusOK, mod)
}

func (s *Server) handleUpdateMod(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "mod id is required")
		return
	}

	var req models.UpdateModRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	mod, err := s.catalog.UpdateMod(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err, "update mod")
		return
	}

	respondJSON(w, http.StatusOK, mod)
}

func (s *Server) handleDeleteMod(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "mod id is required")
		return
	}

	if err := s.catalog.DeleteMod(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete mod")
		return
	}

	s.events.Broadcast(Event{Type: EventDeleted, Entity: "mod", EntityID: id})
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "mod deleted",
	})
}

func (s *Server) handleListMods(w http.ResponseWriter, r *http.Request) {
	filters := models.ModFilters{
		Type:   models.ModType(r.URL.Query().Get("type")),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	if pid := queryInt(r, "publisher_id", 0); pid > 0 {
		filters.PublisherID = int64(pid)
	}

	if raw := r.URL.Query().Get("approved"); raw == "true" || raw == "false" {
		approved := raw == "true"
		filters.Approved = &approved
	}

	mods, err := s.catalog.ListMods(r.Context(), filters)
	if err != nil {
		respondServiceError(w, err, "list mods")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"mods":  mods,
		"total": len(mods),
	})
}

// Difficulty handlers

func (s *Server) handleGetModDifficulties(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "mod id is required")
		return
	}

	if _, err := s.catalog.GetMod(r.Context(), id); err != nil {
		respondServiceError(w, err, "get mod")
		return
	}

	tree, err := s.catalog.ModDifficulties(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get mod difficulties")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"difficulties": tree,
	})
}

func (s *Server) handleGetDefaultDifficulties(w http.ResponseWriter, r *http.Request) {
	tree, err := s.catalog.DefaultDifficulties(r.Context())
	if err != nil {
		respondServiceError(w, err, "get default difficulties")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"difficulties": tree,
	})
}

// Map handlers

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	modID, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "mod id is required")
		return
	}

	var req models.CreateMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	m, err := s.catalog.CreateMap(r.Context(), ActorFromContext(r.Context()), modID, req)
	if err != nil {
		respondServiceError(w, err, "create map")
		return
	}

	s.events.Broadcast(Event{Type: EventCreated, Entity: "map", EntityID: m.ID, Name: m.Name})
	respondJSON(w, http.StatusCreated, m)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "map id is required")
		return
	}

	m, err := s.catalog.GetMap(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get map")
		return
	}

	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "map id is required")
		return
	}

	if err := s.catalog.DeleteMap(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete map")
		return
	}

	s.events.Broadcast(Event{Type: EventDeleted, Entity: "map", EntityID: id})
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "map deleted",
	})
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	modID, ok := urlParamID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", "mod id is required")
		return
	}

	maps, err := s.catalog.ListMaps(r.Context(), modID)
	if err != nil {
		respondServiceError(w, err, "list maps")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"maps":  maps,
		"total": len(maps),
	})
}
