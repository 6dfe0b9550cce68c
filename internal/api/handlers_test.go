package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cragline/modcatalog/internal/catalog"
	"github.com/cragline/modcatalog/internal/config"
	"github.com/cragline/modcatalog/internal/difficulty"
	"github.com/cragline/modcatalog/internal/gamebanana"
	"github.com/cragline/modcatalog/internal/models"
	"github.com/cragline/modcatalog/internal/storage"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			"malformed submission",
			&difficulty.MalformedSubmissionError{Reason: "duplicate name"},
			http.StatusBadRequest, "malformed_difficulties",
		},
		{
			"invalid assignment",
			&difficulty.InvalidAssignmentError{Claimed: "Medium", Reason: "has sub-difficulties"},
			http.StatusBadRequest, "invalid_map_difficulty",
		},
		{
			"corrupt tree",
			&difficulty.NonContiguousOrderError{Scope: "parent", Missing: 2, Total: 3},
			http.StatusInternalServerError, "corrupt_difficulty_tree",
		},
		{"validation", catalog.ErrValidation, http.StatusBadRequest, "validation_error"},
		{"mod not found", catalog.ErrModNotFound, http.StatusNotFound, "not_found"},
		{"map not found", catalog.ErrMapNotFound, http.StatusNotFound, "not_found"},
		{"gamebanana not found", gamebanana.ErrNotFound, http.StatusNotFound, "gamebanana_not_found"},
		{
			"gamebanana down",
			&gamebanana.LookupError{Op: "UserName", Err: errors.New("connection refused")},
			http.StatusBadGateway, "gamebanana_unavailable",
		},
		{"duplicate", storage.ErrDuplicate, http.StatusConflict, "conflict"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err, "test op")

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp apiResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Success {
				t.Error("error responses must not be successful")
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("expected code %q, got %+v", tt.wantCode, resp.Error)
			}
		})
	}
}

// stubService fails every operation with a fixed error unless overridden.
type stubService struct {
	catalog.Service
	getModErr    error
	createMapErr error
}

func (s *stubService) GetMod(_ context.Context, _ int64) (*models.Mod, error) {
	return nil, s.getModErr
}

func (s *stubService) CreateMap(_ context.Context, _ int64, _ int64, _ models.CreateMapRequest) (*models.Map, error) {
	return nil, s.createMapErr
}

func newTestServer(svc catalog.Service) *Server {
	repo := newAuthRepo()
	return NewServer(config.ServerConfig{}, svc, repo)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer mk_valid_key_12345")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *apiError {
	t.Helper()
	var resp apiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.Error
}

func TestGetModNotFoundRoute(t *testing.T) {
	s := newTestServer(&stubService{getModErr: catalog.ErrModNotFound})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/mods/123", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if e := decodeError(t, rec); e == nil || e.Code != "not_found" {
		t.Errorf("expected not_found, got %+v", e)
	}
}

func TestCreateMapInvalidAssignmentRoute(t *testing.T) {
	s := newTestServer(&stubService{
		createMapErr: &difficulty.InvalidAssignmentError{Claimed: "Medium", Reason: "has sub-difficulties"},
	})

	rec := doRequest(t, s, http.MethodPost, "/api/v1/mods/1/maps",
		`{"name": "Summit", "mod_difficulty": "Medium"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if e := decodeError(t, rec); e == nil || e.Code != "invalid_map_difficulty" {
		t.Errorf("expected invalid_map_difficulty, got %+v", e)
	}
}

func TestCreateMapBadClaimShapeRoute(t *testing.T) {
	s := newTestServer(&stubService{})

	// Single-element arrays are not a valid claim shape
	rec := doRequest(t, s, http.MethodPost, "/api/v1/mods/1/maps",
		`{"name": "Summit", "mod_difficulty": ["Medium"]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouteRequiresAuth(t *testing.T) {
	s := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mods/1", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouteRequiresPermission(t *testing.T) {
	s := newTestServer(&stubService{})

	// The test client has mods:read and maps:*, not users:write
	rec := doRequest(t, s, http.MethodPost, "/api/v1/users", `{"username": "x"}`)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestInvalidIDParam(t *testing.T) {
	s := newTestServer(&stubService{})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/mods/not-a-number", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
