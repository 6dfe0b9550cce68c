package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cragline/modcatalog/internal/models"
	"github.com/cragline/modcatalog/internal/storage"
)

// authRepo stubs the client lookup; every other Repository method panics
// through the embedded nil interface if reached.
type authRepo struct {
	storage.Repository
	clients map[string]*models.ApiClient
}

func (r *authRepo) GetClientByApiKey(_ context.Context, apiKey string) (*models.ApiClient, error) {
	return r.clients[apiKey], nil
}

func (r *authRepo) UpdateClientLastUsed(_ context.Context, _ string) error {
	return nil
}

func newAuthRepo() *authRepo {
	return &authRepo{clients: map[string]*models.ApiClient{
		"mk_valid_key_12345": {
			ID:          1,
			Name:        "test-client",
			ApiKey:      "mk_valid_key_12345",
			UserID:      7,
			IsActive:    true,
			Permissions: []string{"mods:read", "maps:*"},
		},
		"mk_inactive_key_99": {
			ID:       2,
			Name:     "dead-client",
			ApiKey:   "mk_inactive_key_99",
			IsActive: false,
		},
	}}
}

func TestAuthenticate(t *testing.T) {
	mw := NewAuthMiddleware(newAuthRepo())

	var gotClient *models.ApiClient
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClient = ClientFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		setHeader  func(r *http.Request)
		wantStatus int
	}{
		{"missing key", func(r *http.Request) {}, http.StatusUnauthorized},
		{"invalid key", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer mk_nope")
		}, http.StatusUnauthorized},
		{"inactive client", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer mk_inactive_key_99")
		}, http.StatusUnauthorized},
		{"bearer token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer mk_valid_key_12345")
		}, http.StatusOK},
		{"raw authorization header", func(r *http.Request) {
			r.Header.Set("Authorization", "mk_valid_key_12345")
		}, http.StatusOK},
		{"x-api-key header", func(r *http.Request) {
			r.Header.Set("X-API-Key", "mk_valid_key_12345")
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClient = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/mods", nil)
			tt.setHeader(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusOK {
				if gotClient == nil {
					t.Fatal("client not placed in context")
				}
				if gotClient.UserID != 7 {
					t.Errorf("expected actor 7, got %d", gotClient.UserID)
				}
			} else if gotClient != nil {
				t.Error("handler must not run for rejected requests")
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	mw := NewAuthMiddleware(newAuthRepo())

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client := &models.ApiClient{
		Name:        "scoped",
		IsActive:    true,
		Permissions: []string{"mods:read", "maps:*"},
	}

	tests := []struct {
		name       string
		permission string
		client     *models.ApiClient
		wantStatus int
	}{
		{"exact match", "mods:read", client, http.StatusOK},
		{"wildcard match", "maps:write", client, http.StatusOK},
		{"denied", "mods:write", client, http.StatusForbidden},
		{"no client in context", "mods:read", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := mw.RequirePermission(tt.permission)(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.client != nil {
				req = req.WithContext(ContextWithClient(req.Context(), tt.client))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestActorFromContext(t *testing.T) {
	ctx := context.Background()
	if got := ActorFromContext(ctx); got != 0 {
		t.Errorf("expected 0 for unauthenticated context, got %d", got)
	}

	ctx = ContextWithClient(ctx, &models.ApiClient{UserID: 42})
	if got := ActorFromContext(ctx); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}
