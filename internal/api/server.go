package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cragline/modcatalog/internal/catalog"
	"github.com/cragline/modcatalog/internal/config"
	"github.com/cragline/modcatalog/internal/storage"
)

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	catalog        catalog.Service
	events         *EventHub
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, svc catalog.Service, repo storage.Repository) *Server {
	s := &Server{
		config:         cfg,
		catalog:        svc,
		events:         NewEventHub(),
		authMiddleware: NewAuthMiddleware(repo),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (outside versioned API - public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// API v1 routes (protected by authentication)
	r.Route("/api/v1", func(r chi.Router) {
		// Apply authentication middleware to all /api/v1/* routes
		r.Use(s.authMiddleware.Authenticate)

		// Mods
		r.Route("/mods", func(r chi.Router) {
			r.With(s.authMiddleware.RequirePermission("mods:read")).Get("/", s.handleListMods)
			r.With(s.authMiddleware.RequirePermission("mods:write")).Post("/", s.handleCreateMod)

			r.Route("/{id}", func(r chi.Router) {
				r.With(s.authMiddleware.RequirePermission("mods:read")).Get("/", s.handleGetMod)
				r.With(s.authMiddleware.RequirePermission("mods:write")).Patch("/", s.handleUpdateMod)
				r.With(s.authMiddleware.RequirePermission("mods:write")).Delete("/", s.handleDeleteMod)
				r.With(s.authMiddleware.RequirePermission("mods:read")).Get("/difficulties", s.handleGetModDifficulties)

				// Maps nested under their mod
				r.With(s.authMiddleware.RequirePermission("maps:read")).Get("/maps", s.handleListMaps)
				r.With(s.authMiddleware.RequirePermission("maps:write")).Post("/maps", s.handleCreateMap)
			})
		})

		// Maps (direct access)
		r.Route("/maps/{id}", func(r chi.Router) {
			r.With(s.authMiddleware.RequirePermission("maps:read")).Get("/", s.handleGetMap)
			r.With(s.authMiddleware.RequirePermission("maps:write")).Delete("/", s.handleDeleteMap)
		})

		// Publishers
		r.Route("/publishers", func(r chi.Router) {
			r.With(s.authMiddleware.RequirePermission("publishers:read")).Get("/", s.handleListPublishers)
			r.With(s.authMiddleware.RequirePermission("publishers:write")).Post("/", s.handleCreatePublisher)

			r.Route("/{id}", func(r chi.Router) {
				r.With(s.authMiddleware.RequirePermission("publishers:read")).Get("/", s.handleGetPublisher)
				r.With(s.authMiddleware.RequirePermission("publishers:write")).Delete("/", s.handleDeletePublisher)
			})
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.With(s.authMiddleware.RequirePermission("users:read")).Get("/", s.handleListUsers)
			r.With(s.authMiddleware.RequirePermission("users:write")).Post("/", s.handleCreateUser)

			r.Route("/{id}", func(r chi.Router) {
				r.With(s.authMiddleware.RequirePermission("users:read")).Get("/", s.handleGetUser)
				r.With(s.authMiddleware.RequirePermission("users:write")).Delete("/", s.handleDeleteUser)
				r.With(s.authMiddleware.RequirePermission("users:write")).Post("/gamebanana", s.handleLinkUserGamebanana)
			})
		})

		// Difficulties
		r.With(s.authMiddleware.RequirePermission("mods:read")).Get("/difficulties/default", s.handleGetDefaultDifficulties)

		// Tech
		r.Route("/tech", func(r chi.Router) {
			r.With(s.authMiddleware.RequirePermission("tech:read")).Get("/", s.handleListTech)
			r.With(s.authMiddleware.RequirePermission("tech:write")).Post("/", s.handleCreateTech)

			r.Route("/{id}", func(r chi.Router) {
				r.With(s.authMiddleware.RequirePermission("tech:read")).Get("/", s.handleGetTech)
				r.With(s.authMiddleware.RequirePermission("tech:write")).Delete("/", s.handleDeleteTech)
			})
		})

		// Live catalog event feed
		r.With(s.authMiddleware.RequirePermission("events:read")).Get("/events", s.handleEventsWS)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
