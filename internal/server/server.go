package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/pulsecoach/internal/coach"
	"github.com/claude/pulsecoach/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	cfg     coach.Config
	catalog []coach.Candidate
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, cfg coach.Config, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		cfg:     cfg,
		catalog: coach.DefaultCatalog(),
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/profiles", s.handleCreateProfile)
		r.Put("/api/v1/profiles/{userID}", s.handleUpdateProfile)
		r.Post("/api/v1/users/{userID}/sessions", s.handleLogSession)
		r.Post("/api/v1/users/{userID}/sessions/raw", s.handleInsertRawSession)
		r.Post("/api/v1/users/{userID}/readings", s.handleInsertReadings)
	})

	// Read endpoints
	s.router.Get("/api/v1/profiles/{userID}", s.handleGetProfile)
	s.router.Get("/api/v1/users/{userID}/zones", s.handleZones)
	s.router.Get("/api/v1/users/{userID}/safety", s.handleSafety)
	s.router.Get("/api/v1/users/{userID}/recommendations", s.handleRecommendations)
	s.router.Get("/api/v1/users/{userID}/sessions", s.handleQuerySessions)
	s.router.Get("/api/v1/users/{userID}/analytics", s.handleAnalytics)
	s.router.Get("/api/v1/users/{userID}/readings", s.handleQueryReadings)
	s.router.Get("/api/v1/users/{userID}/readings/latest", s.handleLatestReading)
	s.router.Get("/api/v1/catalog", s.handleCatalog)
	s.router.Get("/api/v1/health", s.handleHealth)
}
