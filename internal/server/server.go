package server

import (
	"log/slog"
	"net/http"

	"github.com/Rahulvijayan123/workout-sub002/internal/engine"
	"github.com/Rahulvijayan123/workout-sub002/internal/storage"
	"github.com/go-chi/chi/v5"
)

// defaultUserID scopes all queries until multi-user auth lands.
// TODO: derive the user from the tsnet identity once more than one lifter
// uses a deployment.
const defaultUserID = 1

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	engine engine.Config
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, engineCfg engine.Config, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		engine: engineCfg,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
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

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleRecordSession)
		r.Put("/api/v1/profile", s.handleUpsertProfile)
		r.Put("/api/v1/exercises", s.handleUpsertExercise)
	})

	// Read/compute endpoints (no auth — tsnet handles access)
	s.router.Post("/api/v1/progression/{exerciseID}", s.handleNextLoad)
	s.router.Get("/api/v1/insights/{exerciseID}", s.handleInsights)
	s.router.Get("/api/v1/liftstate/{exerciseID}", s.handleLiftState)
	s.router.Get("/api/v1/e1rm/{exerciseID}", s.handleE1RMHistory)
	s.router.Get("/api/v1/sessions", s.handleQuerySessions)
	s.router.Get("/api/v1/profile", s.handleGetProfile)
}
