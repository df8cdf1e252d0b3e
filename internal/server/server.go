package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/setlog/internal/editor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *editor.Service
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// leaves the API open; use it only behind tsnet or on loopback.
func New(svc *editor.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
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

// SetMCP mounts an MCP streamable HTTP handler at /mcp, behind the same API
// key as the REST endpoints.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}
		r.Handle("/mcp", h)
		r.Handle("/mcp/*", h)
	})
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(CORS)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}

		r.Get("/drafts", s.handleListDrafts)
		r.Post("/drafts", s.handleNewDraft)
		r.Post("/workouts/{id}/draft", s.handleEditDraft)

		r.Route("/drafts/{sid}", func(r chi.Router) {
			r.Get("/", s.handleGetDraft)
			r.Patch("/", s.handleUpdateDetails)
			r.Delete("/", s.handleCancelDraft)
			r.Post("/submit", s.handleSubmit)

			r.Post("/exercises", s.handleAddExercise)
			r.Put("/exercises/{ei}", s.handleRenameExercise)
			r.Delete("/exercises/{ei}", s.handleRemoveExercise)

			r.Post("/exercises/{ei}/sets", s.handleAddSet)
			r.Put("/exercises/{ei}/sets/{si}", s.handleUpdateSet)
			r.Delete("/exercises/{ei}/sets/{si}", s.handleRemoveSet)
		})
	})
}
