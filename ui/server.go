package ui

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cytostat/app"
)

// Server exposes the analysis outputs as a JSON API.
type Server struct {
	router  *chi.Mux
	service *app.AnalysisService
}

// NewServer creates the API server around an analysis service.
func NewServer(service *app.AnalysisService) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/report", s.handleReport)
	s.router.Get("/api/summary", s.handleSummary)
	s.router.Get("/api/comparison", s.handleComparison)
	s.router.Get("/api/stats", s.handleStats)
	s.router.Get("/api/baseline", s.handleBaseline)
	s.router.Get("/api/export", s.handleExport)
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server on the given port.
func (s *Server) Start(port string) error {
	log.Printf("cytostat API listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}
