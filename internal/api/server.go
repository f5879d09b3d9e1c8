package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/steelbid/internal/config"
	"github.com/dgallion1/steelbid/internal/extract"
	"github.com/dgallion1/steelbid/internal/pipeline"
	"github.com/dgallion1/steelbid/internal/store"
)

// Server is the HTTP API server for steelbid.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        store.Store
	stats        *extract.LLMStats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(orch *pipeline.Orchestrator, st store.Store, stats *extract.LLMStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        st,
		stats:        stats,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/extract", s.handleExtract)
		r.Get("/api/extract/{jobID}/status", s.handleExtractStatus)
		r.Get("/api/extract/{jobID}/events", s.handleExtractEvents)
		r.Get("/api/extract/{jobID}/members", s.handleExtractMembers)

		r.Get("/api/sections", s.handleListSections)
		r.Get("/api/sections/weight", s.handleSectionWeight)
		r.Post("/api/sections/weights", s.handleSectionWeights)

		r.Post("/api/estimate", s.handleEstimate)
		r.Post("/api/estimate/export", s.handleExport)

		r.Get("/api/settings", s.handleGetSettings)
		r.Put("/api/settings", s.handlePutSettings)

		r.Get("/api/estimates", s.handleListEstimates)
		r.Post("/api/estimates", s.handleCreateEstimate)
		r.Get("/api/estimates/{id}", s.handleGetEstimate)
		r.Put("/api/estimates/{id}", s.handleUpdateEstimate)
		r.Delete("/api/estimates/{id}", s.handleDeleteEstimate)
		r.Get("/api/estimates/{id}/export", s.handleExportSaved)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
