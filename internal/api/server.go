package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mkalinic/sitegen/internal/config"
	"github.com/mkalinic/sitegen/internal/llm"
	"github.com/mkalinic/sitegen/internal/pipeline"
)

// Server is the HTTP API for the sitemap generator.
type Server struct {
	router   chi.Router
	service  *pipeline.Service
	llmStats *llm.Stats
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(service *pipeline.Service, llmStats *llm.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		service:  service,
		llmStats: llmStats,
		log:      log,
		cfg:      cfg,
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

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/upload", s.handleUpload)
		r.Get("/api/sessions/{sessionID}", s.handleSession)
		r.Post("/api/sessions/{sessionID}/generate", s.handleGenerate)
		r.Get("/api/sessions/{sessionID}/result", s.handleResult)
		r.Get("/api/sessions/{sessionID}/sitemap.xml", s.handleDownloadXML)
		r.Get("/api/sessions/{sessionID}/structure.txt", s.handleDownloadTree)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
