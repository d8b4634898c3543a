// Package server provides the HTTP server and routing for the options
// portfolio analyzer.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/optionsentry/internal/database"
	"github.com/aristath/optionsentry/internal/modules/portfolio"
	portfoliohandlers "github.com/aristath/optionsentry/internal/modules/portfolio/handlers"
	"github.com/aristath/optionsentry/internal/modules/recommendations"
	recommendationshandlers "github.com/aristath/optionsentry/internal/modules/recommendations/handlers"
	"github.com/aristath/optionsentry/internal/modules/snapshots"
	snapshotshandlers "github.com/aristath/optionsentry/internal/modules/snapshots/handlers"
	"github.com/aristath/optionsentry/internal/modules/summary"
	summaryhandlers "github.com/aristath/optionsentry/internal/modules/summary/handlers"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Port      int
	Portfolio *portfolio.Service
	Analyzer  *recommendations.Analyzer
	Summary   *summary.Service
	Snapshots *snapshots.Service
	DB        *database.DB
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            Config
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg,
		systemHandlers: NewSystemHandlers(cfg.DB, cfg.Log),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	// The summary endpoint predates the /api prefix and keeps its path for
	// existing consumers.
	if s.cfg.Summary != nil {
		summaryHandler := summaryhandlers.NewHandler(s.cfg.Summary, s.log)
		summaryHandler.RegisterRoutes(s.router)
	}

	s.router.Route("/api", func(r chi.Router) {
		portfolioHandler := portfoliohandlers.NewHandler(s.cfg.Portfolio, s.log)
		portfolioHandler.RegisterRoutes(r)

		recommendationsHandler := recommendationshandlers.NewHandler(s.cfg.Analyzer, s.log)
		recommendationsHandler.RegisterRoutes(r)

		if s.cfg.Snapshots != nil {
			snapshotsHandler := snapshotshandlers.NewHandler(s.cfg.Snapshots, s.log)
			snapshotsHandler.RegisterRoutes(r)
		}

		r.Route("/system", func(r chi.Router) {
			r.Get("/health", s.systemHandlers.HandleSystemHealth)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		s.log.Error().Err(err).Msg("Failed to write health response")
	}
}

// Router returns the configured router, used by tests to serve requests
// without binding a port.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
