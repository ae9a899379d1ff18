package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/candorhq/candor/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// Server holds all server dependencies
type Server struct {
	config *Config
	repos  *repository.Repositories
	gormDB *gorm.DB // nil when running on the in-memory store

	scorer         Scorer
	sessionService *SessionService
	reportService  *ReportService
	commentService *CommentService
	shareService   *ShareService
	validator      *Validator

	sessionEndpoints *SessionEndpoints
	reportEndpoints  *ReportEndpoints
	adminEndpoints   *AdminEndpoints
	transcriptStream *TranscriptStreamHandler
}

// NewServer creates a new server instance
func NewServer(config *Config, repos *repository.Repositories) *Server {
	return &Server{config: config, repos: repos}
}

// SetDatabase hands the raw GORM connection to the server for health checks.
func (s *Server) SetDatabase(db *gorm.DB) {
	s.gormDB = db
}

// InitializeServices initializes all server services
func (s *Server) InitializeServices() error {
	seed := s.config.Scoring.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.scorer = NewReferenceScorer(seed)

	s.sessionService = NewSessionService(s.repos, s.scorer)
	s.reportService = NewReportService(s.repos)
	s.commentService = NewCommentService(s.repos)
	s.shareService = NewShareService(s.repos, s.config.Share.SigningSecret)
	s.validator = NewValidator(s.repos)

	s.sessionEndpoints = NewSessionEndpoints(s.sessionService)
	s.reportEndpoints = NewReportEndpoints(s.reportService, s.commentService, s.shareService)
	s.adminEndpoints = NewAdminEndpoints(s.validator)
	s.transcriptStream = NewTranscriptStreamHandler(s.sessionService, s.config.WebSocket.AllowedOrigins)

	if s.config.Share.SigningSecret == "" {
		slog.Warn("Share signing secret not configured, share tokens will be signed with an empty key")
	}

	slog.Info("Services initialized")
	return nil
}

// SessionService exposes the lifecycle service for the seeder.
func (s *Server) SessionService() *SessionService { return s.sessionService }

// ReportService exposes the report pipeline for the seeder.
func (s *Server) ReportService() *ReportService { return s.reportService }

// CommentService exposes the comment service for the seeder.
func (s *Server) CommentService() *CommentService { return s.commentService }

// ShareService exposes the share service for the seeder.
func (s *Server) ShareService() *ShareService { return s.shareService }

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health endpoint
	r.Get("/health", s.healthHandler)

	// API v1 route group
	r.Route("/api/v1", func(r chi.Router) {
		s.sessionEndpoints.RegisterRoutes(r)
		s.reportEndpoints.RegisterRoutes(r)
		s.reportEndpoints.RegisterPublicRoutes(r)
		s.adminEndpoints.RegisterRoutes(r)

		// Live transcript ingest from the transcript producer
		r.Get("/sessions/{id}/stream", s.transcriptStream.StreamHandler)
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.SetupRoutes(),
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "in-memory"

	if s.gormDB != nil {
		if sqlDB, err := s.gormDB.DB(); err == nil {
			if err := sqlDB.Ping(); err != nil {
				dbStatus = "down"
				status = "degraded"
			} else {
				dbStatus = "up"
			}
		} else {
			dbStatus = "down"
			status = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"` + status + `","database":"` + dbStatus + `"}`))
}
