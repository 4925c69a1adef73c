// Package apiserver provides a pure JSON API HTTP server implementation
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/macrolog/v1/internal/infrastructure/config"
	"github.com/macrolog/v1/internal/infrastructure/http/handlers"
	"github.com/macrolog/v1/internal/infrastructure/http/middleware"
	"github.com/macrolog/v1/internal/ports/inbound"
)

// APIServer represents the JSON API HTTP server
type APIServer struct {
	config           *config.Config
	logger           *zap.Logger
	server           *http.Server
	router           *chi.Mux
	nutritionService inbound.NutritionService
	estimatorService inbound.EstimatorService
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	nutritionService inbound.NutritionService,
	estimatorService inbound.EstimatorService,
) *APIServer {
	server := &APIServer{
		config:           cfg,
		logger:           log,
		nutritionService: nutritionService,
		estimatorService: estimatorService,
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        server.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return server
}

// setupRoutes configures the JSON API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware for API
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	// API-specific middleware
	r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.JSONOnly())

	// Health check endpoint
	r.Get("/health", s.handleHealthCheck)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	h := handlers.NewAPIHandlers(s.nutritionService, s.logger)
	aiH := handlers.NewAIAPIHandlers(s.estimatorService, s.config.Server.MaxImageBytes, s.logger)

	// Food entry routes
	r.Route("/entries", func(r chi.Router) {
		r.Get("/", h.ListDay)
		r.Post("/", h.LogFood)
		r.Post("/batch", h.LogFoodBatch)
		r.Patch("/{id}", h.UpdateEntry)
		r.Patch("/{id}/portions", h.AdjustPortions)
		r.Delete("/{id}", h.DeleteEntry)
	})

	// Day aggregation routes
	r.Route("/day", func(r chi.Router) {
		r.Get("/summary", h.DaySummary)
		r.Get("/progress", h.DayProgress)
	})
	r.Get("/week", h.WeekOverview)

	// Food lookup routes
	r.Route("/foods", func(r chi.Router) {
		r.Get("/search", h.SearchFoods)
		r.Get("/quick-select", h.QuickSelectFoods)
	})

	// Goal and profile routes
	r.Route("/goals", func(r chi.Router) {
		r.Get("/", h.GetGoals)
		r.Put("/", h.SaveGoals)
		r.Get("/recommended", h.RecommendedGoals)
	})
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.GetProfile)
		r.Put("/", h.SaveProfile)
		r.Get("/metrics", h.BodyMetrics)
	})

	// Analysis routes
	r.Route("/analyze", func(r chi.Router) {
		r.Post("/image", aiH.AnalyzeImage)
		r.Post("/text", aiH.AnalyzeText)
	})

	// Health check
	r.Get("/health", h.HealthCheck)
}

// Start starts the API HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("address", s.server.Addr),
	)

	return s.server.ListenAndServe()
}

// Server returns the underlying HTTP server instance
func (s *APIServer) Server() *http.Server {
	return s.server
}

// Shutdown gracefully shuts down the API server, bounded by the configured
// shutdown timeout
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if timeout := s.config.Server.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return s.server.Shutdown(ctx)
}

// handleHealthCheck provides the health check endpoint
func (s *APIServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, `{"status":"healthy","service":"%s","version":"%s","timestamp":%d}`,
		s.config.App.Name, s.config.App.Version, time.Now().Unix())
}
