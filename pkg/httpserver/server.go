package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/command"
	"github.com/coe-acad/p2p-solar-trade/internal/plan"
	"github.com/coe-acad/p2p-solar-trade/internal/publish"
	"github.com/coe-acad/p2p-solar-trade/internal/trades"
	"github.com/coe-acad/p2p-solar-trade/pkg/healthprobe"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server provides the planning API plus metrics and health checks.
type Server struct {
	server        *http.Server
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
}

// Config holds server configuration.
type Config struct {
	Port          string
	Logger        *zap.Logger
	HealthChecker *healthprobe.HealthChecker
	Plan          *plan.Engine
	Interpreter   *command.Interpreter
	Store         *trades.Store
	Publisher     *publish.Publisher
	Hub           *Hub
}

// New creates a new HTTP server.
func New(cfg *Config) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Routes
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/health", cfg.HealthChecker.Health())
	r.Get("/ready", cfg.HealthChecker.Ready())

	if cfg.Plan != nil {
		planHandler := NewPlanHandler(cfg.Plan, cfg.Interpreter, cfg.Logger)
		r.Get("/api/plan", planHandler.HandleGetPlan)
		r.Post("/api/plan/exclusions", planHandler.HandleExclude)
		r.Delete("/api/plan/exclusions/{slotID}", planHandler.HandleInclude)
		r.Post("/api/plan/pause", planHandler.HandlePause)
		r.Post("/api/plan/resume", planHandler.HandleResume)
		r.Post("/api/plan/reset", planHandler.HandleReset)
		r.Post("/api/plan/command", planHandler.HandleCommand)
	}

	if cfg.Publisher != nil && cfg.Store != nil {
		publishHandler := NewPublishHandler(cfg.Publisher, cfg.Store, cfg.Logger)
		r.Post("/api/publish", publishHandler.HandlePublish)
		r.Get("/api/summary", publishHandler.HandleSummary)
		r.Post("/api/trades/confirm", publishHandler.HandleConfirm)
		r.Delete("/api/trades", publishHandler.HandleClear)
	}

	// The trade-acceptance sink mirrors the serverless function the mobile
	// clients call: any origin may POST to it.
	sinkHandler := NewSinkHandler(cfg.Logger)
	permissive := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	acceptHandler := permissive.Handler(http.HandlerFunc(sinkHandler.HandleAccept))
	r.Method(http.MethodPost, "/api/trades/accept", acceptHandler)
	// Preflight requests must reach the cors handler too, or the browser
	// never gets as far as the POST.
	r.Method(http.MethodOptions, "/api/trades/accept", acceptHandler)

	if cfg.Hub != nil {
		r.Get("/api/plan/ws", cfg.Hub.HandleWS)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		server:        server,
		logger:        cfg.Logger,
		healthChecker: cfg.HealthChecker,
	}
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}
