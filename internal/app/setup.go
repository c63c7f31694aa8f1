package app

import (
	"context"
	"fmt"

	"github.com/coe-acad/p2p-solar-trade/internal/command"
	"github.com/coe-acad/p2p-solar-trade/internal/forecast"
	"github.com/coe-acad/p2p-solar-trade/internal/plan"
	"github.com/coe-acad/p2p-solar-trade/internal/publish"
	"github.com/coe-acad/p2p-solar-trade/internal/storage"
	"github.com/coe-acad/p2p-solar-trade/internal/trades"
	"github.com/coe-acad/p2p-solar-trade/pkg/cache"
	"github.com/coe-acad/p2p-solar-trade/pkg/config"
	"github.com/coe-acad/p2p-solar-trade/pkg/healthprobe"
	"github.com/coe-acad/p2p-solar-trade/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New("solar-trade")

	slotCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	repository, err := storage.NewFileRepository(cfg.StateDir, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup repository: %w", err)
	}

	store := trades.NewStore(repository, logger)
	source := setupForecastSource(cfg, logger, slotCache, repository)
	engine := setupPlanEngine(cfg, logger)
	interpreter := setupInterpreter(engine, logger)

	audit, err := setupAudit(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup audit: %w", err)
	}

	publisher := setupPublisher(cfg, logger, engine, store, audit)

	var hub *httpserver.Hub
	if !opts.DisablePlanFeed {
		hub = httpserver.NewHub(logger)
	}

	httpServer := setupHTTPServer(cfg, logger, healthChecker, engine, interpreter, store, publisher, hub)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		repository:    repository,
		slotCache:     slotCache,
		source:        source,
		engine:        engine,
		interpreter:   interpreter,
		store:         store,
		audit:         audit,
		publisher:     publisher,
		hub:           hub,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000, // 10x expected max items (forecasts keyed by date)
		MaxCost:     100,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupForecastSource(cfg *config.Config, logger *zap.Logger, slotCache cache.Cache, repo storage.Repository) forecast.Source {
	var upstream forecast.Source
	if cfg.ForecastURL != "" {
		upstream = forecast.ClientSource{
			Client: forecast.NewClient(cfg.ForecastURL, cfg.ForecastTimeout, logger),
		}
	} else {
		logger.Info("forecast-fixture-mode",
			zap.String("note", "FORECAST_URL not set, using the built-in slot catalogue"))
		upstream = forecast.FixtureSource{}
	}

	return forecast.NewCachedSource(&forecast.CachedConfig{
		Source: upstream,
		Cache:  slotCache,
		Repo:   repo,
		TTL:    cfg.ForecastTTL,
		Logger: logger,
	})
}

func setupPlanEngine(cfg *config.Config, logger *zap.Logger) *plan.Engine {
	return plan.New(&plan.Config{
		RefreshInterval: cfg.PlanRefreshInterval,
		Logger:          logger,
	})
}

func setupInterpreter(engine *plan.Engine, logger *zap.Logger) *command.Interpreter {
	return command.New(&command.Config{
		Plan:   engine,
		Logger: logger,
	})
}

func setupAudit(cfg *config.Config, logger *zap.Logger) (publish.AuditSink, error) {
	if cfg.AuditMode == "postgres" {
		pgAudit, err := storage.NewPostgresAudit(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres audit: %w", err)
		}
		return pgAudit, nil
	}

	return storage.NewConsoleAudit(logger), nil
}

func setupPublisher(
	cfg *config.Config,
	logger *zap.Logger,
	engine *plan.Engine,
	store *trades.Store,
	audit publish.AuditSink,
) *publish.Publisher {
	return publish.New(&publish.Config{
		Plan:     engine,
		Recorder: store,
		Sink:     publish.NewHTTPSink(cfg.SubmissionURL, cfg.SubmissionTimeout, logger),
		Audit:    audit,
		UserID:   cfg.UserID,
		DeviceID: cfg.DeviceID,
		Logger:   logger,
	})
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	engine *plan.Engine,
	interpreter *command.Interpreter,
	store *trades.Store,
	publisher *publish.Publisher,
	hub *httpserver.Hub,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Plan:          engine,
		Interpreter:   interpreter,
		Store:         store,
		Publisher:     publisher,
		Hub:           hub,
	})
}
