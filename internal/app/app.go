package app

import (
	"context"
	"sync"

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

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	repository    storage.Repository
	slotCache     cache.Cache
	source        forecast.Source
	engine        *plan.Engine
	interpreter   *command.Interpreter
	store         *trades.Store
	audit         publish.AuditSink
	publisher     *publish.Publisher
	hub           *httpserver.Hub
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	DisablePlanFeed bool // skip the WebSocket plan feed (one-shot CLI commands)
}
