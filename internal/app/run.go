package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/publish"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("audit-mode", a.cfg.AuditMode),
		zap.String("log-level", a.cfg.LogLevel))

	err := a.startComponents()
	if err != nil {
		return err
	}

	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort),
		zap.String("submission-url", a.cfg.SubmissionURL))

	return a.waitForShutdown()
}

func (a *App) startComponents() error {
	// Load tomorrow's candidate slots before serving traffic.
	err := a.loadInitialPlan()
	if err != nil {
		return fmt.Errorf("load initial plan: %w", err)
	}

	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	if a.hub != nil {
		a.wg.Add(1)
		go a.runPlanFeed()
	}

	return nil
}

// loadInitialPlan fetches the candidate slots for tomorrow (IST) and seeds
// the plan engine. The cached-source fallback chain means this only fails
// when there is neither a reachable forecast service nor a usable cached
// copy, and the fixture catalogue covers the unconfigured case.
func (a *App) loadInitialPlan() error {
	date := publish.Tomorrow(time.Now()).Format("2006-01-02")

	slots, err := a.source.Slots(a.ctx, date)
	if err != nil {
		return fmt.Errorf("fetch slots for %s: %w", date, err)
	}

	a.engine.SetBaseSlots(slots)

	// Seed the record's planned list only while nothing is published; a
	// published record loaded from disk is authoritative until cleared.
	if a.store.Status() == types.StatusNotPublished {
		a.store.UpdatePlannedTrades(a.engine.ActivePlan())
	}

	a.logger.Info("initial-plan-loaded",
		zap.String("date", date),
		zap.Int("slots", len(slots)))

	return nil
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

// runPlanFeed forwards engine snapshots to connected WebSocket clients.
func (a *App) runPlanFeed() {
	defer a.wg.Done()

	go a.hub.Run(a.ctx)

	for {
		select {
		case <-a.ctx.Done():
			return
		case snap, ok := <-a.engine.Updates():
			if !ok {
				return
			}
			a.hub.BroadcastSnapshot(snap)
		}
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
