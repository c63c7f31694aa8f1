package plan

import (
	"sync"
	"time"

	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

// Engine maintains the exclusion state for the current plan generation and
// derives the active plan from it. The base slot list is immutable between
// refreshes; a refresh replaces it wholesale.
//
// All aggregates are folds over the derived plan. There is no cached total
// that can drift from the filtered set.
type Engine struct {
	mu       sync.RWMutex
	base     []types.BaseSlot
	excluded map[string]struct{}
	paused   bool

	refreshInterval time.Duration
	refreshedAt     time.Time

	logger  *zap.Logger
	updates chan Snapshot
}

// Config holds engine configuration.
type Config struct {
	BaseSlots       []types.BaseSlot
	RefreshInterval time.Duration // cosmetic countdown basis; never triggers a refetch
	Logger          *zap.Logger
}

// Snapshot is a point-in-time view of the derived plan.
type Snapshot struct {
	Slots         []types.PlannedTrade `json:"slots"`
	Paused        bool                 `json:"paused"`
	ExcludedCount int                  `json:"excludedCount"`
	TotalUnits    float64              `json:"totalUnits"`
	TotalEarnings float64              `json:"totalEarnings"`
	NextRefreshIn string               `json:"nextRefreshIn"`
}

// New creates a new plan engine.
func New(cfg *Config) *Engine {
	// Copy, same as SetBaseSlots: the caller keeps its slice.
	base := append([]types.BaseSlot(nil), cfg.BaseSlots...)
	if base == nil {
		base = []types.BaseSlot{}
	}

	return &Engine{
		base:            base,
		excluded:        make(map[string]struct{}),
		refreshInterval: cfg.RefreshInterval,
		refreshedAt:     time.Now(),
		logger:          cfg.Logger,
		updates:         make(chan Snapshot, 16),
	}
}

// Updates returns a channel carrying a snapshot after every mutation.
// Snapshots are dropped when the channel is full; consumers only need the
// latest state.
func (e *Engine) Updates() <-chan Snapshot {
	return e.updates
}

// SetBaseSlots replaces the candidate slot list. Exclusions referring to
// ids absent from the new list are harmless; they simply never match.
func (e *Engine) SetBaseSlots(slots []types.BaseSlot) {
	e.mu.Lock()
	e.base = append([]types.BaseSlot(nil), slots...)
	e.refreshedAt = time.Now()
	e.mu.Unlock()

	ActiveSlots.Set(float64(len(e.ActivePlan())))
	e.logger.Info("base-slots-replaced", zap.Int("count", len(slots)))
	e.publish()
}

// ExcludeSlot adds a slot id to the exclusion set. No-op if already
// excluded; excluding an unknown id always succeeds.
func (e *Engine) ExcludeSlot(id string) {
	e.mu.Lock()
	_, already := e.excluded[id]
	if !already {
		e.excluded[id] = struct{}{}
	}
	e.mu.Unlock()

	if already {
		return
	}

	ExclusionsTotal.Inc()
	e.logger.Debug("slot-excluded", zap.String("slot-id", id))
	e.publish()
}

// IncludeSlot removes a single slot id from the exclusion set.
func (e *Engine) IncludeSlot(id string) {
	e.mu.Lock()
	_, found := e.excluded[id]
	if found {
		delete(e.excluded, id)
	}
	e.mu.Unlock()

	if !found {
		return
	}

	e.logger.Debug("slot-restored", zap.String("slot-id", id))
	e.publish()
}

// PauseAll pauses the whole plan. While paused the active plan is empty
// regardless of individual exclusions.
func (e *Engine) PauseAll() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()

	PauseState.Set(1)
	e.logger.Info("plan-paused")
	e.publish()
}

// ResumeAll clears the pause flag. It does NOT clear individual
// exclusions: resuming restores candidate slots to visibility, but slots
// the user removed one by one stay removed.
func (e *Engine) ResumeAll() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()

	PauseState.Set(0)
	e.logger.Info("plan-resumed")
	e.publish()
}

// ResetExclusions empties the exclusion set without touching the pause flag.
func (e *Engine) ResetExclusions() {
	e.mu.Lock()
	e.excluded = make(map[string]struct{})
	e.mu.Unlock()

	e.logger.Info("exclusions-reset")
	e.publish()
}

// Paused reports whether the plan is paused.
func (e *Engine) Paused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.paused
}

// BaseSlots returns a copy of the current candidate slot list.
func (e *Engine) BaseSlots() []types.BaseSlot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]types.BaseSlot(nil), e.base...)
}

// ActivePlan derives the active plan: base slots minus exclusions, each
// annotated with its computed earnings. Returns an empty list while paused.
// Pure with respect to engine state; repeated calls with no intervening
// mutation return structurally equal results.
func (e *Engine) ActivePlan() []types.PlannedTrade {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activePlanLocked()
}

func (e *Engine) activePlanLocked() []types.PlannedTrade {
	if e.paused {
		return []types.PlannedTrade{}
	}

	active := make([]types.PlannedTrade, 0, len(e.base))
	for _, s := range e.base {
		if _, skip := e.excluded[s.ID]; skip {
			continue
		}
		active = append(active, types.NewPlannedTrade(s))
	}

	return active
}

// Snapshot returns the derived plan plus its aggregate folds.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	active := e.activePlanLocked()

	var units, earnings float64
	for _, tr := range active {
		units += tr.QuantityKWH
		earnings += tr.EarningsINR
	}

	return Snapshot{
		Slots:         active,
		Paused:        e.paused,
		ExcludedCount: len(e.excluded),
		TotalUnits:    units,
		TotalEarnings: earnings,
		NextRefreshIn: e.nextRefreshInLocked(),
	}
}

// nextRefreshInLocked formats the cosmetic "refreshes in Xh Ym" countdown.
// The countdown is display-only; nothing refetches when it reaches zero.
func (e *Engine) nextRefreshInLocked() string {
	if e.refreshInterval <= 0 {
		return ""
	}

	remaining := e.refreshInterval - time.Since(e.refreshedAt)
	if remaining < 0 {
		remaining = 0
	}

	return remaining.Truncate(time.Minute).String()
}

// publish pushes the latest snapshot to the updates channel without
// blocking the caller.
func (e *Engine) publish() {
	snap := e.Snapshot()
	select {
	case e.updates <- snap:
	default:
	}
}
