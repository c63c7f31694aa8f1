// Package trades owns the one persisted record of the planning pipeline:
// what was published, what the backend matched, and the aggregates the
// summary screens derive from both.
package trades

import (
	"math"
	"sync"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/storage"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

// Store is the single source of truth for the published-trades record.
// Every mutation replaces the whole record and persists it before
// returning, so a reload can never observe a half-applied update.
// Persistence failures are logged and swallowed: the in-memory state the
// user just saw stays authoritative.
type Store struct {
	mu     sync.Mutex
	record types.PublishedTradesRecord
	repo   storage.Repository
	logger *zap.Logger
}

// NewStore loads the persisted record, falling back to defaults when none
// exists or the stored blob is unreadable.
func NewStore(repo storage.Repository, logger *zap.Logger) *Store {
	record := types.DefaultRecord()

	found, err := repo.Get(storage.KeyPublishedTrades, &record)
	if err != nil {
		logger.Warn("published-trades-load-failed", zap.Error(err))
		record = types.DefaultRecord()
	} else if found {
		logger.Info("published-trades-loaded",
			zap.Int("planned", len(record.PlannedTrades)),
			zap.Bool("is-published", record.IsPublished))
	}

	if record.PlannedTrades == nil {
		record.PlannedTrades = []types.PlannedTrade{}
	}
	if record.ConfirmedTrades == nil {
		record.ConfirmedTrades = []types.ConfirmedTrade{}
	}

	return &Store{
		record: record,
		repo:   repo,
		logger: logger,
	}
}

// Partial carries the fields of a shallow-merge update. Nil fields are
// left untouched.
type Partial struct {
	PlannedTrades       *[]types.PlannedTrade
	ConfirmedTrades     *[]types.ConfirmedTrade
	PublishedAt         *string
	IsPublished         *bool
	ShowConfirmedTrades *bool
}

// SetPartial shallow-merges updates into the record and persists
// immediately.
func (s *Store) SetPartial(updates Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if updates.PlannedTrades != nil {
		s.record.PlannedTrades = *updates.PlannedTrades
	}
	if updates.ConfirmedTrades != nil {
		s.record.ConfirmedTrades = *updates.ConfirmedTrades
	}
	if updates.PublishedAt != nil {
		s.record.PublishedAt = *updates.PublishedAt
	}
	if updates.IsPublished != nil {
		s.record.IsPublished = *updates.IsPublished
	}
	if updates.ShowConfirmedTrades != nil {
		s.record.ShowConfirmedTrades = *updates.ShowConfirmedTrades
	}

	s.persistLocked()
}

// UpdatePlannedTrades replaces the planned-trades field. Used for local
// edits made before a publish.
func (s *Store) UpdatePlannedTrades(trades []types.PlannedTrade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.PlannedTrades = trades
	s.persistLocked()
}

// MarkPublished records a completed publish: planned trades become the
// submitted list, the record is flagged published with a fresh timestamp.
func (s *Store) MarkPublished(planned []types.PlannedTrade, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.PlannedTrades = planned
	s.record.IsPublished = true
	s.record.PublishedAt = at.UTC().Format("2006-01-02T15:04:05.000Z07:00")

	s.persistLocked()

	RecordsPublished.Inc()
	s.logger.Info("published-trades-recorded",
		zap.Int("planned", len(planned)),
		zap.String("published-at", s.record.PublishedAt))
}

// ConfirmTrades replaces the confirmed-trades field and surfaces them to
// the summary. Models a backend match event arriving out of band.
func (s *Store) ConfirmTrades(trades []types.ConfirmedTrade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.ConfirmedTrades = trades
	s.record.ShowConfirmedTrades = true

	s.persistLocked()

	s.logger.Info("trades-confirmed", zap.Int("confirmed", len(trades)))
}

// Clear resets the record to its default, unpublished state. The only way
// back to NOT_PUBLISHED.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = types.DefaultRecord()
	s.persistLocked()

	s.logger.Info("published-trades-cleared")
}

// Record returns a copy of the current record.
func (s *Store) Record() types.PublishedTradesRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.record
	record.PlannedTrades = append([]types.PlannedTrade(nil), s.record.PlannedTrades...)
	record.ConfirmedTrades = append([]types.ConfirmedTrade(nil), s.record.ConfirmedTrades...)

	return record
}

// Status reports the record's position in the publish lifecycle.
func (s *Store) Status() types.PublishStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Status()
}

// Summary holds the aggregates derived from the record. Every value is a
// fold over the trade lists; nothing here is separately maintained.
type Summary struct {
	PlannedUnits      float64             `json:"plannedUnits"`
	PlannedEarnings   float64             `json:"plannedEarnings"`
	ConfirmedUnits    float64             `json:"confirmedUnits"`
	ConfirmedEarnings float64             `json:"confirmedEarnings"`
	TotalUnits        float64             `json:"totalUnits"`
	TotalEarnings     float64             `json:"totalEarnings"`
	AverageRate       float64             `json:"averageRate"`
	Status            types.PublishStatus `json:"status"`
	PublishedAt       string              `json:"publishedAt,omitempty"`
}

// Summarize computes the aggregates for the current record. Confirmed
// trades only count once surfaced via ConfirmTrades.
func (s *Store) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary Summary

	for _, tr := range s.record.PlannedTrades {
		summary.PlannedUnits += tr.QuantityKWH
		summary.PlannedEarnings += tr.EarningsINR
	}

	if s.record.ShowConfirmedTrades {
		for _, tr := range s.record.ConfirmedTrades {
			summary.ConfirmedUnits += tr.QuantityKWH
			summary.ConfirmedEarnings += tr.RealizedEarningsINR
		}
	}

	summary.TotalUnits = summary.PlannedUnits + summary.ConfirmedUnits
	summary.TotalEarnings = summary.PlannedEarnings + summary.ConfirmedEarnings

	if summary.TotalUnits > 0 {
		summary.AverageRate = math.Round(summary.TotalEarnings/summary.TotalUnits*10) / 10
	}

	summary.Status = s.record.Status()
	summary.PublishedAt = s.record.PublishedAt

	return summary
}

func (s *Store) persistLocked() {
	err := s.repo.Set(storage.KeyPublishedTrades, s.record)
	if err != nil {
		// Best-effort cache, not a system of record. The in-memory copy
		// stays authoritative.
		PersistFailuresTotal.Inc()
		s.logger.Debug("published-trades-persist-failed", zap.Error(err))
	}
}
