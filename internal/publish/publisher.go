package publish

import (
	"context"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/plan"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder persists the published state locally. Implemented by the
// published-trades store.
type Recorder interface {
	MarkPublished(planned []types.PlannedTrade, at time.Time)
}

// AuditSink records publish batches out of band (console or postgres).
type AuditSink interface {
	RecordPublish(ctx context.Context, batch *Batch) error
	Close() error
}

// Batch describes one publish operation for the audit trail.
type Batch struct {
	ID             string
	PublishedAt    time.Time
	TradeCount     int
	TotalQuantity  float64
	TotalValue     float64
	RemoteAccepted bool
	Submissions    []types.TradeSubmission
}

// Result is what a publish returns to its caller.
type Result struct {
	BatchID        string                  `json:"batchId"`
	PublishedAt    time.Time               `json:"publishedAt"`
	Submissions    []types.TradeSubmission `json:"submissions"`
	RemoteAccepted bool                    `json:"remoteAccepted"`
	RemoteError    string                  `json:"remoteError,omitempty"`
}

// Publisher converts the active plan to wire format, attempts remote
// submission, and persists the published state locally no matter what the
// remote leg did.
//
// The local record is authoritative: the user saw "published", so a
// network failure never rolls that back. Remote acceptance is reported in
// the result so callers MAY surface it, but nothing here retries.
type Publisher struct {
	plan     *plan.Engine
	recorder Recorder
	sink     Sink
	audit    AuditSink
	userID   string
	deviceID string
	logger   *zap.Logger
	now      func() time.Time
}

// Config holds publisher configuration.
type Config struct {
	Plan     *plan.Engine
	Recorder Recorder
	Sink     Sink
	Audit    AuditSink
	UserID   string
	DeviceID string
	Logger   *zap.Logger
	Now      func() time.Time // defaults to time.Now
}

// New creates a publisher.
func New(cfg *Config) *Publisher {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Publisher{
		plan:     cfg.Plan,
		recorder: cfg.Recorder,
		sink:     cfg.Sink,
		audit:    cfg.Audit,
		userID:   cfg.UserID,
		deviceID: cfg.DeviceID,
		logger:   cfg.Logger,
		now:      now,
	}
}

// Publish runs the pipeline for the current active plan. When target is
// nil the plan is published for tomorrow (IST). A conversion error aborts
// the whole publish; a remote submission error does not.
func (p *Publisher) Publish(ctx context.Context, target *time.Time) (*Result, error) {
	started := p.now()

	targetDate := Tomorrow(started)
	if target != nil {
		targetDate = *target
	}

	active := p.plan.ActivePlan()

	subs, err := BuildSubmissions(active, targetDate)
	if err != nil {
		return nil, err
	}

	result := &Result{
		BatchID:     uuid.New().String(),
		Submissions: subs,
	}

	// Remote leg: best effort. Failure is logged and reported, never fatal.
	err = p.sink.Submit(ctx, &types.SubmissionRequest{
		Trades:   subs,
		UserID:   p.userID,
		DeviceID: p.deviceID,
	})
	if err != nil {
		RemoteFailuresTotal.Inc()
		result.RemoteError = err.Error()
		p.logger.Warn("remote-submission-failed",
			zap.String("batch-id", result.BatchID),
			zap.Error(err))
	} else {
		result.RemoteAccepted = true
	}

	// Local leg: unconditional and synchronous. A reload after this point
	// must see the published state.
	publishedAt := p.now()
	result.PublishedAt = publishedAt
	p.recorder.MarkPublished(active, publishedAt)

	p.recordAudit(ctx, result, subs)

	PublishesTotal.Inc()
	PublishedTradesTotal.Add(float64(len(subs)))
	PublishDurationSeconds.Observe(p.now().Sub(started).Seconds())

	p.logger.Info("plan-published",
		zap.String("batch-id", result.BatchID),
		zap.Int("trades", len(subs)),
		zap.Bool("remote-accepted", result.RemoteAccepted),
		zap.String("target-date", targetDate.In(IST).Format("2006-01-02")))

	return result, nil
}

func (p *Publisher) recordAudit(ctx context.Context, result *Result, subs []types.TradeSubmission) {
	if p.audit == nil {
		return
	}

	var quantity, value float64
	for _, s := range subs {
		quantity += s.Quantity
		value += s.Quantity * s.Price
	}

	err := p.audit.RecordPublish(ctx, &Batch{
		ID:             result.BatchID,
		PublishedAt:    result.PublishedAt,
		TradeCount:     len(subs),
		TotalQuantity:  quantity,
		TotalValue:     value,
		RemoteAccepted: result.RemoteAccepted,
		Submissions:    subs,
	})
	if err != nil {
		p.logger.Error("publish-audit-failed",
			zap.String("batch-id", result.BatchID),
			zap.Error(err))
	}
}
