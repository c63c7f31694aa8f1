package publish

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/plan"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

type fakeRecorder struct {
	planned     []types.PlannedTrade
	publishedAt time.Time
	calls       int
}

func (r *fakeRecorder) MarkPublished(planned []types.PlannedTrade, at time.Time) {
	r.planned = planned
	r.publishedAt = at
	r.calls++
}

type fakeSink struct {
	err  error
	got  *types.SubmissionRequest
	seen int
}

func (s *fakeSink) Submit(ctx context.Context, req *types.SubmissionRequest) error {
	s.got = req
	s.seen++
	return s.err
}

type fakeAudit struct {
	batches []*Batch
	err     error
}

func (a *fakeAudit) RecordPublish(ctx context.Context, batch *Batch) error {
	a.batches = append(a.batches, batch)
	return a.err
}

func (a *fakeAudit) Close() error { return nil }

func newTestPublisher(sink Sink, recorder Recorder, audit AuditSink) *Publisher {
	engine := plan.New(&plan.Config{
		BaseSlots: types.DefaultBaseSlots(),
		Logger:    zap.NewNop(),
	})

	return New(&Config{
		Plan:     engine,
		Recorder: recorder,
		Sink:     sink,
		Audit:    audit,
		UserID:   "user-1",
		DeviceID: "meter-7",
		Logger:   zap.NewNop(),
	})
}

func TestPublish_Success(t *testing.T) {
	sink := &fakeSink{}
	recorder := &fakeRecorder{}
	audit := &fakeAudit{}

	p := newTestPublisher(sink, recorder, audit)

	target := time.Date(2026, 1, 28, 0, 0, 0, 0, IST)
	result, err := p.Publish(context.Background(), &target)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !result.RemoteAccepted {
		t.Error("expected remote acceptance")
	}
	if len(result.Submissions) != 6 {
		t.Errorf("expected 6 submissions, got %d", len(result.Submissions))
	}
	if result.BatchID == "" {
		t.Error("expected a batch id")
	}

	if sink.got == nil || sink.got.UserID != "user-1" || sink.got.DeviceID != "meter-7" {
		t.Errorf("expected identity on the submission request, got %+v", sink.got)
	}

	if recorder.calls != 1 {
		t.Fatalf("expected one local record write, got %d", recorder.calls)
	}
	if len(recorder.planned) != 6 {
		t.Errorf("expected 6 planned trades recorded, got %d", len(recorder.planned))
	}

	if len(audit.batches) != 1 {
		t.Fatalf("expected one audit batch, got %d", len(audit.batches))
	}
	if !audit.batches[0].RemoteAccepted || audit.batches[0].TradeCount != 6 {
		t.Errorf("unexpected audit batch %+v", audit.batches[0])
	}
}

// The local record must be written even when the remote leg fails.
func TestPublish_LocalFirstOnRemoteFailure(t *testing.T) {
	sink := &fakeSink{err: errors.New("connection refused")}
	recorder := &fakeRecorder{}

	p := newTestPublisher(sink, recorder, nil)

	result, err := p.Publish(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected no error despite remote failure, got %v", err)
	}

	if result.RemoteAccepted {
		t.Error("expected remote acceptance to be false")
	}
	if result.RemoteError == "" {
		t.Error("expected the remote error to be reported")
	}

	if recorder.calls != 1 {
		t.Fatalf("expected local record write, got %d calls", recorder.calls)
	}
	if recorder.publishedAt.IsZero() {
		t.Error("expected a fresh publishedAt timestamp")
	}
	if len(recorder.planned) != 6 {
		t.Errorf("expected planned trades recorded, got %d", len(recorder.planned))
	}
}

func TestPublish_ConversionErrorAborts(t *testing.T) {
	sink := &fakeSink{}
	recorder := &fakeRecorder{}

	engine := plan.New(&plan.Config{
		BaseSlots: []types.BaseSlot{
			{ID: "slot-x", TimeRange: "garbled", QuantityKWH: 1, Price: 5},
		},
		Logger: zap.NewNop(),
	})

	p := New(&Config{
		Plan:     engine,
		Recorder: recorder,
		Sink:     sink,
		Logger:   zap.NewNop(),
	})

	_, err := p.Publish(context.Background(), nil)
	if err == nil {
		t.Fatal("expected conversion error")
	}

	if sink.seen != 0 {
		t.Error("expected no remote submission on conversion error")
	}
	if recorder.calls != 0 {
		t.Error("expected no local record write on conversion error")
	}
}

func TestPublish_PausedPlanPublishesEmpty(t *testing.T) {
	sink := &fakeSink{}
	recorder := &fakeRecorder{}

	engine := plan.New(&plan.Config{
		BaseSlots: types.DefaultBaseSlots(),
		Logger:    zap.NewNop(),
	})
	engine.PauseAll()

	p := New(&Config{
		Plan:     engine,
		Recorder: recorder,
		Sink:     sink,
		Logger:   zap.NewNop(),
	})

	result, err := p.Publish(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.Submissions) != 0 {
		t.Errorf("expected empty submission list, got %d", len(result.Submissions))
	}
	if recorder.calls != 1 {
		t.Error("expected the empty plan to be recorded as published")
	}
}

func TestPublish_AuditFailureIsNotFatal(t *testing.T) {
	sink := &fakeSink{}
	recorder := &fakeRecorder{}
	audit := &fakeAudit{err: errors.New("insert failed")}

	p := newTestPublisher(sink, recorder, audit)

	_, err := p.Publish(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected audit failure to be swallowed, got %v", err)
	}
	if recorder.calls != 1 {
		t.Error("expected local record write")
	}
}
