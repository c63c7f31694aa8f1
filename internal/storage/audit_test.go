package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coe-acad/p2p-solar-trade/internal/publish"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

func testBatch() *publish.Batch {
	return &publish.Batch{
		ID:             "3f2a9c41-0000-4000-8000-000000000000",
		PublishedAt:    time.Date(2026, 1, 27, 18, 0, 0, 0, time.UTC),
		TradeCount:     1,
		TotalQuantity:  4,
		TotalValue:     25,
		RemoteAccepted: true,
		Submissions: []types.TradeSubmission{
			{
				Date:      "2026-01-28",
				StartTime: "2026-01-28T04:30:00.000Z",
				EndTime:   "2026-01-28T05:30:00.000Z",
				Quantity:  4,
				Price:     6.25,
			},
		},
	}
}

func TestConsoleAudit_RecordPublish(t *testing.T) {
	logger := zap.NewNop()
	sink := NewConsoleAudit(logger)

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := sink.RecordPublish(context.Background(), testBatch())

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if !bytes.Contains([]byte(output), []byte("PLAN PUBLISHED")) {
		t.Error("expected output to contain 'PLAN PUBLISHED'")
	}
	if !bytes.Contains([]byte(output), []byte("2026-01-28")) {
		t.Error("expected output to contain the trade date")
	}
}

func TestConsoleAudit_Close(t *testing.T) {
	sink := NewConsoleAudit(zap.NewNop())

	if err := sink.Close(); err != nil {
		t.Errorf("expected no error on close, got %v", err)
	}
}

func TestPostgresAudit_RecordPublish(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	sink := &PostgresAudit{
		db:     db,
		logger: zap.NewNop(),
	}

	batch := testBatch()

	mock.ExpectExec("INSERT INTO publish_batches").
		WithArgs(
			batch.ID,
			batch.PublishedAt,
			batch.TradeCount,
			batch.TotalQuantity,
			batch.TotalValue,
			batch.RemoteAccepted,
			sqlmock.AnyArg(), // submissions JSONB
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = sink.RecordPublish(context.Background(), batch)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresAudit_RecordPublishError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	sink := &PostgresAudit{
		db:     db,
		logger: zap.NewNop(),
	}

	mock.ExpectExec("INSERT INTO publish_batches").
		WillReturnError(errors.New("relation does not exist"))

	err = sink.RecordPublish(context.Background(), testBatch())
	if err == nil {
		t.Error("expected error from failed insert")
	}
}
