package storage

import (
	"context"
	"fmt"

	"github.com/coe-acad/p2p-solar-trade/internal/publish"
	"go.uber.org/zap"
)

// ConsoleAudit implements publish.AuditSink by pretty-printing each batch.
type ConsoleAudit struct {
	logger *zap.Logger
}

// NewConsoleAudit creates a new console audit sink.
func NewConsoleAudit(logger *zap.Logger) *ConsoleAudit {
	logger.Info("console-audit-initialized")
	return &ConsoleAudit{
		logger: logger,
	}
}

// RecordPublish pretty-prints a publish batch to console.
func (c *ConsoleAudit) RecordPublish(ctx context.Context, batch *publish.Batch) error {
	fmt.Println("\n" + "────────────────────────────────────────────────────────────")
	fmt.Printf("☀️  PLAN PUBLISHED\n")
	fmt.Println("────────────────────────────────────────────────────────────")
	fmt.Printf("Batch:    %s\n", batch.ID[:8])
	fmt.Printf("Time:     %s\n", batch.PublishedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Remote:   accepted=%v\n", batch.RemoteAccepted)
	fmt.Println("────────────────────────────────────────────────────────────")
	for _, s := range batch.Submissions {
		fmt.Printf("  %s  %s  %.1f kWh @ ₹%.2f\n", s.Date, s.StartTime, s.Quantity, s.Price)
	}
	fmt.Println("────────────────────────────────────────────────────────────")
	fmt.Printf("Total:    %.1f kWh, ₹%.2f across %d trades\n",
		batch.TotalQuantity, batch.TotalValue, batch.TradeCount)
	fmt.Println("────────────────────────────────────────────────────────────")

	return nil
}

// Close is a no-op for the console sink.
func (c *ConsoleAudit) Close() error {
	c.logger.Info("closing-console-audit")
	return nil
}
