package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coe-acad/p2p-solar-trade/internal/publish"
	json "github.com/goccy/go-json"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresAudit implements publish.AuditSink using PostgreSQL.
type PostgresAudit struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresAudit creates a new PostgreSQL audit sink.
func NewPostgresAudit(cfg *PostgresConfig) (*PostgresAudit, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-audit-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresAudit{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// RecordPublish stores a publish batch. Submissions are stored as JSONB so
// the schema does not change when the wire format grows fields.
func (p *PostgresAudit) RecordPublish(ctx context.Context, batch *publish.Batch) error {
	submissions, err := json.Marshal(batch.Submissions)
	if err != nil {
		return fmt.Errorf("marshal submissions: %w", err)
	}

	query := `
		INSERT INTO publish_batches (
			id, published_at, trade_count, total_quantity, total_value,
			remote_accepted, submissions
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err = p.db.ExecContext(ctx, query,
		batch.ID,
		batch.PublishedAt,
		batch.TradeCount,
		batch.TotalQuantity,
		batch.TotalValue,
		batch.RemoteAccepted,
		submissions,
	)

	if err != nil {
		return fmt.Errorf("insert publish batch: %w", err)
	}

	p.logger.Debug("publish-batch-stored",
		zap.String("batch-id", batch.ID),
		zap.Int("trade-count", batch.TradeCount))

	return nil
}

// Close closes the database connection.
func (p *PostgresAudit) Close() error {
	p.logger.Info("closing-postgres-audit")
	return p.db.Close()
}
