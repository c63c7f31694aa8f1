package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/plan"
	"github.com/coe-acad/p2p-solar-trade/internal/publish"
	"github.com/coe-acad/p2p-solar-trade/internal/storage"
	"github.com/coe-acad/p2p-solar-trade/internal/trades"
	"github.com/coe-acad/p2p-solar-trade/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the trade plan to the backend",
	Long: `Derives the plan from the forecast, converts every slot to a
UTC-stamped submission, posts the batch to the submission endpoint, and
records the published plan locally.

The local record is written even when the remote submission fails; rerun
to retry the remote leg.

Examples:
  # Publish the plan for tomorrow
  go run . publish

  # Publish for a specific date
  go run . publish --date 2026-02-01`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringP("date", "d", "", "Target date (yyyy-MM-dd, IST); default is tomorrow")
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	logger, err := initCLILogger(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	var target *time.Time
	dateFlag, _ := cmd.Flags().GetString("date")
	if dateFlag != "" {
		parsed, parseErr := time.ParseInLocation("2006-01-02", dateFlag, publish.IST)
		if parseErr != nil {
			return fmt.Errorf("invalid --date %q: %w", dateFlag, parseErr)
		}
		target = &parsed
	}

	repo, err := storage.NewFileRepository(cfg.StateDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open state dir: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	store := trades.NewStore(repo, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	engine, err := buildPlanEngine(ctx, cfg, logger, target)
	if err != nil {
		return err
	}

	publisher := publish.New(&publish.Config{
		Plan:     engine,
		Recorder: store,
		Sink:     publish.NewHTTPSink(cfg.SubmissionURL, cfg.SubmissionTimeout, logger),
		Audit:    storage.NewConsoleAudit(logger),
		UserID:   cfg.UserID,
		DeviceID: cfg.DeviceID,
		Logger:   logger,
	})

	result, err := publisher.Publish(ctx, target)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	fmt.Printf("Published %d trades (batch %s)\n", len(result.Submissions), result.BatchID)
	if result.RemoteAccepted {
		fmt.Println("Remote submission: accepted")
	} else {
		fmt.Printf("Remote submission: FAILED (%s)\n", result.RemoteError)
		fmt.Println("The local record was still written; rerun to retry.")
	}

	return nil
}

// buildPlanEngine fetches the candidate slots for the target date and
// seeds a fresh engine. One-shot publishes have no exclusion state; use
// the serve API for interactive plan shaping.
func buildPlanEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger, target *time.Time) (*plan.Engine, error) {
	date := publish.Tomorrow(time.Now())
	if target != nil {
		date = *target
	}

	source := newCLIForecastSource(cfg, logger)

	slots, err := source.Slots(ctx, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots: %w", err)
	}

	engine := plan.New(&plan.Config{
		BaseSlots: slots,
		Logger:    logger,
	})

	return engine, nil
}
