package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/forecast"
	"github.com/coe-acad/p2p-solar-trade/internal/publish"
	"github.com/coe-acad/p2p-solar-trade/pkg/config"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // Cobra boilerplate
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show tomorrow's trade plan",
	Long: `Fetches the generation forecast for tomorrow (IST) and prints the
candidate slot list with quantities, rates and expected earnings.

Examples:
  # Show the plan for tomorrow
  go run . plan`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	source := newCLIForecastSource(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	date := publish.Tomorrow(time.Now()).Format("2006-01-02")

	slots, err := source.Slots(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to fetch slots for %s: %w", date, err)
	}

	if len(slots) == 0 {
		fmt.Println("No candidate slots for tomorrow.")
		return nil
	}

	displayPlanTable(date, slots)

	return nil
}

func loadCLIConfig() (cfg *config.Config, err error) {
	// Load .env file if exists
	err = godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		err = fmt.Errorf("failed to load .env: %w", err)
		return cfg, err
	}

	cfg, err = config.LoadFromEnv()
	if err != nil {
		err = fmt.Errorf("failed to load config: %w", err)
		return cfg, err
	}

	return cfg, nil
}

func initCLILogger(cfg *config.Config) (logger *zap.Logger, err error) {
	logLevel := zapcore.WarnLevel
	if cfg.LogLevel != "" && cfg.LogLevel != "info" {
		err = logLevel.UnmarshalText([]byte(cfg.LogLevel))
		if err != nil {
			err = fmt.Errorf("invalid log level: %w", err)
			return logger, err
		}
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(logLevel)
	logger, err = zapConfig.Build()
	if err != nil {
		err = fmt.Errorf("failed to create logger: %w", err)
		return logger, err
	}

	return logger, nil
}

func newCLIForecastSource(cfg *config.Config, logger *zap.Logger) forecast.Source {
	if cfg.ForecastURL == "" {
		return forecast.FixtureSource{}
	}

	return forecast.ClientSource{
		Client: forecast.NewClient(cfg.ForecastURL, cfg.ForecastTimeout, logger),
	}
}

func displayPlanTable(date string, slots []types.BaseSlot) {
	fmt.Printf("Trade plan for %s\n\n", date)
	fmt.Printf("%-10s %-22s %8s %8s %10s %s\n",
		"SLOT", "WINDOW", "kWh", "₹/kWh", "EARNINGS", "SOURCE")

	var units, earnings float64
	for _, s := range slots {
		source := "solar"
		if s.Battery {
			source = "battery"
		}

		fmt.Printf("%-10s %-22s %8.1f %8.2f %10.0f %s\n",
			s.ID, s.TimeRange, s.QuantityKWH, s.Price, s.Earnings(), source)

		units += s.QuantityKWH
		earnings += s.Earnings()
	}

	fmt.Printf("\nTotal Units:    %.1f kWh\n", units)
	fmt.Printf("Total Earnings: ₹%.0f\n", earnings)
}
