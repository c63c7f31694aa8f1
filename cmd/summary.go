package cmd

import (
	"fmt"

	"github.com/coe-acad/p2p-solar-trade/internal/storage"
	"github.com/coe-acad/p2p-solar-trade/internal/trades"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the published trades summary",
	Long: `Prints the locally recorded published trades: planned trades,
confirmed trades (once matched), and the aggregate units, earnings and
average rate.

Examples:
  # Show the summary after publishing
  go run . summary`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	repo, err := storage.NewFileRepository(cfg.StateDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open state dir: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	store := trades.NewStore(repo, logger)
	record := store.Record()
	summary := store.Summarize()

	if summary.Status == types.StatusNotPublished {
		fmt.Println("No trades published yet.")
		return nil
	}

	fmt.Printf("Status:       %s\n", summary.Status)
	if summary.PublishedAt != "" {
		fmt.Printf("Published at: %s\n", summary.PublishedAt)
	}
	fmt.Println()

	if len(record.PlannedTrades) > 0 {
		fmt.Println("Planned trades:")
		for _, tr := range record.PlannedTrades {
			fmt.Printf("  %-10s %-22s %6.1f kWh @ ₹%.2f = ₹%.0f\n",
				tr.ID, tr.TimeRange, tr.QuantityKWH, tr.Price, tr.EarningsINR)
		}
		fmt.Println()
	}

	if record.ShowConfirmedTrades && len(record.ConfirmedTrades) > 0 {
		fmt.Println("Confirmed trades:")
		for _, tr := range record.ConfirmedTrades {
			fmt.Printf("  %-10s %-22s %6.1f kWh -> %s = ₹%.0f\n",
				tr.ID, tr.TimeRange, tr.QuantityKWH, tr.Buyer, tr.RealizedEarningsINR)
		}
		fmt.Println()
	}

	fmt.Printf("Total Units:    %.1f kWh\n", summary.TotalUnits)
	fmt.Printf("Total Earnings: ₹%.0f\n", summary.TotalEarnings)
	fmt.Printf("Average Rate:   ₹%.1f/kWh\n", summary.AverageRate)

	return nil
}
