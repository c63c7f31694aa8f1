package cmd

import (
	"fmt"

	"github.com/coe-acad/p2p-solar-trade/internal/storage"
	"github.com/coe-acad/p2p-solar-trade/internal/trades"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the published trades record",
	Long: `Resets the local published-trades record to its unpublished state.
This does not notify the backend; it only clears the local copy.

Examples:
  # Clear the record before replanning
  go run . clear`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
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

	if store.Status() == types.StatusNotPublished {
		fmt.Println("Nothing to clear.")
		return nil
	}

	store.Clear()
	fmt.Println("Published trades record cleared.")

	return nil
}
