package cmd

import (
	"fmt"

	"github.com/coe-acad/p2p-solar-trade/internal/app"
	"github.com/coe-acad/p2p-solar-trade/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the trading client",
	Long: `Starts the solar trading client, which will:
1. Fetch tomorrow's generation forecast (or serve the built-in catalogue)
2. Derive the active trade plan and expose it over HTTP
3. Interpret plain-English plan commands
4. Publish the plan to the trading backend on request

The plan feed is also available over WebSocket at /api/plan/ws.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env file if present (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
