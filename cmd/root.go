package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "solar-trade",
	Short: "P2P solar energy trading client",
	Long: `P2P solar energy trading client that derives tomorrow's trade plan
from a generation forecast, lets the user shape it with plain-English
commands ("don't sell between 1 and 3 PM"), and publishes the result to
the trading backend as UTC-stamped hourly submissions.

The published record is kept locally so the plan survives restarts; the
remote submission is best effort and never rolls the local record back.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	// Flags can be added here if needed
}
