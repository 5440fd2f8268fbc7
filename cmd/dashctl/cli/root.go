package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dashctl",
	Short: "FacturaFlow dashboard tooling",
	Long: `dashctl fetches the dashboard statistics once and prints them the way
the dashboard renders them, and seeds the documents table for local runs.
Configuration is read from the environment and an optional .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}
