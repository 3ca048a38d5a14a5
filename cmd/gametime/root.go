package main

import (
	"fmt"
	"os"

	"github.com/goodtune/gametime/internal/config"
	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gametime",
	Short: "gametime - Personal gaming session tracker",
	Long: `gametime measures active gaming sessions, keeps per-day and all-time
totals, and offers supportive (never judgmental) messages based on how much
you have played. Sessions survive restarts: only the start timestamp is
persisted and elapsed time is recomputed from it.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to status when no subcommand is provided
		return runStatus(cmd, args)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Path to configuration file")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
