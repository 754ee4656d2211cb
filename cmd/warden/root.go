package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Warden - governance control plane for automated pipelines",
	Long: `Warden is a governance control plane for automated support pipelines.

Every intake request passes a policy gate before any agent runs:
  - PII detection and redaction with a threshold ladder
  - Ordered, deterministic pipeline execution
  - Append-only audit trail with replay and resume
  - Human approval workflow for held requests`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "warden.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
