package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"helix-hq/warden/pkg/config"
	"helix-hq/warden/pkg/policy"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the configuration file and any referenced policy pattern file
without starting the server.

Examples:
  # Validate the default config
  warden validate

  # Validate a specific config
  warden validate --config /etc/warden/warden.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)

	if cfg.Policy.PatternsPath != "" {
		patterns, err := policy.LoadPatternFile(cfg.Policy.PatternsPath)
		if err != nil {
			return fmt.Errorf("pattern file invalid: %w", err)
		}
		fmt.Printf("✓ Pattern file valid: %s (%d patterns)\n", cfg.Policy.PatternsPath, len(patterns))
	}

	return nil
}
