package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"helix-hq/warden/pkg/audit/integrity"
	"helix-hq/warden/pkg/config"
	"helix-hq/warden/pkg/telemetry/logging"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
}

var auditShowCmd = &cobra.Command{
	Use:   "show <audit-id>",
	Short: "Print an audit record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  auditShow,
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Scan the audit log for malformed or duplicate entries",
	Long: `Run one integrity sweep over the audit log.

The sweep reads every line, counts parseable records by status, and
reports malformed lines and duplicate audit ids. It never modifies the
log. Only available for the jsonl backend.`,
	RunE: auditVerify,
}

func init() {
	auditCmd.AddCommand(auditShowCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	rootCmd.AddCommand(auditCmd)
}

func auditShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	store, err := buildAuditStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := store.FindByID(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}

func auditVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}
	if cfg.Audit.Backend != config.BackendJSONL {
		return fmt.Errorf("audit verify requires the jsonl backend, configured backend is %q", cfg.Audit.Backend)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
		Writer: os.Stderr,
	})
	if err != nil {
		return err
	}

	checker := integrity.NewChecker(cfg.Audit.JSONLPath, logger)
	stats, err := checker.Scan(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Records:         %d\n", stats.Records)
	for status, count := range stats.ByStatus {
		fmt.Printf("  %-14s %d\n", string(status)+":", count)
	}
	fmt.Printf("Malformed lines: %d\n", stats.MalformedLines)
	fmt.Printf("Duplicate ids:   %d\n", stats.DuplicateIDs)

	if stats.MalformedLines > 0 || stats.DuplicateIDs > 0 {
		return fmt.Errorf("audit log has anomalies")
	}
	fmt.Println("✓ Audit log healthy")
	return nil
}
