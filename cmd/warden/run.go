package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"helix-hq/warden/pkg/approval"
	"helix-hq/warden/pkg/audit"
	"helix-hq/warden/pkg/audit/integrity"
	"helix-hq/warden/pkg/audit/storage"
	"helix-hq/warden/pkg/config"
	"helix-hq/warden/pkg/controlplane"
	"helix-hq/warden/pkg/pipeline"
	"helix-hq/warden/pkg/pipeline/steps"
	"helix-hq/warden/pkg/policy"
	"helix-hq/warden/pkg/server"
	"helix-hq/warden/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Warden server",
	Long: `Start the Warden server with the specified configuration.

The server accepts intake requests, gates them through the policy
evaluator, executes the agent pipeline for allowed requests, and
records every decision in the audit trail.

Examples:
  # Start with default config
  warden run

  # Start with custom config
  warden run --config /etc/warden/warden.yaml

  # Override listen address
  warden run --listen 0.0.0.0:8080

  # Validate config without starting the server
  warden run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	// Flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.InitDefault(logging.Config{
		Level:    cfg.Telemetry.Logging.Level,
		Format:   cfg.Telemetry.Logging.Format,
		ScrubPII: cfg.Telemetry.Logging.ScrubPII,
	})
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Policy gate
	evaluator, err := buildEvaluator(cfg)
	if err != nil {
		return err
	}
	if cfg.Policy.Watch {
		watcher, err := policy.NewWatcher(cfg.Policy.PatternsPath, evaluator, logger)
		if err != nil {
			return fmt.Errorf("failed to start pattern watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("pattern watcher stopped", "error", err)
			}
		}()
	}

	// Audit persistence
	auditStore, err := buildAuditStore(cfg)
	if err != nil {
		return err
	}
	defer auditStore.Close()

	if cfg.Audit.Integrity.Enabled {
		checker := integrity.NewChecker(cfg.Audit.JSONLPath, logger)
		scheduler := integrity.NewScheduler(checker, cfg.Audit.Integrity.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start integrity sweep: %w", err)
		}
		defer scheduler.Stop()
	}

	// Approval persistence
	approvalStore, err := buildApprovalStore(cfg)
	if err != nil {
		return err
	}
	defer approvalStore.Close()

	orch := controlplane.New(
		&controlplane.Config{ExecutionBudget: cfg.Pipeline.ExecutionBudget},
		evaluator,
		pipeline.NewExecutor(logger),
		steps.Default(),
		auditStore,
		approval.NewRegister(approvalStore, logger),
		logger,
	)

	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, orch, logger)
	return srv.Start(ctx)
}

// buildEvaluator creates the policy evaluator, loading custom patterns
// when configured.
func buildEvaluator(cfg *config.Config) (*policy.Evaluator, error) {
	if cfg.Policy.PatternsPath == "" {
		return policy.NewEvaluator(nil), nil
	}
	patterns, err := policy.LoadPatternFile(cfg.Policy.PatternsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern file: %w", err)
	}
	return policy.NewEvaluator(patterns), nil
}

// buildAuditStore creates the audit store for the configured backend.
func buildAuditStore(cfg *config.Config) (audit.Store, error) {
	switch cfg.Audit.Backend {
	case config.BackendSQLite:
		return storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:        cfg.Audit.SQLite.Path,
			WALMode:     cfg.Audit.SQLite.WALMode,
			BusyTimeout: cfg.Audit.SQLite.BusyTimeout,
		})
	default:
		return storage.NewJSONLStore(cfg.Audit.JSONLPath)
	}
}

// buildApprovalStore creates the approval store for the configured
// backend.
func buildApprovalStore(cfg *config.Config) (approval.Store, error) {
	switch cfg.Approvals.Backend {
	case config.BackendSQLite:
		return approval.NewSQLiteStore(cfg.Approvals.SQLitePath)
	default:
		return approval.NewJSONLStore(cfg.Approvals.JSONLPath)
	}
}
