package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxBodyBytes    = int64(1048576) // 1MB

	// Pipeline defaults
	DefaultExecutionBudget = 30 * time.Second

	// Audit defaults
	DefaultAuditBackend      = "jsonl"
	DefaultAuditJSONLPath    = "data/audit_log.jsonl"
	DefaultAuditSQLitePath   = "data/audit.db"
	DefaultSQLiteWALMode     = true
	DefaultSQLiteBusyTimeout = 5 * time.Second
	DefaultIntegritySchedule = "0 3 * * *"

	// Approvals defaults
	DefaultApprovalsBackend    = "jsonl"
	DefaultApprovalsJSONLPath  = "data/approvals.jsonl"
	DefaultApprovalsSQLitePath = "data/approvals.db"

	// Telemetry defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"
	DefaultScrubPII      = true
	DefaultMetricsPath   = "/metrics"
)

// Valid backend names for audit and approval stores.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// DefaultConfig returns a configuration populated with all default
// values. Loading unmarshals the YAML file over this structure, so a
// field the file omits keeps its default while an explicit false or
// zero survives.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:   DefaultListenAddress,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxBodyBytes:    DefaultMaxBodyBytes,
		},
		Pipeline: PipelineConfig{
			ExecutionBudget: DefaultExecutionBudget,
		},
		Audit: AuditConfig{
			Backend:   DefaultAuditBackend,
			JSONLPath: DefaultAuditJSONLPath,
			SQLite: SQLiteConfig{
				Path:        DefaultAuditSQLitePath,
				WALMode:     DefaultSQLiteWALMode,
				BusyTimeout: DefaultSQLiteBusyTimeout,
			},
			Integrity: IntegrityConfig{
				Schedule: DefaultIntegritySchedule,
			},
		},
		Approvals: ApprovalsConfig{
			Backend:    DefaultApprovalsBackend,
			JSONLPath:  DefaultApprovalsJSONLPath,
			SQLitePath: DefaultApprovalsSQLitePath,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:    DefaultLoggingLevel,
				Format:   DefaultLoggingFormat,
				ScrubPII: DefaultScrubPII,
			},
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    DefaultMetricsPath,
			},
		},
	}
}
