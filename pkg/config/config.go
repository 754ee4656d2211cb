package config

import "time"

// Config is the root configuration structure for Warden. It contains
// all configuration sections for the HTTP server, the policy gate, the
// pipeline, audit and approval persistence, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen
	// address and timeouts.
	Server ServerConfig `yaml:"server"`

	// Policy contains configuration for the policy gate including the
	// optional custom pattern file and watch mode.
	Policy PolicyConfig `yaml:"policy"`

	// Pipeline contains configuration for pipeline execution.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Audit contains configuration for audit record persistence and
	// the periodic integrity sweep.
	Audit AuditConfig `yaml:"audit"`

	// Approvals contains configuration for approval record persistence.
	Approvals ApprovalsConfig `yaml:"approvals"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port".
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire
	// request, including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits the size of accepted request bodies.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// PolicyConfig contains configuration for the policy gate.
type PolicyConfig struct {
	// PatternsPath points to an optional YAML file of custom redaction
	// patterns loaded on top of the built-in matchers. Empty disables
	// custom patterns.
	PatternsPath string `yaml:"patterns_path"`

	// Watch reloads the pattern file automatically when it changes on
	// disk. Requires PatternsPath.
	// Default: false
	Watch bool `yaml:"watch"`
}

// PipelineConfig contains configuration for pipeline execution.
type PipelineConfig struct {
	// ExecutionBudget bounds one pipeline run. Zero disables the
	// budget.
	// Default: 30s
	ExecutionBudget time.Duration `yaml:"execution_budget"`
}

// AuditConfig contains configuration for audit record persistence.
type AuditConfig struct {
	// Backend selects the persistence backend: "jsonl" or "sqlite".
	// Default: "jsonl"
	Backend string `yaml:"backend"`

	// JSONLPath is the audit log file path for the jsonl backend.
	// Default: "data/audit_log.jsonl"
	JSONLPath string `yaml:"jsonl_path"`

	// SQLite contains settings for the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Integrity contains settings for the periodic log integrity
	// sweep. The sweep only reads; it never mutates the log.
	Integrity IntegrityConfig `yaml:"integrity"`
}

// SQLiteConfig contains settings for a SQLite-backed store.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long a connection waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// IntegrityConfig contains settings for the audit log integrity sweep.
type IntegrityConfig struct {
	// Enabled turns the periodic sweep on. Only meaningful for the
	// jsonl backend.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Schedule is a standard five-field cron expression.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// ApprovalsConfig contains configuration for approval record
// persistence.
type ApprovalsConfig struct {
	// Backend selects the persistence backend: "jsonl" or "sqlite".
	// Default: "jsonl"
	Backend string `yaml:"backend"`

	// JSONLPath is the approval log file path for the jsonl backend.
	// Default: "data/approvals.jsonl"
	JSONLPath string `yaml:"jsonl_path"`

	// SQLitePath is the database file path for the sqlite backend.
	// Default: "data/approvals.db"
	SQLitePath string `yaml:"sqlite_path"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// ScrubPII rewrites PII-looking attribute values before they reach
	// the log stream.
	// Default: true
	ScrubPII bool `yaml:"scrub_pii"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
