package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. The file is unmarshalled over the defaults and the result is
// validated. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention WARDEN_SECTION_FIELD (e.g. WARDEN_SERVER_LISTEN_ADDRESS)
// and always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("WARDEN_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	overrideDuration("WARDEN_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	overrideDuration("WARDEN_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	overrideDuration("WARDEN_SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	overrideDuration("WARDEN_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	if val := os.Getenv("WARDEN_SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}

	// Policy overrides
	if val := os.Getenv("WARDEN_POLICY_PATTERNS_PATH"); val != "" {
		cfg.Policy.PatternsPath = val
	}
	overrideBool("WARDEN_POLICY_WATCH", &cfg.Policy.Watch)

	// Pipeline overrides
	overrideDuration("WARDEN_PIPELINE_EXECUTION_BUDGET", &cfg.Pipeline.ExecutionBudget)

	// Audit overrides
	if val := os.Getenv("WARDEN_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("WARDEN_AUDIT_JSONL_PATH"); val != "" {
		cfg.Audit.JSONLPath = val
	}
	if val := os.Getenv("WARDEN_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLite.Path = val
	}
	overrideBool("WARDEN_AUDIT_SQLITE_WAL_MODE", &cfg.Audit.SQLite.WALMode)
	overrideDuration("WARDEN_AUDIT_SQLITE_BUSY_TIMEOUT", &cfg.Audit.SQLite.BusyTimeout)
	overrideBool("WARDEN_AUDIT_INTEGRITY_ENABLED", &cfg.Audit.Integrity.Enabled)
	if val := os.Getenv("WARDEN_AUDIT_INTEGRITY_SCHEDULE"); val != "" {
		cfg.Audit.Integrity.Schedule = val
	}

	// Approvals overrides
	if val := os.Getenv("WARDEN_APPROVALS_BACKEND"); val != "" {
		cfg.Approvals.Backend = val
	}
	if val := os.Getenv("WARDEN_APPROVALS_JSONL_PATH"); val != "" {
		cfg.Approvals.JSONLPath = val
	}
	if val := os.Getenv("WARDEN_APPROVALS_SQLITE_PATH"); val != "" {
		cfg.Approvals.SQLitePath = val
	}

	// Telemetry overrides
	if val := os.Getenv("WARDEN_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("WARDEN_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	overrideBool("WARDEN_TELEMETRY_LOGGING_SCRUB_PII", &cfg.Telemetry.Logging.ScrubPII)
	overrideBool("WARDEN_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	if val := os.Getenv("WARDEN_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}

func overrideDuration(name string, dst *time.Duration) {
	if val := os.Getenv(name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func overrideBool(name string, dst *bool) {
	if val := os.Getenv(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}
