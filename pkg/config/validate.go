package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific
// configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g. "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any validation rules fail.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validatePolicy(&cfg.Policy)...)
	errs = append(errs, validatePipeline(&cfg.Pipeline)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateApprovals(&cfg.Approvals)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError
	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{"server.listen_address", "must not be empty"})
	} else if !strings.Contains(cfg.ListenAddress, ":") {
		errs = append(errs, FieldError{"server.listen_address", "must be in host:port format"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{"server.shutdown_timeout", "must not be negative"})
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{"server.max_body_bytes", "must be positive"})
	}
	return errs
}

func validatePolicy(cfg *PolicyConfig) []FieldError {
	var errs []FieldError
	if cfg.Watch && cfg.PatternsPath == "" {
		errs = append(errs, FieldError{"policy.watch", "requires policy.patterns_path"})
	}
	return errs
}

func validatePipeline(cfg *PipelineConfig) []FieldError {
	var errs []FieldError
	if cfg.ExecutionBudget < 0 {
		errs = append(errs, FieldError{"pipeline.execution_budget", "must not be negative"})
	}
	return errs
}

func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError
	switch cfg.Backend {
	case BackendJSONL:
		if cfg.JSONLPath == "" {
			errs = append(errs, FieldError{"audit.jsonl_path", "must not be empty"})
		}
	case BackendSQLite:
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{"audit.sqlite.path", "must not be empty"})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{"audit.sqlite.busy_timeout", "must not be negative"})
		}
	default:
		errs = append(errs, FieldError{"audit.backend", fmt.Sprintf("unknown backend %q (valid: jsonl, sqlite)", cfg.Backend)})
	}
	if cfg.Integrity.Enabled {
		if cfg.Backend != BackendJSONL {
			errs = append(errs, FieldError{"audit.integrity.enabled", "only supported with the jsonl backend"})
		}
		if cfg.Integrity.Schedule == "" {
			errs = append(errs, FieldError{"audit.integrity.schedule", "must not be empty when the sweep is enabled"})
		}
	}
	return errs
}

func validateApprovals(cfg *ApprovalsConfig) []FieldError {
	var errs []FieldError
	switch cfg.Backend {
	case BackendJSONL:
		if cfg.JSONLPath == "" {
			errs = append(errs, FieldError{"approvals.jsonl_path", "must not be empty"})
		}
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			errs = append(errs, FieldError{"approvals.sqlite_path", "must not be empty"})
		}
	default:
		errs = append(errs, FieldError{"approvals.backend", fmt.Sprintf("unknown backend %q (valid: jsonl, sqlite)", cfg.Backend)})
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level", fmt.Sprintf("unknown level %q", cfg.Logging.Level)})
	}
	switch cfg.Logging.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format", fmt.Sprintf("unknown format %q", cfg.Logging.Format)})
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{"telemetry.metrics.path", "must start with /"})
	}
	return errs
}
