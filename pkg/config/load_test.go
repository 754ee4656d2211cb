package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warden.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("listen_address = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Audit.Backend != BackendJSONL {
		t.Errorf("audit backend = %q, want jsonl", cfg.Audit.Backend)
	}
	if cfg.Pipeline.ExecutionBudget != DefaultExecutionBudget {
		t.Errorf("execution_budget = %v, want %v", cfg.Pipeline.ExecutionBudget, DefaultExecutionBudget)
	}
	if !cfg.Telemetry.Logging.ScrubPII {
		t.Error("scrub_pii default should be true")
	}
}

func TestLoadConfig_FileValuesOverrideDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9090"
pipeline:
  execution_budget: 5s
audit:
  backend: sqlite
  sqlite:
    path: /tmp/audit.db
telemetry:
  logging:
    level: debug
    scrub_pii: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("listen_address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Pipeline.ExecutionBudget != 5*time.Second {
		t.Errorf("execution_budget = %v", cfg.Pipeline.ExecutionBudget)
	}
	if cfg.Audit.Backend != BackendSQLite {
		t.Errorf("audit backend = %q", cfg.Audit.Backend)
	}
	// Explicit false must survive defaulting.
	if cfg.Telemetry.Logging.ScrubPII {
		t.Error("explicit scrub_pii: false was overwritten")
	}
	// Untouched sections keep defaults.
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("read_timeout = %v, want default", cfg.Server.ReadTimeout)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfigFile(t, `
audit:
  backend: etcd
telemetry:
  logging:
    level: loud
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("errors = %d, want 2: %v", len(verr.Errors), verr)
	}
	if !strings.Contains(verr.Error(), "audit.backend") {
		t.Errorf("missing audit.backend in %q", verr.Error())
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:8080"
`)

	t.Setenv("WARDEN_SERVER_LISTEN_ADDRESS", "127.0.0.1:9999")
	t.Setenv("WARDEN_AUDIT_BACKEND", "sqlite")
	t.Setenv("WARDEN_PIPELINE_EXECUTION_BUDGET", "90s")
	t.Setenv("WARDEN_TELEMETRY_LOGGING_SCRUB_PII", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:9999" {
		t.Errorf("listen_address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Audit.Backend != BackendSQLite {
		t.Errorf("audit backend = %q", cfg.Audit.Backend)
	}
	if cfg.Pipeline.ExecutionBudget != 90*time.Second {
		t.Errorf("execution_budget = %v", cfg.Pipeline.ExecutionBudget)
	}
	if cfg.Telemetry.Logging.ScrubPII {
		t.Error("env scrub_pii override not applied")
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	t.Setenv("WARDEN_AUDIT_BACKEND", "etcd")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Fatal("expected validation error after override")
	}
}
