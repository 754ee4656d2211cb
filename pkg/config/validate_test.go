package config

import (
	"strings"
	"testing"
)

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "empty listen address",
			mutate: func(c *Config) { c.Server.ListenAddress = "" },
			field:  "server.listen_address",
		},
		{
			name:   "listen address without port",
			mutate: func(c *Config) { c.Server.ListenAddress = "localhost" },
			field:  "server.listen_address",
		},
		{
			name:   "negative body limit",
			mutate: func(c *Config) { c.Server.MaxBodyBytes = -1 },
			field:  "server.max_body_bytes",
		},
		{
			name:   "watch without patterns path",
			mutate: func(c *Config) { c.Policy.Watch = true },
			field:  "policy.watch",
		},
		{
			name:   "negative execution budget",
			mutate: func(c *Config) { c.Pipeline.ExecutionBudget = -1 },
			field:  "pipeline.execution_budget",
		},
		{
			name:   "unknown audit backend",
			mutate: func(c *Config) { c.Audit.Backend = "redis" },
			field:  "audit.backend",
		},
		{
			name: "sqlite backend without path",
			mutate: func(c *Config) {
				c.Audit.Backend = BackendSQLite
				c.Audit.SQLite.Path = ""
			},
			field: "audit.sqlite.path",
		},
		{
			name: "integrity sweep on sqlite backend",
			mutate: func(c *Config) {
				c.Audit.Backend = BackendSQLite
				c.Audit.Integrity.Enabled = true
			},
			field: "audit.integrity.enabled",
		},
		{
			name:   "unknown approvals backend",
			mutate: func(c *Config) { c.Approvals.Backend = "redis" },
			field:  "approvals.backend",
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Telemetry.Logging.Level = "loud" },
			field:  "telemetry.logging.level",
		},
		{
			name:   "metrics path without slash",
			mutate: func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			field:  "telemetry.metrics.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.field)
			}
		})
	}
}
