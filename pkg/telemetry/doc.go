// Package telemetry groups the observability packages for Warden.
//
// # Components
//
//   - logging: structured logging with PII scrubbing
//
// Prometheus metrics are registered by the packages that own them
// (controlplane, audit/integrity) and exposed by the server's
// /metrics endpoint; there is no central metrics registry here.
package telemetry
