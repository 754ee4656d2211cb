// Package server provides the HTTP surface of the governance control
// plane.
//
// Routes:
//
//   - POST /v1/run      submit an intake request
//   - POST /v1/approve  record a human decision for an audited request
//   - POST /v1/replay   re-execute a past sanitized request
//   - POST /v1/resume   execute a held request after approval
//   - GET  /v1/audit/{id}  fetch an audit record
//   - GET  /health      liveness probe
//   - GET  /metrics     Prometheus metrics (when enabled)
//
// The server owns the middleware chain (recovery, request id, request
// logging) and graceful shutdown; all governance semantics live in the
// controlplane package.
package server
