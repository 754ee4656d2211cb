// Warden is a governance control plane for automated support pipelines.
//
// It gates every intake request through a policy evaluator (PII
// redaction and risk scoring), executes an ordered agent pipeline for
// allowed requests, and records an append-only audit trail that makes
// any past run replayable.
//
// Usage:
//
//	# Start the server with default configuration
//	warden run
//
//	# Start with a custom configuration file
//	warden run --config /path/to/warden.yaml
//
//	# Validate a configuration file
//	warden validate --config /path/to/warden.yaml
//
//	# Inspect an audit record
//	warden audit show <audit-id>
//
//	# Scan the audit log for malformed or duplicate entries
//	warden audit verify
//
//	# Show version information
//	warden version
package main

func main() {
	Execute()
}
