// Package policy implements the governance gate evaluated before any
// pipeline execution. The evaluator scans free-text request fields for
// sensitive content, produces a sanitized copy of the request, and maps
// a risk score onto a policy action through a fixed threshold ladder.
//
// # Evaluation flow
//
//	Request → scan title/description → redactions + sanitized copy
//	       → risk score (two-tier) → threshold ladder → Decision
//
// The evaluator is a pure function over the request: it performs no I/O
// and never mutates its input. Sanitized output is produced even for
// blocked requests so the audit trail always carries a safe copy.
//
// # Matchers
//
// Built-in matchers run in a fixed priority order: email addresses
// first, then national identification numbers (US SSN format). Each
// detected kind is recorded at most once regardless of how many times
// or in how many fields it occurs. Additional matchers can be loaded
// from a YAML pattern file and hot-reloaded via Watcher.
//
// # Threshold ladder
//
// The risk score determines the action, first match wins:
//
//	riskScore >= 0.90 → block
//	riskScore >= 0.70 → require_approval
//	PII detected      → allow_with_redaction
//	otherwise         → allow
//
// Redaction and scoring are deliberately separated so the ladder can
// evolve into a weighted multi-signal scorer without touching the
// matchers.
package policy
