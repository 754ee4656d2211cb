// Package approval records human approval and rejection decisions for
// audited requests held by the policy gate.
//
// Approvals form their own append-only log, independent of the audit
// log; there is no transactional grouping across the two. A record
// references an audit id but the reference is not enforced at the
// storage layer: verifying the audit record exists is the
// orchestrator's responsibility before recording. Lookup scans durable
// storage at request time; no index is maintained.
package approval
