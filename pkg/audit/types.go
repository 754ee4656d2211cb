package audit

import (
	"context"
	"time"

	"helix-hq/warden/pkg/policy"
)

// Status is the terminal state recorded for one pipeline invocation.
type Status string

const (
	// StatusBlocked records a request rejected by the policy gate.
	StatusBlocked Status = "blocked"

	// StatusNeedsApproval records a request held for a human decision.
	StatusNeedsApproval Status = "needs_approval"

	// StatusSucceeded records a completed pipeline run.
	StatusSucceeded Status = "succeeded"

	// StatusFailed records a pipeline run aborted by a step failure or
	// an exceeded execution budget.
	StatusFailed Status = "failed"

	// StatusReplayed records a re-execution of a past sanitized request.
	StatusReplayed Status = "replayed"
)

// Gate markers recorded in AgentsInvoked when the pipeline never ran.
const (
	MarkerPolicyBlock            = "policy_block"
	MarkerPolicyApprovalRequired = "policy_approval_required"
)

// Record is one immutable audit trail entry. All fields carry JSON tags
// matching the durable log format; a record is marshalled as a single
// line of the JSONL log.
type Record struct {
	// AuditID is a globally unique UUID generated at build time.
	AuditID string `json:"audit_id"`

	// TimestampUTC is the record build time in UTC.
	TimestampUTC time.Time `json:"timestamp_utc"`

	// InputHash is the SHA-256 content hash of the original request as
	// submitted, before any sanitization. It fingerprints what the
	// caller actually sent, distinct from the sanitized copy kept for
	// replay.
	InputHash string `json:"input_hash"`

	// AgentsInvoked is the ordered list of step names that ran, or a
	// gate marker when the pipeline never started.
	AgentsInvoked []string `json:"agents_invoked"`

	// Policy is the embedded gate decision, including the sanitized
	// request.
	Policy *policy.Decision `json:"policy"`

	// LatencyMS is the wall-clock duration of the invocation in
	// milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Status is the terminal state of the invocation.
	Status Status `json:"status"`

	// ResumedFromAuditID references the needs_approval record this
	// execution was resumed from, if any.
	ResumedFromAuditID string `json:"resumed_from_audit_id,omitempty"`
}

// Store is the contract for durable audit record persistence.
// Implementations must serialize physical writes so concurrent appends
// never interleave mid-record, and readers never observe a half-written
// record.
type Store interface {
	// Append persists a record. Records are add-only; once appended a
	// record is never edited or removed.
	Append(ctx context.Context, record *Record) error

	// FindByID scans the log from the beginning and returns the first
	// record with the given audit id. Entries that fail to parse are
	// skipped. Returns a *NotFoundError if no record matches.
	FindByID(ctx context.Context, auditID string) (*Record, error)

	// Close releases any resources held by the store.
	Close() error
}
