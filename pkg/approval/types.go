package approval

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Decision is a human approval decision.
type Decision string

const (
	// DecisionApproved approves the referenced request.
	DecisionApproved Decision = "approved"

	// DecisionRejected rejects the referenced request.
	DecisionRejected Decision = "rejected"
)

// DecisionInvalidError reports an approval decision outside the allowed
// set. It is raised before any write happens.
type DecisionInvalidError struct {
	Value string // The rejected input
}

// Error implements the error interface.
func (e *DecisionInvalidError) Error() string {
	return fmt.Sprintf("invalid approval decision %q: must be %q or %q", e.Value, DecisionApproved, DecisionRejected)
}

// ParseDecision validates and normalizes a decision string.
func ParseDecision(s string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(s))) {
	case DecisionApproved:
		return DecisionApproved, nil
	case DecisionRejected:
		return DecisionRejected, nil
	default:
		return "", &DecisionInvalidError{Value: s}
	}
}

// Record is one immutable approval log entry.
type Record struct {
	// ApprovalID is derived from the audit id and the decision
	// timestamp, making it unique without coordination.
	ApprovalID string `json:"approval_id"`

	// TimestampUTC is the decision time in UTC.
	TimestampUTC time.Time `json:"timestamp_utc"`

	// AuditID references the audit record the decision applies to.
	AuditID string `json:"audit_id"`

	// Decision is the human decision (approved or rejected).
	Decision Decision `json:"decision"`

	// ApprovedBy identifies the human decision maker.
	ApprovedBy string `json:"approved_by"`

	// Reason is an optional free-text justification.
	Reason string `json:"reason"`
}

// Store is the contract for durable approval record persistence.
// Append-only; implementations must serialize physical writes.
type Store interface {
	// Append persists a record.
	Append(ctx context.Context, record *Record) error

	// FindByAuditID scans the log and returns all decisions recorded
	// for the given audit id, in append order. An empty slice means no
	// decision has been recorded.
	FindByAuditID(ctx context.Context, auditID string) ([]*Record, error)

	// Close releases any resources held by the store.
	Close() error
}

// StorageError represents a failure in an approval storage backend.
type StorageError struct {
	Backend   string // Backend type ("jsonl", "sqlite")
	Operation string // Operation that failed
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("approval storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
