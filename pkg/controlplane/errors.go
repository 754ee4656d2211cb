package controlplane

import "fmt"

// NotResumableError reports a resume attempt against a record that is
// not in a resumable state.
type NotResumableError struct {
	AuditID string // The record the resume targeted
	Reason  string // Why it cannot be resumed
}

// Error implements the error interface.
func (e *NotResumableError) Error() string {
	return fmt.Sprintf("audit record %q cannot be resumed: %s", e.AuditID, e.Reason)
}

// NewNotResumableError creates a new NotResumableError.
func NewNotResumableError(auditID, reason string) *NotResumableError {
	return &NotResumableError{AuditID: auditID, Reason: reason}
}
