package audit

import "fmt"

// NotFoundError reports a lookup for an audit id that has no record in
// the durable log. It is a client-visible "not found" condition, not an
// internal failure.
type NotFoundError struct {
	AuditID string // The id that was looked up
	Missing string // Optional name of a missing artifact within a found record
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("audit record %q has no %s", e.AuditID, e.Missing)
	}
	return fmt.Sprintf("audit record %q not found", e.AuditID)
}

// NewNotFoundError creates a NotFoundError for an unknown audit id.
func NewNotFoundError(auditID string) *NotFoundError {
	return &NotFoundError{AuditID: auditID}
}

// NewMissingArtifactError creates a NotFoundError for a record that
// exists but lacks a required artifact (e.g. a sanitized request).
func NewMissingArtifactError(auditID, artifact string) *NotFoundError {
	return &NotFoundError{AuditID: auditID, Missing: artifact}
}

// StorageError represents a failure in a storage backend.
type StorageError struct {
	Backend   string // Backend type ("jsonl", "sqlite", "memory")
	Operation string // Operation that failed ("append", "find", "close")
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
