// Package intake defines the request structure accepted by the control
// plane and the validation applied before policy evaluation.
package intake

import (
	"fmt"
	"strings"
)

// Well-known request field names. A Request is an open key/value
// structure; these are the fields the built-in steps and the policy
// evaluator know about.
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldRequesterEmail = "requester_email"
	FieldDepartment     = "department"
	FieldSystem         = "system"
	FieldUrgency        = "urgency"
)

// requiredFields are the fields a request must carry to be accepted.
var requiredFields = []string{
	FieldTitle,
	FieldDescription,
	FieldRequesterEmail,
	FieldDepartment,
	FieldSystem,
	FieldUrgency,
}

// Request is an ordered mapping of named fields describing one intake
// request. It is owned by the caller; components that need to modify it
// operate on a copy obtained via Clone.
type Request map[string]any

// Clone returns a shallow copy of the request. Field values are shared,
// which is safe because the control plane never mutates values in place.
func (r Request) Clone() Request {
	if r == nil {
		return Request{}
	}
	out := make(Request, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the named field as a string. Missing fields and
// non-string values yield the empty string.
func (r Request) String(field string) string {
	if r == nil {
		return ""
	}
	s, _ := r[field].(string)
	return s
}

// ValidationError reports a malformed request. Requests failing
// validation are rejected before policy evaluation and are not audited.
type ValidationError struct {
	Field   string // Offending field name
	Message string // Human-readable description
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: field %q %s", e.Field, e.Message)
	}
	return "invalid request: " + e.Message
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Validate checks that the request carries all required fields as
// non-empty strings. It returns a *ValidationError describing the first
// problem found, or nil if the request is well formed.
func Validate(r Request) error {
	if len(r) == 0 {
		return NewValidationError("", "empty request body")
	}
	for _, field := range requiredFields {
		v, ok := r[field]
		if !ok {
			return NewValidationError(field, "is required")
		}
		s, ok := v.(string)
		if !ok {
			return NewValidationError(field, "must be a string")
		}
		if strings.TrimSpace(s) == "" {
			return NewValidationError(field, "must not be empty")
		}
	}
	return nil
}
