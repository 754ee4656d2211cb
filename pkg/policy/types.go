package policy

import (
	"helix-hq/warden/pkg/intake"
)

// Action represents the final decision of the policy gate.
type Action string

const (
	// ActionAllow allows the request to proceed unchanged.
	ActionAllow Action = "allow"

	// ActionAllowWithRedaction allows the request to proceed with
	// sensitive substrings replaced by placeholders.
	ActionAllowWithRedaction Action = "allow_with_redaction"

	// ActionRequireApproval holds the request pending a human decision.
	ActionRequireApproval Action = "require_approval"

	// ActionBlock rejects the request outright.
	ActionBlock Action = "block"
)

// Risk score tiers and ladder thresholds. The two-tier scheme is a
// placeholder for a richer scorer; any replacement must keep scores in
// [0, 1] so the ladder remains meaningful.
const (
	// RiskBaseline is the risk score for requests with no detected PII.
	RiskBaseline = 0.25

	// RiskPII is the risk score for requests containing detected PII.
	RiskPII = 0.70

	// BlockThreshold is the minimum risk score that blocks a request.
	BlockThreshold = 0.90

	// ApprovalThreshold is the minimum risk score that requires approval.
	ApprovalThreshold = 0.70

	// ConfidenceFixed is the constant confidence score reported by the
	// rule-based evaluator. A learned scorer would replace this value
	// but must preserve the field and its [0, 1] range.
	ConfidenceFixed = 0.85
)

// FlagPIIDetected is set on decisions where any redaction fired.
const FlagPIIDetected = "pii_detected"

// Decision is the immutable result of evaluating one request against
// the policy gate. It is embedded verbatim into audit records, so all
// fields carry JSON tags matching the durable log format.
type Decision struct {
	// Action is the gate outcome (allow, allow_with_redaction,
	// require_approval, block).
	Action Action `json:"action"`

	// Allowed is true iff Action is allow or allow_with_redaction.
	Allowed bool `json:"allowed"`

	// RequiresApproval is true iff Action is require_approval.
	RequiresApproval bool `json:"requires_approval"`

	// PIIDetected indicates whether any redaction kind fired.
	PIIDetected bool `json:"pii_detected"`

	// Redactions lists the detected redaction kinds in matcher priority
	// order, each at most once.
	Redactions []string `json:"redactions"`

	// Flags contains policy flags accumulated during evaluation.
	Flags []string `json:"policy_flags"`

	// RiskScore is the computed risk in [0, 1].
	RiskScore float64 `json:"risk_score"`

	// ConfidenceScore is the evaluator's confidence in [0, 1].
	ConfidenceScore float64 `json:"confidence_score"`

	// SanitizedRequest is a copy of the input with scanned fields
	// replaced by their redacted versions. This is the durable artifact
	// that makes replay possible without re-deriving redactions.
	SanitizedRequest intake.Request `json:"sanitized_request"`

	// ReplayedFromAuditID references the audit record a replayed
	// execution was sourced from. Empty for first-run decisions.
	ReplayedFromAuditID string `json:"replayed_from_audit_id,omitempty"`
}

// actionFor maps a risk score onto a policy action via the threshold
// ladder. First match wins; the ladder is monotonic in riskScore.
func actionFor(riskScore float64, piiDetected bool) Action {
	switch {
	case riskScore >= BlockThreshold:
		return ActionBlock
	case riskScore >= ApprovalThreshold:
		return ActionRequireApproval
	case piiDetected:
		return ActionAllowWithRedaction
	default:
		return ActionAllow
	}
}
