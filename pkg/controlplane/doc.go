// Package controlplane composes the policy gate, the pipeline
// executor, the audit log, and the approval register into the
// governance state machine:
//
//	Received → blocked | needs_approval | succeeded | failed
//
// with two log-driven re-entry paths:
//
//	Replay(auditID): re-run the pipeline against the sanitized request
//	stored in a past audit record, insulated from the current policy
//	evaluator, producing a new replayed record.
//
//	Resume(auditID): run a needs_approval request whose approval has
//	since been recorded, producing a new succeeded record referencing
//	the held one. Approval alone never triggers execution; resumption
//	is an explicit operation.
//
// The orchestrator is the only layer that decides user-visible
// statuses and what gets persisted. Every decision path appends an
// audit record, including pipeline failures; only requests rejected by
// validation (malformed before policy evaluation) leave no trace.
package controlplane
