package controlplane

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"helix-hq/warden/pkg/approval"
	"helix-hq/warden/pkg/audit"
	"helix-hq/warden/pkg/intake"
	"helix-hq/warden/pkg/pipeline"
	"helix-hq/warden/pkg/policy"
)

// Config contains configuration for the orchestrator.
type Config struct {
	// ExecutionBudget bounds one pipeline run. A budget breach aborts
	// the run and is reported as a pipeline failure rather than
	// hanging the caller. Zero disables the budget.
	// Default: 30 seconds
	ExecutionBudget time.Duration
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() *Config {
	return &Config{
		ExecutionBudget: 30 * time.Second,
	}
}

// RunResult is the outcome of one control-plane operation.
type RunResult struct {
	// Status is the terminal status persisted for this invocation.
	Status audit.Status `json:"status"`

	// Decision is the policy gate decision.
	Decision *policy.Decision `json:"policy"`

	// Record is the audit record appended for this invocation.
	Record *audit.Record `json:"audit"`

	// Pipeline is the execution context, present only when the
	// pipeline ran to completion.
	Pipeline *pipeline.Context `json:"pipeline,omitempty"`
}

// Orchestrator drives the governance state machine over a fixed step
// list. It is safe for concurrent use.
type Orchestrator struct {
	config    *Config
	evaluator *policy.Evaluator
	executor  *pipeline.Executor
	steps     []pipeline.Step
	audits    audit.Store
	approvals *approval.Register
	logger    *slog.Logger
}

// New creates an orchestrator composing the given collaborators.
func New(cfg *Config, evaluator *policy.Evaluator, executor *pipeline.Executor, steps []pipeline.Step, audits audit.Store, approvals *approval.Register, logger *slog.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		config:    cfg,
		evaluator: evaluator,
		executor:  executor,
		steps:     steps,
		audits:    audits,
		approvals: approvals,
		logger:    logger.With("component", "controlplane.orchestrator"),
	}
}

// Run processes one intake request end to end: validation, policy
// evaluation, gating, pipeline execution, and audit persistence.
//
// Malformed requests fail with a *intake.ValidationError and are not
// audited. Every other path appends exactly one audit record. On a
// pipeline failure Run returns the failed-status result together with
// the *pipeline.StepError.
func (o *Orchestrator) Run(ctx context.Context, req intake.Request) (*RunResult, error) {
	if err := intake.Validate(req); err != nil {
		return nil, err
	}

	start := time.Now()
	decision := o.evaluator.Evaluate(req)

	switch {
	case decision.RequiresApproval:
		return o.holdForApproval(ctx, req, decision, start)
	case !decision.Allowed:
		return o.block(ctx, req, decision, start)
	}

	pc, runErr := o.execute(ctx, decision.SanitizedRequest)
	elapsed := time.Since(start)

	if runErr != nil {
		return o.recordFailure(ctx, req, decision, "", runErr, elapsed)
	}

	record := audit.BuildRecord(req, pc.AgentNames(), decision, elapsed, audit.StatusSucceeded)
	if err := o.audits.Append(ctx, record); err != nil {
		return nil, err
	}

	runsTotal.WithLabelValues(string(audit.StatusSucceeded)).Inc()
	o.logger.Info("pipeline run succeeded",
		"audit_id", record.AuditID,
		"agents", record.AgentsInvoked,
		"latency_ms", record.LatencyMS,
	)

	return &RunResult{
		Status:   audit.StatusSucceeded,
		Decision: decision,
		Record:   record,
		Pipeline: pc,
	}, nil
}

// block persists a blocked-status record without running the pipeline.
func (o *Orchestrator) block(ctx context.Context, req intake.Request, decision *policy.Decision, start time.Time) (*RunResult, error) {
	record := audit.BuildRecord(req, []string{audit.MarkerPolicyBlock}, decision, time.Since(start), audit.StatusBlocked)
	if err := o.audits.Append(ctx, record); err != nil {
		return nil, err
	}

	runsTotal.WithLabelValues(string(audit.StatusBlocked)).Inc()
	o.logger.Warn("request blocked by policy",
		"audit_id", record.AuditID,
		"risk_score", decision.RiskScore,
		"redactions", decision.Redactions,
	)

	return &RunResult{Status: audit.StatusBlocked, Decision: decision, Record: record}, nil
}

// holdForApproval persists a needs_approval record without running the
// pipeline. The held request can later be executed via Resume once an
// approval is recorded; the approval itself never triggers execution.
func (o *Orchestrator) holdForApproval(ctx context.Context, req intake.Request, decision *policy.Decision, start time.Time) (*RunResult, error) {
	record := audit.BuildRecord(req, []string{audit.MarkerPolicyApprovalRequired}, decision, time.Since(start), audit.StatusNeedsApproval)
	if err := o.audits.Append(ctx, record); err != nil {
		return nil, err
	}

	runsTotal.WithLabelValues(string(audit.StatusNeedsApproval)).Inc()
	o.logger.Info("request held for approval",
		"audit_id", record.AuditID,
		"risk_score", decision.RiskScore,
		"redactions", decision.Redactions,
	)

	return &RunResult{Status: audit.StatusNeedsApproval, Decision: decision, Record: record}, nil
}

// execute runs the pipeline under the execution budget.
func (o *Orchestrator) execute(ctx context.Context, req intake.Request) (*pipeline.Context, error) {
	if o.config.ExecutionBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.ExecutionBudget)
		defer cancel()
	}

	start := time.Now()
	pc, err := o.executor.Run(ctx, o.steps, req)
	pipelineDuration.Observe(time.Since(start).Seconds())
	return pc, err
}

// recordFailure persists a failed-status record for an aborted run.
// Persisting failures is a deliberate choice: an aborted execution is
// still a control-plane decision worth a durable trace.
func (o *Orchestrator) recordFailure(ctx context.Context, req intake.Request, decision *policy.Decision, resumedFrom string, runErr error, elapsed time.Duration) (*RunResult, error) {
	record := audit.BuildRecord(req, o.agentsUpToFailure(runErr), decision, elapsed, audit.StatusFailed)
	record.ResumedFromAuditID = resumedFrom
	if err := o.audits.Append(ctx, record); err != nil {
		o.logger.Error("failed to persist failure record", "error", err)
		return nil, runErr
	}

	runsTotal.WithLabelValues(string(audit.StatusFailed)).Inc()
	o.logger.Error("pipeline run failed",
		"audit_id", record.AuditID,
		"error", runErr,
	)

	return &RunResult{Status: audit.StatusFailed, Decision: decision, Record: record}, runErr
}

// agentsUpToFailure lists the configured step names up to and including
// the failing step, best effort from the step error.
func (o *Orchestrator) agentsUpToFailure(runErr error) []string {
	var serr *pipeline.StepError
	names := make([]string, 0, len(o.steps))
	failing := ""
	if errors.As(runErr, &serr) {
		failing = serr.StepName
	}
	for _, s := range o.steps {
		names = append(names, s.Name())
		if s.Name() == failing {
			break
		}
	}
	return names
}

// Approve records a human decision for an audited request. The audit
// record must exist; otherwise a *audit.NotFoundError is returned and
// nothing is appended. Invalid decisions fail before any write.
func (o *Orchestrator) Approve(ctx context.Context, auditID string, decision approval.Decision, approvedBy, reason string) (*approval.Record, error) {
	parsed, err := approval.ParseDecision(string(decision))
	if err != nil {
		return nil, err
	}

	if _, err := o.audits.FindByID(ctx, auditID); err != nil {
		return nil, err
	}

	record, err := o.approvals.Record(ctx, auditID, parsed, approvedBy, reason)
	if err != nil {
		return nil, err
	}

	approvalsTotal.WithLabelValues(string(parsed)).Inc()
	return record, nil
}

// Replay re-executes the pipeline against the sanitized request stored
// in a past audit record. The stored request is used as-is; the
// current policy evaluator is never consulted, so a replay reproduces
// history even after redaction rules evolve. A new replayed-status
// record is appended; the original record is untouched.
func (o *Orchestrator) Replay(ctx context.Context, auditID string) (*RunResult, error) {
	original, err := o.audits.FindByID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if original.Policy == nil || len(original.Policy.SanitizedRequest) == 0 {
		return nil, audit.NewMissingArtifactError(auditID, "sanitized request")
	}

	sanitized := original.Policy.SanitizedRequest
	start := time.Now()

	pc, runErr := o.execute(ctx, sanitized)
	elapsed := time.Since(start)

	// The replayed decision is a copy of the original, marked with its
	// provenance.
	decision := *original.Policy
	decision.ReplayedFromAuditID = original.AuditID

	if runErr != nil {
		return o.recordFailure(ctx, sanitized, &decision, "", runErr, elapsed)
	}

	record := audit.BuildRecord(sanitized, pc.AgentNames(), &decision, elapsed, audit.StatusReplayed)
	if err := o.audits.Append(ctx, record); err != nil {
		return nil, err
	}

	replaysTotal.Inc()
	runsTotal.WithLabelValues(string(audit.StatusReplayed)).Inc()
	o.logger.Info("pipeline replayed",
		"audit_id", record.AuditID,
		"replayed_from", original.AuditID,
	)

	return &RunResult{
		Status:   audit.StatusReplayed,
		Decision: &decision,
		Record:   record,
		Pipeline: pc,
	}, nil
}

// Resume executes a request previously held for approval. The target
// record must have needs_approval status and carry a recorded approved
// decision; the pipeline then runs against the stored sanitized
// request and a new succeeded record referencing the held one is
// appended. The held record is untouched.
func (o *Orchestrator) Resume(ctx context.Context, auditID string) (*RunResult, error) {
	original, err := o.audits.FindByID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if original.Status != audit.StatusNeedsApproval {
		return nil, NewNotResumableError(auditID, "status is "+string(original.Status))
	}
	if original.Policy == nil || len(original.Policy.SanitizedRequest) == 0 {
		return nil, audit.NewMissingArtifactError(auditID, "sanitized request")
	}

	latest, err := o.approvals.LatestDecision(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, NewNotResumableError(auditID, "no approval decision recorded")
	}
	if latest.Decision != approval.DecisionApproved {
		return nil, NewNotResumableError(auditID, "latest decision is "+string(latest.Decision))
	}

	sanitized := original.Policy.SanitizedRequest
	start := time.Now()

	pc, runErr := o.execute(ctx, sanitized)
	elapsed := time.Since(start)

	if runErr != nil {
		// The provenance link is kept even when the resumed run fails.
		return o.recordFailure(ctx, sanitized, original.Policy, original.AuditID, runErr, elapsed)
	}

	record := audit.BuildRecord(sanitized, pc.AgentNames(), original.Policy, elapsed, audit.StatusSucceeded)
	record.ResumedFromAuditID = original.AuditID
	if err := o.audits.Append(ctx, record); err != nil {
		return nil, err
	}

	resumesTotal.Inc()
	runsTotal.WithLabelValues(string(audit.StatusSucceeded)).Inc()
	o.logger.Info("held request resumed after approval",
		"audit_id", record.AuditID,
		"resumed_from", original.AuditID,
		"approved_by", latest.ApprovedBy,
	)

	return &RunResult{
		Status:   audit.StatusSucceeded,
		Decision: original.Policy,
		Record:   record,
		Pipeline: pc,
	}, nil
}

// FindAudit looks up an audit record by id.
func (o *Orchestrator) FindAudit(ctx context.Context, auditID string) (*audit.Record, error) {
	return o.audits.FindByID(ctx, auditID)
}
