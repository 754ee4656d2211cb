package approval

import (
	"context"
	"log/slog"
	"time"
)

// Register records approval decisions against a durable store.
type Register struct {
	store  Store
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewRegister creates a register backed by the given store.
func NewRegister(store Store, logger *slog.Logger) *Register {
	if logger == nil {
		logger = slog.Default()
	}
	return &Register{
		store:  store,
		logger: logger.With("component", "approval.register"),
		now:    time.Now,
	}
}

// Record validates the decision, builds a timestamped record, appends
// it durably, and returns the stored record.
//
// Record does not verify that the audit id exists; that check belongs
// to the orchestrator, which consults the audit log before calling.
func (r *Register) Record(ctx context.Context, auditID string, decision Decision, approvedBy, reason string) (*Record, error) {
	parsed, err := ParseDecision(string(decision))
	if err != nil {
		return nil, err
	}

	ts := r.now().UTC()
	record := &Record{
		ApprovalID:   auditID + ":" + ts.Format(time.RFC3339Nano),
		TimestampUTC: ts,
		AuditID:      auditID,
		Decision:     parsed,
		ApprovedBy:   approvedBy,
		Reason:       reason,
	}

	if err := r.store.Append(ctx, record); err != nil {
		return nil, err
	}

	r.logger.Info("approval decision recorded",
		"approval_id", record.ApprovalID,
		"audit_id", auditID,
		"decision", parsed,
		"approved_by", approvedBy,
	)
	return record, nil
}

// FindByAuditID returns all decisions recorded for an audit id.
func (r *Register) FindByAuditID(ctx context.Context, auditID string) ([]*Record, error) {
	return r.store.FindByAuditID(ctx, auditID)
}

// LatestDecision returns the most recently appended decision for an
// audit id, or nil if none has been recorded.
func (r *Register) LatestDecision(ctx context.Context, auditID string) (*Record, error) {
	records, err := r.store.FindByAuditID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[len(records)-1], nil
}
