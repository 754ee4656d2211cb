package approval

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// TestParseDecision tests decision validation and normalization.
func TestParseDecision(t *testing.T) {
	tests := []struct {
		input   string
		want    Decision
		wantErr bool
	}{
		{"approved", DecisionApproved, false},
		{"rejected", DecisionRejected, false},
		{"APPROVED", DecisionApproved, false},
		{" rejected ", DecisionRejected, false},
		{"maybe", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDecision(tt.input)
		if tt.wantErr {
			var derr *DecisionInvalidError
			if !errors.As(err, &derr) {
				t.Errorf("ParseDecision(%q): expected *DecisionInvalidError, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecision(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDecision(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestRegister_Record tests recording a decision against the JSONL store.
func TestRegister_Record(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "approvals.jsonl"))
	if err != nil {
		t.Fatalf("NewJSONLStore() failed: %v", err)
	}
	defer store.Close()

	reg := NewRegister(store, nil)
	ctx := context.Background()

	record, err := reg.Record(ctx, "audit-123", DecisionApproved, "alice", "verified with requester")
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	if record.AuditID != "audit-123" {
		t.Errorf("Expected audit id audit-123, got %q", record.AuditID)
	}
	if record.Decision != DecisionApproved {
		t.Errorf("Expected decision approved, got %q", record.Decision)
	}
	wantPrefix := "audit-123:"
	if len(record.ApprovalID) <= len(wantPrefix) || record.ApprovalID[:len(wantPrefix)] != wantPrefix {
		t.Errorf("Expected approval id prefixed with audit id, got %q", record.ApprovalID)
	}

	found, err := reg.FindByAuditID(ctx, "audit-123")
	if err != nil {
		t.Fatalf("FindByAuditID() failed: %v", err)
	}
	if len(found) != 1 || found[0].ApprovedBy != "alice" {
		t.Errorf("Unexpected lookup result: %+v", found)
	}
}

// TestRegister_InvalidDecisionWritesNothing tests that a bad decision
// is rejected before any append.
func TestRegister_InvalidDecisionWritesNothing(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "approvals.jsonl"))
	if err != nil {
		t.Fatalf("NewJSONLStore() failed: %v", err)
	}
	defer store.Close()

	reg := NewRegister(store, nil)
	ctx := context.Background()

	_, err = reg.Record(ctx, "audit-123", Decision("maybe"), "alice", "")
	var derr *DecisionInvalidError
	if !errors.As(err, &derr) {
		t.Fatalf("Expected *DecisionInvalidError, got %v", err)
	}

	found, err := reg.FindByAuditID(ctx, "audit-123")
	if err != nil {
		t.Fatalf("FindByAuditID() failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Expected no records after invalid decision, got %d", len(found))
	}
}

// TestRegister_LatestDecision tests that the most recent decision wins.
func TestRegister_LatestDecision(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "approvals.jsonl"))
	if err != nil {
		t.Fatalf("NewJSONLStore() failed: %v", err)
	}
	defer store.Close()

	reg := NewRegister(store, nil)
	ctx := context.Background()

	// Distinct timestamps keep the approval ids unique.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Second)}
	i := 0
	reg.now = func() time.Time { t := times[i]; i++; return t }

	if _, err := reg.Record(ctx, "audit-9", DecisionRejected, "alice", "first pass"); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if _, err := reg.Record(ctx, "audit-9", DecisionApproved, "bob", "re-reviewed"); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	latest, err := reg.LatestDecision(ctx, "audit-9")
	if err != nil {
		t.Fatalf("LatestDecision() failed: %v", err)
	}
	if latest == nil || latest.Decision != DecisionApproved {
		t.Errorf("Expected latest decision approved, got %+v", latest)
	}

	none, err := reg.LatestDecision(ctx, "audit-unknown")
	if err != nil {
		t.Fatalf("LatestDecision() failed: %v", err)
	}
	if none != nil {
		t.Errorf("Expected nil for unknown audit id, got %+v", none)
	}
}

// TestSQLiteStore_RoundTrip tests the SQLite approvals backend.
func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "approvals.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	record := &Record{
		ApprovalID:   "audit-7:2026-03-01T12:00:00Z",
		TimestampUTC: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		AuditID:      "audit-7",
		Decision:     DecisionRejected,
		ApprovedBy:   "carol",
		Reason:       "insufficient context",
	}
	if err := store.Append(ctx, record); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	found, err := store.FindByAuditID(ctx, "audit-7")
	if err != nil {
		t.Fatalf("FindByAuditID() failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(found))
	}
	if found[0].Decision != DecisionRejected || found[0].ApprovedBy != "carol" {
		t.Errorf("Unexpected record: %+v", found[0])
	}
}
