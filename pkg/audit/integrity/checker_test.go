package integrity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"helix-hq/warden/pkg/audit"
	"helix-hq/warden/pkg/audit/storage"
	"helix-hq/warden/pkg/policy"
)

func appendRecords(t *testing.T, path string, records ...*audit.Record) {
	t.Helper()

	store, err := storage.NewJSONLStore(path)
	if err != nil {
		t.Fatalf("NewJSONLStore() failed: %v", err)
	}
	defer store.Close()

	for _, r := range records {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}
}

func appendRaw(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}

func record(id string, status audit.Status) *audit.Record {
	return &audit.Record{
		AuditID:      id,
		TimestampUTC: time.Now().UTC(),
		InputHash:    "cafe",
		Policy:       &policy.Decision{Action: policy.ActionAllow},
		Status:       status,
	}
}

// TestChecker_Scan tests counting records by status.
func TestChecker_Scan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	appendRecords(t, path,
		record("a", audit.StatusSucceeded),
		record("b", audit.StatusSucceeded),
		record("c", audit.StatusBlocked),
	)

	stats, err := NewChecker(path, nil).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if stats.Records != 3 {
		t.Errorf("Expected 3 records, got %d", stats.Records)
	}
	if stats.ByStatus[audit.StatusSucceeded] != 2 {
		t.Errorf("Expected 2 succeeded, got %d", stats.ByStatus[audit.StatusSucceeded])
	}
	if stats.MalformedLines != 0 || stats.DuplicateIDs != 0 {
		t.Errorf("Expected a healthy log, got %+v", stats)
	}
}

// TestChecker_ScanMissingFile tests that a missing log is healthy and empty.
func TestChecker_ScanMissingFile(t *testing.T) {
	stats, err := NewChecker(filepath.Join(t.TempDir(), "never-written.jsonl"), nil).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if stats.Records != 0 {
		t.Errorf("Expected 0 records, got %d", stats.Records)
	}
}

// TestChecker_ScanAnomalies tests malformed line and duplicate id counting.
func TestChecker_ScanAnomalies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	appendRecords(t, path,
		record("dup", audit.StatusSucceeded),
		record("dup", audit.StatusSucceeded),
	)

	// Inject garbage between records.
	if err := appendRaw(path, "this is not json\n{\"half\": \n"); err != nil {
		t.Fatalf("failed to append garbage: %v", err)
	}

	stats, err := NewChecker(path, nil).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if stats.Records != 2 {
		t.Errorf("Expected 2 records, got %d", stats.Records)
	}
	if stats.MalformedLines != 2 {
		t.Errorf("Expected 2 malformed lines, got %d", stats.MalformedLines)
	}
	if stats.DuplicateIDs != 1 {
		t.Errorf("Expected 1 duplicate id, got %d", stats.DuplicateIDs)
	}
}
