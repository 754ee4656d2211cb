package approval

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// approvalSchema creates the approvals table. The table is append-only:
// no update or delete statement exists in this package.
const approvalSchema = `
CREATE TABLE IF NOT EXISTS approvals (
    approval_id TEXT PRIMARY KEY,
    timestamp_utc TIMESTAMP NOT NULL,
    audit_id TEXT NOT NULL,
    decision TEXT NOT NULL,
    approved_by TEXT NOT NULL,
    reason TEXT
);

CREATE INDEX IF NOT EXISTS idx_approvals_audit_id ON approvals(audit_id);
`

// SQLiteStore implements Store using SQLite, for deployments where the
// approvals log outgrows file scans.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite approvals backend at the given
// database path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, NewStorageError("sqlite", "open", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "init", err)
	}
	if _, err := db.Exec(approvalSchema); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "init", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, record *Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO approvals (approval_id, timestamp_utc, audit_id, decision, approved_by, reason)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ApprovalID,
		record.TimestampUTC,
		record.AuditID,
		string(record.Decision),
		record.ApprovedBy,
		record.Reason,
	)
	if err != nil {
		return NewStorageError("sqlite", "append", err)
	}
	return nil
}

// FindByAuditID implements Store.
func (s *SQLiteStore) FindByAuditID(ctx context.Context, auditID string) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT approval_id, timestamp_utc, audit_id, decision, approved_by, reason
		 FROM approvals WHERE audit_id = ? ORDER BY timestamp_utc ASC`, auditID)
	if err != nil {
		return nil, NewStorageError("sqlite", "find", err)
	}
	defer rows.Close()

	var results []*Record
	for rows.Next() {
		var record Record
		var ts time.Time
		var decision string
		if err := rows.Scan(&record.ApprovalID, &ts, &record.AuditID, &decision, &record.ApprovedBy, &record.Reason); err != nil {
			return nil, NewStorageError("sqlite", "find", err)
		}
		record.TimestampUTC = ts
		record.Decision = Decision(decision)
		results = append(results, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "find", err)
	}

	return results, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	return nil
}
