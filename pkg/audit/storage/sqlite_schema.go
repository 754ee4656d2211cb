package storage

// SchemaVersion is the current audit database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database
// schema. The full record is kept as a JSON document; the extracted
// columns exist for indexed lookup and reporting only and are never
// used to reconstruct a record.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    audit_id TEXT PRIMARY KEY,
    timestamp_utc TIMESTAMP NOT NULL,
    status TEXT NOT NULL,
    input_hash TEXT NOT NULL,
    record TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_records_timestamp ON audit_records(timestamp_utc);
CREATE INDEX IF NOT EXISTS idx_audit_records_status ON audit_records(status);
`

// InsertSchemaVersion records the schema version after initialization.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`
