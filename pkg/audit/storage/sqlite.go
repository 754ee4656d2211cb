package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"helix-hq/warden/pkg/audit"
)

// SQLiteConfig contains configuration for the SQLite audit backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/audit.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements audit.Store using SQLite. Records remain
// append-only: the backend exposes no update or delete path.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite audit backend, initializing the
// schema and enabling WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	if dir := filepath.Dir(config.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, audit.NewStorageError("sqlite", "open", err)
		}
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "audit.storage.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("SQLite audit store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

// initialize sets up the schema and pragmas.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return audit.NewStorageError("sqlite", "init", err)
		}
	}
	if s.config.BusyTimeout > 0 {
		if _, err := s.db.Exec("PRAGMA busy_timeout = ?;", s.config.BusyTimeout.Milliseconds()); err != nil {
			return audit.NewStorageError("sqlite", "init", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError("sqlite", "init", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError("sqlite", "init", err)
	}
	return nil
}

// Append implements audit.Store.
func (s *SQLiteStore) Append(ctx context.Context, record *audit.Record) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return audit.NewStorageError("sqlite", "append", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_records (audit_id, timestamp_utc, status, input_hash, record)
		 VALUES (?, ?, ?, ?, ?)`,
		record.AuditID,
		record.TimestampUTC,
		string(record.Status),
		record.InputHash,
		string(doc),
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "append", err)
	}
	return nil
}

// FindByID implements audit.Store.
func (s *SQLiteStore) FindByID(ctx context.Context, auditID string) (*audit.Record, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM audit_records WHERE audit_id = ?`, auditID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, audit.NewNotFoundError(auditID)
	}
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "find", err)
	}

	var record audit.Record
	if err := json.Unmarshal([]byte(doc), &record); err != nil {
		return nil, audit.NewStorageError("sqlite", "find", err)
	}
	return &record, nil
}

// Close implements audit.Store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return audit.NewStorageError("sqlite", "close", err)
	}
	return nil
}
