package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"helix-hq/warden/pkg/audit"
)

// maxLineBytes bounds a single scanned log line. Records are far
// smaller in practice; the bound guards the scanner against a corrupt
// file with no newlines.
const maxLineBytes = 4 * 1024 * 1024

// JSONLStore persists audit records as newline-delimited JSON in a
// single append-only file. It is safe for concurrent use within one
// process: a mutex serializes the write+flush of each record so two
// appends never interleave mid-record.
type JSONLStore struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// NewJSONLStore opens (creating if necessary) the audit log at the
// given path. Parent directories are created on first write per the
// storage contract.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, audit.NewStorageError("jsonl", "open", fmt.Errorf("empty audit log path"))
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, audit.NewStorageError("jsonl", "open", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, audit.NewStorageError("jsonl", "open", err)
	}

	return &JSONLStore{path: path, f: f}, nil
}

// Path returns the log file path.
func (s *JSONLStore) Path() string {
	return s.path
}

// Append implements audit.Store. The record is written as one line in
// a single write under the store mutex and synced before returning.
func (s *JSONLStore) Append(ctx context.Context, record *audit.Record) error {
	if record == nil {
		return audit.NewStorageError("jsonl", "append", fmt.Errorf("nil record"))
	}

	line, err := json.Marshal(record)
	if err != nil {
		return audit.NewStorageError("jsonl", "append", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return audit.NewStorageError("jsonl", "append", fmt.Errorf("store is closed"))
	}
	if _, err := s.f.Write(line); err != nil {
		return audit.NewStorageError("jsonl", "append", err)
	}
	if err := s.f.Sync(); err != nil {
		return audit.NewStorageError("jsonl", "append", err)
	}
	return nil
}

// FindByID implements audit.Store. It scans the log forward from the
// beginning, parsing each line independently and skipping lines that
// fail to parse, and returns the first record whose id matches.
func (s *JSONLStore) FindByID(ctx context.Context, auditID string) (*audit.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, audit.NewNotFoundError(auditID)
		}
		return nil, audit.NewStorageError("jsonl", "find", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, audit.NewStorageError("jsonl", "find", err)
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record audit.Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			// Tolerate partial or corrupt trailing writes.
			continue
		}
		if record.AuditID == auditID {
			return &record, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, audit.NewStorageError("jsonl", "find", err)
	}

	return nil, audit.NewNotFoundError(auditID)
}

// Close implements audit.Store.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	if err != nil {
		return audit.NewStorageError("jsonl", "close", err)
	}
	return nil
}
