package approval

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// JSONLStore persists approval records as newline-delimited JSON in a
// single append-only file, mirroring the audit log format. A mutex
// serializes physical writes so records never interleave.
type JSONLStore struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// NewJSONLStore opens (creating if necessary) the approvals log at the
// given path.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, NewStorageError("jsonl", "open", fmt.Errorf("empty approvals log path"))
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, NewStorageError("jsonl", "open", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, NewStorageError("jsonl", "open", err)
	}

	return &JSONLStore{path: path, f: f}, nil
}

// Append implements Store.
func (s *JSONLStore) Append(ctx context.Context, record *Record) error {
	line, err := json.Marshal(record)
	if err != nil {
		return NewStorageError("jsonl", "append", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return NewStorageError("jsonl", "append", fmt.Errorf("store is closed"))
	}
	if _, err := s.f.Write(line); err != nil {
		return NewStorageError("jsonl", "append", err)
	}
	if err := s.f.Sync(); err != nil {
		return NewStorageError("jsonl", "append", err)
	}
	return nil
}

// FindByAuditID implements Store. It scans the log forward, skipping
// malformed lines, and collects every decision for the audit id in
// append order.
func (s *JSONLStore) FindByAuditID(ctx context.Context, auditID string) ([]*Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, NewStorageError("jsonl", "find", err)
	}
	defer f.Close()

	var results []*Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, NewStorageError("jsonl", "find", err)
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		if record.AuditID == auditID {
			results = append(results, &record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, NewStorageError("jsonl", "find", err)
	}

	return results, nil
}

// Close implements Store.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	if err != nil {
		return NewStorageError("jsonl", "close", err)
	}
	return nil
}
