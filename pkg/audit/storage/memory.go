package storage

import (
	"context"
	"sync"

	"helix-hq/warden/pkg/audit"
)

// MemoryStore implements audit.Store using an in-memory slice.
// This implementation is intended for testing only.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*audit.Record
}

// NewMemoryStore creates a new in-memory audit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements audit.Store.
func (s *MemoryStore) Append(ctx context.Context, record *audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to keep stored records immutable from the caller's view.
	recordCopy := *record
	s.records = append(s.records, &recordCopy)
	return nil
}

// FindByID implements audit.Store. Like the durable backends it scans
// forward from the start and returns the first match.
func (s *MemoryStore) FindByID(ctx context.Context, auditID string) (*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.AuditID == auditID {
			recordCopy := *record
			return &recordCopy, nil
		}
	}
	return nil, audit.NewNotFoundError(auditID)
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close implements audit.Store.
func (s *MemoryStore) Close() error {
	return nil
}
