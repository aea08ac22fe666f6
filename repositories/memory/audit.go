package memory

import (
	"context"
	"sort"
	"sync"

	"time"

	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories"
)

// AuditStore is an in-memory, append-only implementation of
// repositories.AuditStore. Beside the chronological record list it keeps a
// per (agent, resource) timestamp index so window counts are a binary search
// rather than a scan over the full history.
type AuditStore struct {
	mu      sync.RWMutex
	records []*models.AuditRecord
	byPair  map[pairKey][]time.Time
}

type pairKey struct {
	agentID  string
	resource string
}

// NewAuditStore creates an empty in-memory audit store
func NewAuditStore() *AuditStore {
	return &AuditStore{
		byPair: make(map[pairKey][]time.Time),
	}
}

// Append records one evaluated request
func (s *AuditStore) Append(_ context.Context, record *models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	key := pairKey{agentID: record.AgentID, resource: record.Resource}
	s.byPair[key] = append(s.byPair[key], record.Timestamp)
	return nil
}

// CountWindow returns the number of records for the (agent, resource) pair
// with timestamp after since. Timestamps for a pair are appended in
// non-decreasing order, so the count is the tail beyond a binary-searched
// cutoff.
func (s *AuditStore) CountWindow(_ context.Context, agentID, resource string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stamps := s.byPair[pairKey{agentID: agentID, resource: resource}]
	idx := sort.Search(len(stamps), func(i int) bool {
		return stamps[i].After(since)
	})
	return len(stamps) - idx, nil
}

// Recent returns up to limit records, newest first
func (s *AuditStore) Recent(_ context.Context, limit int) ([]*models.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}

	out := make([]*models.AuditRecord, 0, limit)
	for i := len(s.records) - 1; i >= len(s.records)-limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Len returns the total number of records appended
func (s *AuditStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ repositories.AuditStore = (*AuditStore)(nil)
