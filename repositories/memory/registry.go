package memory

import (
	"context"
	"sync"

	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories"
)

// AgentRegistry is an in-memory implementation of repositories.AgentRegistry
// Thread-safe; lookups take a snapshot copy so callers never see later edits.
type AgentRegistry struct {
	mu     sync.RWMutex
	agents map[string]models.AgentRecord
}

// NewAgentRegistry creates an empty in-memory registry
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		agents: make(map[string]models.AgentRecord),
	}
}

// Register adds or replaces an agent record
func (r *AgentRegistry) Register(record models.AgentRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[record.AgentID] = record
}

// Lookup returns the record for the given agent id, or nil when absent
func (r *AgentRegistry) Lookup(_ context.Context, agentID string) (*models.AgentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.agents[agentID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

var _ repositories.AgentRegistry = (*AgentRegistry)(nil)
