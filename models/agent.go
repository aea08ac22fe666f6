package models

import (
	"time"
)

// AgentStatus represents the activity status of a registered agent
type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "active"
	AgentStatusSuspended AgentStatus = "suspended"
	AgentStatusRetired   AgentStatus = "retired"
)

// AgentRecord is the registry's view of an agent. Only agents whose status
// is active may be granted access, regardless of credential validity.
type AgentRecord struct {
	AgentID      string      `json:"agent_id"`
	Role         string      `json:"role"`
	Capabilities []string    `json:"capabilities"`
	State        AgentState  `json:"state"`
	Status       AgentStatus `json:"status"`
	LastActivity time.Time   `json:"last_activity"`
	Reputation   float64     `json:"reputation"`
}

// Active reports whether the registry considers the agent active
func (r *AgentRecord) Active() bool {
	return r.Status == AgentStatusActive
}
