package models

import (
	"time"
)

// AgentState represents the lifecycle state of an agent
type AgentState string

const (
	AgentStateIdle    AgentState = "idle"
	AgentStateRunning AgentState = "running"
	AgentStatePaused  AgentState = "paused"
	AgentStateError   AgentState = "error"
)

// ValidAgentState reports whether s is one of the defined lifecycle states
func ValidAgentState(s AgentState) bool {
	switch s {
	case AgentStateIdle, AgentStateRunning, AgentStatePaused, AgentStateError:
		return true
	}
	return false
}

// AgentCredentials represents the credentials an agent presents with each
// access request. They are immutable once presented; the engine checks
// structural validity and expiry only — cryptographic authenticity of the
// signature blob is not verified here.
type AgentCredentials struct {
	AgentID         string     `json:"agent_id" validate:"required"`
	Role            string     `json:"role" validate:"required"`
	Capabilities    []string   `json:"capabilities" validate:"required,min=1"`
	State           AgentState `json:"state"`
	ProjectID       string     `json:"project_id,omitempty"`
	CollaborationID string     `json:"collaboration_id,omitempty"`
	TaskID          string     `json:"task_id,omitempty"`
	IssuedAt        time.Time  `json:"issued_at"`
	Signature       string     `json:"signature" validate:"required"`
	SessionID       string     `json:"session_id,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
}

// Expired reports whether the credentials have expired relative to now
func (c *AgentCredentials) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}
