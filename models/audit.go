package models

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeGranted is the audit outcome recorded for a granted request.
// Denied requests record the denial reason code as their outcome.
const OutcomeGranted = "granted"

// AuditRecord captures one evaluated request, granted or denied. Records are
// append-only: exactly one is written per call to Evaluate, after the
// terminal decision is known. The record stream doubles as the backing store
// for sliding-window rate limiting.
type AuditRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	RequestID string    `json:"request_id" db:"request_id"`
	AgentID   string    `json:"agent_id" db:"agent_id"`
	Resource  string    `json:"resource" db:"resource"`
	Action    Action    `json:"action" db:"action"`
	Outcome   string    `json:"outcome" db:"outcome"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditRecord model
func (AuditRecord) TableName() string {
	return "audit_records"
}

// NewAuditRecord creates an audit record for one evaluated request
func NewAuditRecord(requestID, agentID, resource string, action Action, outcome string, ts time.Time) *AuditRecord {
	return &AuditRecord{
		ID:        uuid.New(),
		RequestID: requestID,
		AgentID:   agentID,
		Resource:  resource,
		Action:    action,
		Outcome:   outcome,
		Timestamp: ts,
	}
}

// Granted reports whether the record captures a granted decision
func (a *AuditRecord) Granted() bool {
	return a.Outcome == OutcomeGranted
}
