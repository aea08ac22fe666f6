package repositories

import (
	"context"
	"time"

	"github.com/upb/agent-access-plane/models"
)

// AgentRegistry is the read-only lookup of registered agents. The engine
// never mutates the registry; it only resolves existence and status.
type AgentRegistry interface {
	// Lookup returns the record for the given agent id, or nil when the
	// agent is not registered.
	Lookup(ctx context.Context, agentID string) (*models.AgentRecord, error)
}

// PolicyStore is the read-only role -> resource -> permission mapping.
type PolicyStore interface {
	// Resolve returns the access policy for the given role, or nil when the
	// role has no policy at all.
	Resolve(ctx context.Context, role string) (*models.AccessPolicy, error)
}

// AuditStore is the append-only log of evaluated requests. It is the single
// shared mutable resource of the engine: appends and the window counts they
// feed must observe each other consistently, so implementations synchronize
// internally.
type AuditStore interface {
	// Append records one evaluated request. Called exactly once per
	// evaluation, after the terminal decision is known.
	Append(ctx context.Context, record *models.AuditRecord) error

	// CountWindow returns the number of records for the exact
	// (agent, resource) pair with timestamp after since.
	CountWindow(ctx context.Context, agentID, resource string, since time.Time) (int, error)

	// Recent returns up to limit records in reverse chronological order.
	Recent(ctx context.Context, limit int) ([]*models.AuditRecord, error)
}
