package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories"
	"go.uber.org/zap"
)

// AuditStore implements repositories.AuditStore on PostgreSQL. It serves as
// the durable sink for audit records; the engine's in-memory store remains
// authoritative for rate limiting within one process lifetime.
type AuditStore struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditStore creates a postgres-backed audit store
func NewAuditStore(db *DB, logger *zap.Logger) *AuditStore {
	return &AuditStore{
		db:     db,
		logger: logger,
	}
}

// InitSchema creates the audit table and its window-count index if missing
func (s *AuditStore) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS audit_records (
			id UUID PRIMARY KEY,
			request_id TEXT NOT NULL,
			agent_id TEXT NOT NULL,
			resource TEXT NOT NULL,
			action TEXT NOT NULL,
			outcome TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_audit_records_pair_ts
			ON audit_records (agent_id, resource, timestamp);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return nil
}

// Append records one evaluated request
func (s *AuditStore) Append(ctx context.Context, record *models.AuditRecord) error {
	query := `
		INSERT INTO audit_records (id, request_id, agent_id, resource, action, outcome, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.RequestID,
		record.AgentID,
		record.Resource,
		record.Action,
		record.Outcome,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}

	s.logger.Debug("audit record inserted",
		zap.String("id", record.ID.String()),
		zap.String("agent_id", record.AgentID),
		zap.String("outcome", record.Outcome))
	return nil
}

// CountWindow returns the number of records for the (agent, resource) pair
// with timestamp after since
func (s *AuditStore) CountWindow(ctx context.Context, agentID, resource string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM audit_records
		WHERE agent_id = $1
		  AND resource = $2
		  AND timestamp > $3
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, agentID, resource, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count audit window: %w", err)
	}
	return count, nil
}

// Recent returns up to limit records, newest first
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]*models.AuditRecord, error) {
	query := `
		SELECT id, request_id, agent_id, resource, action, outcome, timestamp
		FROM audit_records
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent audit records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.AuditRecord, 0, limit)
	for rows.Next() {
		record := &models.AuditRecord{}
		if err := rows.Scan(
			&record.ID,
			&record.RequestID,
			&record.AgentID,
			&record.Resource,
			&record.Action,
			&record.Outcome,
			&record.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}

	return records, nil
}

// Cleanup deletes records older than the retention window and returns the
// number of rows removed. Daily window counts only need 24 hours of history.
func (s *AuditStore) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	result, err := s.db.ExecContext(ctx, `DELETE FROM audit_records WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup audit records: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	s.logger.Info("cleaned up old audit records",
		zap.Int64("rows_deleted", removed),
		zap.Time("cutoff", cutoff))
	return removed, nil
}

var _ repositories.AuditStore = (*AuditStore)(nil)
