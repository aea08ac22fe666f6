package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories/memory"
	"go.uber.org/zap"
)

func newRecord(agentID string) *models.AuditRecord {
	return models.NewAuditRecord("req-1", agentID, "code_repository", models.ActionWrite, models.OutcomeGranted, time.Now())
}

func TestRecorder_RecordWithoutSink(t *testing.T) {
	store := memory.NewAuditStore()
	recorder := NewRecorder(store, nil, zap.NewNop(), DefaultConfig())

	require.NoError(t, recorder.Record(context.Background(), newRecord("agent-1")))

	assert.Equal(t, 1, store.Len())
	stats := recorder.GetStats()
	assert.False(t, stats.SinkConfigured)
	assert.False(t, stats.Started)
}

func TestRecorder_StartWithoutSinkIsNoop(t *testing.T) {
	recorder := NewRecorder(memory.NewAuditStore(), nil, zap.NewNop(), DefaultConfig())

	require.NoError(t, recorder.Start())
	assert.False(t, recorder.GetStats().Started)
	require.NoError(t, recorder.Stop(time.Second))
}

func TestRecorder_ForwardsToSink(t *testing.T) {
	store := memory.NewAuditStore()
	sink := memory.NewAuditStore()
	recorder := NewRecorder(store, sink, zap.NewNop(), Config{BufferSize: 16, WorkerCount: 1})

	require.NoError(t, recorder.Start())

	for i := 0; i < 5; i++ {
		require.NoError(t, recorder.Record(context.Background(), newRecord("agent-1")))
	}

	require.NoError(t, recorder.Stop(2*time.Second))

	assert.Equal(t, 5, store.Len())
	assert.Equal(t, 5, sink.Len())
}

func TestRecorder_SinkNotStartedStillAppendsToStore(t *testing.T) {
	store := memory.NewAuditStore()
	sink := memory.NewAuditStore()
	recorder := NewRecorder(store, sink, zap.NewNop(), DefaultConfig())

	require.NoError(t, recorder.Record(context.Background(), newRecord("agent-1")))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, sink.Len())
}

func TestRecorder_DoubleStartFails(t *testing.T) {
	recorder := NewRecorder(memory.NewAuditStore(), memory.NewAuditStore(), zap.NewNop(), DefaultConfig())

	require.NoError(t, recorder.Start())
	assert.Error(t, recorder.Start())
	require.NoError(t, recorder.Stop(time.Second))
}

func TestRecorder_GetStats(t *testing.T) {
	recorder := NewRecorder(memory.NewAuditStore(), memory.NewAuditStore(), zap.NewNop(), Config{BufferSize: 7, WorkerCount: 3})

	stats := recorder.GetStats()
	assert.Equal(t, 7, stats.BufferSize)
	assert.Equal(t, 3, stats.WorkerCount)
	assert.True(t, stats.SinkConfigured)
}
