package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories/memory"
	"go.uber.org/zap"
)

func seedRecords(t *testing.T, store *memory.AuditStore, agentID, resource string, count int, ts time.Time) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		rec := models.NewAuditRecord("req", agentID, resource, models.ActionRead, models.OutcomeGranted, ts)
		require.NoError(t, store.Append(ctx, rec))
	}
}

func TestWindow_Duration(t *testing.T) {
	assert.Equal(t, time.Hour, WindowHour.Duration())
	assert.Equal(t, 24*time.Hour, WindowDay.Duration())
}

func TestService_Check_UnderLimits(t *testing.T) {
	store := memory.NewAuditStore()
	service := NewService(store, 100, 1000, zap.NewNop())
	now := time.Now()

	seedRecords(t, store, "agent-1", "code_repository", 99, now.Add(-time.Minute))

	result, err := service.Check(context.Background(), "agent-1", "code_repository", now)
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.Equal(t, 99, result.HourlyCount)
	assert.Equal(t, 99, result.DailyCount)
}

func TestService_Check_HourlyLimitReached(t *testing.T) {
	store := memory.NewAuditStore()
	service := NewService(store, 100, 1000, zap.NewNop())
	now := time.Now()

	seedRecords(t, store, "agent-1", "code_repository", 100, now.Add(-time.Minute))

	result, err := service.Check(context.Background(), "agent-1", "code_repository", now)
	require.NoError(t, err)

	assert.False(t, result.Allowed)
	assert.Equal(t, WindowHour, result.ViolatedWindow)
}

func TestService_Check_DailyLimitReached(t *testing.T) {
	store := memory.NewAuditStore()
	service := NewService(store, 100, 1000, zap.NewNop())
	now := time.Now()

	// Spread 1000 records over the day so no single hour trips the hourly limit
	for i := 0; i < 20; i++ {
		seedRecords(t, store, "agent-1", "code_repository", 50, now.Add(-time.Duration(i+2)*time.Hour))
	}

	result, err := service.Check(context.Background(), "agent-1", "code_repository", now)
	require.NoError(t, err)

	assert.False(t, result.Allowed)
	assert.Equal(t, WindowDay, result.ViolatedWindow)
	assert.Equal(t, 0, result.HourlyCount)
	assert.Equal(t, 1000, result.DailyCount)
}

func TestService_Check_WindowSlides(t *testing.T) {
	store := memory.NewAuditStore()
	service := NewService(store, 100, 1000, zap.NewNop())
	now := time.Now()

	// All at the hourly ceiling, but 61 minutes ago: outside the hourly window
	seedRecords(t, store, "agent-1", "code_repository", 100, now.Add(-61*time.Minute))

	result, err := service.Check(context.Background(), "agent-1", "code_repository", now)
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.Equal(t, 0, result.HourlyCount)
	assert.Equal(t, 100, result.DailyCount)
}

func TestService_Check_PairsAreIndependent(t *testing.T) {
	store := memory.NewAuditStore()
	service := NewService(store, 100, 1000, zap.NewNop())
	now := time.Now()

	seedRecords(t, store, "agent-1", "code_repository", 100, now.Add(-time.Minute))

	t.Run("other resource unaffected", func(t *testing.T) {
		result, err := service.Check(context.Background(), "agent-1", "artifact_store", now)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})

	t.Run("other agent unaffected", func(t *testing.T) {
		result, err := service.Check(context.Background(), "agent-2", "code_repository", now)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})
}

func TestService_CurrentUsage(t *testing.T) {
	store := memory.NewAuditStore()
	service := NewService(store, 100, 1000, zap.NewNop())
	now := time.Now()

	seedRecords(t, store, "agent-1", "code_repository", 3, now.Add(-30*time.Minute))
	seedRecords(t, store, "agent-1", "code_repository", 7, now.Add(-5*time.Hour))

	usage, err := service.CurrentUsage(context.Background(), "agent-1", "code_repository", now)
	require.NoError(t, err)

	assert.Equal(t, 3, usage.RequestsLastHour)
	assert.Equal(t, 10, usage.RequestsLastDay)
	assert.Equal(t, models.RateLimits{RequestsPerHour: 100, RequestsPerDay: 1000}, usage.Limits)
}

type failingStore struct {
	*memory.AuditStore
}

func (f *failingStore) CountWindow(context.Context, string, string, time.Time) (int, error) {
	return 0, errors.New("store down")
}

func TestService_Check_StoreError(t *testing.T) {
	service := NewService(&failingStore{memory.NewAuditStore()}, 100, 1000, zap.NewNop())

	_, err := service.Check(context.Background(), "agent-1", "code_repository", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count hourly window")
}
