package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/agent-access-plane/config"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Engine: config.EngineConfig{
			HourlyRateLimit: 100,
			DailyRateLimit:  1000,
			TokenTTL:        time.Hour,
			RenewalLead:     10 * time.Minute,
			AuditQueryLimit: 100,
			SinkBufferSize:  100,
			SinkWorkerCount: 1,
		},
		Observability: config.ObservabilityConfig{LogLevel: "info", LogFormat: "json"},
	}
}

func TestNewDependencies(t *testing.T) {
	deps, err := NewDependencies(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = deps.Close(context.Background()) }()

	assert.NotNil(t, deps.Registry)
	assert.NotNil(t, deps.Policies)
	assert.NotNil(t, deps.AuditLog)
	assert.NotNil(t, deps.Limiter)
	assert.NotNil(t, deps.Issuer)
	assert.NotNil(t, deps.Recorder)
	assert.NotNil(t, deps.Engine)
	assert.NotNil(t, deps.AccessHandler)
	assert.NotNil(t, deps.AuditHandler)
	assert.NotNil(t, deps.UsageHandler)
	assert.NotNil(t, deps.HealthHandler)

	// No durable sink configured
	assert.Nil(t, deps.SinkDB)
}

func TestDependencies_SeedsDevAgentsOnlyInDevelopment(t *testing.T) {
	t.Run("development seeds agents", func(t *testing.T) {
		cfg := testConfig()
		cfg.Environment = "development"
		deps, err := NewDependencies(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		defer func() { _ = deps.Close(context.Background()) }()

		record, err := deps.Registry.Lookup(context.Background(), "dev-coder-1")
		require.NoError(t, err)
		assert.NotNil(t, record)
	})

	t.Run("test environment stays empty", func(t *testing.T) {
		deps, err := NewDependencies(context.Background(), testConfig(), zap.NewNop())
		require.NoError(t, err)
		defer func() { _ = deps.Close(context.Background()) }()

		record, err := deps.Registry.Lookup(context.Background(), "dev-coder-1")
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

func TestDependencies_StartWithoutSinkIsNoop(t *testing.T) {
	deps, err := NewDependencies(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = deps.Close(context.Background()) }()

	require.NoError(t, deps.Start(context.Background()))
	require.NoError(t, deps.Close(context.Background()))
}
