package app

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/agent-access-plane/config"
	"github.com/upb/agent-access-plane/handlers"
	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories"
	"github.com/upb/agent-access-plane/repositories/memory"
	"github.com/upb/agent-access-plane/repositories/postgres"
	"github.com/upb/agent-access-plane/services/audit"
	"github.com/upb/agent-access-plane/services/engine"
	"github.com/upb/agent-access-plane/services/ratelimit"
	"github.com/upb/agent-access-plane/services/token"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// SinkDB is the optional durable audit sink database. Nil when the
	// deployment runs in-memory only.
	SinkDB    *postgres.DB
	sinkStore *postgres.AuditStore

	// Stores
	Registry repositories.AgentRegistry
	Policies repositories.PolicyStore
	AuditLog repositories.AuditStore

	// Services
	Limiter  *ratelimit.Service
	Issuer   *token.Issuer
	Recorder *audit.Recorder
	Engine   *engine.Engine

	// Handlers
	AccessHandler *handlers.AccessHandler
	AuditHandler  *handlers.AuditHandler
	UsageHandler  *handlers.UsageHandler
	HealthHandler *handlers.HealthHandler

	cleanupStop chan struct{}
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initStores()

	if err := deps.initAuditSink(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize audit sink: %w", err)
	}

	deps.initServices(cfg)
	deps.initHandlers(cfg)

	if cfg.IsDevelopment() {
		deps.seedDevAgents()
	}

	logger.Info("all dependencies initialized",
		zap.Bool("durable_audit_sink", deps.SinkDB != nil),
		zap.Int("hourly_rate_limit", cfg.Engine.HourlyRateLimit),
		zap.Int("daily_rate_limit", cfg.Engine.DailyRateLimit))
	return deps, nil
}

// initStores builds the in-memory registry, policy store and audit log. The
// in-memory audit log is authoritative for rate limiting; window state does
// not survive a restart.
func (d *Dependencies) initStores() {
	d.Registry = memory.NewAgentRegistry()
	d.Policies = memory.NewDefaultPolicyStore()
	d.AuditLog = memory.NewAuditStore()
}

// initAuditSink connects the optional durable audit sink when configured
func (d *Dependencies) initAuditSink(ctx context.Context, cfg *config.Config) error {
	if cfg.AuditDatabase == nil {
		d.Logger.Info("no durable audit sink configured, audit stays in memory")
		return nil
	}

	db, err := postgres.NewDB(*cfg.AuditDatabase, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect audit database: %w", err)
	}

	sink := postgres.NewAuditStore(db, d.Logger)
	if err := sink.InitSchema(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	d.SinkDB = db
	d.sinkStore = sink
	d.Logger.Info("durable audit sink connected",
		zap.String("connection", cfg.AuditDatabase.LogString()))
	return nil
}

// initServices wires the rate limiter, token issuer, audit recorder and the
// decision engine
func (d *Dependencies) initServices(cfg *config.Config) {
	d.Limiter = ratelimit.NewService(d.AuditLog, cfg.Engine.HourlyRateLimit, cfg.Engine.DailyRateLimit, d.Logger)
	d.Issuer = token.NewIssuer(cfg.Engine.TokenSigningKey)

	var sink repositories.AuditStore
	if d.sinkStore != nil {
		sink = d.sinkStore
	}
	d.Recorder = audit.NewRecorder(d.AuditLog, sink, d.Logger, audit.Config{
		BufferSize:  cfg.Engine.SinkBufferSize,
		WorkerCount: cfg.Engine.SinkWorkerCount,
	})

	d.Engine = engine.NewEngine(d.Registry, d.Policies, d.Limiter, d.Issuer, d.Recorder, engine.Options{
		TokenTTL:    cfg.Engine.TokenTTL,
		RenewalLead: cfg.Engine.RenewalLead,
	}, d.Logger)
}

// initHandlers builds the HTTP handlers
func (d *Dependencies) initHandlers(cfg *config.Config) {
	d.AccessHandler = handlers.NewAccessHandler(d.Engine, d.Logger)
	d.AuditHandler = handlers.NewAuditHandler(d.AuditLog, cfg.Engine.AuditQueryLimit, d.Logger)
	d.UsageHandler = handlers.NewUsageHandler(d.Limiter, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.SinkDB, d.Logger)
}

// seedDevAgents registers a few agents so a development instance answers
// requests out of the box
func (d *Dependencies) seedDevAgents() {
	registry, ok := d.Registry.(*memory.AgentRegistry)
	if !ok {
		return
	}

	now := time.Now().UTC()
	for _, record := range []models.AgentRecord{
		{AgentID: "dev-coder-1", Role: "coder", Capabilities: []string{"code_generation", "testing"}, State: models.AgentStateRunning, Status: models.AgentStatusActive, LastActivity: now, Reputation: 0.8},
		{AgentID: "dev-reviewer-1", Role: "reviewer", Capabilities: []string{"code_review"}, State: models.AgentStateIdle, Status: models.AgentStatusActive, LastActivity: now, Reputation: 0.9},
		{AgentID: "dev-orchestrator-1", Role: "orchestrator", Capabilities: []string{"task_planning", "deployment"}, State: models.AgentStateRunning, Status: models.AgentStatusActive, LastActivity: now, Reputation: 0.95},
	} {
		registry.Register(record)
	}
	d.Logger.Info("seeded development agents", zap.Int("count", 3))
}

// Start launches background work: the asynchronous sink forwarders and the
// retention cleanup loop. A deployment without a sink has neither.
func (d *Dependencies) Start(ctx context.Context) error {
	if d.SinkDB == nil {
		return nil
	}

	if err := d.Recorder.Start(); err != nil {
		return fmt.Errorf("failed to start audit recorder: %w", err)
	}

	d.cleanupStop = make(chan struct{})
	go d.cleanupLoop(ctx)

	return nil
}

// cleanupLoop prunes sink records older than the retention window
func (d *Dependencies) cleanupLoop(ctx context.Context) {
	sink := d.sinkStore
	ticker := time.NewTicker(d.Config.Engine.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deleted, err := sink.Cleanup(ctx, d.Config.Engine.AuditRetention)
			if err != nil {
				d.Logger.Warn("audit sink cleanup failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				d.Logger.Info("audit sink cleanup completed", zap.Int64("deleted", deleted))
			}
		case <-d.cleanupStop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.cleanupStop != nil {
		close(d.cleanupStop)
		d.cleanupStop = nil
	}

	if d.Recorder != nil {
		if err := d.Recorder.Stop(5 * time.Second); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit recorder: %w", err))
		}
	}

	if d.SinkDB != nil {
		if err := d.SinkDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close audit database: %w", err))
		} else {
			d.Logger.Info("audit database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
