package engine

import (
	"context"
	"sync"
	"time"

	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories"
	"github.com/upb/agent-access-plane/services/audit"
	"github.com/upb/agent-access-plane/services/ratelimit"
	"github.com/upb/agent-access-plane/services/token"
	"go.uber.org/zap"
)

// Options holds the engine's grant lifetimes
type Options struct {
	TokenTTL    time.Duration // grant validity, default 1h
	RenewalLead time.Duration // renewal hint before expiry, default 10m
}

// Engine evaluates access requests through a fixed sequence of checks:
// credential structure, registry status, credential expiry, policy, context,
// quota, rate limits. The first failing check terminates evaluation with its
// denial reason; a request that clears all of them is granted a scoped,
// time-limited token. Every evaluated request is audited exactly once.
//
// The engine keeps no cross-request state of its own. The audit store is the
// single shared mutable resource: the rate limiter recomputes its sliding
// windows from it, so the check-then-append span is serialized under one
// engine-scoped mutex.
type Engine struct {
	registry repositories.AgentRegistry
	policies repositories.PolicyStore
	limiter  *ratelimit.Service
	issuer   *token.Issuer
	recorder *audit.Recorder
	logger   *zap.Logger

	tokenTTL    time.Duration
	renewalLead time.Duration

	mu  sync.Mutex
	now func() time.Time
}

// NewEngine creates a decision engine
func NewEngine(
	registry repositories.AgentRegistry,
	policies repositories.PolicyStore,
	limiter *ratelimit.Service,
	issuer *token.Issuer,
	recorder *audit.Recorder,
	opts Options,
	logger *zap.Logger,
) *Engine {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.RenewalLead <= 0 {
		opts.RenewalLead = 10 * time.Minute
	}

	return &Engine{
		registry:    registry,
		policies:    policies,
		limiter:     limiter,
		issuer:      issuer,
		recorder:    recorder,
		logger:      logger,
		tokenTTL:    opts.TokenTTL,
		renewalLead: opts.RenewalLead,
		now:         time.Now,
	}
}

// Evaluate runs one access request through the full check sequence and
// returns the decision. A denial is a normal outcome, not an error; the
// error return is reserved for conditions where no decision could be audited.
func (e *Engine) Evaluate(ctx context.Context, req *models.AccessRequest) (*models.AccessResult, error) {
	now := e.now()
	requestID := e.issuer.NewRequestID()

	// Stages before the rate limiter are read-only and need no serialization.
	result, perm := e.preflight(ctx, req, now)

	// The rate-limit check and the audit append that feeds the next check
	// must not interleave across requests.
	e.mu.Lock()
	defer e.mu.Unlock()

	if result == nil {
		result = e.finalize(ctx, req, perm, requestID, now)
	}

	outcome := models.OutcomeGranted
	if !result.Granted {
		outcome = string(result.Reason)
	}

	record := models.NewAuditRecord(requestID, req.Credentials.AgentID, req.Resource, req.Action, outcome, now)
	if err := e.recorder.Record(ctx, record); err != nil {
		// Fail closed: a grant whose audit record was lost is not a grant.
		e.logger.Error("failed to record audit entry",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("agent_id", req.Credentials.AgentID))
		return models.Denied(models.DenialInternalError), nil
	}

	e.logger.Info("access request evaluated",
		zap.String("request_id", requestID),
		zap.String("agent_id", req.Credentials.AgentID),
		zap.String("resource", req.Resource),
		zap.String("action", string(req.Action)),
		zap.String("outcome", outcome))

	return result, nil
}

// preflight runs the read-only stages: credential structure, registry
// lookup, expiry, policy resolution, context, quota. It returns a denial
// result for the first failing stage, or the resolved permission entry when
// all of them pass.
func (e *Engine) preflight(ctx context.Context, req *models.AccessRequest, now time.Time) (*models.AccessResult, *models.ResourcePermission) {
	// 1. Credential structure
	if !validCredentials(&req.Credentials) {
		return models.Denied(models.DenialInvalidCredentials), nil
	}

	// 2. Registry lookup
	record, err := e.registry.Lookup(ctx, req.Credentials.AgentID)
	if err != nil {
		e.logger.Error("registry lookup failed",
			zap.Error(err),
			zap.String("agent_id", req.Credentials.AgentID))
		return models.Denied(models.DenialDependencyUnavailable), nil
	}
	if record == nil || !record.Active() {
		return models.Denied(models.DenialAgentNotFoundOrInactive), nil
	}

	// 3. Credential expiry, strictly after the registry check
	if req.Credentials.Expired(now) {
		return models.Denied(models.DenialCredentialsExpired), nil
	}

	// 4. Policy resolution: role, then resource, then action
	policy, err := e.policies.Resolve(ctx, req.Credentials.Role)
	if err != nil {
		e.logger.Error("policy resolution failed",
			zap.Error(err),
			zap.String("role", req.Credentials.Role))
		return models.Denied(models.DenialDependencyUnavailable), nil
	}
	if policy == nil {
		return models.Denied(models.DenialNoPolicyForRole), nil
	}
	perm, ok := policy.Resources[req.Resource]
	if !ok {
		return models.Denied(models.DenialResourceNotAccessible), nil
	}
	if !perm.Allows(req.Action) {
		return models.Denied(models.DenialActionNotPermitted), nil
	}

	// 5. Contextual requirements
	if reason, ok := evaluateContext(perm.Restrictions.Context, req.Context); !ok {
		return models.Denied(reason), nil
	}

	// 6. Resource quotas
	if reason, ok := checkQuota(perm.Restrictions.Quota, req.Resources); !ok {
		return models.Denied(reason), nil
	}

	return nil, &perm
}

// finalize runs the rate limiter and, on success, synthesizes the grant.
// Callers hold e.mu.
func (e *Engine) finalize(ctx context.Context, req *models.AccessRequest, perm *models.ResourcePermission, requestID string, now time.Time) *models.AccessResult {
	check, err := e.limiter.Check(ctx, req.Credentials.AgentID, req.Resource, now)
	if err != nil {
		e.logger.Error("rate limit check failed",
			zap.Error(err),
			zap.String("agent_id", req.Credentials.AgentID))
		return models.Denied(models.DenialDependencyUnavailable)
	}
	if !check.Allowed {
		if check.ViolatedWindow == ratelimit.WindowDay {
			return models.Denied(models.DenialDailyRateLimitExceeded)
		}
		return models.Denied(models.DenialHourlyRateLimitExceeded)
	}

	expiresAt := now.Add(e.tokenTTL)
	renewAfter := expiresAt.Add(-e.renewalLead)

	accessToken, err := e.issuer.Issue(req.Credentials.AgentID, req.Resource, string(req.Action), now, expiresAt)
	if err != nil {
		e.logger.Error("token issuance failed",
			zap.Error(err),
			zap.String("agent_id", req.Credentials.AgentID))
		return models.Denied(models.DenialInternalError)
	}

	actions := make([]models.Action, len(perm.Actions))
	copy(actions, perm.Actions)

	return &models.AccessResult{
		Granted:          true,
		PermittedActions: actions,
		Restrictions:     perm.Restrictions.ActiveNames(),
		ResourceLimits:   resolveLimits(perm.Restrictions.Quota),
		UsageTracking: &models.UsageTracking{
			RequestID:  requestID,
			Timestamp:  now,
			RateLimits: e.limiter.Limits(),
		},
		AccessToken: accessToken,
		ExpiresAt:   &expiresAt,
		RenewAfter:  &renewAfter,
	}
}
