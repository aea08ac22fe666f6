package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories"
	"go.uber.org/zap"
)

// Window represents the time window for rate limiting
type Window string

const (
	WindowHour Window = "hour"
	WindowDay  Window = "day"
)

// Duration returns the trailing duration covered by the window
func (w Window) Duration() time.Duration {
	if w == WindowDay {
		return 24 * time.Hour
	}
	return time.Hour
}

// Result represents the outcome of a rate limit check
type Result struct {
	Allowed        bool
	ViolatedWindow Window
	HourlyCount    int
	DailyCount     int
}

// Service checks sliding-window rate limits per (agent, resource) pair.
// The windows are recomputed from the audit store on every call: the count
// of records newer than now minus the window duration. No separate counter
// state exists, so a check is always consistent with the audit trail.
type Service struct {
	audit       repositories.AuditStore
	hourlyLimit int
	dailyLimit  int
	logger      *zap.Logger
}

// NewService creates a rate limit service with the given window ceilings
func NewService(audit repositories.AuditStore, hourlyLimit, dailyLimit int, logger *zap.Logger) *Service {
	return &Service{
		audit:       audit,
		hourlyLimit: hourlyLimit,
		dailyLimit:  dailyLimit,
		logger:      logger,
	}
}

// Limits returns the configured window ceilings
func (s *Service) Limits() models.RateLimits {
	return models.RateLimits{
		RequestsPerHour: s.hourlyLimit,
		RequestsPerDay:  s.dailyLimit,
	}
}

// Check counts the trailing hourly and daily windows for the pair as of now.
// The hourly window is checked first; a request denied hourly is never
// reported as a daily violation.
func (s *Service) Check(ctx context.Context, agentID, resource string, now time.Time) (*Result, error) {
	hourly, err := s.audit.CountWindow(ctx, agentID, resource, now.Add(-WindowHour.Duration()))
	if err != nil {
		return nil, fmt.Errorf("failed to count hourly window: %w", err)
	}

	daily, err := s.audit.CountWindow(ctx, agentID, resource, now.Add(-WindowDay.Duration()))
	if err != nil {
		return nil, fmt.Errorf("failed to count daily window: %w", err)
	}

	result := &Result{
		Allowed:     true,
		HourlyCount: hourly,
		DailyCount:  daily,
	}

	if hourly >= s.hourlyLimit {
		result.Allowed = false
		result.ViolatedWindow = WindowHour
		s.logger.Warn("hourly rate limit exceeded",
			zap.String("agent_id", agentID),
			zap.String("resource", resource),
			zap.Int("count", hourly),
			zap.Int("limit", s.hourlyLimit))
		return result, nil
	}

	if daily >= s.dailyLimit {
		result.Allowed = false
		result.ViolatedWindow = WindowDay
		s.logger.Warn("daily rate limit exceeded",
			zap.String("agent_id", agentID),
			zap.String("resource", resource),
			zap.Int("count", daily),
			zap.Int("limit", s.dailyLimit))
		return result, nil
	}

	return result, nil
}

// Usage represents current window counts for one (agent, resource) pair
type Usage struct {
	RequestsLastHour int               `json:"requests_last_hour"`
	RequestsLastDay  int               `json:"requests_last_day"`
	Limits           models.RateLimits `json:"limits"`
}

// CurrentUsage returns the current window counts for a pair
func (s *Service) CurrentUsage(ctx context.Context, agentID, resource string, now time.Time) (*Usage, error) {
	hourly, err := s.audit.CountWindow(ctx, agentID, resource, now.Add(-WindowHour.Duration()))
	if err != nil {
		return nil, fmt.Errorf("failed to count hourly window: %w", err)
	}

	daily, err := s.audit.CountWindow(ctx, agentID, resource, now.Add(-WindowDay.Duration()))
	if err != nil {
		return nil, fmt.Errorf("failed to count daily window: %w", err)
	}

	return &Usage{
		RequestsLastHour: hourly,
		RequestsLastDay:  daily,
		Limits:           s.Limits(),
	}, nil
}
