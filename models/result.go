package models

import (
	"time"
)

// DenialReason is a stable, machine-checkable reason code attached to a
// denied result and persisted in audit records. Codes never change meaning;
// compliance tooling matches on them verbatim.
type DenialReason string

const (
	DenialInvalidCredentials      DenialReason = "invalid_credentials"
	DenialAgentNotFoundOrInactive DenialReason = "agent_not_found_or_inactive"
	DenialCredentialsExpired      DenialReason = "credentials_expired"
	DenialNoPolicyForRole         DenialReason = "no_policy_for_role"
	DenialResourceNotAccessible   DenialReason = "resource_not_accessible"
	DenialActionNotPermitted      DenialReason = "action_not_permitted"
	DenialProjectContextRequired  DenialReason = "project_context_required"
	DenialTaskContextRequired     DenialReason = "task_context_required"
	DenialCollabContextRequired   DenialReason = "collaboration_context_required"
	DenialCPUQuotaExceeded        DenialReason = "cpu_quota_exceeded"
	DenialMemoryQuotaExceeded     DenialReason = "memory_quota_exceeded"
	DenialStorageQuotaExceeded    DenialReason = "storage_quota_exceeded"
	DenialNetworkQuotaExceeded    DenialReason = "network_quota_exceeded"
	DenialHourlyRateLimitExceeded DenialReason = "hourly_rate_limit_exceeded"
	DenialDailyRateLimitExceeded  DenialReason = "daily_rate_limit_exceeded"
	DenialInternalError           DenialReason = "internal_error"
	DenialDependencyUnavailable   DenialReason = "dependency_unavailable"
)

// ResourceLimits carries the resolved quota ceilings from the policy entry
// that produced a grant. A nil field means that dimension is unconstrained.
type ResourceLimits struct {
	MaxCPUCores    *float64 `json:"max_cpu_cores,omitempty"`
	MaxMemoryGB    *float64 `json:"max_memory_gb,omitempty"`
	MaxStorageGB   *float64 `json:"max_storage_gb,omitempty"`
	MaxNetworkMbps *float64 `json:"max_network_mbps,omitempty"`
}

// RateLimits carries the fixed window ceilings applied to the grant
type RateLimits struct {
	RequestsPerHour int `json:"requests_per_hour"`
	RequestsPerDay  int `json:"requests_per_day"`
}

// UsageTracking identifies the grant for downstream usage accounting
type UsageTracking struct {
	RequestID  string     `json:"request_id"`
	Timestamp  time.Time  `json:"timestamp"`
	RateLimits RateLimits `json:"rate_limits"`
}

// AccessResult is the outcome of one evaluation. Granted results carry the
// token, expiry and detail blocks; denied results carry only the reason.
type AccessResult struct {
	Granted          bool            `json:"granted"`
	PermittedActions []Action        `json:"permitted_actions,omitempty"`
	Restrictions     []string        `json:"restrictions,omitempty"`
	ResourceLimits   *ResourceLimits `json:"resource_limits,omitempty"`
	UsageTracking    *UsageTracking  `json:"usage_tracking,omitempty"`
	AccessToken      string          `json:"access_token,omitempty"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	RenewAfter       *time.Time      `json:"renew_after,omitempty"`
	Reason           DenialReason    `json:"reason,omitempty"`
}

// Denied builds a denial result carrying only the reason code
func Denied(reason DenialReason) *AccessResult {
	return &AccessResult{
		Granted: false,
		Reason:  reason,
	}
}
