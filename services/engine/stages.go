package engine

import (
	"github.com/upb/agent-access-plane/models"
)

// validCredentials checks the structural requirements on presented
// credentials: agent id, role and signature present, a defined lifecycle
// state, and at least one declared capability. Authenticity of the signature
// blob is not verified here.
func validCredentials(creds *models.AgentCredentials) bool {
	if creds.AgentID == "" || creds.Role == "" || creds.Signature == "" {
		return false
	}
	if !models.ValidAgentState(creds.State) {
		return false
	}
	return len(creds.Capabilities) > 0
}

// evaluateContext checks the policy's contextual requirements against the
// request's context block. Requirements are checked in fixed order: project,
// task, collaboration. The first unmet requirement wins; missing contexts
// are never aggregated. A nil requirements block means every context field
// is optional.
func evaluateContext(reqs *models.ContextRequirements, ctx models.RequestContext) (models.DenialReason, bool) {
	if reqs == nil {
		return "", true
	}
	if reqs.RequiresProject && ctx.ProjectID == "" {
		return models.DenialProjectContextRequired, false
	}
	if reqs.RequiresTask && ctx.TaskID == "" {
		return models.DenialTaskContextRequired, false
	}
	if reqs.RequiresCollaboration && ctx.CollaborationID == "" {
		return models.DenialCollabContextRequired, false
	}
	return "", true
}

// checkQuota compares requested compute against the policy's declared
// ceilings, dimension by dimension in fixed order: cpu, memory, storage,
// network. An absent ceiling means that dimension is unconstrained; an
// absent requested value means the agent is not requesting it and never
// fails. Only declared ceilings are checked, never live capacity.
func checkQuota(quota *models.ResourceQuota, req *models.RequestedResources) (models.DenialReason, bool) {
	if quota == nil || req == nil {
		return "", true
	}
	if exceeds(req.CPUCores, quota.MaxCPUCores) {
		return models.DenialCPUQuotaExceeded, false
	}
	if exceeds(req.MemoryGB, quota.MaxMemoryGB) {
		return models.DenialMemoryQuotaExceeded, false
	}
	if exceeds(req.StorageGB, quota.MaxStorageGB) {
		return models.DenialStorageQuotaExceeded, false
	}
	if exceeds(req.NetworkMbps, quota.MaxNetworkMbps) {
		return models.DenialNetworkQuotaExceeded, false
	}
	return "", true
}

func exceeds(requested, ceiling *float64) bool {
	if requested == nil || ceiling == nil {
		return false
	}
	return *requested > *ceiling
}

// resolveLimits maps the policy's quota ceilings into the grant's resolved
// resource limits. A nil quota yields nil limits: nothing is constrained.
func resolveLimits(quota *models.ResourceQuota) *models.ResourceLimits {
	if quota == nil {
		return nil
	}
	return &models.ResourceLimits{
		MaxCPUCores:    quota.MaxCPUCores,
		MaxMemoryGB:    quota.MaxMemoryGB,
		MaxStorageGB:   quota.MaxStorageGB,
		MaxNetworkMbps: quota.MaxNetworkMbps,
	}
}
