package models

// AccessPolicy is the full permission set for one role: a map from resource
// name to the permission entry governing that resource. Policies are owned by
// the policy store collaborator and are read-only at decision time.
type AccessPolicy struct {
	Role      string                        `json:"role"`
	Resources map[string]ResourcePermission `json:"resources"`
}

// ResourcePermission describes what a role may do on one resource and under
// which restrictions. The allowed-actions set is never empty for a resource
// that appears in a policy.
type ResourcePermission struct {
	Actions      []Action     `json:"actions"`
	Restrictions Restrictions `json:"restrictions"`
}

// Allows reports whether the permission entry includes the given action
func (p ResourcePermission) Allows(action Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Restrictions groups the optional restriction categories a policy may attach
// to a resource. Every field is optional; an absent category or ceiling means
// that dimension is unconstrained.
type Restrictions struct {
	MaxConcurrentTasks *int                 `json:"max_concurrent_tasks,omitempty"`
	Quota              *ResourceQuota       `json:"resource_quota,omitempty"`
	Time               *TimeRestrictions    `json:"time_restrictions,omitempty"`
	Context            *ContextRequirements `json:"context_requirements,omitempty"`
}

// ResourceQuota declares the per-dimension ceilings on requested compute.
// A nil ceiling means no limit is enforced for that dimension.
type ResourceQuota struct {
	MaxCPUCores    *float64 `json:"max_cpu_cores,omitempty"`
	MaxMemoryGB    *float64 `json:"max_memory_gb,omitempty"`
	MaxStorageGB   *float64 `json:"max_storage_gb,omitempty"`
	MaxNetworkMbps *float64 `json:"max_network_mbps,omitempty"`
}

// TimeRestrictions declares time-scoped limits on a grant. These are
// surfaced to the caller as active restriction names; enforcement belongs
// to the session layer, not the decision engine.
type TimeRestrictions struct {
	BusinessHoursOnly *bool `json:"business_hours_only,omitempty"`
	MaxSessionHours   *int  `json:"max_session_hours,omitempty"`
}

// ContextRequirements declares which context associations a request must
// carry. An absent flag means the corresponding context field is optional.
type ContextRequirements struct {
	RequiresProject       bool `json:"requires_project,omitempty"`
	RequiresTask          bool `json:"requires_task,omitempty"`
	RequiresCollaboration bool `json:"requires_collaboration,omitempty"`
}

// ActiveNames returns the names of the restriction categories and ceilings
// that are actually set, in a stable order. These names appear verbatim in
// grant results.
func (r Restrictions) ActiveNames() []string {
	names := make([]string, 0, 4)
	if r.MaxConcurrentTasks != nil {
		names = append(names, "max_concurrent_tasks")
	}
	if r.Quota != nil {
		names = append(names, "resource_quota")
	}
	if r.Time != nil {
		if r.Time.BusinessHoursOnly != nil && *r.Time.BusinessHoursOnly {
			names = append(names, "business_hours_only")
		}
		if r.Time.MaxSessionHours != nil {
			names = append(names, "max_session_hours")
		}
	}
	if r.Context != nil {
		if r.Context.RequiresProject {
			names = append(names, "requires_project_context")
		}
		if r.Context.RequiresTask {
			names = append(names, "requires_task_context")
		}
		if r.Context.RequiresCollaboration {
			names = append(names, "requires_collaboration_context")
		}
	}
	return names
}
