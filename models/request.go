package models

// Action represents an operation an agent may request on a resource
type Action string

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionExecute Action = "execute"
	ActionAdmin   Action = "admin"
	ActionDeploy  Action = "deploy"
)

// ValidAction reports whether a is one of the defined actions
func ValidAction(a Action) bool {
	switch a {
	case ActionRead, ActionWrite, ActionExecute, ActionAdmin, ActionDeploy:
		return true
	}
	return false
}

// RequestContext carries the association metadata a policy may require.
// ProjectID is always required at the transport level; collaboration and
// task ids are optional unless the resolved policy demands them.
type RequestContext struct {
	ProjectID       string `json:"project_id" validate:"required"`
	CollaborationID string `json:"collaboration_id,omitempty"`
	TaskID          string `json:"task_id,omitempty"`
}

// RequestedResources declares the compute an agent wants for this access.
// A nil field means the agent is not requesting that dimension and the
// quota checker never fails on it.
type RequestedResources struct {
	CPUCores    *float64 `json:"cpu_cores,omitempty" validate:"omitempty,gt=0"`
	MemoryGB    *float64 `json:"memory_gb,omitempty" validate:"omitempty,gt=0"`
	StorageGB   *float64 `json:"storage_gb,omitempty" validate:"omitempty,gt=0"`
	NetworkMbps *float64 `json:"network_mbps,omitempty" validate:"omitempty,gt=0"`
}

// AccessRequest is one evaluation request: which agent wants to perform
// which action on which resource, under which context. Created per call,
// never persisted.
type AccessRequest struct {
	Resource    string              `json:"resource" validate:"required"`
	Action      Action              `json:"action" validate:"required"`
	Context     RequestContext      `json:"context"`
	Credentials AgentCredentials    `json:"credentials"`
	Resources   *RequestedResources `json:"requested_resources,omitempty"`
}
