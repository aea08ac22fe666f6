package memory

import (
	"context"
	"sync"

	"github.com/upb/agent-access-plane/models"
	"github.com/upb/agent-access-plane/repositories"
)

// PolicyStore is an in-memory implementation of repositories.PolicyStore.
// Policies are read-only at decision time; Put exists for seeding and tests.
type PolicyStore struct {
	mu       sync.RWMutex
	policies map[string]models.AccessPolicy
}

// NewPolicyStore creates an empty in-memory policy store
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{
		policies: make(map[string]models.AccessPolicy),
	}
}

// NewDefaultPolicyStore creates a policy store seeded with the default
// role policies for coder, reviewer and orchestrator agents.
func NewDefaultPolicyStore() *PolicyStore {
	store := NewPolicyStore()
	for _, policy := range DefaultPolicies() {
		store.Put(policy)
	}
	return store
}

// Put adds or replaces the policy for a role
func (s *PolicyStore) Put(policy models.AccessPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[policy.Role] = policy
}

// Resolve returns the policy for the given role, or nil when the role has
// no policy at all
func (s *PolicyStore) Resolve(_ context.Context, role string) (*models.AccessPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policy, ok := s.policies[role]
	if !ok {
		return nil, nil
	}
	return &policy, nil
}

// DefaultPolicies returns the built-in role policies. These mirror the
// documented example shapes: a coder may read/write/execute the code
// repository under compute quotas and full context requirements, a reviewer
// gets read-only access, and an orchestrator administers the compute
// cluster and artifact store.
func DefaultPolicies() []models.AccessPolicy {
	maxTasks := 5
	cpu4 := 4.0
	mem8 := 8.0
	storage50 := 50.0
	cpu16 := 16.0
	mem64 := 64.0
	sessionHours := 8
	businessHours := true

	return []models.AccessPolicy{
		{
			Role: "coder",
			Resources: map[string]models.ResourcePermission{
				"code_repository": {
					Actions: []models.Action{models.ActionRead, models.ActionWrite, models.ActionExecute},
					Restrictions: models.Restrictions{
						MaxConcurrentTasks: &maxTasks,
						Quota: &models.ResourceQuota{
							MaxCPUCores:  &cpu4,
							MaxMemoryGB:  &mem8,
							MaxStorageGB: &storage50,
						},
						Time: &models.TimeRestrictions{
							MaxSessionHours: &sessionHours,
						},
						Context: &models.ContextRequirements{
							RequiresProject:       true,
							RequiresTask:          true,
							RequiresCollaboration: true,
						},
					},
				},
				"artifact_store": {
					Actions: []models.Action{models.ActionRead, models.ActionWrite},
					Restrictions: models.Restrictions{
						Context: &models.ContextRequirements{
							RequiresProject: true,
						},
					},
				},
			},
		},
		{
			Role: "reviewer",
			Resources: map[string]models.ResourcePermission{
				"code_repository": {
					Actions: []models.Action{models.ActionRead},
					Restrictions: models.Restrictions{
						Time: &models.TimeRestrictions{
							BusinessHoursOnly: &businessHours,
						},
						Context: &models.ContextRequirements{
							RequiresProject: true,
						},
					},
				},
			},
		},
		{
			Role: "orchestrator",
			Resources: map[string]models.ResourcePermission{
				"compute_cluster": {
					Actions: []models.Action{models.ActionRead, models.ActionExecute, models.ActionAdmin, models.ActionDeploy},
					Restrictions: models.Restrictions{
						Quota: &models.ResourceQuota{
							MaxCPUCores: &cpu16,
							MaxMemoryGB: &mem64,
						},
						Context: &models.ContextRequirements{
							RequiresProject: true,
						},
					},
				},
				"artifact_store": {
					Actions: []models.Action{models.ActionRead, models.ActionWrite, models.ActionAdmin},
					Restrictions: models.Restrictions{
						Context: &models.ContextRequirements{
							RequiresProject: true,
						},
					},
				},
			},
		},
	}
}

var _ repositories.PolicyStore = (*PolicyStore)(nil)
