package memory

import (
	"context"
	"sync"
	"time"

	"github.com/raystack/guardian/core/policy"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/slices"
)

// PolicyRepository stores every policy version; versions are append-only.
type PolicyRepository struct {
	mu       sync.RWMutex
	policies map[string][]*domain.Policy
}

func NewPolicyRepository() *PolicyRepository {
	return &PolicyRepository{
		policies: map[string][]*domain.Policy{},
	}
}

func (r *PolicyRepository) Create(ctx context.Context, p *domain.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.policies[p.ID] = append(r.policies[p.ID], p)
	return nil
}

func (r *PolicyRepository) Find(ctx context.Context, filter domain.ListPoliciesFilter) ([]*domain.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.Policy
	for id, versions := range r.policies {
		if len(filter.IDs) > 0 && !slices.ContainsString(filter.IDs, id) {
			continue
		}
		results = append(results, versions...)
	}
	return results, nil
}

// GetOne returns the policy with the given version. Version 0 resolves to the
// latest version.
func (r *PolicyRepository) GetOne(ctx context.Context, id string, version uint) (*domain.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.policies[id]
	if !ok || len(versions) == 0 {
		return nil, policy.ErrPolicyNotFound
	}

	if version == 0 {
		latest := versions[0]
		for _, p := range versions {
			if p.Version > latest.Version {
				latest = p
			}
		}
		return latest, nil
	}

	for _, p := range versions {
		if p.Version == version {
			return p, nil
		}
	}
	return nil, policy.ErrPolicyNotFound
}
