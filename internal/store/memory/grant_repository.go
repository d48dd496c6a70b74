package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raystack/guardian/core/grant"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/slices"
)

type GrantRepository struct {
	mu     sync.RWMutex
	grants map[string]*domain.Grant
}

func NewGrantRepository() *GrantRepository {
	return &GrantRepository{
		grants: map[string]*domain.Grant{},
	}
}

func (r *GrantRepository) Create(ctx context.Context, g *domain.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	r.grants[g.ID] = g
	return nil
}

func (r *GrantRepository) Update(ctx context.Context, g *domain.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.grants[g.ID]; !ok {
		return grant.ErrGrantNotFound
	}
	g.UpdatedAt = time.Now()
	r.grants[g.ID] = g
	return nil
}

func (r *GrantRepository) GetByID(ctx context.Context, id string) (*domain.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.grants[id]
	if !ok {
		return nil, grant.ErrGrantNotFound
	}
	return g, nil
}

func (r *GrantRepository) List(ctx context.Context, filter domain.ListGrantsFilter) ([]domain.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []domain.Grant
	for _, g := range r.grants {
		if !matchGrant(g, filter) {
			continue
		}
		results = append(results, *g)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(results) {
			return nil, nil
		}
		results = results[filter.Offset:]
	}
	if filter.Size > 0 && filter.Size < len(results) {
		results = results[:filter.Size]
	}
	return results, nil
}

func matchGrant(g *domain.Grant, f domain.ListGrantsFilter) bool {
	if len(f.Statuses) > 0 && !slices.ContainsString(f.Statuses, string(g.Status)) {
		return false
	}
	if len(f.AccountIDs) > 0 && !slices.ContainsString(f.AccountIDs, g.AccountID) {
		return false
	}
	if len(f.ResourceIDs) > 0 && !slices.ContainsString(f.ResourceIDs, g.ResourceID) {
		return false
	}
	if len(f.Roles) > 0 && !slices.ContainsString(f.Roles, g.Role) {
		return false
	}
	if len(f.AppealIDs) > 0 && !slices.ContainsString(f.AppealIDs, g.AppealID) {
		return false
	}
	if f.Owner != "" && g.Owner != f.Owner {
		return false
	}
	if f.IsPermanent != nil && g.IsPermanent != *f.IsPermanent {
		return false
	}
	if !f.ExpirationDateLessThan.IsZero() {
		if g.ExpirationDate == nil || !g.ExpirationDate.Before(f.ExpirationDateLessThan) {
			return false
		}
	}
	if !f.ExpirationDateGreaterThan.IsZero() {
		if g.ExpirationDate == nil || !g.ExpirationDate.After(f.ExpirationDateGreaterThan) {
			return false
		}
	}
	if f.RequiresManualRevoke != nil && g.RequiresManualRevoke != *f.RequiresManualRevoke {
		return false
	}
	return true
}
