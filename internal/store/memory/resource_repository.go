package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raystack/guardian/core/resource"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/slices"
)

type ResourceRepository struct {
	mu        sync.RWMutex
	resources map[string]*domain.Resource
}

func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{
		resources: map[string]*domain.Resource{},
	}
}

func (r *ResourceRepository) Find(ctx context.Context, filter domain.ListResourcesFilter) ([]*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.Resource
	for _, res := range r.resources {
		if len(filter.IDs) > 0 && !slices.ContainsString(filter.IDs, res.ID) {
			continue
		}
		if len(filter.ProviderTypes) > 0 && !slices.ContainsString(filter.ProviderTypes, res.ProviderType) {
			continue
		}
		if len(filter.ProviderURNs) > 0 && !slices.ContainsString(filter.ProviderURNs, res.ProviderURN) {
			continue
		}
		if len(filter.ResourceTypes) > 0 && !slices.ContainsString(filter.ResourceTypes, res.Type) {
			continue
		}
		if len(filter.ResourceURNs) > 0 && !slices.ContainsString(filter.ResourceURNs, res.URN) {
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *ResourceRepository) GetOne(ctx context.Context, id string) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, resource.ErrRecordNotFound
	}
	return res, nil
}

func (r *ResourceRepository) BulkUpsert(ctx context.Context, resources []*domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, res := range resources {
		if res.ID == "" {
			res.ID = uuid.New().String()
			res.CreatedAt = now
		}
		res.UpdatedAt = now
		r.resources[res.ID] = res
	}
	return nil
}
