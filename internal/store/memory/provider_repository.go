package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raystack/guardian/core/provider"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/slices"
)

type ProviderRepository struct {
	mu        sync.RWMutex
	providers map[string]*domain.Provider
}

func NewProviderRepository() *ProviderRepository {
	return &ProviderRepository{
		providers: map[string]*domain.Provider{},
	}
}

func (r *ProviderRepository) Create(ctx context.Context, p *domain.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.providers[p.ID] = p
	return nil
}

func (r *ProviderRepository) Update(ctx context.Context, p *domain.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[p.ID]; !ok {
		return provider.ErrRecordNotFound
	}
	p.UpdatedAt = time.Now()
	r.providers[p.ID] = p
	return nil
}

func (r *ProviderRepository) Find(ctx context.Context, filter domain.ListProvidersFilter) ([]*domain.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.Provider
	for _, p := range r.providers {
		if len(filter.Types) > 0 && !slices.ContainsString(filter.Types, p.Type) {
			continue
		}
		if len(filter.URNs) > 0 && !slices.ContainsString(filter.URNs, p.URN) {
			continue
		}
		results = append(results, p)
	}
	return results, nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	if !ok {
		return nil, provider.ErrRecordNotFound
	}
	return p, nil
}

func (r *ProviderRepository) GetOne(ctx context.Context, pType, urn string) (*domain.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.Type == pType && p.URN == urn {
			return p, nil
		}
	}
	return nil, provider.ErrRecordNotFound
}
