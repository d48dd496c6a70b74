package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raystack/guardian/core/appeal"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/slices"
)

// AppealRepository is an in-memory appeal store. Returned records are the
// stored instances; concurrent mutation of the same appeal is serialized by
// the service layer's per-appeal lock.
type AppealRepository struct {
	mu      sync.RWMutex
	appeals map[string]*domain.Appeal
}

func NewAppealRepository() *AppealRepository {
	return &AppealRepository{
		appeals: map[string]*domain.Appeal{},
	}
}

func (r *AppealRepository) Create(ctx context.Context, a *domain.Appeal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	for _, approval := range a.Approvals {
		if approval.ID == "" {
			approval.ID = uuid.New().String()
		}
		approval.AppealID = a.ID
		approval.CreatedAt = now
		approval.UpdatedAt = now
	}

	r.appeals[a.ID] = a
	return nil
}

func (r *AppealRepository) GetByID(ctx context.Context, id string) (*domain.Appeal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appeals[id]
	if !ok {
		return nil, appeal.ErrAppealNotFound
	}
	return a, nil
}

func (r *AppealRepository) Find(ctx context.Context, filter *domain.ListAppealsFilter) ([]*domain.Appeal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.Appeal
	for _, a := range r.appeals {
		if filter != nil && !matchAppeal(a, filter) {
			continue
		}
		results = append(results, a)
	}
	return paginate(results, filter), nil
}

func (r *AppealRepository) Update(ctx context.Context, a *domain.Appeal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appeals[a.ID]; !ok {
		return appeal.ErrAppealNotFound
	}
	a.UpdatedAt = time.Now()
	r.appeals[a.ID] = a
	return nil
}

func matchAppeal(a *domain.Appeal, f *domain.ListAppealsFilter) bool {
	if f.AccountID != "" && a.AccountID != f.AccountID {
		return false
	}
	if len(f.AccountIDs) > 0 && !slices.ContainsString(f.AccountIDs, a.AccountID) {
		return false
	}
	if f.CreatedBy != "" && a.CreatedBy != f.CreatedBy {
		return false
	}
	if f.ResourceID != "" && a.ResourceID != f.ResourceID {
		return false
	}
	if len(f.ResourceIDs) > 0 && !slices.ContainsString(f.ResourceIDs, a.ResourceID) {
		return false
	}
	if f.Role != "" && a.Role != f.Role {
		return false
	}
	if len(f.Statuses) > 0 && !slices.ContainsString(f.Statuses, a.Status) {
		return false
	}
	if f.PolicyID != "" && a.PolicyID != f.PolicyID {
		return false
	}
	if !f.CreatedAtGt.IsZero() && !a.CreatedAt.After(f.CreatedAtGt) {
		return false
	}
	return true
}

func paginate(appeals []*domain.Appeal, f *domain.ListAppealsFilter) []*domain.Appeal {
	if f == nil {
		return appeals
	}
	if f.Offset > 0 {
		if f.Offset >= len(appeals) {
			return nil
		}
		appeals = appeals[f.Offset:]
	}
	if f.Size > 0 && f.Size < len(appeals) {
		appeals = appeals[:f.Size]
	}
	return appeals
}
