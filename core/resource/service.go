//go:generate mockery --name=repository --exported
//go:generate mockery --name=auditLogger --exported

package resource

import (
	"context"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
)

const (
	AuditKeyResourceBulkUpsert = "resource.bulkUpsert"
)

type repository interface {
	Find(context.Context, domain.ListResourcesFilter) ([]*domain.Resource, error)
	GetOne(ctx context.Context, id string) (*domain.Resource, error)
	BulkUpsert(context.Context, []*domain.Resource) error
}

type auditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

// Service handles the business logic for the resource catalog
type Service struct {
	repo repository

	logger      log.Logger
	auditLogger auditLogger
}

type ServiceDeps struct {
	Repository repository

	Logger      log.Logger
	AuditLogger auditLogger
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		deps.Repository,

		deps.Logger,
		deps.AuditLogger,
	}
}

func (s *Service) Find(ctx context.Context, filter domain.ListResourcesFilter) ([]*domain.Resource, error) {
	return s.repo.Find(ctx, filter)
}

func (s *Service) GetOne(ctx context.Context, id string) (*domain.Resource, error) {
	if id == "" {
		return nil, ErrEmptyIDParam
	}
	return s.repo.GetOne(ctx, id)
}

// BulkUpsert inserts or replaces catalog records
func (s *Service) BulkUpsert(ctx context.Context, resources []*domain.Resource) error {
	if err := s.repo.BulkUpsert(ctx, resources); err != nil {
		return err
	}

	if err := s.auditLogger.Log(ctx, AuditKeyResourceBulkUpsert, resources); err != nil {
		s.logger.Error(ctx, "failed to record audit log", "error", err)
	}

	return nil
}

// Get looks up a resource either by id or by the full provider identifier.
func (s *Service) Get(ctx context.Context, ri *domain.ResourceIdentifier) (*domain.Resource, error) {
	if ri.ID != "" {
		return s.GetOne(ctx, ri.ID)
	}

	resources, err := s.Find(ctx, domain.ListResourcesFilter{
		ProviderTypes: []string{ri.ProviderType},
		ProviderURNs:  []string{ri.ProviderURN},
		ResourceTypes: []string{ri.Type},
		ResourceURNs:  []string{ri.URN},
	})
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, ErrRecordNotFound
	}
	return resources[0], nil
}
