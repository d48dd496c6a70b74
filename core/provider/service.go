//go:generate mockery --name=repository --exported
//go:generate mockery --name=Client --exported
//go:generate mockery --name=auditLogger --exported

package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/plugins/providers"
)

const (
	AuditKeyCreate = "provider.create"
	AuditKeyUpdate = "provider.update"
)

const (
	// maxMutationAttempts bounds the retries of grant/revoke calls to the
	// provider. Validation is never retried.
	maxMutationAttempts = 5

	retryInitialInterval = time.Second
)

// ClientCallTimeout bounds every call into a provider client. Provider calls
// run while the appeal's critical section is held, so a hung provider must
// not hold it indefinitely.
var ClientCallTimeout = 10 * time.Second

type repository interface {
	Create(context.Context, *domain.Provider) error
	Update(context.Context, *domain.Provider) error
	Find(context.Context, domain.ListProvidersFilter) ([]*domain.Provider, error)
	GetByID(ctx context.Context, id string) (*domain.Provider, error)
	GetOne(ctx context.Context, pType, urn string) (*domain.Provider, error)
}

type Client interface {
	providers.Client
}

type auditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

// Service handles the business logic for registered providers and dispatches
// validate/grant/revoke calls to the matching capability client.
type Service struct {
	repository repository
	clients    map[string]Client

	validator   *validator.Validate
	logger      log.Logger
	auditLogger auditLogger
}

type ServiceDeps struct {
	Repository repository
	Clients    []Client

	Validator   *validator.Validate
	Logger      log.Logger
	AuditLogger auditLogger
}

func NewService(deps ServiceDeps) *Service {
	mapProviderClients := make(map[string]Client)
	for _, c := range deps.Clients {
		mapProviderClients[c.GetType()] = c
	}

	return &Service{
		deps.Repository,
		mapProviderClients,

		deps.Validator,
		deps.Logger,
		deps.AuditLogger,
	}
}

// Create registers a provider after checking its type has a client
func (s *Service) Create(ctx context.Context, p *domain.Provider) error {
	if err := s.validateProvider(p); err != nil {
		return err
	}

	if err := s.repository.Create(ctx, p); err != nil {
		return err
	}

	if err := s.auditLogger.Log(ctx, AuditKeyCreate, p); err != nil {
		s.logger.Error(ctx, "failed to record audit log", "error", err)
	}

	return nil
}

func (s *Service) Update(ctx context.Context, p *domain.Provider) error {
	if p.ID == "" {
		return ErrEmptyIDParam
	}
	if err := s.validateProvider(p); err != nil {
		return err
	}

	if err := s.repository.Update(ctx, p); err != nil {
		return err
	}

	if err := s.auditLogger.Log(ctx, AuditKeyUpdate, p); err != nil {
		s.logger.Error(ctx, "failed to record audit log", "error", err)
	}

	return nil
}

func (s *Service) Find(ctx context.Context, filter domain.ListProvidersFilter) ([]*domain.Provider, error) {
	return s.repository.Find(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	if id == "" {
		return nil, ErrEmptyIDParam
	}
	return s.repository.GetByID(ctx, id)
}

func (s *Service) GetOne(ctx context.Context, pType, urn string) (*domain.Provider, error) {
	return s.repository.GetOne(ctx, pType, urn)
}

// ValidateAppeal checks an appeal against the provider before any approval
// work begins. Validation failures are terminal so this is never retried.
func (s *Service) ValidateAppeal(ctx context.Context, a *domain.Appeal, p *domain.Provider) error {
	if a.Resource == nil {
		return ErrNilResource
	}

	resourceConfig := getResourceConfig(p.Config, a.Resource.Type)
	if resourceConfig == nil {
		return ErrInvalidResourceType
	}
	if len(resourceConfig.Roles) > 0 {
		var found bool
		for _, role := range resourceConfig.Roles {
			if role.ID == a.Role {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrInvalidRole, a.Role)
		}
	}

	c := s.getClient(p.Type)
	if c == nil {
		return ErrInvalidProviderType
	}

	callCtx, cancel := context.WithTimeout(ctx, ClientCallTimeout)
	defer cancel()
	return c.ValidateAppeal(callCtx, a)
}

// GrantAccess delivers the grant to the provider, retrying transient failures
// with exponential backoff. Permanent errors short-circuit the retries.
func (s *Service) GrantAccess(ctx context.Context, g domain.Grant) error {
	if err := s.validateAccessParam(g); err != nil {
		return err
	}

	c := s.getClient(g.Resource.ProviderType)
	if c == nil {
		return ErrInvalidProviderType
	}

	return s.retryMutation(ctx, "grant", g, func(ctx context.Context) error {
		return c.GrantAccess(ctx, g)
	})
}

// RevokeAccess removes the access in the provider with the same retry
// behavior as GrantAccess. The provider contract is idempotent so revoking
// already-removed access succeeds.
func (s *Service) RevokeAccess(ctx context.Context, g domain.Grant) error {
	if err := s.validateAccessParam(g); err != nil {
		return err
	}

	c := s.getClient(g.Resource.ProviderType)
	if c == nil {
		return ErrInvalidProviderType
	}

	return s.retryMutation(ctx, "revoke", g, func(ctx context.Context) error {
		return c.RevokeAccess(ctx, g)
	})
}

// GetPolicyConfig resolves the approval policy mapped to a resource type
func (s *Service) GetPolicyConfig(p *domain.Provider, resourceType string) (*domain.PolicyConfig, error) {
	resourceConfig := getResourceConfig(p.Config, resourceType)
	if resourceConfig == nil {
		return nil, ErrInvalidResourceType
	}
	if resourceConfig.Policy == nil {
		return nil, ErrUnknownProviderPolicy
	}
	return resourceConfig.Policy, nil
}

func (s *Service) retryMutation(ctx context.Context, action string, g domain.Grant, fn func(context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, ClientCallTimeout)
		err := fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		if providers.IsPermanent(err) {
			return backoff.Permanent(err)
		}

		s.logger.Warn(ctx, "provider mutation failed, retrying",
			"action", action,
			"grant", g.ID,
			"attempt", attempt,
			"error", err,
		)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, maxMutationAttempts-1), ctx))
}

func (s *Service) validateProvider(p *domain.Provider) error {
	if err := s.validator.Struct(p); err != nil {
		return err
	}
	if p.Config == nil {
		return ErrNilProviderConfig
	}
	if s.getClient(p.Type) == nil {
		return ErrInvalidProviderType
	}
	return nil
}

func (s *Service) validateAccessParam(g domain.Grant) error {
	if g.Resource == nil {
		return ErrNilResource
	}
	return nil
}

func (s *Service) getClient(pType string) Client {
	return s.clients[pType]
}

func getResourceConfig(pc *domain.ProviderConfig, resourceType string) *domain.ResourceConfig {
	if pc == nil {
		return nil
	}
	for _, rc := range pc.Resources {
		if rc.Type == resourceType {
			return rc
		}
	}
	return nil
}
