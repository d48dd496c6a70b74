//go:generate mockery --name=repository --exported
//go:generate mockery --name=auditLogger --exported

package policy

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
)

const (
	AuditKeyPolicyCreate = "policy.create"
	AuditKeyPolicyUpdate = "policy.update"
)

var whitespaceRegex = regexp.MustCompile(`\s`)

type repository interface {
	Create(context.Context, *domain.Policy) error
	Find(context.Context, domain.ListPoliciesFilter) ([]*domain.Policy, error)
	GetOne(ctx context.Context, id string, version uint) (*domain.Policy, error)
}

type auditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

// Service handles the business logic for approval policies. Policy versions
// are immutable; Update stores a new version instead of mutating the latest.
type Service struct {
	repo       repository
	iamManager domain.IAMManager

	validator   *validator.Validate
	logger      log.Logger
	auditLogger auditLogger
}

type ServiceDeps struct {
	Repository repository
	IAMManager domain.IAMManager

	Validator   *validator.Validate
	Logger      log.Logger
	AuditLogger auditLogger
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		deps.Repository,
		deps.IAMManager,

		deps.Validator,
		deps.Logger,
		deps.AuditLogger,
	}
}

// Create stores a new policy as version 1
func (s *Service) Create(ctx context.Context, p *domain.Policy) error {
	p.Version = 1

	if err := s.validatePolicy(p); err != nil {
		return fmt.Errorf("policy validation: %w", err)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	if err := s.auditLogger.Log(ctx, AuditKeyPolicyCreate, p); err != nil {
		s.logger.Error(ctx, "failed to record audit log", "error", err)
	}

	return nil
}

// Find records
func (s *Service) Find(ctx context.Context, filter domain.ListPoliciesFilter) ([]*domain.Policy, error) {
	return s.repo.Find(ctx, filter)
}

// GetOne returns a policy. Version 0 resolves to the latest version.
func (s *Service) GetOne(ctx context.Context, id string, version uint) (*domain.Policy, error) {
	if id == "" {
		return nil, ErrEmptyIDParam
	}
	return s.repo.GetOne(ctx, id, version)
}

// Update validates and stores a new version of an existing policy. Appeals
// that already reference an older version keep evaluating against it.
func (s *Service) Update(ctx context.Context, p *domain.Policy) error {
	if p.ID == "" {
		return ErrEmptyIDParam
	}

	if err := s.validatePolicy(p, "Version"); err != nil {
		return fmt.Errorf("policy validation: %w", err)
	}

	latestPolicy, err := s.GetOne(ctx, p.ID, 0)
	if err != nil {
		return err
	}

	p.Version = latestPolicy.Version + 1
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	if err := s.auditLogger.Log(ctx, AuditKeyPolicyUpdate, p); err != nil {
		s.logger.Error(ctx, "failed to record audit log", "error", err)
	}

	return nil
}

func (s *Service) validatePolicy(p *domain.Policy, excludedFields ...string) error {
	if whitespaceRegex.MatchString(p.ID) {
		return ErrIDContainsWhitespaces
	}

	if err := s.validator.StructExcept(p, excludedFields...); err != nil {
		return err
	}

	if err := s.validateSteps(p.Steps); err != nil {
		return err
	}

	if p.HasIAMConfig() {
		config, err := s.iamManager.ParseConfig(p.IAM)
		if err != nil {
			return fmt.Errorf("parsing iam config: %w", err)
		}
		if _, err := s.iamManager.GetClient(config); err != nil {
			return fmt.Errorf("invalid iam config: %w", err)
		}
	}

	return nil
}

func (s *Service) validateSteps(steps []*domain.Step) error {
	stepNames := map[string]bool{}
	for _, step := range steps {
		if whitespaceRegex.MatchString(step.Name) {
			return fmt.Errorf(`%w: %q`, ErrStepNameContainsWhitespaces, step.Name)
		}
		if stepNames[step.Name] {
			return fmt.Errorf(`%w: %q`, ErrDuplicateStepName, step.Name)
		}
		stepNames[step.Name] = true

		if err := step.ValidateExpressions(); err != nil {
			return err
		}
	}

	return nil
}
