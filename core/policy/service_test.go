package policy_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/raystack/guardian/core/policy"
	policymocks "github.com/raystack/guardian/core/policy/mocks"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/plugins/identities"
)

type ServiceTestSuite struct {
	suite.Suite
	mockRepository  *policymocks.Repository
	mockAuditLogger *policymocks.AuditLogger

	service *policy.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.setup()
}

func (s *ServiceTestSuite) setup() {
	s.mockRepository = new(policymocks.Repository)
	s.mockAuditLogger = new(policymocks.AuditLogger)

	s.service = policy.NewService(policy.ServiceDeps{
		Repository:  s.mockRepository,
		IAMManager:  identities.NewManager(),
		Validator:   validator.New(),
		Logger:      log.NewNoop(),
		AuditLogger: s.mockAuditLogger,
	})

	s.mockAuditLogger.On("Log", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (s *ServiceTestSuite) validPolicy() *domain.Policy {
	return &domain.Policy{
		ID: "bigquery-approval",
		Steps: []*domain.Step{
			{
				Name:      "resource-owner",
				Strategy:  domain.ApprovalStepStrategyAny,
				Approvers: []string{"$resource.details.owner"},
			},
			{
				Name:      "admin",
				Strategy:  domain.ApprovalStepStrategyAll,
				Approvers: []string{"admin@example.com"},
			},
		},
	}
}

func (s *ServiceTestSuite) TestCreate() {
	s.Run("should store the policy as version 1", func() {
		s.setup()
		p := s.validPolicy()
		s.mockRepository.On("Create", mock.Anything, p).Return(nil).Once()

		err := s.service.Create(context.Background(), p)

		s.NoError(err)
		s.Equal(uint(1), p.Version)
		s.mockRepository.AssertExpectations(s.T())
	})

	s.Run("should reject a policy id containing whitespace", func() {
		s.setup()
		p := s.validPolicy()
		p.ID = "my policy"

		err := s.service.Create(context.Background(), p)

		s.ErrorIs(err, policy.ErrIDContainsWhitespaces)
	})

	s.Run("should reject a step name containing whitespace", func() {
		s.setup()
		p := s.validPolicy()
		p.Steps[0].Name = "resource owner"

		err := s.service.Create(context.Background(), p)

		s.ErrorIs(err, policy.ErrStepNameContainsWhitespaces)
	})

	s.Run("should reject duplicate step names", func() {
		s.setup()
		p := s.validPolicy()
		p.Steps[1].Name = p.Steps[0].Name

		err := s.service.Create(context.Background(), p)

		s.ErrorIs(err, policy.ErrDuplicateStepName)
	})

	s.Run("should reject a policy without steps", func() {
		s.setup()
		p := s.validPolicy()
		p.Steps = nil

		err := s.service.Create(context.Background(), p)

		s.Error(err)
	})

	s.Run("should reject an auto step with a broken approve_if expression", func() {
		s.setup()
		p := s.validPolicy()
		p.Steps = []*domain.Step{
			{
				Name:      "auto",
				Strategy:  domain.ApprovalStepStrategyAuto,
				ApproveIf: `$appeal.role ==`,
			},
		}

		err := s.service.Create(context.Background(), p)

		s.Error(err)
	})

	s.Run("should reject an unparseable iam config", func() {
		s.setup()
		p := s.validPolicy()
		p.IAM = &domain.IAMConfig{
			Provider: "unknown",
			Config:   map[string]interface{}{},
		}

		err := s.service.Create(context.Background(), p)

		s.Error(err)
	})
}

func (s *ServiceTestSuite) TestGetOne() {
	s.Run("should return error if id is empty", func() {
		s.setup()
		actualResult, actualError := s.service.GetOne(context.Background(), "", 0)

		s.Nil(actualResult)
		s.ErrorIs(actualError, policy.ErrEmptyIDParam)
	})

	s.Run("should pass version 0 through for latest", func() {
		s.setup()
		expected := s.validPolicy()
		s.mockRepository.On("GetOne", mock.Anything, expected.ID, uint(0)).Return(expected, nil).Once()

		actual, err := s.service.GetOne(context.Background(), expected.ID, 0)

		s.NoError(err)
		s.Equal(expected, actual)
	})
}

func (s *ServiceTestSuite) TestUpdate() {
	s.Run("should store a new version on top of the latest", func() {
		s.setup()
		p := s.validPolicy()
		latest := s.validPolicy()
		latest.Version = 4
		s.mockRepository.On("GetOne", mock.Anything, p.ID, uint(0)).Return(latest, nil).Once()
		s.mockRepository.On("Create", mock.Anything, p).Return(nil).Once()

		err := s.service.Update(context.Background(), p)

		s.NoError(err)
		s.Equal(uint(5), p.Version)
	})

	s.Run("should return error if id is empty", func() {
		s.setup()
		p := s.validPolicy()
		p.ID = ""

		err := s.service.Update(context.Background(), p)

		s.ErrorIs(err, policy.ErrEmptyIDParam)
	})
}

func TestService(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
