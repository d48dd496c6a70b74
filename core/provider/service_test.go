package provider_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/raystack/guardian/core/provider"
	providermocks "github.com/raystack/guardian/core/provider/mocks"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/plugins/providers"
)

type ServiceTestSuite struct {
	suite.Suite
	mockRepository  *providermocks.Repository
	mockClient      *providermocks.Client
	mockAuditLogger *providermocks.AuditLogger

	service *provider.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.setup()
}

func (s *ServiceTestSuite) setup() {
	s.mockRepository = new(providermocks.Repository)
	s.mockClient = new(providermocks.Client)
	s.mockAuditLogger = new(providermocks.AuditLogger)
	s.mockClient.On("GetType").Return("noop")

	s.service = provider.NewService(provider.ServiceDeps{
		Repository:  s.mockRepository,
		Clients:     []provider.Client{s.mockClient},
		Validator:   validator.New(),
		Logger:      log.NewNoop(),
		AuditLogger: s.mockAuditLogger,
	})

	s.mockAuditLogger.On("Log", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (s *ServiceTestSuite) testProvider() *domain.Provider {
	return &domain.Provider{
		ID:   "provider-1",
		Type: "noop",
		URN:  "urn",
		Config: &domain.ProviderConfig{
			Type: "noop",
			URN:  "urn",
			Resources: []*domain.ResourceConfig{
				{
					Type:   "dataset",
					Policy: &domain.PolicyConfig{ID: "policy-1", Version: 1},
					Roles: []*domain.Role{
						{ID: "viewer", Name: "Viewer"},
					},
				},
			},
		},
	}
}

func (s *ServiceTestSuite) testGrant() domain.Grant {
	return domain.Grant{
		ID:        "grant-1",
		AccountID: "user@example.com",
		Role:      "viewer",
		Resource: &domain.Resource{
			ID:           "resource-1",
			ProviderType: "noop",
			ProviderURN:  "urn",
			Type:         "dataset",
			URN:          "res-urn",
		},
	}
}

func (s *ServiceTestSuite) TestCreate() {
	s.Run("should register a valid provider", func() {
		s.setup()
		p := s.testProvider()
		s.mockRepository.On("Create", mock.Anything, p).Return(nil).Once()

		err := s.service.Create(context.Background(), p)

		s.NoError(err)
		s.mockRepository.AssertExpectations(s.T())
	})

	s.Run("should reject a provider type without a registered client", func() {
		s.setup()
		p := s.testProvider()
		p.Type = "unregistered"

		err := s.service.Create(context.Background(), p)

		s.ErrorIs(err, provider.ErrInvalidProviderType)
	})

	s.Run("should reject a provider without a config", func() {
		s.setup()
		err := s.service.Create(context.Background(), &domain.Provider{Type: "noop", URN: "urn"})

		s.Error(err)
	})
}

func (s *ServiceTestSuite) TestValidateAppeal() {
	s.Run("should return error if the appeal has no resource", func() {
		s.setup()
		err := s.service.ValidateAppeal(context.Background(), &domain.Appeal{}, s.testProvider())

		s.ErrorIs(err, provider.ErrNilResource)
	})

	s.Run("should return error for an unconfigured resource type", func() {
		s.setup()
		a := &domain.Appeal{Resource: &domain.Resource{Type: "unknown-type"}}

		err := s.service.ValidateAppeal(context.Background(), a, s.testProvider())

		s.ErrorIs(err, provider.ErrInvalidResourceType)
	})

	s.Run("should return error for a role outside the resource config", func() {
		s.setup()
		a := &domain.Appeal{
			Resource: &domain.Resource{Type: "dataset"},
			Role:     "owner",
		}

		err := s.service.ValidateAppeal(context.Background(), a, s.testProvider())

		s.ErrorIs(err, provider.ErrInvalidRole)
	})

	s.Run("should delegate to the client for a valid appeal", func() {
		s.setup()
		a := &domain.Appeal{
			Resource: &domain.Resource{Type: "dataset"},
			Role:     "viewer",
		}
		s.mockClient.On("ValidateAppeal", mock.Anything, a).Return(nil).Once()

		err := s.service.ValidateAppeal(context.Background(), a, s.testProvider())

		s.NoError(err)
		s.mockClient.AssertExpectations(s.T())
	})

	s.Run("should call the client with a bounded deadline", func() {
		s.setup()
		a := &domain.Appeal{
			Resource: &domain.Resource{Type: "dataset"},
			Role:     "viewer",
		}
		var hasDeadline bool
		s.mockClient.On("ValidateAppeal", mock.Anything, a).
			Run(func(args mock.Arguments) {
				_, hasDeadline = args.Get(0).(context.Context).Deadline()
			}).Return(nil).Once()

		err := s.service.ValidateAppeal(context.Background(), a, s.testProvider())

		s.NoError(err)
		s.True(hasDeadline)
	})
}

func (s *ServiceTestSuite) TestGrantAccess() {
	s.Run("should return error if the grant has no resource", func() {
		s.setup()
		err := s.service.GrantAccess(context.Background(), domain.Grant{})

		s.ErrorIs(err, provider.ErrNilResource)
	})

	s.Run("should deliver the grant through the client", func() {
		s.setup()
		g := s.testGrant()
		s.mockClient.On("GrantAccess", mock.Anything, g).Return(nil).Once()

		err := s.service.GrantAccess(context.Background(), g)

		s.NoError(err)
		s.mockClient.AssertExpectations(s.T())
	})

	s.Run("should call the client with a bounded deadline", func() {
		s.setup()
		g := s.testGrant()
		var hasDeadline bool
		s.mockClient.On("GrantAccess", mock.Anything, g).
			Run(func(args mock.Arguments) {
				_, hasDeadline = args.Get(0).(context.Context).Deadline()
			}).Return(nil).Once()

		err := s.service.GrantAccess(context.Background(), g)

		s.NoError(err)
		s.True(hasDeadline)
	})

	s.Run("should give up on a client that never returns", func() {
		s.setup()
		restore := provider.ClientCallTimeout
		provider.ClientCallTimeout = 50 * time.Millisecond
		defer func() { provider.ClientCallTimeout = restore }()

		g := s.testGrant()
		s.mockClient.On("GrantAccess", mock.Anything, g).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).Return(providers.NewPermanentError(context.DeadlineExceeded))

		start := time.Now()
		err := s.service.GrantAccess(context.Background(), g)

		s.Error(err)
		s.Less(time.Since(start), 2*time.Second)
	})

	s.Run("should retry a transient failure", func() {
		s.setup()
		g := s.testGrant()
		s.mockClient.On("GrantAccess", mock.Anything, g).
			Return(errors.New("connection reset")).Once()
		s.mockClient.On("GrantAccess", mock.Anything, g).Return(nil).Once()

		err := s.service.GrantAccess(context.Background(), g)

		s.NoError(err)
		s.mockClient.AssertNumberOfCalls(s.T(), "GrantAccess", 2)
	})

	s.Run("should not retry a permanent failure", func() {
		s.setup()
		g := s.testGrant()
		expectedError := errors.New("role does not exist")
		s.mockClient.On("GrantAccess", mock.Anything, g).
			Return(providers.NewPermanentError(expectedError)).Once()

		err := s.service.GrantAccess(context.Background(), g)

		s.Error(err)
		s.mockClient.AssertNumberOfCalls(s.T(), "GrantAccess", 1)
	})
}

func (s *ServiceTestSuite) TestRevokeAccess() {
	s.Run("should revoke through the client", func() {
		s.setup()
		g := s.testGrant()
		s.mockClient.On("RevokeAccess", mock.Anything, g).Return(nil).Once()

		err := s.service.RevokeAccess(context.Background(), g)

		s.NoError(err)
		s.mockClient.AssertExpectations(s.T())
	})
}

func (s *ServiceTestSuite) TestGetPolicyConfig() {
	s.Run("should resolve the policy mapped to the resource type", func() {
		s.setup()
		p := s.testProvider()

		policyConfig, err := s.service.GetPolicyConfig(p, "dataset")

		s.NoError(err)
		s.Equal("policy-1", policyConfig.ID)
		s.Equal(1, policyConfig.Version)
	})

	s.Run("should return error for an unconfigured resource type", func() {
		s.setup()
		_, err := s.service.GetPolicyConfig(s.testProvider(), "unknown-type")

		s.ErrorIs(err, provider.ErrInvalidResourceType)
	})

	s.Run("should return error when the resource type has no policy", func() {
		s.setup()
		p := s.testProvider()
		p.Config.Resources[0].Policy = nil

		_, err := s.service.GetPolicyConfig(p, "dataset")

		s.ErrorIs(err, provider.ErrUnknownProviderPolicy)
	})
}

func TestService(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
