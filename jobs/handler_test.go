package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/jobs"
	jobsmocks "github.com/raystack/guardian/jobs/mocks"
	"github.com/raystack/guardian/pkg/log"
)

func TestRevokeExpiredGrants(t *testing.T) {
	t.Run("should expire every overdue grant", func(t *testing.T) {
		mockGrantService := new(jobsmocks.GrantService)
		mockNotifier := new(jobsmocks.Notifier)
		h := jobs.NewHandler(log.NewNoop(), mockGrantService, mockNotifier)

		expiredGrants := []domain.Grant{
			{ID: "grant-1"},
			{ID: "grant-2"},
		}
		mockGrantService.On("List", mock.Anything, mock.AnythingOfType("domain.ListGrantsFilter")).
			Return(expiredGrants, nil).Once()
		mockGrantService.On("Expire", mock.Anything, "grant-1").Return(&expiredGrants[0], nil).Once()
		mockGrantService.On("Expire", mock.Anything, "grant-2").Return(&expiredGrants[1], nil).Once()

		err := h.RevokeExpiredGrants(context.Background(), jobs.Config{})

		require.NoError(t, err)
		mockGrantService.AssertExpectations(t)
	})

	t.Run("should not expire anything on dry run", func(t *testing.T) {
		mockGrantService := new(jobsmocks.GrantService)
		mockNotifier := new(jobsmocks.Notifier)
		h := jobs.NewHandler(log.NewNoop(), mockGrantService, mockNotifier)

		mockGrantService.On("List", mock.Anything, mock.AnythingOfType("domain.ListGrantsFilter")).
			Return([]domain.Grant{{ID: "grant-1"}}, nil).Once()

		err := h.RevokeExpiredGrants(context.Background(), jobs.Config{"dry_run": true})

		require.NoError(t, err)
		mockGrantService.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything)
	})

	t.Run("should keep going when one grant fails to expire", func(t *testing.T) {
		mockGrantService := new(jobsmocks.GrantService)
		mockNotifier := new(jobsmocks.Notifier)
		h := jobs.NewHandler(log.NewNoop(), mockGrantService, mockNotifier)

		expiredGrants := []domain.Grant{
			{ID: "grant-1"},
			{ID: "grant-2"},
		}
		mockGrantService.On("List", mock.Anything, mock.AnythingOfType("domain.ListGrantsFilter")).
			Return(expiredGrants, nil).Once()
		mockGrantService.On("Expire", mock.Anything, "grant-1").
			Return(nil, errors.New("provider unreachable")).Once()
		mockGrantService.On("Expire", mock.Anything, "grant-2").Return(&expiredGrants[1], nil).Once()

		err := h.RevokeExpiredGrants(context.Background(), jobs.Config{})

		require.NoError(t, err)
		mockGrantService.AssertExpectations(t)
	})

	t.Run("should fail when listing grants fails", func(t *testing.T) {
		mockGrantService := new(jobsmocks.GrantService)
		mockNotifier := new(jobsmocks.Notifier)
		h := jobs.NewHandler(log.NewNoop(), mockGrantService, mockNotifier)

		expectedError := errors.New("store unavailable")
		mockGrantService.On("List", mock.Anything, mock.AnythingOfType("domain.ListGrantsFilter")).
			Return(nil, expectedError).Once()

		err := h.RevokeExpiredGrants(context.Background(), jobs.Config{})

		assert.ErrorIs(t, err, expectedError)
	})
}

func TestGrantExpirationReminder(t *testing.T) {
	t.Run("should notify owners of grants expiring soon", func(t *testing.T) {
		mockGrantService := new(jobsmocks.GrantService)
		mockNotifier := new(jobsmocks.Notifier)
		h := jobs.NewHandler(log.NewNoop(), mockGrantService, mockNotifier)

		exp := time.Now().AddDate(0, 0, 7)
		expiringGrant := domain.Grant{
			ID:             "grant-1",
			AppealID:       "appeal-1",
			AccountID:      "user@example.com",
			Owner:          "user@example.com",
			Role:           "viewer",
			ExpirationDate: &exp,
			Resource: &domain.Resource{
				Name:         "playground",
				ProviderType: "noop",
				URN:          "res-urn",
			},
		}
		// one window returns the grant, the other two return nothing
		mockGrantService.On("List", mock.Anything, mock.AnythingOfType("domain.ListGrantsFilter")).
			Return([]domain.Grant{expiringGrant}, nil).Once()
		mockGrantService.On("List", mock.Anything, mock.AnythingOfType("domain.ListGrantsFilter")).
			Return(nil, nil).Twice()

		var gotNotifications []domain.Notification
		mockNotifier.On("Notify", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				if ns, ok := args.Get(1).([]domain.Notification); ok && len(ns) > 0 {
					gotNotifications = append(gotNotifications, ns...)
				}
			}).Return(nil).Times(3)

		err := h.GrantExpirationReminder(context.Background(), jobs.Config{})

		require.NoError(t, err)
		require.Len(t, gotNotifications, 1)
		n := gotNotifications[0]
		assert.Equal(t, "user@example.com", n.User)
		assert.Equal(t, domain.NotificationTypeGrantExpiring, n.Message.Type)
		assert.Equal(t, "grant-1", n.Labels["grant_id"])
	})
}
