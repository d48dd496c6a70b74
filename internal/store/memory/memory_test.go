package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raystack/guardian/core/appeal"
	"github.com/raystack/guardian/core/grant"
	"github.com/raystack/guardian/core/policy"
	"github.com/raystack/guardian/core/provider"
	"github.com/raystack/guardian/core/resource"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/internal/store/memory"
)

func TestAppealRepository(t *testing.T) {
	repo := memory.NewAppealRepository()
	ctx := context.Background()

	t.Run("should assign ids on create", func(t *testing.T) {
		a := &domain.Appeal{
			ResourceID: "resource-1",
			AccountID:  "user@example.com",
			Status:     domain.AppealStatusPending,
			Role:       "viewer",
			Approvals: []*domain.Approval{
				{Name: "step-1", Status: domain.ApprovalStatusPending},
			},
		}
		require.NoError(t, repo.Create(ctx, a))

		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Approvals[0].ID)
		assert.Equal(t, a.ID, a.Approvals[0].AppealID)

		stored, err := repo.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a, stored)
	})

	t.Run("should return not found for an unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "unknown")

		assert.ErrorIs(t, err, appeal.ErrAppealNotFound)
	})

	t.Run("should filter pending appeals by account, resource, and role", func(t *testing.T) {
		a := &domain.Appeal{
			ResourceID: "resource-2",
			AccountID:  "someone@example.com",
			Status:     domain.AppealStatusPending,
			Role:       "editor",
		}
		require.NoError(t, repo.Create(ctx, a))

		matches, err := repo.Find(ctx, &domain.ListAppealsFilter{
			AccountID:  "someone@example.com",
			ResourceID: "resource-2",
			Role:       "editor",
			Statuses:   []string{domain.AppealStatusPending},
		})
		require.NoError(t, err)
		assert.Len(t, matches, 1)

		none, err := repo.Find(ctx, &domain.ListAppealsFilter{
			AccountID: "someone@example.com",
			Statuses:  []string{domain.AppealStatusApproved},
		})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestPolicyRepository(t *testing.T) {
	repo := memory.NewPolicyRepository()
	ctx := context.Background()

	v1 := &domain.Policy{ID: "policy-1", Version: 1}
	v2 := &domain.Policy{ID: "policy-1", Version: 2}
	require.NoError(t, repo.Create(ctx, v1))
	require.NoError(t, repo.Create(ctx, v2))

	t.Run("should keep every version", func(t *testing.T) {
		got, err := repo.GetOne(ctx, "policy-1", 1)
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.Version)
	})

	t.Run("should resolve version 0 to the latest", func(t *testing.T) {
		got, err := repo.GetOne(ctx, "policy-1", 0)
		require.NoError(t, err)
		assert.Equal(t, uint(2), got.Version)
	})

	t.Run("should return not found for an unknown policy", func(t *testing.T) {
		_, err := repo.GetOne(ctx, "unknown", 0)
		assert.ErrorIs(t, err, policy.ErrPolicyNotFound)
	})
}

func TestProviderRepository(t *testing.T) {
	repo := memory.NewProviderRepository()
	ctx := context.Background()

	p := &domain.Provider{Type: "noop", URN: "urn", Config: &domain.ProviderConfig{Type: "noop", URN: "urn"}}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	t.Run("should look up by type and urn", func(t *testing.T) {
		got, err := repo.GetOne(ctx, "noop", "urn")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
	})

	t.Run("should return not found for an unknown pair", func(t *testing.T) {
		_, err := repo.GetOne(ctx, "noop", "other-urn")
		assert.ErrorIs(t, err, provider.ErrRecordNotFound)
	})
}

func TestResourceRepository(t *testing.T) {
	repo := memory.NewResourceRepository()
	ctx := context.Background()

	resources := []*domain.Resource{
		{ProviderType: "noop", ProviderURN: "urn", Type: "dataset", URN: "res-1"},
		{ProviderType: "noop", ProviderURN: "urn", Type: "table", URN: "res-2"},
	}
	require.NoError(t, repo.BulkUpsert(ctx, resources))

	t.Run("should assign ids on upsert", func(t *testing.T) {
		assert.NotEmpty(t, resources[0].ID)
		assert.NotEmpty(t, resources[1].ID)
	})

	t.Run("should filter by resource type", func(t *testing.T) {
		got, err := repo.Find(ctx, domain.ListResourcesFilter{ResourceTypes: []string{"dataset"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "res-1", got[0].URN)
	})

	t.Run("should return not found for an unknown id", func(t *testing.T) {
		_, err := repo.GetOne(ctx, "unknown")
		assert.ErrorIs(t, err, resource.ErrRecordNotFound)
	})
}

func TestGrantRepository(t *testing.T) {
	repo := memory.NewGrantRepository()
	ctx := context.Background()

	exp := time.Now().Add(-time.Hour)
	expired := &domain.Grant{
		Status:         domain.GrantStatusActive,
		AccountID:      "user@example.com",
		AppealID:       "appeal-1",
		ExpirationDate: &exp,
	}
	permanent := &domain.Grant{
		Status:      domain.GrantStatusActive,
		AccountID:   "user@example.com",
		AppealID:    "appeal-2",
		IsPermanent: true,
	}
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, permanent))

	t.Run("should list active grants past their expiration", func(t *testing.T) {
		falseBool := false
		got, err := repo.List(ctx, domain.ListGrantsFilter{
			Statuses:               []string{string(domain.GrantStatusActive)},
			ExpirationDateLessThan: time.Now(),
			IsPermanent:            &falseBool,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, expired.ID, got[0].ID)
	})

	t.Run("should return not found on updating an unknown grant", func(t *testing.T) {
		err := repo.Update(ctx, &domain.Grant{ID: "unknown"})
		assert.ErrorIs(t, err, grant.ErrGrantNotFound)
	})
}
