package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raystack/guardian/domain"
)

func TestGrant_Revoke(t *testing.T) {
	t.Run("should mark an active grant revoked", func(t *testing.T) {
		g := &domain.Grant{Status: domain.GrantStatusActive, RequiresManualRevoke: true}

		err := g.Revoke("admin@example.com", "no longer needed")

		require.NoError(t, err)
		assert.Equal(t, domain.GrantStatusRevoked, g.Status)
		assert.Equal(t, "admin@example.com", g.RevokedBy)
		assert.Equal(t, "no longer needed", g.RevokeReason)
		assert.False(t, g.RequiresManualRevoke)
		assert.NotNil(t, g.RevokedAt)
	})

	t.Run("should require an actor", func(t *testing.T) {
		g := &domain.Grant{Status: domain.GrantStatusActive}

		assert.Error(t, g.Revoke("", "reason"))
	})

	t.Run("should refuse on a non-active grant", func(t *testing.T) {
		g := &domain.Grant{Status: domain.GrantStatusExpired}

		err := g.Revoke("admin@example.com", "reason")

		assert.ErrorIs(t, err, domain.ErrGrantNotActive)
	})
}

func TestGrant_Expire(t *testing.T) {
	g := &domain.Grant{Status: domain.GrantStatusActive}

	err := g.Expire(domain.GrantExpirationReason)

	require.NoError(t, err)
	assert.Equal(t, domain.GrantStatusExpired, g.Status)
	assert.Equal(t, domain.SystemActorName, g.RevokedBy)
	assert.Equal(t, domain.GrantExpirationReason, g.RevokeReason)
}

func TestGrant_IsExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	assert.True(t, (&domain.Grant{ExpirationDate: &past}).IsExpired())
	assert.False(t, (&domain.Grant{ExpirationDate: &future}).IsExpired())
	assert.False(t, (&domain.Grant{IsPermanent: true, ExpirationDate: &past}).IsExpired())
	assert.False(t, (&domain.Grant{}).IsExpired())
}
