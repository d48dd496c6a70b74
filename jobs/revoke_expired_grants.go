package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/audit"
)

type RevokeExpiredGrantsConfig struct {
	DryRun bool `mapstructure:"dry_run"`
}

// RevokeExpiredGrants is the durable backstop behind the in-process expiry
// timers: any active grant past its expiration date that still has no timer
// firing (e.g. after a restart) gets expired here.
func (h *handler) RevokeExpiredGrants(ctx context.Context, c Config) error {
	h.logger.Info(ctx, "running revoke expired grants job")

	var cfg RevokeExpiredGrantsConfig
	if err := c.Decode(&cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	falseBool := false
	filters := domain.ListGrantsFilter{
		Statuses:               []string{string(domain.GrantStatusActive)},
		ExpirationDateLessThan: time.Now(),
		IsPermanent:            &falseBool,
	}

	grants, err := h.grantService.List(ctx, filters)
	if err != nil {
		return err
	}
	h.logger.Info(ctx, "retrieved expired active grants", "count", len(grants))

	successRevoke := []string{}
	failedRevoke := []map[string]interface{}{}
	for _, g := range grants {
		if cfg.DryRun {
			h.logger.Info(ctx, "dry run enabled, skipping grant expiration", "id", g.ID)
			continue
		}
		ctx := audit.WithActor(ctx, domain.SystemActorName)
		if _, err := h.grantService.Expire(ctx, g.ID); err != nil {
			h.logger.Error(ctx, "failed to expire grant",
				"id", g.ID,
				"error", err,
			)
			failedRevoke = append(failedRevoke, map[string]interface{}{
				"id":    g.ID,
				"error": err.Error(),
			})
		} else {
			successRevoke = append(successRevoke, g.ID)
		}
	}

	if len(successRevoke) > 0 {
		h.logger.Info(ctx, "expired grants revoked", "count", len(successRevoke), "ids", successRevoke)
	}
	if len(failedRevoke) > 0 {
		h.logger.Info(ctx, "failed grant revocation", "count", len(failedRevoke), "ids", failedRevoke)
	}

	return nil
}
