package noop

import (
	"context"
	"errors"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
)

const ProviderType = "noop"

var ErrInvalidCredentials = errors.New("credentials should be empty")

// Provider satisfies the capability contract without touching any external
// system. Useful for policy dry-runs and tests.
type Provider struct {
	typeName string

	logger log.Logger
}

func NewProvider(typeName string, logger log.Logger) *Provider {
	return &Provider{
		typeName: typeName,

		logger: logger,
	}
}

func (p *Provider) GetType() string {
	return p.typeName
}

func (p *Provider) ValidateAppeal(ctx context.Context, a *domain.Appeal) error {
	p.logger.Debug(ctx, "validating appeal", "appeal_id", a.ID, "resource_id", a.ResourceID)
	return nil
}

func (p *Provider) GrantAccess(ctx context.Context, g domain.Grant) error {
	p.logger.Info(ctx, "granting access", "account_id", g.AccountID, "resource_id", g.ResourceID, "role", g.Role)
	return nil
}

func (p *Provider) RevokeAccess(ctx context.Context, g domain.Grant) error {
	p.logger.Info(ctx, "revoking access", "account_id", g.AccountID, "resource_id", g.ResourceID, "role", g.Role)
	return nil
}
