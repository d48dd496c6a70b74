//go:generate mockery --name=grantService --exported
//go:generate mockery --name=notifier --exported

package jobs

import (
	"context"

	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/plugins/notifiers"
)

type grantService interface {
	List(context.Context, domain.ListGrantsFilter) ([]domain.Grant, error)
	Expire(ctx context.Context, id string) (*domain.Grant, error)
}

type notifier interface {
	notifiers.Client
}

type handler struct {
	logger       log.Logger
	grantService grantService
	notifier     notifier
}

func NewHandler(
	logger log.Logger,
	grantService grantService,
	notifier notifier,
) *handler {
	return &handler{
		logger:       logger,
		grantService: grantService,
		notifier:     notifier,
	}
}
