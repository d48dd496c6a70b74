package notifiers

import (
	"context"
	"errors"

	"github.com/mitchellh/mapstructure"
	"github.com/raystack/guardian/domain"
	"github.com/raystack/guardian/pkg/log"
)

type Client interface {
	Notify(context.Context, []domain.Notification) []error
}

const (
	ProviderTypeLog = "log"
)

type Config struct {
	Provider string `mapstructure:"provider" validate:"omitempty,oneof=log"`
}

func (c *Config) Decode(v interface{}) error {
	return mapstructure.Decode(c, v)
}

func NewClient(config *Config, logger log.Logger) (Client, error) {
	switch config.Provider {
	case ProviderTypeLog, "":
		return NewLogNotifier(logger), nil
	}

	return nil, errors.New("invalid notifier provider type")
}
