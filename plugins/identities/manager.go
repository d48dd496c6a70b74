package identities

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/raystack/guardian/domain"
)

var (
	ErrInvalidConfig       = errors.New("invalid client config")
	ErrUnknownProviderType = errors.New("unknown identity provider type")
)

type manager struct{}

func NewManager() *manager {
	return &manager{}
}

func (m *manager) ParseConfig(iamConfig *domain.IAMConfig) (interface{}, error) {
	switch iamConfig.Provider {
	case domain.IAMProviderTypeHTTP:
		var clientConfig HTTPClientConfig
		if err := mapstructure.Decode(iamConfig.Config, &clientConfig); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
		}
		return &clientConfig, nil
	case domain.IAMProviderTypeStatic:
		var clientConfig StaticClientConfig
		if err := mapstructure.Decode(iamConfig.Config, &clientConfig); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
		}
		return &clientConfig, nil
	}
	return nil, ErrUnknownProviderType
}

func (m *manager) GetClient(config interface{}) (domain.IAMClient, error) {
	if clientConfig, ok := config.(*HTTPClientConfig); ok {
		return NewHTTPClient(clientConfig)
	}
	if clientConfig, ok := config.(*StaticClientConfig); ok {
		return NewStaticClient(clientConfig)
	}

	return nil, ErrInvalidConfig
}
