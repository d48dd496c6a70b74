package identities

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// StaticClientConfig holds an inline user directory, keyed by user id. Useful
// for tests and deployments without an external identity service.
type StaticClientConfig struct {
	Users map[string]map[string]interface{} `mapstructure:"users" json:"users" yaml:"users" validate:"required"`
}

type StaticClient struct {
	users map[string]map[string]interface{}
}

func NewStaticClient(config *StaticClientConfig) (*StaticClient, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}
	return &StaticClient{users: config.Users}, nil
}

func (c *StaticClient) GetUser(userID string) (interface{}, error) {
	user, ok := c.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %q not found", userID)
	}
	return user, nil
}
