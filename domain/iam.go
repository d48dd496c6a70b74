package domain

const (
	IAMProviderTypeHTTP   = "http"
	IAMProviderTypeStatic = "static"
)

// IAMConfig is the identity manager configuration attached to a policy.
type IAMConfig struct {
	Provider string      `json:"provider" yaml:"provider" validate:"required,oneof=http static"`
	Config   interface{} `json:"config" yaml:"config" validate:"required"`
}

// IAMClient resolves a user identity into the attribute map used by policy
// expressions under the $requester namespace.
type IAMClient interface {
	GetUser(id string) (interface{}, error)
}

// IAMManager parses an IAMConfig and produces a ready client.
type IAMManager interface {
	ParseConfig(*IAMConfig) (interface{}, error)
	GetClient(config interface{}) (IAMClient, error)
}
