package domain

import "time"

// Provider is a registered external system owning resources. Its type selects
// the capability contract implementation used for validate/grant/revoke.
type Provider struct {
	ID     string          `json:"id" yaml:"id"`
	Type   string          `json:"type" yaml:"type" validate:"required"`
	URN    string          `json:"urn" yaml:"urn" validate:"required"`
	Config *ProviderConfig `json:"config" yaml:"config" validate:"required"`

	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

type ProviderConfig struct {
	Type        string                 `json:"type" yaml:"type" validate:"required"`
	URN         string                 `json:"urn" yaml:"urn" validate:"required"`
	Credentials interface{}            `json:"credentials,omitempty" yaml:"credentials,omitempty"`
	Resources   []*ResourceConfig      `json:"resources,omitempty" yaml:"resources,omitempty" validate:"omitempty,dive"`
	Parameters  map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type ResourceConfig struct {
	Type   string        `json:"type" yaml:"type" validate:"required"`
	Policy *PolicyConfig `json:"policy,omitempty" yaml:"policy,omitempty"`
	Roles  []*Role       `json:"roles,omitempty" yaml:"roles,omitempty" validate:"omitempty,dive"`
}

// PolicyConfig pins a resource type to an approval policy version. Version 0
// means latest at appeal-creation time.
type PolicyConfig struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	Version int    `json:"version" yaml:"version"`
}

type Role struct {
	ID          string        `json:"id" yaml:"id" validate:"required"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Permissions []interface{} `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

type ListProvidersFilter struct {
	Types []string `mapstructure:"types" validate:"omitempty,min=1"`
	URNs  []string `mapstructure:"urns" validate:"omitempty,min=1"`
}
