package domain

import (
	"time"

	"github.com/raystack/guardian/utils"
)

// Resource is an inventory item owned by an external provider. The catalog
// itself is synchronized outside of this engine; appeals only read it.
type Resource struct {
	ID           string                 `json:"id" yaml:"id"`
	ProviderType string                 `json:"provider_type" yaml:"provider_type"`
	ProviderURN  string                 `json:"provider_urn" yaml:"provider_urn"`
	Type         string                 `json:"type" yaml:"type"`
	URN          string                 `json:"urn" yaml:"urn"`
	Name         string                 `json:"name" yaml:"name"`
	Details      map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Labels       map[string]string      `json:"labels,omitempty" yaml:"labels,omitempty"`
	CreatedAt    time.Time              `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func (r *Resource) ToMap() (map[string]interface{}, error) {
	return utils.StructToMap(r)
}

type ResourceIdentifier struct {
	ProviderType string `json:"provider_type" yaml:"provider_type" validate:"required_with=ProviderURN Type URN"`
	ProviderURN  string `json:"provider_urn" yaml:"provider_urn" validate:"required_with=ProviderType Type URN"`
	Type         string `json:"type" yaml:"type" validate:"required_with=ProviderType ProviderURN URN"`
	URN          string `json:"urn" yaml:"urn" validate:"required_with=ProviderType ProviderURN Type"`
	ID           string `json:"id" yaml:"id" validate:"required_without_all=ProviderType ProviderURN Type URN"`
}

type ListResourcesFilter struct {
	IDs           []string `mapstructure:"ids" validate:"omitempty,min=1"`
	ProviderTypes []string `mapstructure:"provider_types" validate:"omitempty,min=1"`
	ProviderURNs  []string `mapstructure:"provider_urns" validate:"omitempty,min=1"`
	ResourceTypes []string `mapstructure:"resource_types" validate:"omitempty,min=1"`
	ResourceURNs  []string `mapstructure:"resource_urns" validate:"omitempty,min=1"`
}
