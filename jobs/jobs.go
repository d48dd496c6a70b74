package jobs

import "github.com/mitchellh/mapstructure"

type Type string

const (
	TypeExpiringGrantNotification Type = "expiring_grant_notification"
	TypeRevokeExpiredGrants       Type = "revoke_expired_grants"
)

type Job struct {
	Type Type
	// Enabled is set as true for backward compatibility. If the job needs to
	// be disabled, it must be present in the config with this value as false.
	Enabled  bool   `mapstructure:"enabled" default:"true"`
	Interval string `mapstructure:"interval"`
	Config   Config `mapstructure:"config"`
}

// Config is a map of job-specific configuration
type Config map[string]interface{}

func (c Config) Decode(v interface{}) error {
	return mapstructure.Decode(c, v)
}
