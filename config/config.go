package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raystack/salt/config"

	"github.com/raystack/guardian/jobs"
	"github.com/raystack/guardian/plugins/notifiers"
	httpprovider "github.com/raystack/guardian/plugins/providers/http"
)

type Jobs struct {
	RevokeExpiredGrants       jobs.Job `mapstructure:"revoke_expired_grants"`
	ExpiringGrantNotification jobs.Job `mapstructure:"expiring_grant_notification"`
}

// Providers configures the optional provider clients registered at boot. The
// noop provider is always registered.
type Providers struct {
	HTTP *httpprovider.ClientConfig `mapstructure:"http"`
}

type Config struct {
	LogLevel  string           `mapstructure:"log_level" default:"info"`
	Notifier  notifiers.Config `mapstructure:"notifier"`
	Providers Providers        `mapstructure:"providers"`
	Jobs      Jobs             `mapstructure:"jobs"`
}

func Load(configFileFromFlag string) (Config, error) {
	var cfg Config
	var options []config.LoaderOption
	options = append(options, config.WithName("config"))
	options = append(options, config.WithEnvKeyReplacer(".", "_"))
	options = append(options, config.WithEnvPrefix("GUARDIAN"))
	if p, err := os.Getwd(); err == nil {
		options = append(options, config.WithPath(p))
	}
	if execPath, err := os.Executable(); err == nil {
		options = append(options, config.WithPath(filepath.Dir(execPath)))
	}
	if currentHomeDir, err := os.UserHomeDir(); err == nil {
		options = append(options, config.WithPath(currentHomeDir))
		options = append(options, config.WithPath(filepath.Join(currentHomeDir, ".config")))
	}

	// override all config sources and prioritize one from file
	if configFileFromFlag != "" {
		options = append(options, config.WithFile(configFileFromFlag))
	}

	loader := config.NewLoader(options...)

	if err := loader.Load(&cfg); err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			fmt.Println(err)
			return cfg, nil
		}
		return Config{}, err
	}

	return cfg, nil
}
