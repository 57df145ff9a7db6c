// =============================================================================
// pkg/config/config.go
// =============================================================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/kusaridev/tasklink/api/configuration"
	configgen "github.com/kusaridev/tasklink/pkg/configuration"
	"github.com/spf13/viper"
)

// Keys understood by the configuration layer. Each maps to a yaml key in
// tasklink.yaml and a TASKLINK_ environment variable.
const (
	KeyClientID       = "client_id"
	KeyClientSecret   = "client_secret"
	KeyScope          = "scope"
	KeyAuthURL        = "auth_url"
	KeyTokenURL       = "token_url"
	KeyIssuer         = "issuer"
	KeyTasksURL       = "tasks_url"
	KeyKeyringService = "keyring_service"
	KeyKeyringAccount = "keyring_account"
)

// ErrMissingClientID is returned when no client id was configured anywhere.
var ErrMissingClientID = errors.New("client_id is not configured (use --client-id, TASKLINK_CLIENT_ID or tasklink.yaml)")

// Setup registers defaults, the config file search path and environment
// lookup on v.
func Setup(v *viper.Viper, envPrefix string) {
	defaults := configgen.DefaultConfig()
	v.SetDefault(KeyClientID, defaults.ClientID)
	v.SetDefault(KeyClientSecret, defaults.ClientSecret)
	v.SetDefault(KeyScope, defaults.Scope)
	v.SetDefault(KeyAuthURL, defaults.AuthURL)
	v.SetDefault(KeyTokenURL, defaults.TokenURL)
	v.SetDefault(KeyIssuer, defaults.Issuer)
	v.SetDefault(KeyTasksURL, defaults.TasksURL)
	v.SetDefault(KeyKeyringService, defaults.KeyringService)
	v.SetDefault(KeyKeyringAccount, defaults.KeyringAccount)

	v.SetConfigName(strings.TrimSuffix(configgen.ConfigFilename, filepath.Ext(configgen.ConfigFilename)))
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "tasklink"))
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
}

// Load reads the config file, if one exists, and returns the merged and
// validated configuration.
func Load(v *viper.Viper) (*configuration.Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg configuration.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command needs.
func Validate(cfg *configuration.Config) error {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return ErrMissingClientID
	}

	urls := map[string]string{KeyTasksURL: cfg.TasksURL}
	if cfg.Issuer != "" {
		urls[KeyIssuer] = cfg.Issuer
	} else {
		urls[KeyAuthURL] = cfg.AuthURL
		urls[KeyTokenURL] = cfg.TokenURL
	}
	for key, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
		}
	}
	return nil
}
