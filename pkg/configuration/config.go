// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package configuration

import (
	"errors"
	"fmt"
	"os"

	"github.com/kusaridev/tasklink/api/configuration"
	"github.com/kusaridev/tasklink/pkg/auth"
	"github.com/kusaridev/tasklink/pkg/constants"
	"gopkg.in/yaml.v3"
)

const ConfigFilename = "tasklink.yaml"

var ErrFileExists = fmt.Errorf("file %s exists, not overwriting (specify '--force' to overwrite)", ConfigFilename)

// DefaultConfig returns the configuration written by generate-config.
func DefaultConfig() configuration.Config {
	return configuration.Config{
		Scope:          auth.DefaultScope,
		AuthURL:        constants.DefaultAuthURL,
		TokenURL:       constants.DefaultTokenURL,
		TasksURL:       constants.DefaultTasksURL,
		KeyringService: auth.DefaultKeyringService,
		KeyringAccount: auth.DefaultKeyringAccount,
	}
}

func GenerateConfig(forceWrite bool) error {
	// check to see if the config file already exists
	_, err := os.Stat(ConfigFilename)
	if (err == nil) && !forceWrite {
		return ErrFileExists
	}

	return writeConfig(DefaultConfig())
}

// UpdateConfig adds defaults for any key missing from an existing config file
// and keeps every value already set. It generates a new file when none exists.
func UpdateConfig() error {
	data, err := os.ReadFile(ConfigFilename)
	if errors.Is(err, os.ErrNotExist) {
		return GenerateConfig(false)
	}
	if err != nil {
		return fmt.Errorf("error reading %s: %w", ConfigFilename, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("error parsing %s: %w", ConfigFilename, err)
	}

	return writeConfig(cfg)
}

func writeConfig(cfg configuration.Config) error {
	cfgYaml, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshing config yaml: %w", err)
	}

	// the file may hold a client secret
	return os.WriteFile(ConfigFilename, cfgYaml, 0600)
}
