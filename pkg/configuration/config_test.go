// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package configuration

import (
	"os"
	"testing"

	"github.com/kusaridev/tasklink/api/configuration"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// chdirTemp moves into a fresh temporary directory for the duration of the test
func chdirTemp(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func readConfig(t *testing.T) configuration.Config {
	data, err := os.ReadFile(ConfigFilename)
	require.NoError(t, err)
	var cfg configuration.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	return cfg
}

// Test generating a new file when none exists
func TestGenerate(t *testing.T) {
	chdirTemp(t)
	require.NoFileExists(t, ConfigFilename)

	require.NoError(t, GenerateConfig(false))
	require.Equal(t, DefaultConfig(), readConfig(t))

	info, err := os.Stat(ConfigFilename)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// Test generating a new file when one exists
func TestGenerateWithExisting(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(ConfigFilename, []byte("client_id: mine\n"), 0600))

	// Try to generate a new file when one exists. This should fail.
	require.ErrorIs(t, GenerateConfig(false), ErrFileExists)
	require.Equal(t, "mine", readConfig(t).ClientID)

	// Try to force overwriting the existing file. This should succeed.
	require.NoError(t, GenerateConfig(true))
	require.Equal(t, DefaultConfig(), readConfig(t))
}

// Test that update produces a default config file when none already exists
func TestUpdateWithNoFile(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, UpdateConfig())
	require.Equal(t, DefaultConfig(), readConfig(t))
}

// Test that update keeps set values and fills in the rest
func TestUpdateWithExisting(t *testing.T) {
	chdirTemp(t)
	existing := "client_id: 123.apps.googleusercontent.com\nscope: openid\n"
	require.NoError(t, os.WriteFile(ConfigFilename, []byte(existing), 0600))

	require.NoError(t, UpdateConfig())

	expected := DefaultConfig()
	expected.ClientID = "123.apps.googleusercontent.com"
	expected.Scope = "openid"
	require.Equal(t, expected, readConfig(t))
}

func TestUpdateWithInvalidFile(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(ConfigFilename, []byte("client_id: [unterminated\n"), 0600))

	require.ErrorContains(t, UpdateConfig(), "error parsing")
}
