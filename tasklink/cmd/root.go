// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/kusaridev/tasklink/api/configuration"
	"github.com/kusaridev/tasklink/pkg/config"
	"github.com/kusaridev/tasklink/pkg/constants"
	"github.com/kusaridev/tasklink/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is set at build time with -ldflags "-X ...cmd.version=..."
var version = "dev"

var (
	verbose bool
	logger  = slog.Default()
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("client-id", "", "OAuth2 client ID")
	rootCmd.PersistentFlags().String("client-secret", "", "OAuth2 client secret")
	rootCmd.PersistentFlags().String("auth-url", "", "authorization endpoint URL")
	rootCmd.PersistentFlags().String("token-url", "", "token endpoint URL")
	rootCmd.PersistentFlags().String("issuer", "", "OIDC issuer URL, discovers the auth and token endpoints")
	rootCmd.PersistentFlags().String("tasks-url", "", "Google Tasks API base URL")

	// Bind flags to viper
	mustBindPFlag(config.KeyClientID, rootCmd.PersistentFlags().Lookup("client-id"))
	mustBindPFlag(config.KeyClientSecret, rootCmd.PersistentFlags().Lookup("client-secret"))
	mustBindPFlag(config.KeyAuthURL, rootCmd.PersistentFlags().Lookup("auth-url"))
	mustBindPFlag(config.KeyTokenURL, rootCmd.PersistentFlags().Lookup("token-url"))
	mustBindPFlag(config.KeyIssuer, rootCmd.PersistentFlags().Lookup("issuer"))
	mustBindPFlag(config.KeyTasksURL, rootCmd.PersistentFlags().Lookup("tasks-url"))

	config.Setup(viper.GetViper(), constants.EnvPrefix)
}

var rootCmd = &cobra.Command{
	Use:     "tasklink",
	Short:   "tasklink CLI",
	Long:    "tasklink - sign in to Google from the terminal and work with your Google Tasks",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(verbose, os.Stderr)
	},
}

func Execute(ctx context.Context) error {
	rootCmd.AddCommand(Auth())
	rootCmd.AddCommand(Tasks())
	rootCmd.AddCommand(TasklinkConfiguration())
	rootCmd.AddCommand(MCP())

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig merges flags, TASKLINK_ environment variables, tasklink.yaml and
// defaults.
func loadConfig() (*configuration.Config, error) {
	return config.Load(viper.GetViper())
}

func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
