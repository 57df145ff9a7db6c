// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package cmd

import (
	l "github.com/kusaridev/tasklink/pkg/login"
	"github.com/spf13/cobra"
)

var assumeYes bool

func init() {
	logoutcmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}

var logoutcmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored sign-in",
	Long:  `Remove the refresh token from the OS keyring`,
}

func logout() *cobra.Command {
	logoutcmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		return l.Logout(cmd.OutOrStdout(), cfg, assumeYes, logger)
	}

	return logoutcmd
}
