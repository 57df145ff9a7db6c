// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package cmd

import (
	l "github.com/kusaridev/tasklink/pkg/login"
	"github.com/spf13/cobra"
)

var (
	loginScope    string
	loginIdentity bool
)

func init() {
	logincmd.Flags().StringVarP(&loginScope, "scope", "s", "", "space separated OAuth scopes (defaults to the configured scope)")
	logincmd.Flags().BoolVar(&loginIdentity, "identity", false, "also request the openid and email scopes so auth status can show the account")
}

var logincmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your browser",
	Long:  `Open the system browser to sign in and store the refresh token in the OS keyring`,
}

func login() *cobra.Command {
	logincmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		return l.Login(cmd.Context(), cmd.OutOrStdout(), cfg, loginScope, loginIdentity, logger)
	}

	return logincmd
}
