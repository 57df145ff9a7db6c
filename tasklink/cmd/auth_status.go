// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package cmd

import (
	l "github.com/kusaridev/tasklink/pkg/login"
	"github.com/spf13/cobra"
)

var statuscmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a stored sign-in can be restored",
	Long:  `Restore the session from the stored refresh token and report the result`,
}

func status() *cobra.Command {
	statuscmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		return l.Status(cmd.Context(), cmd.OutOrStdout(), cfg, logger)
	}

	return statuscmd
}
