// Copyright Kusari, Inc. and contributors <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/kusaridev/tasklink/pkg/configuration"
	"github.com/spf13/cobra"
)

func updateConfig() *cobra.Command {
	updatecmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		return configuration.UpdateConfig()
	}

	return updatecmd
}

var updatecmd = &cobra.Command{
	Use:   "update",
	Short: fmt.Sprintf("Update %s config file", configuration.ConfigFilename),
	Long: fmt.Sprintf("Add defaults for settings missing from an existing %s "+
		"and keep every value already set.", configuration.ConfigFilename),
	Aliases: []string{"update-config"},
}
