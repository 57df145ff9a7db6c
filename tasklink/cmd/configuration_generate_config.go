package cmd

import (
	"fmt"

	"github.com/kusaridev/tasklink/pkg/configuration"
	"github.com/spf13/cobra"
)

var (
	forceWrite bool
)

func init() {
	generatecmd.Flags().BoolVarP(&forceWrite, "force", "f", false, "Force creation when file exists")
}

func generateConfig() *cobra.Command {
	generatecmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := configuration.GenerateConfig(forceWrite); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s, set client_id before signing in.\n", configuration.ConfigFilename)
		return nil
	}

	return generatecmd
}

var generatecmd = &cobra.Command{
	Use:   "generate-config",
	Short: fmt.Sprintf("Generate %s config file", configuration.ConfigFilename),
	Long: fmt.Sprintf("Generate a %s config file for tasklink "+
		"with default Google endpoints and keyring names.", configuration.ConfigFilename),
}
