package cmd

import (
	"github.com/spf13/cobra"
)

func Auth() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and out",
		Long:  "Sign in to Google in the browser, check the stored session or sign out",
	}

	cmd.AddCommand(login())
	cmd.AddCommand(status())
	cmd.AddCommand(logout())

	return cmd
}
