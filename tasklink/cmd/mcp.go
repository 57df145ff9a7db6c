// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/kusaridev/tasklink/pkg/mcpserver"
	"github.com/spf13/cobra"
)

func MCP() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the sign-in and task tools over MCP",
		Long:  "Run an MCP server on stdin/stdout exposing sign_in, restore_session, sign_out and list_tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// logs go to stderr, stdout carries the protocol
			server := mcpserver.New(cfg, mcpserver.WithLogger(logger), mcpserver.WithVersion(version))
			return server.Run(cmd.Context())
		},
	}
}
