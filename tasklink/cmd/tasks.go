// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/kusaridev/tasklink/api/configuration"
	l "github.com/kusaridev/tasklink/pkg/login"
	"github.com/kusaridev/tasklink/pkg/tasks"
	"github.com/spf13/cobra"
)

const (
	outputMarkdown = "markdown"
	outputJSON     = "json"
)

var (
	listAll    bool
	listID     string
	listOutput string
)

func init() {
	listcmd.Flags().BoolVarP(&listAll, "all", "a", false, "list the tasks of every task list")
	listcmd.Flags().StringVarP(&listID, "list", "l", "", "task list id (defaults to @default)")
	listcmd.Flags().StringVarP(&listOutput, "output", "o", outputMarkdown, "output format (markdown, json)")
}

func Tasks() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Google Tasks operations",
		Long:  "Read your Google Tasks using the stored sign-in",
	}

	cmd.AddCommand(list())

	return cmd
}

var listcmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List the tasks of the default task list, a named list or every list`,
}

func list() *cobra.Command {
	listcmd.RunE = func(cmd *cobra.Command, args []string) error {
		if listOutput != outputMarkdown && listOutput != outputJSON {
			return fmt.Errorf("unsupported output format %q, expected %s or %s", listOutput, outputMarkdown, outputJSON)
		}
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		results, err := fetchTasks(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		return writeTasks(cmd.OutOrStdout(), results, listOutput)
	}

	return listcmd
}

func fetchTasks(ctx context.Context, cfg *configuration.Config) ([]tasks.ListResult, error) {
	token, err := l.Token(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr // Send spinner to stderr
	s.Prefix = "Fetching tasks... "
	s.Start()
	defer s.Stop()

	return tasks.NewClient(ctx, cfg.TasksURL, token, nil).Fetch(ctx, listID, listAll)
}

func writeTasks(w io.Writer, results []tasks.ListResult, format string) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	_, err := fmt.Fprint(w, tasks.Render(results))
	return err
}
