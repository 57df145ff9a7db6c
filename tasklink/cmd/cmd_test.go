package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/kusaridev/tasklink/pkg/tasks"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandNames(cmd *cobra.Command) []string {
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	return names
}

func Test_Auth_Subcommands(t *testing.T) {
	assert.ElementsMatch(t, []string{"login", "status", "logout"}, commandNames(Auth()))
}

func Test_Tasks_Subcommands(t *testing.T) {
	assert.ElementsMatch(t, []string{"list"}, commandNames(Tasks()))
}

func Test_Configuration_Subcommands(t *testing.T) {
	assert.ElementsMatch(t, []string{"generate-config", "update"}, commandNames(TasklinkConfiguration()))
}

func Test_List_UnsupportedOutput(t *testing.T) {
	cmd := list()
	listOutput = "sarif"
	t.Cleanup(func() { listOutput = outputMarkdown })

	err := cmd.RunE(cmd, nil)

	assert.ErrorContains(t, err, `unsupported output format "sarif"`)
}

func Test_WriteTasks_JSON(t *testing.T) {
	results := []tasks.ListResult{{List: tasks.TaskList{ID: "@default"}, Tasks: []tasks.Task{{ID: "t1", Title: "Buy milk", Status: "needsAction"}}}}
	var out bytes.Buffer

	require.NoError(t, writeTasks(&out, results, outputJSON))

	var decoded []tasks.ListResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, results, decoded)
}

func Test_WriteTasks_Markdown(t *testing.T) {
	results := []tasks.ListResult{{List: tasks.TaskList{Title: "Work"}, Tasks: []tasks.Task{{Title: "Review PR"}}}}
	var out bytes.Buffer

	require.NoError(t, writeTasks(&out, results, outputMarkdown))

	assert.Contains(t, out.String(), "Review PR")
}

func Test_GenerateConfig_Command(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cmd := generateConfig()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), "Wrote tasklink.yaml")
	_, err = os.Stat("tasklink.yaml")
	assert.NoError(t, err)

	err = cmd.RunE(cmd, nil)
	assert.ErrorContains(t, err, "not overwriting")
}
