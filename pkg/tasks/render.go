// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package tasks

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown formats task lists as a markdown document with one section
// per list and a checkbox per task.
func RenderMarkdown(results []ListResult) string {
	var b strings.Builder
	for i, result := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		title := result.List.Title
		if title == "" {
			title = "My Tasks"
		}
		fmt.Fprintf(&b, "## %s\n\n", title)

		if len(result.Tasks) == 0 {
			b.WriteString("_No tasks_\n")
			continue
		}
		for _, task := range result.Tasks {
			box := " "
			if task.Done() {
				box = "x"
			}
			indent := ""
			if task.Parent != "" {
				indent = "  "
			}
			fmt.Fprintf(&b, "%s- [%s] %s", indent, box, taskTitle(task))
			if task.Due != "" {
				fmt.Fprintf(&b, " (due %s)", dueDate(task.Due))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Render renders the markdown for a terminal, falling back to the plain
// markdown when the terminal renderer cannot be built.
func Render(results []ListResult) string {
	content := RenderMarkdown(results)

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func taskTitle(task Task) string {
	title := strings.TrimSpace(task.Title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// the API reports due dates as RFC 3339 timestamps at midnight UTC
func dueDate(due string) string {
	if date, _, found := strings.Cut(due, "T"); found {
		return date
	}
	return due
}
