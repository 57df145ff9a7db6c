package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RenderMarkdown(t *testing.T) {
	results := []ListResult{
		{
			List: TaskList{Title: "Work"},
			Tasks: []Task{
				{Title: "Review PR", Status: "needsAction", Due: "2026-10-20T00:00:00.000Z"},
				{Title: "Reply to comments", Status: "completed", Parent: "a"},
				{Title: "  ", Status: "needsAction"},
			},
		},
		{List: TaskList{}},
	}

	expected := "## Work\n\n" +
		"- [ ] Review PR (due 2026-10-20)\n" +
		"  - [x] Reply to comments\n" +
		"- [ ] (untitled)\n" +
		"\n## My Tasks\n\n" +
		"_No tasks_\n"

	assert.Equal(t, expected, RenderMarkdown(results))
}

func Test_RenderMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(nil))
}

func Test_Render(t *testing.T) {
	rendered := Render([]ListResult{{List: TaskList{Title: "Work"}, Tasks: []Task{{Title: "Review PR"}}}})

	assert.Contains(t, rendered, "Review PR")
}
