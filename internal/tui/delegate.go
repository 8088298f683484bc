package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/taskflow/internal/model"
)

// card adapts a task to bubbles/list.Item
type card struct {
	task model.Task
}

func (c card) Title() string       { return c.task.Title }
func (c card) Description() string { return c.task.Description }
func (c card) FilterValue() string { return c.task.Title }

// cardDelegate renders a card on two lines: title, then priority and the
// first line of the description.
type cardDelegate struct {
	focused bool // whether the column owning the list has focus
}

func (d cardDelegate) Height() int                               { return 2 }
func (d cardDelegate) Spacing() int                              { return 1 }
func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	c, ok := item.(card)
	if !ok {
		return
	}
	width := max(m.Width()-2, 8)

	marker := statusStyle(c.task.Status).Render("●")
	title := truncate(c.task.Title, width-2)
	prio := mutedStyle.Render(c.task.Priority.Label())
	if c.task.Priority == model.PriorityHigh {
		prio = priorityHigh.Render(c.task.Priority.Label())
	}
	desc, _, _ := strings.Cut(strings.TrimSpace(c.task.Description), "\n")
	desc = mutedStyle.Render(truncate(desc, width-lipgloss.Width(c.task.Priority.Label())-3))

	prefix := "  "
	if index == m.Index() && d.focused {
		prefix = accentStyle.Render("> ")
		title = titleStyle.Render(title)
	}
	fmt.Fprintf(w, "%s%s %s\n%s  %s %s", prefix, marker, title, "  ", prio, desc)
}

func truncate(s string, n int) string {
	if n <= 1 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > n-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
