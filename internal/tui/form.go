package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/taskflow/internal/board"
	"github.com/Makepad-fr/taskflow/internal/model"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldStatus
	fieldPriority
	fieldCount
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// form edits a board draft. It owns the widgets; the controller owns the
// draft and only sees the values on submit.
type form struct {
	title    textinput.Model
	desc     textarea.Model
	status   model.Status
	priority model.Priority
	focus    formField
	heading  string
	err      string
	keys     formKeys
}

func newForm(d board.Draft, mode board.Mode) (form, tea.Cmd) {
	f := form{
		status:   d.Status,
		priority: d.Priority,
		keys:     newFormKeys(),
		heading:  "New task",
	}
	if mode == board.ModeEdit {
		f.heading = "Edit task"
	}

	f.title = textinput.New()
	f.title.Prompt = "> "
	f.title.Placeholder = "Title"
	f.title.CharLimit = 200
	f.title.SetValue(d.Title)
	f.title.CursorEnd()

	f.desc = textarea.New()
	f.desc.Placeholder = "Description"
	f.desc.ShowLineNumbers = false
	f.desc.CharLimit = 2000
	f.desc.SetHeight(4)
	f.desc.SetValue(d.Description)
	f.desc.Blur()

	return f, f.title.Focus()
}

func (f *form) setWidth(w int) {
	w = max(w-6, 20)
	f.title.Width = w - 2
	f.desc.SetWidth(w)
}

// values returns what SetField should receive for each field.
func (f form) values() map[board.Field]string {
	return map[board.Field]string{
		board.FieldTitle:       strings.TrimSpace(f.title.Value()),
		board.FieldDescription: strings.TrimSpace(f.desc.Value()),
		board.FieldStatus:      string(f.status),
		board.FieldPriority:    string(f.priority),
	}
}

func (f form) update(msg tea.Msg) (form, tea.Cmd, formAction) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, f.keys.Cancel):
			return f, nil, formCancel
		case key.Matches(k, f.keys.Submit):
			return f, nil, formSubmit
		case key.Matches(k, f.keys.Next):
			return f, f.setFocus((f.focus + 1) % fieldCount), formNone
		case key.Matches(k, f.keys.Prev):
			return f, f.setFocus((f.focus + fieldCount - 1) % fieldCount), formNone
		}

		switch f.focus {
		case fieldTitle:
			if k.Type == tea.KeyEnter {
				return f, f.setFocus(fieldDescription), formNone
			}
		case fieldStatus:
			switch {
			case key.Matches(k, f.keys.Cycle):
				f.status = f.status.Next()
			case key.Matches(k, f.keys.Back):
				f.status = f.status.Prev()
			}
			return f, nil, formNone
		case fieldPriority:
			switch {
			case key.Matches(k, f.keys.Cycle):
				f.priority = f.priority.Next()
			case key.Matches(k, f.keys.Back):
				f.priority = f.priority.Prev()
			}
			return f, nil, formNone
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	}
	return f, cmd, formNone
}

func (f *form) setFocus(to formField) tea.Cmd {
	f.focus = to
	f.title.Blur()
	f.desc.Blur()
	switch to {
	case fieldTitle:
		return f.title.Focus()
	case fieldDescription:
		return f.desc.Focus()
	}
	return nil
}

func (f form) view(width int) string {
	label := func(field formField, s string) string {
		if f.focus == field {
			return focusedLabel.Render(s)
		}
		return mutedStyle.Render(s)
	}
	selector := func(field formField, value string, style lipgloss.Style) string {
		v := style.Render(value)
		if f.focus == field {
			return "‹ " + v + " ›"
		}
		return "  " + v
	}

	lines := []string{
		titleStyle.Render(f.heading),
		"",
		label(fieldTitle, "Title"),
		f.title.View(),
		label(fieldDescription, "Description"),
		f.desc.View(),
		label(fieldStatus, "Status") + "    " + selector(fieldStatus, f.status.Label(), statusStyle(f.status)),
		label(fieldPriority, "Priority") + "  " + selector(fieldPriority, f.priority.Label(), lipgloss.NewStyle()),
	}
	if f.err != "" {
		lines = append(lines, "", errorStyle.Render(f.err))
	}
	return formStyle.Width(max(width-4, 24)).Render(strings.Join(lines, "\n"))
}
