package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/taskflow/internal/model"
)

// ------- styling (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	focusedLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	activeColumnStyle = columnStyle.BorderForeground(lipgloss.Color("12"))

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	priorityHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// statusColors is the card palette per column: grey, blue, green.
var statusColors = [model.ColumnCount]lipgloss.Color{"245", "39", "42"}

func statusStyle(s model.Status) lipgloss.Style {
	col := s.Column()
	if col < 0 {
		return mutedStyle
	}
	return lipgloss.NewStyle().Foreground(statusColors[col])
}
