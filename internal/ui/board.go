package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Makepad-fr/taskflow/internal/model"
)

// BoardLines lays the three columns out one under the other, with a header
// of counts and a completion bar.
func BoardLines(cols [model.ColumnCount][]model.Task) []string {
	t := Current()
	total := 0
	for _, col := range cols {
		total += len(col)
	}
	done := len(cols[model.StatusCompleted.Column()])

	lines := []string{
		C(t.Title, "Board") + "   " + C(t.Accent, "Total") + fmt.Sprintf(" %d", total),
		ProgressBar(done, total, 28),
	}
	for i, col := range cols {
		status := model.Columns[i]
		lines = append(lines, "", C(t.StatusColor(status), fmt.Sprintf("%s (%d)", status.Label(), len(col))))
		if len(col) == 0 {
			lines = append(lines, C(t.Muted, "  (empty)"))
		}
		for _, task := range col {
			lines = append(lines, CardLine(task))
		}
	}
	return lines
}

// CardLine is one task in the ls listing.
func CardLine(task model.Task) string {
	t := Current()
	line := fmt.Sprintf("  %s %s %s", C(t.StatusColor(task.Status), t.Bullet), task.Title, C(t.Muted, "#"+task.ID))
	if task.Priority == model.PriorityHigh {
		line += " " + C(t.Error, "!"+task.Priority.Label())
	} else {
		line += " " + C(t.Muted, task.Priority.Label())
	}
	if d := firstLine(task.Description); d != "" {
		line += "\n    " + C(t.Muted, d)
	}
	return line
}

// PrintBoard writes the framed listing.
func PrintBoard(w io.Writer, cols [model.ColumnCount][]model.Task) {
	var lines []string
	for _, ln := range BoardLines(cols) {
		lines = append(lines, strings.Split(ln, "\n")...)
	}
	Panel(w, lines)
}

func firstLine(s string) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	return s
}
