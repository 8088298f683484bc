package ui

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/taskflow/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error   string
	Pending, InProgress, Completed         string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	Bullet                                 string
}

// Themes are the names SetTheme knows.
var Themes = []string{"classic", "neon", "mono"}

var current = classic()

func classic() Theme {
	return Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed,
		Pending: fgGray, InProgress: fgBlue, Completed: fgGreen,
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		Bullet: "•",
	}
}

// SetTheme switches the palette. An empty name selects classic.
func SetTheme(name string) error {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed,
			Pending: "\033[37m", InProgress: "\033[96m", Completed: "\033[92m",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			Bullet: "◆",
		}
	case "mono":
		disableColor = true
		current = Theme{
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			Bullet: "-",
		}
	case "", "classic":
		current = classic()
	default:
		return fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(Themes, ", "))
	}
	return nil
}

func Current() Theme { return current }

// StatusColor is the card color of a column: grey, blue, green.
func (t Theme) StatusColor(s model.Status) string {
	switch s {
	case model.StatusInProgress:
		return t.InProgress
	case model.StatusCompleted:
		return t.Completed
	}
	return t.Pending
}
