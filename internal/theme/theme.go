package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for section headers such as "Active" and "Archived".
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// ColumnStyle renders table column titles.
var ColumnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGray)

// DetailPanelStyle wraps single-entity views.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for hints and empty-state text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SuccessStyle and ErrorStyle color command outcomes.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
)

// StatusStyle returns a color-coded style for a todo status.
func StatusStyle(status int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	if status == model.TodoStatusDone {
		return base.Foreground(ColorGreen)
	}
	return base.Foreground(ColorYellow)
}

// StatusLabel returns the display text for a todo status.
func StatusLabel(status int) string {
	if status == model.TodoStatusDone {
		return "done"
	}
	return "undone"
}

// PriorityStyle returns a color-coded style for a priority, where 0 is
// the most urgent.
func PriorityStyle(priority int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch {
	case priority <= 0:
		return base.Foreground(ColorRed)
	case priority == 1:
		return base.Foreground(ColorOrange)
	case priority == 2:
		return base.Foreground(ColorYellow)
	case priority == 3:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}
