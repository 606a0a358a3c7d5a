// Package tui provides Bubble Tea views for sitesync.
//
// Views are opt-in (--tui) and read-only: they show the same payloads the
// json/table/yaml renderers print and never trigger remote mutations.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	successColor   = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	highlightColor = lipgloss.Color("#3B82F6") // Blue
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// UploadStyle marks keys that will be written.
	UploadStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// DeleteStyle marks stale keys that will be removed.
	DeleteStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// CacheStyle colors the cache directive column.
	CacheStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	StatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlightColor).
			Padding(0, 2).
			Width(20).
			Align(lipgloss.Center)

	StatLabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Align(lipgloss.Center)

	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Align(lipgloss.Center)
)

// ActionStyle returns the style for a plan action.
func ActionStyle(action string) lipgloss.Style {
	switch action {
	case "upload":
		return UploadStyle
	case "delete":
		return DeleteStyle
	default:
		return ValueStyle
	}
}

func renderStatBox(label, value string, color lipgloss.Color) string {
	return StatBoxStyle.BorderForeground(color).Render(
		StatLabelStyle.Render(label) + "\n" + StatValueStyle.Render(value),
	)
}
