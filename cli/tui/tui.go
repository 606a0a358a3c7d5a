package tui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// View types with an interactive rendering.
const (
	ViewPlan    = "plan"
	ViewOutputs = "outputs"
)

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Run starts the viewer for viewType.
func Run(viewType string, data any) error {
	switch viewType {
	case ViewPlan:
		return RunPlanTUI(data)
	case ViewOutputs:
		return RunOutputsTUI(data)
	default:
		return fmt.Errorf("TUI mode is not supported for %s", viewType)
	}
}

// IsTUISupported reports whether viewType has an interactive view.
func IsTUISupported(viewType string) bool {
	return slices.Contains(SupportedTUIViews(), viewType)
}

// SupportedTUIViews lists the view types Run accepts.
func SupportedTUIViews() []string {
	return []string{ViewPlan, ViewOutputs}
}
