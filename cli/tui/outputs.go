package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// OutputsModel shows the resolved deployment targets of a stack.
type OutputsModel struct {
	outputs  *types.StackOutputs
	quitting bool
}

// NewOutputsModel creates an outputs model.
func NewOutputsModel(o *types.StackOutputs) OutputsModel {
	return OutputsModel{outputs: o}
}

// Init implements tea.Model.
func (m OutputsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m OutputsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m OutputsModel) View() string {
	if m.quitting {
		return ""
	}
	return renderOutputs(m.outputs) + "\n" + HelpStyle.Render("Press q or Ctrl+C to quit")
}

func renderOutputs(o *types.StackOutputs) string {
	if o == nil {
		return BoxStyle.Render(MutedStyle.Render("no stack outputs"))
	}
	var b strings.Builder
	title := "Deployment Targets"
	if o.StackName != "" {
		title += " " + MutedStyle.Render(o.StackName)
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			value = MutedStyle.Render("-")
		} else {
			value = ValueStyle.Render(value)
		}
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(label+":"), value)
	}
	row("Bucket", o.BucketName)
	row("Distribution", o.DistributionID)
	row("Website URL", o.WebsiteURL)

	known := map[string]bool{
		types.OutputBucketName:     true,
		types.OutputDistributionID: true,
		types.OutputWebsiteURL:     true,
	}
	var extra []string
	for k := range o.Raw {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	if len(extra) > 0 {
		b.WriteString("\n")
		for _, k := range extra {
			row(k, o.Raw[k])
		}
	}
	return BoxStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

// RunOutputsTUI runs the outputs viewer. data must be a *types.StackOutputs.
func RunOutputsTUI(data any) error {
	o, ok := data.(*types.StackOutputs)
	if !ok {
		return fmt.Errorf("outputs view requires *types.StackOutputs, got %T", data)
	}
	_, err := tea.NewProgram(NewOutputsModel(o), tea.WithAltScreen()).Run()
	return err
}

// RenderOutputsStatic renders outputs without starting a program (for testing).
func RenderOutputsStatic(o *types.StackOutputs) string {
	return renderOutputs(o)
}
