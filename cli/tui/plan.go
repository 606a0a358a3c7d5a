package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/plan"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// headerHeight is the number of lines above the scrolling action list.
const headerHeight = 9

// PlanModel is a scrollable view of a sync plan.
type PlanModel struct {
	plan     *types.SyncPlan
	viewport viewport.Model
	ready    bool
	quitting bool
}

// NewPlanModel creates a plan model. The viewport is sized on the first
// WindowSizeMsg.
func NewPlanModel(p *types.SyncPlan) PlanModel {
	return PlanModel{plan: p}
}

// Init implements tea.Model.
func (m PlanModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-headerHeight-2, 3)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(renderActions(m.plan))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	// Scrolling keys are handled by the viewport's own key map.

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PlanModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading plan..."
	}
	help := HelpStyle.Render(fmt.Sprintf("%s/%s scroll • %s quit • %3.f%%",
		m.viewport.KeyMap.Up.Help().Key, m.viewport.KeyMap.Down.Help().Key, keys.Quit.Help().Key,
		m.viewport.ScrollPercent()*100))
	return renderPlanHeader(m.plan) + "\n" + m.viewport.View() + "\n" + help
}

func renderPlanHeader(p *types.SyncPlan) string {
	sum := plan.Summarize(p)
	bucket := "(none)"
	if p != nil {
		bucket = "s3://" + p.Bucket
	}
	title := TitleStyle.Render("Sync Plan " + MutedStyle.Render(bucket))
	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		renderStatBox("Uploads", fmt.Sprintf("%d", sum.Uploads), successColor),
		renderStatBox("Deletes", fmt.Sprintf("%d", sum.Deletes), errorColor),
		renderStatBox("Upload Bytes", formatBytes(sum.UploadBytes), highlightColor),
	)
	return title + "\n" + boxes
}

func renderActions(p *types.SyncPlan) string {
	if p == nil || (len(p.ToUpload) == 0 && len(p.ToDelete) == 0) {
		return MutedStyle.Render("nothing to do")
	}
	var b strings.Builder
	for _, f := range p.ToUpload {
		fmt.Fprintf(&b, "%s %s %s\n",
			ActionStyle("upload").Width(8).Render("upload"),
			ValueStyle.Render(f.Key),
			CacheStyle.Render("["+f.CacheControl+"]"))
	}
	for _, k := range p.ToDelete {
		fmt.Fprintf(&b, "%s %s\n",
			ActionStyle("delete").Width(8).Render("delete"),
			ValueStyle.Render(k))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// formatBytes renders n with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// RunPlanTUI runs the plan viewer. data must be a *types.SyncPlan.
func RunPlanTUI(data any) error {
	p, ok := data.(*types.SyncPlan)
	if !ok {
		return fmt.Errorf("plan view requires *types.SyncPlan, got %T", data)
	}
	_, err := tea.NewProgram(NewPlanModel(p), tea.WithAltScreen()).Run()
	return err
}

// RenderPlanStatic renders the plan without starting a program (for testing).
func RenderPlanStatic(p *types.SyncPlan) string {
	return renderPlanHeader(p) + "\n" + renderActions(p)
}
