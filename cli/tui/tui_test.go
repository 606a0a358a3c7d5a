package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/policy"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

func samplePlan() *types.SyncPlan {
	return &types.SyncPlan{
		Bucket: "bird-site",
		ToUpload: []types.DeployableFile{
			{Key: "index.html", CacheControl: policy.NoCache, Size: 512},
			{Key: "js/app.abc123.js", CacheControl: policy.Immutable, Size: 2048},
		},
		ToDelete: []string{"js/app.old999.js"},
	}
}

func TestIsTUISupported(t *testing.T) {
	tests := []struct {
		viewType string
		want     bool
	}{
		{ViewPlan, true},
		{ViewOutputs, true},
		{"deploy", false},
		{"invalidate", false},
		{"version", false},
		{"", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.viewType, func(t *testing.T) {
			if got := IsTUISupported(tt.viewType); got != tt.want {
				t.Errorf("IsTUISupported(%q) = %v, want %v", tt.viewType, got, tt.want)
			}
		})
	}
}

func TestSupportedTUIViews(t *testing.T) {
	for _, v := range SupportedTUIViews() {
		if !IsTUISupported(v) {
			t.Errorf("SupportedTUIViews() returned %q but IsTUISupported returns false", v)
		}
	}
}

func TestRun_UnsupportedViewType(t *testing.T) {
	if err := Run("deploy", nil); err == nil {
		t.Error("expected error for unsupported view type")
	}
}

func TestRun_WrongDataType(t *testing.T) {
	if err := Run(ViewPlan, "not a plan"); err == nil {
		t.Error("expected error for wrong plan payload")
	}
	if err := Run(ViewOutputs, 42); err == nil {
		t.Error("expected error for wrong outputs payload")
	}
}

func TestRenderPlanStatic(t *testing.T) {
	got := RenderPlanStatic(samplePlan())
	for _, want := range []string{
		"s3://bird-site",
		"index.html",
		"js/app.abc123.js",
		"js/app.old999.js",
		policy.Immutable,
		"2.5 KiB",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("plan view missing %q:\n%s", want, got)
		}
	}
}

func TestRenderPlanStatic_Empty(t *testing.T) {
	got := RenderPlanStatic(&types.SyncPlan{Bucket: "b"})
	if !strings.Contains(got, "nothing to do") {
		t.Errorf("empty plan view = %q", got)
	}
	if got := RenderPlanStatic(nil); !strings.Contains(got, "(none)") {
		t.Errorf("nil plan view = %q", got)
	}
}

func TestPlanModel_Lifecycle(t *testing.T) {
	m := NewPlanModel(samplePlan())
	if !strings.Contains(m.View(), "loading") {
		t.Errorf("view before sizing = %q", m.View())
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(PlanModel)
	if !strings.Contains(m.View(), "index.html") {
		t.Errorf("sized view missing actions:\n%s", m.View())
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(PlanModel)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.View() != "" {
		t.Errorf("view after quit = %q", m.View())
	}
}

func TestRenderOutputsStatic(t *testing.T) {
	o := &types.StackOutputs{
		StackName:      "FrontendStack",
		BucketName:     "bird-site",
		DistributionID: "E2ABC",
		Raw: map[string]string{
			types.OutputBucketName: "bird-site",
			"BucketArn":            "arn:aws:s3:::bird-site",
		},
	}
	got := RenderOutputsStatic(o)
	for _, want := range []string{"FrontendStack", "bird-site", "E2ABC", "BucketArn", "arn:aws:s3:::bird-site"} {
		if !strings.Contains(got, want) {
			t.Errorf("outputs view missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(RenderOutputsStatic(nil), "no stack outputs") {
		t.Error("nil outputs not handled")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
