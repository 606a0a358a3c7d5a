package deploy

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommandBuilder_Success(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	b := &CommandBuilder{
		Command: []string{"sh", "-c", "echo built"},
		Dir:     t.TempDir(),
		Stdout:  &out,
		Stderr:  &out,
	}
	if err := b.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(out.String(), "built") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCommandBuilder_ExitCode(t *testing.T) {
	requireShell(t)
	b := &CommandBuilder{
		Command: []string{"sh", "-c", "exit 3"},
		Dir:     t.TempDir(),
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	}
	err := b.Build(context.Background())
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *BuildError", err)
	}
	if be.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", be.ExitCode)
	}
	if !strings.Contains(be.Error(), "exited with code 3") {
		t.Errorf("message = %q", be.Error())
	}
}

func TestCommandBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		command []string
	}{
		{"empty command", nil},
		{"missing binary", []string{"definitely-not-a-real-build-tool-xyz"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b := &CommandBuilder{Command: tt.command, Dir: t.TempDir()}
			err := b.Build(context.Background())
			var be *BuildError
			if !errors.As(err, &be) {
				t.Fatalf("err = %v, want *BuildError", err)
			}
			if be.ExitCode != 0 {
				t.Errorf("exit code = %d, want 0", be.ExitCode)
			}
		})
	}
}
