package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultBuildCommand builds the frontend into its dist directory.
var DefaultBuildCommand = []string{"npm", "run", "build"}

// Builder produces the local asset directory.
type Builder interface {
	Build(ctx context.Context) error
}

// BuildError reports a failed build command. It is fatal and occurs before
// any remote mutation.
type BuildError struct {
	Command  string
	Dir      string
	ExitCode int
	Err      error
}

func (e *BuildError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("build %q in %s exited with code %d", e.Command, e.Dir, e.ExitCode)
	}
	return fmt.Sprintf("build %q in %s: %v", e.Command, e.Dir, e.Err)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// CommandBuilder runs an external build command.
type CommandBuilder struct {
	// Command is the argv to execute; Command[0] is looked up in PATH.
	Command []string
	// Dir is the working directory (the frontend source tree).
	Dir string
	// Stdout and Stderr receive build output. Both default to os.Stderr so
	// that stdout stays free for rendered results.
	Stdout io.Writer
	Stderr io.Writer
}

// Build runs the command and waits for it to exit.
func (b *CommandBuilder) Build(ctx context.Context) error {
	if len(b.Command) == 0 {
		return &BuildError{Dir: b.Dir, Err: errors.New("empty build command")}
	}
	cmdline := strings.Join(b.Command, " ")

	cmd := exec.CommandContext(ctx, b.Command[0], b.Command[1:]...)
	cmd.Dir = b.Dir
	cmd.Stdout = b.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stderr
	}
	cmd.Stderr = b.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		be := &BuildError{Command: cmdline, Dir: b.Dir, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			be.ExitCode = exitErr.ExitCode()
		}
		return be
	}
	return nil
}
