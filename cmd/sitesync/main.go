// Package main provides the sitesync CLI entrypoint.
//
// Usage:
//
//	sitesync <command> [options]
//
// Exit codes:
//   - 0: success
//   - 1: configuration or stack target error
//   - 2: build command failed
//   - 3: scan, listing or upload failed
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/cmd"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

// Swapped by tests.
var (
	osExit           = os.Exit
	stderr io.Writer = os.Stderr
)

func main() {
	app := &cli.App{
		Name:           "sitesync",
		Usage:          "Publish the frontend build to S3 and CloudFront",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.DeployCommand(),
			cmd.PlanCommand(),
			cmd.OutputsCommand(),
			cmd.InvalidateCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		osExit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		// cli.Exit("", N) reports "exit status N"; nothing worth printing.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(stderr, msg)
		}
		osExit(code)
		return
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	osExit(1)
}
