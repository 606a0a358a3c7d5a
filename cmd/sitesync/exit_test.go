package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/deploy"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/stack"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// captureExit swaps osExit and stderr for one test. The returned slice
// records every exit code requested.
func captureExit(t *testing.T) (*[]int, *bytes.Buffer) {
	t.Helper()
	var codes []int
	var buf bytes.Buffer
	prevExit, prevStderr := osExit, stderr
	osExit = func(code int) { codes = append(codes, code) }
	stderr = &buf
	t.Cleanup(func() { osExit, stderr = prevExit, prevStderr })
	return &codes, &buf
}

func TestExitErrHandler_NilError(t *testing.T) {
	codes, out := captureExit(t)
	exitErrHandler(nil, nil)
	if len(*codes) != 0 {
		t.Errorf("exit called with %v", *codes)
	}
	if out.Len() != 0 {
		t.Errorf("stderr = %q", out.String())
	}
}

func TestExitErrHandler_ExitCodes(t *testing.T) {
	targetErr := &stack.MissingTargetError{Stack: "FrontendStack", Output: types.OutputBucketName}
	buildErr := &deploy.BuildError{Command: "npm run build", ExitCode: 1, Err: errors.New("exit status 1")}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"exit 0 no message", cli.Exit("", 0), 0, ""},
		{"target error", cli.Exit(targetErr.Error(), deploy.ExitCode(deploy.Classify(targetErr))), deploy.ExitCodeTargetError, targetErr.Error() + "\n"},
		{"build error", cli.Exit(buildErr.Error(), deploy.ExitCode(deploy.Classify(buildErr))), deploy.ExitCodeBuildError, buildErr.Error() + "\n"},
		{"sync error", cli.Exit("upload failed", deploy.ExitCodeSyncError), deploy.ExitCodeSyncError, "upload failed\n"},
		{"empty message", cli.Exit("", deploy.ExitCodeSyncError), deploy.ExitCodeSyncError, ""},
		{"wrapped exit coder", errors.Join(errors.New("context"), cli.Exit("inner", 42)), 42, "inner\n"},
		{"plain error", errors.New("flag provided but not defined"), 1, "Error: flag provided but not defined\n"},
		{"wrapped plain error", fmt.Errorf("run: %w", errors.New("boom")), 1, "Error: run: boom\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			codes, out := captureExit(t)
			exitErrHandler(nil, tt.err)
			if len(*codes) != 1 || (*codes)[0] != tt.wantCode {
				t.Errorf("exit codes = %v, want [%d]", *codes, tt.wantCode)
			}
			if out.String() != tt.wantMsg {
				t.Errorf("stderr = %q, want %q", out.String(), tt.wantMsg)
			}
		})
	}
}
