package deploy

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/stack"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/syncer"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.OutcomeStatus
		code int
	}{
		{"nil", nil, types.OutcomeSuccess, ExitCodeSuccess},
		{"missing bucket", &stack.MissingTargetError{Stack: "s", Output: types.OutputBucketName}, types.OutcomeTargetError, ExitCodeTargetError},
		{"describe failure", &stack.StackError{Stack: "s", Err: errors.New("boom")}, types.OutcomeTargetError, ExitCodeTargetError},
		{"wrapped target", fmt.Errorf("resolve: %w", &stack.MissingTargetError{Output: "BucketName"}), types.OutcomeTargetError, ExitCodeTargetError},
		{"build", &BuildError{Command: "npm run build", ExitCode: 2}, types.OutcomeBuildError, ExitCodeBuildError},
		{"scan", &ScanError{Phase: "scan", Target: "dist", Err: errors.New("missing")}, types.OutcomeScanError, ExitCodeSyncError},
		{"list", &ScanError{Phase: "list", Target: "b", Err: errors.New("denied")}, types.OutcomeScanError, ExitCodeSyncError},
		{"upload", &syncer.UploadError{Bucket: "b"}, types.OutcomeSyncError, ExitCodeSyncError},
		{"wrapped upload", fmt.Errorf("sync: %w", &syncer.UploadError{Bucket: "b"}), types.OutcomeSyncError, ExitCodeSyncError},
		{"canceled", context.Canceled, types.OutcomeSyncError, ExitCodeSyncError},
		{"unknown", errors.New("other"), types.OutcomeSyncError, ExitCodeSyncError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
			if code := ExitCode(got); code != tt.code {
				t.Errorf("ExitCode = %d, want %d", code, tt.code)
			}
		})
	}
}

func TestDetermineOutcome(t *testing.T) {
	ok := DetermineOutcome(nil)
	if ok.Status != types.OutcomeSuccess || ok.Message == "" {
		t.Errorf("success outcome = %+v", ok)
	}
	err := &BuildError{Command: "npm run build", Dir: "frontend", ExitCode: 1}
	failed := DetermineOutcome(err)
	if failed.Status != types.OutcomeBuildError || failed.Message != err.Error() {
		t.Errorf("failure outcome = %+v", failed)
	}
}
