package deploy

import (
	"errors"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/stack"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// Process exit codes.
const (
	ExitCodeSuccess     = 0 // every fatal step completed
	ExitCodeTargetError = 1 // stack metadata missing or unreadable
	ExitCodeBuildError  = 2 // build command failed
	ExitCodeSyncError   = 3 // scan, listing or upload failed
)

// ExitCode maps an outcome status to the process exit code.
func ExitCode(status types.OutcomeStatus) int {
	switch status {
	case types.OutcomeSuccess:
		return ExitCodeSuccess
	case types.OutcomeTargetError:
		return ExitCodeTargetError
	case types.OutcomeBuildError:
		return ExitCodeBuildError
	case types.OutcomeScanError, types.OutcomeSyncError:
		return ExitCodeSyncError
	default:
		return ExitCodeTargetError
	}
}

// Classify maps a fatal error to its outcome status. A nil error is
// success. Errors from the upload and delete phase, and any error not
// raised by an earlier phase, are sync errors.
func Classify(err error) types.OutcomeStatus {
	var (
		missing  *stack.MissingTargetError
		stackErr *stack.StackError
		buildErr *BuildError
		scanErr  *ScanError
	)
	switch {
	case err == nil:
		return types.OutcomeSuccess
	case errors.As(err, &missing), errors.As(err, &stackErr):
		return types.OutcomeTargetError
	case errors.As(err, &buildErr):
		return types.OutcomeBuildError
	case errors.As(err, &scanErr):
		return types.OutcomeScanError
	default:
		return types.OutcomeSyncError
	}
}

// DetermineOutcome builds the run outcome for err.
func DetermineOutcome(err error) types.DeployOutcome {
	status := Classify(err)
	if err == nil {
		return types.DeployOutcome{Status: status, Message: "deployment completed successfully"}
	}
	return types.DeployOutcome{Status: status, Message: err.Error()}
}
