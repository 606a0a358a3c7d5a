// Package types defines core domain types for the sitesync deployment
// synchronizer. Values here are produced once per run and treated as
// read-only by every consumer.
//
//nolint:revive // types is a common Go package naming convention
package types

import (
	"errors"
	"fmt"
	"strings"
)

// DeployMeta identifies a single deployment run.
type DeployMeta struct {
	// DeployID is the run identifier. Must be unique per invocation.
	DeployID string
	// StackName is the provisioned infrastructure stack the run targets.
	// Empty when stack lookup is disabled (--no-stack).
	StackName string
}

// Validate checks run identity rules:
//   - deploy_id is non-empty
//   - deploy_id contains no whitespace (it is embedded in log fields and reports)
func (m *DeployMeta) Validate() error {
	if m.DeployID == "" {
		return errors.New("deploy_id must be non-empty")
	}
	if strings.ContainsAny(m.DeployID, " \t\n") {
		return fmt.Errorf("deploy_id must not contain whitespace, got %q", m.DeployID)
	}
	return nil
}

// OutcomeStatus represents the final status of a deployment run.
type OutcomeStatus string

const (
	// OutcomeSuccess indicates every fatal step completed.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeTargetError indicates stack metadata could not be resolved.
	OutcomeTargetError OutcomeStatus = "target_error"
	// OutcomeBuildError indicates the external build command failed.
	OutcomeBuildError OutcomeStatus = "build_error"
	// OutcomeScanError indicates local scanning or remote listing failed.
	OutcomeScanError OutcomeStatus = "scan_error"
	// OutcomeSyncError indicates at least one upload failed.
	OutcomeSyncError OutcomeStatus = "sync_error"
)

// DeployOutcome represents the final outcome of a run.
type DeployOutcome struct {
	// Status is the outcome classification.
	Status OutcomeStatus `json:"status" yaml:"status"`
	// Message is a human-readable description.
	Message string `json:"message" yaml:"message"`
}
