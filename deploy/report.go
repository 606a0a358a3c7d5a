package deploy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/metrics"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/syncer"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// Report is the structured JSON report written by --report.
type Report struct {
	DeployID   string              `json:"deploy_id"`
	Stack      string              `json:"stack,omitempty"`
	Outcome    types.OutcomeStatus `json:"outcome"`
	Message    string              `json:"message"`
	ExitCode   int                 `json:"exit_code"`
	DurationMs int64               `json:"duration_ms"`

	Bucket         string `json:"bucket,omitempty"`
	DistributionID string `json:"distribution_id,omitempty"`
	WebsiteURL     string `json:"website_url,omitempty"`

	Sync         *ReportSync         `json:"sync"`
	Invalidation *ReportInvalidation `json:"invalidation,omitempty"`
	Metrics      *metrics.Snapshot   `json:"metrics"`
}

// ReportSync holds plan and execution counts.
type ReportSync struct {
	Planned  ReportPlanned          `json:"planned"`
	Uploaded int                    `json:"uploaded"`
	Deleted  int                    `json:"deleted"`
	Bytes    int64                  `json:"bytes"`
	Failures []syncer.ObjectFailure `json:"failures,omitempty"`
}

// ReportPlanned holds the plan sizes.
type ReportPlanned struct {
	Uploads int `json:"uploads"`
	Deletes int `json:"deletes"`
}

// ReportInvalidation holds the CDN purge result.
type ReportInvalidation struct {
	Skipped         bool   `json:"skipped"`
	InvalidationID  string `json:"invalidation_id,omitempty"`
	CallerReference string `json:"caller_reference,omitempty"`
	Error           string `json:"error,omitempty"`
}

// BuildReport composes a Report from a deploy Result and metrics snapshot.
func BuildReport(result *Result, snap metrics.Snapshot) *Report {
	report := &Report{
		Outcome:    result.Outcome.Status,
		Message:    result.Outcome.Message,
		ExitCode:   ExitCode(result.Outcome.Status),
		DurationMs: result.Duration.Milliseconds(),
		Sync:       &ReportSync{},
		Metrics:    &snap,
	}
	if result.Meta != nil {
		report.DeployID = result.Meta.DeployID
		report.Stack = result.Meta.StackName
	}
	if t := result.Targets; t != nil {
		report.Bucket = t.BucketName
		report.DistributionID = t.DistributionID
		report.WebsiteURL = t.WebsiteURL
	}
	if p := result.Plan; p != nil {
		report.Sync.Planned = ReportPlanned{Uploads: len(p.ToUpload), Deletes: len(p.ToDelete)}
	}
	if s := result.Sync; s != nil {
		report.Sync.Uploaded = s.Uploaded
		report.Sync.Deleted = s.Deleted
		report.Sync.Bytes = s.BytesUploaded
		report.Sync.Failures = s.Failures
	}
	if inv := result.Invalidation; inv != nil {
		ri := &ReportInvalidation{
			Skipped:         inv.Skipped,
			InvalidationID:  inv.InvalidationID,
			CallerReference: inv.Request.CallerReference,
		}
		if inv.Err != nil {
			ri.Error = inv.Err.Error()
		}
		report.Invalidation = ri
	}
	return report
}

// WriteReport writes the report as JSON to path. A path of "-" writes to stderr.
func WriteReport(report *Report, path string) error {
	if path == "" {
		return errors.New("report path must not be empty")
	}
	if path == "-" {
		if err := writeReportTo(report, os.Stderr); err != nil {
			return fmt.Errorf("failed to write report to stderr: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	if err := writeReportTo(report, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return f.Close()
}

func writeReportTo(report *Report, w io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
