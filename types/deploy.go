package types

import "time"

// DeployableFile is a local build artifact addressed by its canonical key.
// Created by the scanner; never mutated afterwards.
type DeployableFile struct {
	// Key is the forward-slash path relative to the build root.
	// It is the identity matched against remote object keys.
	Key string `json:"key" yaml:"key"`
	// AbsolutePath is the on-disk location, opened only at upload time.
	AbsolutePath string `json:"absolute_path" yaml:"absolute_path"`
	// ContentType is derived from the file extension.
	ContentType string `json:"content_type" yaml:"content_type"`
	// CacheControl is the cache directive attached on upload.
	CacheControl string `json:"cache_control" yaml:"cache_control"`
	// Size is the file size observed at scan time (reporting only).
	Size int64 `json:"size" yaml:"size"`
}

// SyncPlan is the upload/delete action set for one run.
//
// Invariants:
//   - ToUpload keys are exactly the local keys
//   - ToDelete is exactly remote keys minus local keys
//   - no key appears in both
//
// The plan reflects a remote listing taken at CreatedAt. Nothing guards
// against a concurrent writer changing the bucket after that instant.
type SyncPlan struct {
	Bucket    string           `json:"bucket" yaml:"bucket"`
	ToUpload  []DeployableFile `json:"to_upload" yaml:"to_upload"`
	ToDelete  []string         `json:"to_delete" yaml:"to_delete"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
}

// UploadKeys returns the keys of ToUpload in plan order.
func (p *SyncPlan) UploadKeys() []string {
	keys := make([]string, len(p.ToUpload))
	for i, f := range p.ToUpload {
		keys[i] = f.Key
	}
	return keys
}

// UploadBytes returns the scanned size of every file in ToUpload.
func (p *SyncPlan) UploadBytes() int64 {
	var total int64
	for _, f := range p.ToUpload {
		total += f.Size
	}
	return total
}

// Stack output keys recorded by the frontend stack.
const (
	OutputBucketName     = "BucketName"
	OutputDistributionID = "DistributionId"
	OutputWebsiteURL     = "WebsiteUrl"
)

// StackOutputs are the deployment target identifiers read from the
// provisioning system once per run.
type StackOutputs struct {
	StackName      string            `json:"stack_name" yaml:"stack_name"`
	BucketName     string            `json:"bucket_name" yaml:"bucket_name"`
	DistributionID string            `json:"distribution_id" yaml:"distribution_id"`
	WebsiteURL     string            `json:"website_url" yaml:"website_url"`
	Raw            map[string]string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// WildcardPath invalidates every cached object in a distribution.
const WildcardPath = "/*"

// InvalidationRequest describes one CDN purge.
type InvalidationRequest struct {
	DistributionID string   `json:"distribution_id" yaml:"distribution_id"`
	Paths          []string `json:"paths" yaml:"paths"`
	// CallerReference must differ on every call so the CDN never treats a
	// retried request as a duplicate of an earlier one.
	CallerReference string `json:"caller_reference" yaml:"caller_reference"`
}

// InvalidationResult is the outcome of a purge attempt. Failures are carried
// here instead of being returned as errors because a failed purge never
// fails a deployment.
type InvalidationResult struct {
	Request        InvalidationRequest `json:"request" yaml:"request"`
	InvalidationID string              `json:"invalidation_id,omitempty" yaml:"invalidation_id,omitempty"`
	// Skipped is true when no distribution id was known.
	Skipped bool  `json:"skipped" yaml:"skipped"`
	Err     error `json:"-" yaml:"-"`
}

// Failed reports whether an attempted purge returned an error.
func (r InvalidationResult) Failed() bool {
	return !r.Skipped && r.Err != nil
}
