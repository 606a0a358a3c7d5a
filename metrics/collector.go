// Package metrics provides per-run deployment counters.
//
// The Collector accumulates counters during a single deployment. It is a leaf
// package with no internal dependencies. All increment methods are safe on a
// nil receiver so callers may run without metrics.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
type Snapshot struct {
	// Run lifecycle
	RunsStarted   int64 `json:"runs_started" yaml:"runs_started"`
	RunsSucceeded int64 `json:"runs_succeeded" yaml:"runs_succeeded"`
	RunsFailed    int64 `json:"runs_failed" yaml:"runs_failed"`

	// Local artifacts and remote listing
	FilesScanned int64 `json:"files_scanned" yaml:"files_scanned"`
	RemoteKeys   int64 `json:"remote_keys" yaml:"remote_keys"`

	// Object sync
	UploadSuccess int64 `json:"upload_success" yaml:"upload_success"`
	UploadFailure int64 `json:"upload_failure" yaml:"upload_failure"`
	BytesUploaded int64 `json:"bytes_uploaded" yaml:"bytes_uploaded"`
	DeleteSuccess int64 `json:"delete_success" yaml:"delete_success"`
	DeleteFailure int64 `json:"delete_failure" yaml:"delete_failure"`

	// CDN
	InvalidationSuccess int64 `json:"invalidation_success" yaml:"invalidation_success"`
	InvalidationFailure int64 `json:"invalidation_failure" yaml:"invalidation_failure"`
	InvalidationSkipped int64 `json:"invalidation_skipped" yaml:"invalidation_skipped"`

	// Completion events
	NotifySuccess int64 `json:"notify_success" yaml:"notify_success"`
	NotifyFailure int64 `json:"notify_failure" yaml:"notify_failure"`

	// Dimensions (informational, set at construction)
	DeployID string `json:"deploy_id" yaml:"deploy_id"`
	Bucket   string `json:"bucket" yaml:"bucket"`
}

// Collector accumulates metrics during a single run.
// Thread-safe via sync.Mutex; uploads and deletes report from worker goroutines.
type Collector struct {
	mu sync.Mutex
	s  Snapshot
}

// NewCollector creates a Collector labeled with the run's deploy id.
func NewCollector(deployID string) *Collector {
	return &Collector{s: Snapshot{DeployID: deployID}}
}

func (c *Collector) update(fn func(s *Snapshot)) {
	if c == nil {
		return
	}
	c.mu.Lock()
	fn(&c.s)
	c.mu.Unlock()
}

// SetBucket records the resolved target bucket dimension.
func (c *Collector) SetBucket(bucket string) {
	c.update(func(s *Snapshot) { s.Bucket = bucket })
}

// --- Run lifecycle ---

// IncRunStarted records a run start.
func (c *Collector) IncRunStarted() { c.update(func(s *Snapshot) { s.RunsStarted++ }) }

// IncRunSucceeded records a run that completed every fatal step.
func (c *Collector) IncRunSucceeded() { c.update(func(s *Snapshot) { s.RunsSucceeded++ }) }

// IncRunFailed records a run aborted by a fatal error.
func (c *Collector) IncRunFailed() { c.update(func(s *Snapshot) { s.RunsFailed++ }) }

// --- Scan and listing ---

// SetFilesScanned records the number of local files found.
func (c *Collector) SetFilesScanned(n int) {
	c.update(func(s *Snapshot) { s.FilesScanned = int64(n) })
}

// SetRemoteKeys records the size of the remote listing snapshot.
func (c *Collector) SetRemoteKeys(n int) {
	c.update(func(s *Snapshot) { s.RemoteKeys = int64(n) })
}

// --- Object sync ---

// IncUploadSuccess records a completed upload of size bytes.
func (c *Collector) IncUploadSuccess(bytes int64) {
	c.update(func(s *Snapshot) {
		s.UploadSuccess++
		s.BytesUploaded += bytes
	})
}

// IncUploadFailure records a failed upload.
func (c *Collector) IncUploadFailure() { c.update(func(s *Snapshot) { s.UploadFailure++ }) }

// IncDeleteSuccess records a removed stale key.
func (c *Collector) IncDeleteSuccess() { c.update(func(s *Snapshot) { s.DeleteSuccess++ }) }

// IncDeleteFailure records a stale key that could not be removed.
func (c *Collector) IncDeleteFailure() { c.update(func(s *Snapshot) { s.DeleteFailure++ }) }

// --- CDN ---

// IncInvalidationSuccess records an accepted invalidation.
func (c *Collector) IncInvalidationSuccess() {
	c.update(func(s *Snapshot) { s.InvalidationSuccess++ })
}

// IncInvalidationFailure records a rejected or failed invalidation.
func (c *Collector) IncInvalidationFailure() {
	c.update(func(s *Snapshot) { s.InvalidationFailure++ })
}

// IncInvalidationSkipped records a run with no distribution to invalidate.
func (c *Collector) IncInvalidationSkipped() {
	c.update(func(s *Snapshot) { s.InvalidationSkipped++ })
}

// --- Notifications ---

// IncNotifySuccess records a published completion event.
func (c *Collector) IncNotifySuccess() { c.update(func(s *Snapshot) { s.NotifySuccess++ }) }

// IncNotifyFailure records a completion event that could not be published.
func (c *Collector) IncNotifyFailure() { c.update(func(s *Snapshot) { s.NotifyFailure++ }) }

// Snapshot returns a copy of the current counters. A nil Collector yields
// the zero Snapshot.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}
