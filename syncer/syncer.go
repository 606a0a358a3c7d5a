// Package syncer applies a sync plan to the object store.
//
// Execution order:
//  1. Upload every planned file (bounded parallelism)
//  2. Delete every stale key (bounded parallelism)
//
// Uploading first means visitors may briefly see stale extra objects, never
// missing ones. An upload failure fails the run but does not stop other
// uploads or the delete phase. Delete failures are logged and left for the
// next run to retry.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/iox"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/log"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/metrics"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/store"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// DefaultConcurrency is the number of objects transferred at once.
const DefaultConcurrency = 8

// Operation names used in ObjectFailure.
const (
	OpUpload = "upload"
	OpDelete = "delete"
)

// ObjectFailure records one failed object operation.
type ObjectFailure struct {
	Key string `json:"key" yaml:"key"`
	Op  string `json:"op" yaml:"op"`
	Err error  `json:"-" yaml:"-"`
	// Message is Err rendered for reports.
	Message string `json:"error" yaml:"error"`
}

// Result summarizes plan execution.
type Result struct {
	Uploaded      int             `json:"uploaded" yaml:"uploaded"`
	UploadFailed  int             `json:"upload_failed" yaml:"upload_failed"`
	Deleted       int             `json:"deleted" yaml:"deleted"`
	DeleteFailed  int             `json:"delete_failed" yaml:"delete_failed"`
	BytesUploaded int64           `json:"bytes_uploaded" yaml:"bytes_uploaded"`
	Failures      []ObjectFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// UploadError is returned when at least one upload failed. Objects uploaded
// before or alongside the failure stay in place; a rerun converges.
type UploadError struct {
	Bucket   string
	Failures []ObjectFailure
}

func (e *UploadError) Error() string {
	keys := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		keys[i] = f.Key
	}
	return fmt.Sprintf("%d upload(s) to %s failed: %s", len(e.Failures), e.Bucket, strings.Join(keys, ", "))
}

// Unwrap exposes each per-object error to errors.Is/As.
func (e *UploadError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Syncer executes plans against an ObjectStore.
type Syncer struct {
	store       store.ObjectStore
	logger      *log.Logger
	collector   *metrics.Collector
	concurrency int
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// WithCollector sets the metrics collector. Nil disables metrics.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Syncer) { s.collector = c }
}

// WithConcurrency bounds parallel transfers. Values below 1 use DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(s *Syncer) { s.concurrency = n }
}

// New creates a Syncer writing to st.
func New(st store.ObjectStore, opts ...Option) *Syncer {
	s := &Syncer{
		store:       st,
		logger:      log.Nop(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.concurrency < 1 {
		s.concurrency = DefaultConcurrency
	}
	return s
}

// Execute uploads then deletes per p. The returned error is an *UploadError
// when any upload failed; delete failures only appear in Result.Failures.
func (s *Syncer) Execute(ctx context.Context, p *types.SyncPlan) (*Result, error) {
	if p == nil {
		return nil, errors.New("nil sync plan")
	}

	res := &Result{}
	var mu sync.Mutex
	record := func(fn func()) {
		mu.Lock()
		fn()
		mu.Unlock()
	}

	// Workers never return an error: one failed object must not cancel the rest.
	var uploads errgroup.Group
	uploads.SetLimit(s.concurrency)
	for _, f := range p.ToUpload {
		f := f
		uploads.Go(func() error {
			n, err := s.upload(ctx, p.Bucket, f)
			if err != nil {
				s.collector.IncUploadFailure()
				s.logger.Error("upload failed", map[string]any{
					"key":   f.Key,
					"error": err.Error(),
				})
				record(func() {
					res.UploadFailed++
					res.Failures = append(res.Failures, newFailure(f.Key, OpUpload, err))
				})
				return nil
			}
			s.collector.IncUploadSuccess(n)
			s.logger.Debug("uploaded", map[string]any{
				"key":           f.Key,
				"content_type":  f.ContentType,
				"cache_control": f.CacheControl,
				"bytes":         n,
			})
			record(func() {
				res.Uploaded++
				res.BytesUploaded += n
			})
			return nil
		})
	}
	_ = uploads.Wait()

	var deletes errgroup.Group
	deletes.SetLimit(s.concurrency)
	for _, key := range p.ToDelete {
		key := key
		deletes.Go(func() error {
			if err := s.store.DeleteObject(ctx, p.Bucket, key); err != nil {
				s.collector.IncDeleteFailure()
				s.logger.Warn("delete failed, stale object left in place", map[string]any{
					"key":   key,
					"error": err.Error(),
				})
				record(func() {
					res.DeleteFailed++
					res.Failures = append(res.Failures, newFailure(key, OpDelete, err))
				})
				return nil
			}
			s.collector.IncDeleteSuccess()
			s.logger.Debug("deleted", map[string]any{"key": key})
			record(func() { res.Deleted++ })
			return nil
		})
	}
	_ = deletes.Wait()

	sort.Slice(res.Failures, func(i, j int) bool {
		if res.Failures[i].Op != res.Failures[j].Op {
			return res.Failures[i].Op > res.Failures[j].Op // uploads first
		}
		return res.Failures[i].Key < res.Failures[j].Key
	})

	s.logger.Info("sync finished", map[string]any{
		"uploaded":       res.Uploaded,
		"upload_failed":  res.UploadFailed,
		"deleted":        res.Deleted,
		"delete_failed":  res.DeleteFailed,
		"bytes_uploaded": res.BytesUploaded,
	})

	if res.UploadFailed > 0 {
		var failed []ObjectFailure
		for _, f := range res.Failures {
			if f.Op == OpUpload {
				failed = append(failed, f)
			}
		}
		return res, &UploadError{Bucket: p.Bucket, Failures: failed}
	}
	return res, nil
}

// upload streams one file to the store and returns the bytes sent.
func (s *Syncer) upload(ctx context.Context, bucket string, f types.DeployableFile) (int64, error) {
	fh, err := os.Open(f.AbsolutePath)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", f.AbsolutePath, err)
	}
	defer iox.DiscardClose(fh)

	info, err := fh.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", f.AbsolutePath, err)
	}

	err = s.store.PutObject(ctx, store.Object{
		Bucket:       bucket,
		Key:          f.Key,
		ContentType:  f.ContentType,
		CacheControl: f.CacheControl,
		Size:         info.Size(),
		Body:         fh,
	})
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func newFailure(key, op string, err error) ObjectFailure {
	return ObjectFailure{Key: key, Op: op, Err: err, Message: err.Error()}
}
