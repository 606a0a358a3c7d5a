// Package deploy orchestrates a frontend deployment run.
//
// Execution flow:
//  1. Resolve deployment targets (bucket, distribution, URL)
//  2. Run the build command
//  3. Scan local artifacts and list remote keys (concurrent)
//  4. Plan uploads and deletes
//  5. Execute the plan
//  6. Invalidate the CDN
//  7. Publish a completion event
//
// Target resolution comes first so that a missing bucket aborts before any
// build time is spent. Steps 1-5 are fatal on failure; steps 6 and 7 are
// not. The completion event is published for failed runs too.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/log"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/metrics"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/notify"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/plan"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/stack"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/store"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/syncer"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// TargetResolver resolves deployment targets for a stack.
// *stack.Resolver and StaticTargets implement it.
type TargetResolver interface {
	Resolve(ctx context.Context, stackName string) (*types.StackOutputs, error)
}

// Scanner enumerates local artifacts. *scan.Scanner implements it.
type Scanner interface {
	Scan(root string) ([]types.DeployableFile, error)
}

// Invalidator purges the CDN. *cdn.Invalidator implements it.
type Invalidator interface {
	Invalidate(ctx context.Context, distributionID string) types.InvalidationResult
}

// StaticTargets resolves to fixed identifiers without a stack lookup.
type StaticTargets struct {
	Bucket         string
	DistributionID string
	WebsiteURL     string
}

// Resolve returns the fixed targets. The stack name is ignored.
func (s StaticTargets) Resolve(_ context.Context, _ string) (*types.StackOutputs, error) {
	return stack.Static(s.Bucket, s.DistributionID, s.WebsiteURL)
}

// ScanError reports a failure to enumerate local or remote state.
type ScanError struct {
	// Phase is "scan" for the local tree or "list" for the bucket.
	Phase string
	// Target is the directory or bucket involved.
	Target string
	Err    error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Phase, e.Target, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Config configures a deployment run. Collaborators are injected so that
// planning and policy stay testable without network access.
type Config struct {
	// Meta is the run identity.
	Meta *types.DeployMeta
	// StackName is passed to Targets.
	StackName string
	// DistDir is the build output directory to publish.
	DistDir string
	// Targets resolves bucket/distribution/URL.
	Targets TargetResolver
	// Builder produces DistDir. Nil skips the build.
	Builder Builder
	// Scanner enumerates DistDir.
	Scanner Scanner
	// Store is the object store.
	Store store.ObjectStore
	// Invalidator purges the CDN. Nil skips invalidation.
	Invalidator Invalidator
	// Notifier receives the completion event. Nil disables notifications.
	Notifier notify.Notifier
	// Concurrency bounds parallel uploads/deletes (0 uses the syncer default).
	Concurrency int
	// Logger receives structured run logs. Nil uses a logger on stderr.
	Logger *log.Logger
	// Collector records run metrics. Nil disables metrics.
	Collector *metrics.Collector
	// Now returns the current time (for testing). Nil uses time.Now.
	Now func() time.Time
}

// Result describes a finished (or aborted) run.
type Result struct {
	Meta         *types.DeployMeta
	Targets      *types.StackOutputs
	Plan         *types.SyncPlan
	Sync         *syncer.Result
	Invalidation *types.InvalidationResult
	Outcome      types.DeployOutcome
	Duration     time.Duration
	// Err is the fatal error that ended the run, nil on success.
	Err error
}

// Orchestrator runs deployments.
type Orchestrator struct {
	config *Config
	logger *log.Logger
	now    func() time.Time
}

// NewOrchestrator validates config and creates an orchestrator.
func NewOrchestrator(config *Config) (*Orchestrator, error) {
	if config.Meta == nil {
		return nil, errors.New("deploy metadata is required")
	}
	if err := config.Meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deploy metadata: %w", err)
	}
	switch {
	case config.Targets == nil:
		return nil, errors.New("target resolver is required")
	case config.Scanner == nil:
		return nil, errors.New("scanner is required")
	case config.Store == nil:
		return nil, errors.New("object store is required")
	case config.DistDir == "":
		return nil, errors.New("dist directory is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = log.NewLogger(config.Meta)
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{config: config, logger: logger, now: now}, nil
}

// Deploy runs the full pipeline. The returned Result is never nil; its
// Outcome classifies the run and Err carries the fatal error, if any.
// The returned error equals Result.Err.
func (o *Orchestrator) Deploy(ctx context.Context) (*Result, error) {
	start := o.now()
	c := o.config.Collector
	c.IncRunStarted()
	o.logger.Info("starting deployment", map[string]any{
		"dist_dir": o.config.DistDir,
	})

	res := &Result{Meta: o.config.Meta}
	finish := func(err error) (*Result, error) {
		res.Err = err
		res.Outcome = DetermineOutcome(err)
		res.Duration = o.now().Sub(start)
		if err != nil {
			c.IncRunFailed()
			o.logger.Error("deployment failed", map[string]any{
				"outcome": string(res.Outcome.Status),
				"error":   err.Error(),
			})
		} else {
			c.IncRunSucceeded()
			o.logger.Info("deployment completed", map[string]any{
				"website_url": res.Targets.WebsiteURL,
				"duration_ms": res.Duration.Milliseconds(),
			})
		}
		o.publish(ctx, res)
		return res, err
	}

	targets, err := o.resolve(ctx)
	if err != nil {
		return finish(err)
	}
	res.Targets = targets

	if o.config.Builder != nil {
		o.logger.Info("building frontend", nil)
		if err := o.config.Builder.Build(ctx); err != nil {
			return finish(err)
		}
	} else {
		o.logger.Info("build skipped", nil)
	}

	p, err := o.plan(ctx, targets.BucketName)
	if err != nil {
		return finish(err)
	}
	res.Plan = p

	sy := syncer.New(o.config.Store,
		syncer.WithLogger(o.logger),
		syncer.WithCollector(c),
		syncer.WithConcurrency(o.config.Concurrency),
	)
	syncRes, err := sy.Execute(ctx, p)
	res.Sync = syncRes
	if err != nil {
		return finish(err)
	}

	inv := o.invalidate(ctx, targets.DistributionID)
	res.Invalidation = &inv

	return finish(nil)
}

// PlanResult is the output of a dry run.
type PlanResult struct {
	Targets *types.StackOutputs
	Plan    *types.SyncPlan
}

// Plan resolves targets and computes the sync plan without writing,
// deleting or invalidating anything. A configured Builder runs after
// the targets resolve, so a bad target never triggers a build.
func (o *Orchestrator) Plan(ctx context.Context) (*PlanResult, error) {
	targets, err := o.resolve(ctx)
	if err != nil {
		o.logger.Error("target resolution failed", map[string]any{"error": err.Error()})
		return nil, err
	}
	if o.config.Builder != nil {
		o.logger.Info("building frontend", nil)
		if err := o.config.Builder.Build(ctx); err != nil {
			o.logger.Error("build failed", map[string]any{"error": err.Error()})
			return nil, err
		}
	}
	p, err := o.plan(ctx, targets.BucketName)
	if err != nil {
		o.logger.Error("planning failed", map[string]any{"error": err.Error()})
		return nil, err
	}
	return &PlanResult{Targets: targets, Plan: p}, nil
}

func (o *Orchestrator) resolve(ctx context.Context) (*types.StackOutputs, error) {
	o.logger.Info("resolving deployment targets", map[string]any{"stack": o.config.StackName})
	targets, err := o.config.Targets.Resolve(ctx, o.config.StackName)
	if err != nil {
		return nil, err
	}
	o.config.Collector.SetBucket(targets.BucketName)
	o.logger.Info("resolved deployment targets", map[string]any{
		"bucket":          targets.BucketName,
		"distribution_id": targets.DistributionID,
		"website_url":     targets.WebsiteURL,
	})
	return targets, nil
}

// plan scans the local tree and lists the bucket concurrently, then diffs them.
func (o *Orchestrator) plan(ctx context.Context, bucket string) (*types.SyncPlan, error) {
	var (
		local  []types.DeployableFile
		remote []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		files, err := o.config.Scanner.Scan(o.config.DistDir)
		if err != nil {
			return &ScanError{Phase: "scan", Target: o.config.DistDir, Err: err}
		}
		local = files
		return nil
	})
	g.Go(func() error {
		keys, err := o.config.Store.ListKeys(gctx, bucket)
		if err != nil {
			return &ScanError{Phase: "list", Target: bucket, Err: err}
		}
		remote = keys
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.config.Collector.SetFilesScanned(len(local))
	o.config.Collector.SetRemoteKeys(len(remote))

	p := plan.Build(local, remote, bucket, o.now())
	sum := plan.Summarize(p)
	o.logger.Info("planned sync", map[string]any{
		"local_files":  len(local),
		"remote_keys":  len(remote),
		"uploads":      sum.Uploads,
		"deletes":      sum.Deletes,
		"upload_bytes": sum.UploadBytes,
	})
	return p, nil
}

// invalidate purges the CDN and logs a failure without failing the run.
func (o *Orchestrator) invalidate(ctx context.Context, distributionID string) types.InvalidationResult {
	c := o.config.Collector
	if o.config.Invalidator == nil {
		c.IncInvalidationSkipped()
		o.logger.Info("cdn invalidation disabled", nil)
		return types.InvalidationResult{Skipped: true}
	}

	res := o.config.Invalidator.Invalidate(ctx, distributionID)
	switch {
	case res.Skipped:
		c.IncInvalidationSkipped()
		o.logger.Warn("no distribution id, cdn invalidation skipped", nil)
	case res.Err != nil:
		c.IncInvalidationFailure()
		o.logger.Warn("cdn invalidation failed, edge caches will expire on their own", map[string]any{
			"distribution_id":  distributionID,
			"caller_reference": res.Request.CallerReference,
			"error":            res.Err.Error(),
		})
	default:
		c.IncInvalidationSuccess()
		o.logger.Info("cdn invalidation created", map[string]any{
			"distribution_id": distributionID,
			"invalidation_id": res.InvalidationID,
		})
	}
	return res
}
