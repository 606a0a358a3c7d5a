package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/render"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/deploy"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/iox"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/metrics"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/scan"
)

// DeploySummary is the rendered result of the deploy command.
type DeploySummary struct {
	DeployID       string `json:"deploy_id" yaml:"deploy_id"`
	Outcome        string `json:"outcome" yaml:"outcome"`
	Message        string `json:"message" yaml:"message"`
	Bucket         string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	WebsiteURL     string `json:"website_url,omitempty" yaml:"website_url,omitempty"`
	Uploaded       int    `json:"uploaded" yaml:"uploaded"`
	UploadFailed   int    `json:"upload_failed" yaml:"upload_failed"`
	Deleted        int    `json:"deleted" yaml:"deleted"`
	DeleteFailed   int    `json:"delete_failed" yaml:"delete_failed"`
	Bytes          int64  `json:"bytes" yaml:"bytes"`
	InvalidationID string `json:"invalidation_id,omitempty" yaml:"invalidation_id,omitempty"`
	DurationMs     int64  `json:"duration_ms" yaml:"duration_ms"`
}

// DeployCommand returns the deploy command: build, sync and invalidate.
func DeployCommand() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Build the frontend and make the bucket and CDN match it",
		Flags: joinFlags(TargetFlags(), BuildFlags(), NotifyFlags(), OutputFlags(), []cli.Flag{
			&cli.StringFlag{
				Name:  "deploy-id",
				Usage: "Deploy ID for logs and reports (default: random UUID)",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: `Write a JSON run report to this path ("-" for stderr)`,
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress the result summary",
			},
		}),
		Action: deployAction,
	}
}

func deployAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for deploy command", deploy.ExitCodeTargetError)
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), deploy.ExitCodeTargetError)
	}

	s, err := loadSettings(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), deploy.ExitCodeTargetError)
	}

	deployID := c.String("deploy-id")
	if deployID == "" {
		deployID = uuid.NewString()
	}
	meta := newMeta(s, deployID)
	logger, err := newLogger(c, s, meta)
	if err != nil {
		return cli.Exit(err.Error(), deploy.ExitCodeTargetError)
	}
	defer iox.DiscardErr(logger.Sync)

	ctx, cancel := signalContext(c.Context)
	defer cancel()

	b, err := newBackends(ctx, s)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create AWS clients: %v", err), deploy.ExitCodeTargetError)
	}

	notifier, err := newNotifier(s.Notify)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create notifier: %v", err), deploy.ExitCodeTargetError)
	}
	if notifier != nil {
		defer iox.DiscardClose(notifier)
	}

	var builder deploy.Builder
	if !s.SkipBuild {
		builder = &deploy.CommandBuilder{Command: s.BuildCommand, Dir: s.BuildDir}
	}

	collector := metrics.NewCollector(deployID)
	orchestrator, err := deploy.NewOrchestrator(&deploy.Config{
		Meta:        meta,
		StackName:   meta.StackName,
		DistDir:     s.DistDir,
		Targets:     b.Targets,
		Builder:     builder,
		Scanner:     scan.NewScanner(),
		Store:       b.Store,
		Invalidator: b.Invalidator,
		Notifier:    notifier,
		Concurrency: s.Concurrency,
		Logger:      logger,
		Collector:   collector,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create orchestrator: %v", err), deploy.ExitCodeTargetError)
	}

	result, runErr := orchestrator.Deploy(ctx)
	code := deploy.ExitCode(result.Outcome.Status)

	if path := c.String("report"); path != "" {
		report := deploy.BuildReport(result, collector.Snapshot())
		if err := deploy.WriteReport(report, path); err != nil {
			logger.Sugar().Warnf("failed to write report to %s: %v", path, err)
		} else {
			logger.Sugar().Infof("wrote report to %s", path)
		}
	}

	if !c.Bool("quiet") {
		if err := r.Render(summarize(result)); err != nil {
			return cli.Exit(fmt.Sprintf("failed to render result: %v", err), code)
		}
	}

	if runErr != nil {
		return cli.Exit(runErr.Error(), code)
	}
	return nil
}

func summarize(res *deploy.Result) DeploySummary {
	sum := DeploySummary{
		Outcome:    string(res.Outcome.Status),
		Message:    res.Outcome.Message,
		DurationMs: res.Duration.Milliseconds(),
	}
	if res.Meta != nil {
		sum.DeployID = res.Meta.DeployID
	}
	if res.Targets != nil {
		sum.Bucket = res.Targets.BucketName
		sum.WebsiteURL = res.Targets.WebsiteURL
	}
	if res.Sync != nil {
		sum.Uploaded = res.Sync.Uploaded
		sum.UploadFailed = res.Sync.UploadFailed
		sum.Deleted = res.Sync.Deleted
		sum.DeleteFailed = res.Sync.DeleteFailed
		sum.Bytes = res.Sync.BytesUploaded
	}
	if res.Invalidation != nil {
		sum.InvalidationID = res.Invalidation.InvalidationID
	}
	return sum
}
