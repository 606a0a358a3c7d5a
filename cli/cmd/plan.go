package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/render"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/tui"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/deploy"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/iox"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/scan"
)

// PlanCommand returns the plan command: a dry run that shows what deploy
// would upload and delete.
func PlanCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Show the uploads and deletes a deploy would perform",
		Description: "Resolves targets, scans the dist directory and lists the bucket. " +
			"Nothing is built, written, deleted or invalidated unless --build is given, " +
			"in which case the build runs once the targets resolve.",
		Flags: joinFlags(TargetFlags(), BuildFlags(), OutputFlags(), []cli.Flag{
			&cli.BoolFlag{
				Name:  "build",
				Usage: "Run the build command before planning",
			},
		}),
		Action: planAction,
	}
}

func planAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), deploy.ExitCodeTargetError)
	}
	s, err := loadSettings(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), deploy.ExitCodeTargetError)
	}

	meta := newMeta(s, "plan")
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

	cfg := &deploy.Config{
		Meta:      meta,
		StackName: meta.StackName,
		DistDir:   s.DistDir,
		Targets:   b.Targets,
		Scanner:   scan.NewScanner(),
		Store:     b.Store,
		Logger:    logger,
	}
	if c.Bool("build") {
		cfg.Builder = &deploy.CommandBuilder{Command: s.BuildCommand, Dir: s.BuildDir}
	}
	orchestrator, err := deploy.NewOrchestrator(cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create orchestrator: %v", err), deploy.ExitCodeTargetError)
	}

	result, err := orchestrator.Plan(ctx)
	if err != nil {
		return cli.Exit(err.Error(), deploy.ExitCode(deploy.Classify(err)))
	}

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewPlan, result.Plan)
	}
	return r.RenderPlan(result.Plan)
}
