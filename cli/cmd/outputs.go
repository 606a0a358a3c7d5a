package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/render"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/tui"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/deploy"
)

// OutputsCommand returns the outputs command, which prints the resolved
// deployment targets without touching the bucket.
func OutputsCommand() *cli.Command {
	return &cli.Command{
		Name:   "outputs",
		Usage:  "Show the bucket, distribution and URL a deploy would target",
		Flags:  joinFlags(TargetFlags(), OutputFlags()),
		Action: outputsAction,
	}
}

func outputsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), deploy.ExitCodeTargetError)
	}
	s, err := loadSettings(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), deploy.ExitCodeTargetError)
	}

	ctx, cancel := signalContext(c.Context)
	defer cancel()

	b, err := newBackends(ctx, s)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create AWS clients: %v", err), deploy.ExitCodeTargetError)
	}

	stackName := ""
	if !s.NoStack {
		stackName = s.StackName
	}
	outputs, err := b.Targets.Resolve(ctx, stackName)
	if err != nil {
		return cli.Exit(err.Error(), deploy.ExitCodeTargetError)
	}

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewOutputs, outputs)
	}
	return r.Render(outputs)
}
