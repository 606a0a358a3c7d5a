package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/render"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/deploy"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// InvalidationResponse is the rendered result of the invalidate command.
type InvalidationResponse struct {
	DistributionID  string   `json:"distribution_id" yaml:"distribution_id"`
	InvalidationID  string   `json:"invalidation_id,omitempty" yaml:"invalidation_id,omitempty"`
	CallerReference string   `json:"caller_reference,omitempty" yaml:"caller_reference,omitempty"`
	Paths           []string `json:"paths,omitempty" yaml:"paths,omitempty"`
	Skipped         bool     `json:"skipped" yaml:"skipped"`
}

// InvalidateCommand returns the invalidate command, which purges the
// distribution without syncing anything.
func InvalidateCommand() *cli.Command {
	return &cli.Command{
		Name:   "invalidate",
		Usage:  "Invalidate every cached path of the distribution",
		Flags:  joinFlags(TargetFlags(), OutputFlags()),
		Action: invalidateAction,
	}
}

func invalidateAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for invalidate command", deploy.ExitCodeTargetError)
	}
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

	distributionID := s.DistributionID
	if !s.NoStack && !c.IsSet("distribution-id") {
		outputs, err := b.Targets.Resolve(ctx, s.StackName)
		if err != nil {
			return cli.Exit(err.Error(), deploy.ExitCodeTargetError)
		}
		distributionID = outputs.DistributionID
	}
	if distributionID == "" {
		return cli.Exit("no distribution id configured or found in stack outputs", deploy.ExitCodeTargetError)
	}

	res := b.Invalidator.Invalidate(ctx, distributionID)
	if res.Failed() {
		return cli.Exit(res.Err.Error(), deploy.ExitCodeSyncError)
	}
	return r.Render(invalidationResponse(distributionID, res))
}

func invalidationResponse(distributionID string, res types.InvalidationResult) InvalidationResponse {
	return InvalidationResponse{
		DistributionID:  distributionID,
		InvalidationID:  res.InvalidationID,
		CallerReference: res.Request.CallerReference,
		Paths:           res.Request.Paths,
		Skipped:         res.Skipped,
	}
}
