package cmd

import (
	"context"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/awsx"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/cdn"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/config"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/deploy"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/stack"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/store"
)

// backends are the remote collaborators of one invocation.
type backends struct {
	Targets     deploy.TargetResolver
	Store       store.ObjectStore
	Invalidator deploy.Invalidator
}

// newBackends builds the collaborators for s. Tests replace it with
// in-memory fakes.
var newBackends = awsBackends

func awsBackends(ctx context.Context, s *config.Settings) (*backends, error) {
	clients, err := awsx.NewClients(ctx, s.AWS)
	if err != nil {
		return nil, err
	}

	var opts []store.S3Option
	if s.ListPageSize > 0 {
		opts = append(opts, store.WithPageSize(int32(s.ListPageSize)))
	}
	b := &backends{
		Store:       store.NewS3Store(clients.S3, opts...),
		Invalidator: cdn.NewInvalidator(clients.CloudFront),
	}
	if s.NoStack {
		b.Targets = deploy.StaticTargets{
			Bucket:         s.StaticBucket(),
			DistributionID: s.DistributionID,
			WebsiteURL:     s.WebsiteURL,
		}
	} else {
		b.Targets = stack.NewResolver(clients.CloudFormation, s.Bucket)
	}
	return b, nil
}
