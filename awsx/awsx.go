// Package awsx loads AWS SDK configuration and constructs the service
// clients sitesync talks to.
//
// Credentials come from the SDK default chain (env vars, shared config,
// SSO, IAM role). Only region and the S3 endpoint are configurable here.
package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is used when neither flags, config nor AWS_REGION set one.
const DefaultRegion = "us-east-1"

// Options holds AWS connection settings.
type Options struct {
	// Region is the AWS region (empty uses DefaultRegion).
	Region string
	// Profile selects a shared config profile (optional).
	Profile string
	// S3Endpoint is a custom endpoint for S3-compatible providers
	// (e.g. MinIO, LocalStack). Empty uses the default AWS endpoint.
	S3Endpoint string
	// S3PathStyle forces path-style addressing (bucket in path, not subdomain).
	S3PathStyle bool
}

// Clients bundles the service clients for one run.
type Clients struct {
	S3             *s3.Client
	CloudFront     *cloudfront.Client
	CloudFormation *cloudformation.Client
}

// LoadConfig loads the SDK config for opts.
func LoadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	region := opts.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// S3Options returns the S3 client overrides implied by opts.
func S3Options(opts Options) []func(*s3.Options) {
	var s3Opts []func(*s3.Options)
	if opts.S3Endpoint != "" {
		endpoint := opts.S3Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if opts.S3PathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	return s3Opts
}

// NewClients builds every client from one loaded config.
func NewClients(ctx context.Context, opts Options) (*Clients, error) {
	cfg, err := LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Clients{
		S3:             s3.NewFromConfig(cfg, S3Options(opts)...),
		CloudFront:     cloudfront.NewFromConfig(cfg),
		CloudFormation: cloudformation.NewFromConfig(cfg),
	}, nil
}
