// Package stack resolves deployment targets from the recorded outputs of a
// provisioned CloudFormation stack.
package stack

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// DefaultStackName is the frontend stack created by the infrastructure app.
const DefaultStackName = "BirdWatchersEmporiumFrontendStack"

// DescribeStacksAPI is the subset of *cloudformation.Client used here.
type DescribeStacksAPI interface {
	DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// MissingTargetError reports a required stack output that was absent.
// It is fatal: the run stops before any build or remote mutation.
type MissingTargetError struct {
	Stack  string
	Output string
}

func (e *MissingTargetError) Error() string {
	if e.Stack == "" {
		return fmt.Sprintf("no %s configured and stack lookup is disabled", e.Output)
	}
	return fmt.Sprintf("stack %s has no %s output", e.Stack, e.Output)
}

// StackError reports a failure to describe a stack.
type StackError struct {
	Stack string
	Err   error
}

func (e *StackError) Error() string {
	return fmt.Sprintf("describe stack %s: %v", e.Stack, e.Err)
}

// Unwrap returns the underlying error.
func (e *StackError) Unwrap() error {
	return e.Err
}

// Resolver reads stack outputs.
type Resolver struct {
	api DescribeStacksAPI
	// BucketOverride replaces the BucketName output when non-empty.
	BucketOverride string
}

// NewResolver creates a Resolver over api.
func NewResolver(api DescribeStacksAPI, bucketOverride string) *Resolver {
	return &Resolver{api: api, BucketOverride: bucketOverride}
}

// Outputs returns the flattened OutputKey → OutputValue map of the first
// stack matching name.
func (r *Resolver) Outputs(ctx context.Context, name string) (map[string]string, error) {
	out, err := r.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(name),
	})
	if err != nil {
		return nil, &StackError{Stack: name, Err: err}
	}
	if len(out.Stacks) == 0 {
		return nil, &StackError{Stack: name, Err: fmt.Errorf("no stack returned")}
	}

	outputs := make(map[string]string, len(out.Stacks[0].Outputs))
	for _, o := range out.Stacks[0].Outputs {
		if o.OutputKey == nil {
			continue
		}
		outputs[*o.OutputKey] = aws.ToString(o.OutputValue)
	}
	return outputs, nil
}

// Resolve fetches the stack's outputs and maps them to deployment targets.
// A missing bucket (after applying BucketOverride) is a *MissingTargetError.
func (r *Resolver) Resolve(ctx context.Context, name string) (*types.StackOutputs, error) {
	raw, err := r.Outputs(ctx, name)
	if err != nil {
		return nil, err
	}
	return FromOutputs(name, raw, r.BucketOverride)
}

// FromOutputs maps a raw output map to StackOutputs.
func FromOutputs(name string, raw map[string]string, bucketOverride string) (*types.StackOutputs, error) {
	so := &types.StackOutputs{
		StackName:      name,
		BucketName:     raw[types.OutputBucketName],
		DistributionID: raw[types.OutputDistributionID],
		WebsiteURL:     raw[types.OutputWebsiteURL],
		Raw:            raw,
	}
	if bucketOverride != "" {
		so.BucketName = bucketOverride
	}
	if so.BucketName == "" {
		return nil, &MissingTargetError{Stack: name, Output: types.OutputBucketName}
	}
	return so, nil
}

// Static returns outputs for a run that skips stack lookup. The bucket is
// still required.
func Static(bucket, distributionID, websiteURL string) (*types.StackOutputs, error) {
	if bucket == "" {
		return nil, &MissingTargetError{Output: types.OutputBucketName}
	}
	return &types.StackOutputs{
		BucketName:     bucket,
		DistributionID: distributionID,
		WebsiteURL:     websiteURL,
	}, nil
}
