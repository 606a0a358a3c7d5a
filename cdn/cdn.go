// Package cdn purges CloudFront edge caches after a sync.
//
// Invalidation never fails a deployment. Stale edge content expires on its
// own, so errors are returned inside types.InvalidationResult for the caller
// to log rather than as Go errors.
package cdn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/google/uuid"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// API is the subset of *cloudfront.Client used here.
type API interface {
	CreateInvalidation(ctx context.Context, in *cloudfront.CreateInvalidationInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

// Invalidator issues wildcard invalidations.
type Invalidator struct {
	api   API
	now   func() time.Time
	newID func() string
}

// NewInvalidator creates an Invalidator over api.
func NewInvalidator(api API) *Invalidator {
	return &Invalidator{
		api:   api,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// CallerReference builds a reference unique to this call. The timestamp
// keeps references sortable; the random suffix separates calls landing in
// the same millisecond.
func (i *Invalidator) CallerReference() string {
	return fmt.Sprintf("deployment-%d-%s", i.now().UnixMilli(), i.newID())
}

// Request builds the wildcard invalidation for distributionID with a fresh
// caller reference.
func (i *Invalidator) Request(distributionID string) types.InvalidationRequest {
	return types.InvalidationRequest{
		DistributionID:  distributionID,
		Paths:           []string{types.WildcardPath},
		CallerReference: i.CallerReference(),
	}
}

// Invalidate purges every path of distributionID. An empty id yields a
// skipped result without calling CloudFront.
func (i *Invalidator) Invalidate(ctx context.Context, distributionID string) types.InvalidationResult {
	if distributionID == "" {
		return types.InvalidationResult{Skipped: true}
	}

	req := i.Request(distributionID)
	out, err := i.api.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(req.DistributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(req.CallerReference),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(int32(len(req.Paths))),
				Items:    req.Paths,
			},
		},
	})
	if err != nil {
		return types.InvalidationResult{
			Request: req,
			Err:     fmt.Errorf("create invalidation for distribution %s: %w", distributionID, err),
		}
	}
	if out.Invalidation == nil || out.Invalidation.Id == nil {
		return types.InvalidationResult{
			Request: req,
			Err:     errors.New("create invalidation returned no invalidation id"),
		}
	}
	return types.InvalidationResult{
		Request:        req,
		InvalidationID: *out.Invalidation.Id,
	}
}
