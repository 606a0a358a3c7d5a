// Package store is the object store boundary for sitesync: writing,
// enumerating and removing objects in the deployment bucket.
//
// Errors returned by S3Store are *StorageError values classified by kind,
// so callers use errors.Is(err, store.ErrAccessDenied) rather than string
// matching.
package store

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Object is a single object write.
type Object struct {
	Bucket       string
	Key          string
	ContentType  string
	CacheControl string
	// Size is the body length in bytes, or -1 if unknown.
	Size int64
	Body io.Reader
}

// ObjectStore is the object store boundary.
type ObjectStore interface {
	// PutObject writes obj, replacing any existing object at its key.
	PutObject(ctx context.Context, obj Object) error
	// ListKeys returns every key in bucket. Pagination is exhausted
	// before returning; callers see one complete snapshot.
	ListKeys(ctx context.Context, bucket string) ([]string, error)
	// DeleteObject removes key from bucket.
	DeleteObject(ctx context.Context, bucket, key string) error
}

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements ObjectStore on Amazon S3 or an S3-compatible service.
type S3Store struct {
	client S3API
	// pageSize bounds keys per ListObjectsV2 page; 0 uses the service default.
	pageSize int32
}

// S3Option configures an S3Store.
type S3Option func(*S3Store)

// WithPageSize sets the maximum keys requested per listing page.
func WithPageSize(n int32) S3Option {
	return func(s *S3Store) { s.pageSize = n }
}

// NewS3Store creates an S3Store over client.
func NewS3Store(client S3API, opts ...S3Option) *S3Store {
	s := &S3Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ObjectStore = (*S3Store)(nil)

// PutObject uploads obj with its content type and cache directive.
func (s *S3Store) PutObject(ctx context.Context, obj Object) error {
	in := &s3.PutObjectInput{
		Bucket:       aws.String(obj.Bucket),
		Key:          aws.String(obj.Key),
		Body:         obj.Body,
		ContentType:  aws.String(obj.ContentType),
		CacheControl: aws.String(obj.CacheControl),
	}
	if obj.Size >= 0 {
		in.ContentLength = aws.Int64(obj.Size)
	}
	_, err := s.client.PutObject(ctx, in)
	return NewStorageError("put", obj.Bucket, obj.Key, err)
}

// ListKeys pages through ListObjectsV2 until the listing is exhausted.
func (s *S3Store) ListKeys(ctx context.Context, bucket string) ([]string, error) {
	in := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if s.pageSize > 0 {
		in.MaxKeys = aws.Int32(s.pageSize)
	}

	var keys []string
	p := s3.NewListObjectsV2Paginator(s.client, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, NewStorageError("list", bucket, "", err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

// DeleteObject removes a single key.
func (s *S3Store) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return NewStorageError("delete", bucket, key, err)
}
