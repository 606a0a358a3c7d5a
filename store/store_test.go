package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/go-cmp/cmp"
)

// fakeS3 is an S3API serving a fixed key list in pages of pageSize.
type fakeS3 struct {
	keys     []string
	pageSize int

	listErr   error
	putErr    error
	deleteErr error

	listCalls  int
	maxKeys    []int32
	tokensSeen []string
	puts       []*s3.PutObjectInput
	putBodies  []string
	deletes    []*s3.DeleteObjectInput
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	start := 0
	if in.ContinuationToken != nil {
		f.tokensSeen = append(f.tokensSeen, *in.ContinuationToken)
		if _, err := fmt.Sscanf(*in.ContinuationToken, "page-%d", &start); err != nil {
			return nil, err
		}
	}
	size := f.pageSize
	if in.MaxKeys != nil {
		f.maxKeys = append(f.maxKeys, *in.MaxKeys)
		if n := int(*in.MaxKeys); n < size {
			size = n
		}
	}
	end := start + size
	if end > len(f.keys) {
		end = len(f.keys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(f.keys))}
	for _, k := range f.keys[start:end] {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k)})
	}
	if end < len(f.keys) {
		out.NextContinuationToken = aws.String(fmt.Sprintf("page-%d", end))
	}
	return out, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.putBodies = append(f.putBodies, string(b))
	}
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

var _ S3API = (*fakeS3)(nil)

func TestS3Store_ListKeys_ExhaustsPages(t *testing.T) {
	var keys []string
	for i := 0; i < 7; i++ {
		keys = append(keys, fmt.Sprintf("k%d", i))
	}
	fake := &fakeS3{keys: keys, pageSize: 3}

	got, err := NewS3Store(fake).ListKeys(context.Background(), "bucket")
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if diff := cmp.Diff(keys, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if fake.listCalls != 3 {
		t.Errorf("listCalls = %d, want 3", fake.listCalls)
	}
	if diff := cmp.Diff([]string{"page-3", "page-6"}, fake.tokensSeen); diff != "" {
		t.Errorf("continuation tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestS3Store_ListKeys_PageSize(t *testing.T) {
	keys := []string{"a.js", "b.js", "c.js", "d.js", "index.html"}
	fake := &fakeS3{keys: keys, pageSize: 1000}

	got, err := NewS3Store(fake, WithPageSize(2)).ListKeys(context.Background(), "bucket")
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if diff := cmp.Diff(keys, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{2, 2, 2}, fake.maxKeys); diff != "" {
		t.Errorf("MaxKeys mismatch (-want +got):\n%s", diff)
	}
}

func TestS3Store_ListKeys_DefaultPageSizeOmitsMaxKeys(t *testing.T) {
	fake := &fakeS3{keys: []string{"a"}, pageSize: 10}
	if _, err := NewS3Store(fake).ListKeys(context.Background(), "bucket"); err != nil {
		t.Fatal(err)
	}
	if len(fake.maxKeys) != 0 {
		t.Errorf("MaxKeys sent without a page size: %v", fake.maxKeys)
	}
}

func TestS3Store_ListKeys_EmptyBucket(t *testing.T) {
	fake := &fakeS3{pageSize: 10}

	got, err := NewS3Store(fake).ListKeys(context.Background(), "bucket")
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestS3Store_ListKeys_ErrorIsClassified(t *testing.T) {
	fake := &fakeS3{listErr: &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "gone"}}

	_, err := NewS3Store(fake).ListKeys(context.Background(), "missing-bucket")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %T", err)
	}
	if se.Op != "list" || se.Bucket != "missing-bucket" {
		t.Errorf("Op=%q Bucket=%q", se.Op, se.Bucket)
	}
}

func TestS3Store_PutObject_SetsHeaders(t *testing.T) {
	fake := &fakeS3{}
	err := NewS3Store(fake).PutObject(context.Background(), Object{
		Bucket:       "bucket",
		Key:          "index.html",
		ContentType:  "text/html; charset=utf-8",
		CacheControl: "no-cache, no-store, must-revalidate",
		Size:         5,
		Body:         strings.NewReader("hello"),
	})
	if err != nil {
		t.Fatalf("PutObject failed: %v", err)
	}
	if len(fake.puts) != 1 {
		t.Fatalf("puts = %d, want 1", len(fake.puts))
	}
	in := fake.puts[0]
	if aws.ToString(in.Bucket) != "bucket" || aws.ToString(in.Key) != "index.html" {
		t.Errorf("Bucket/Key = %q/%q", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != "text/html; charset=utf-8" {
		t.Errorf("ContentType = %q", aws.ToString(in.ContentType))
	}
	if aws.ToString(in.CacheControl) != "no-cache, no-store, must-revalidate" {
		t.Errorf("CacheControl = %q", aws.ToString(in.CacheControl))
	}
	if aws.ToInt64(in.ContentLength) != 5 {
		t.Errorf("ContentLength = %d, want 5", aws.ToInt64(in.ContentLength))
	}
	if fake.putBodies[0] != "hello" {
		t.Errorf("body = %q", fake.putBodies[0])
	}
}

func TestS3Store_PutObject_UnknownSizeOmitsLength(t *testing.T) {
	fake := &fakeS3{}
	err := NewS3Store(fake).PutObject(context.Background(), Object{
		Bucket: "b", Key: "k", Size: -1, Body: strings.NewReader("x"),
	})
	if err != nil {
		t.Fatalf("PutObject failed: %v", err)
	}
	if fake.puts[0].ContentLength != nil {
		t.Errorf("ContentLength = %d, want nil", *fake.puts[0].ContentLength)
	}
}

func TestS3Store_PutObject_Error(t *testing.T) {
	fake := &fakeS3{putErr: &smithy.GenericAPIError{Code: "AccessDenied"}}

	err := NewS3Store(fake).PutObject(context.Background(), Object{Bucket: "b", Key: "app.js", Size: -1})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if !strings.Contains(err.Error(), "s3://b/app.js") {
		t.Errorf("error should name the key, got: %v", err)
	}
}

func TestS3Store_DeleteObject(t *testing.T) {
	fake := &fakeS3{}
	if err := NewS3Store(fake).DeleteObject(context.Background(), "b", "old.js"); err != nil {
		t.Fatalf("DeleteObject failed: %v", err)
	}
	if len(fake.deletes) != 1 || aws.ToString(fake.deletes[0].Key) != "old.js" {
		t.Errorf("deletes = %+v", fake.deletes)
	}

	fake.deleteErr = errors.New("dial tcp: connection refused")
	err := NewS3Store(fake).DeleteObject(context.Background(), "b", "old.js")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"canceled", fmt.Errorf("op: %w", context.Canceled), ErrCanceled},
		{"api no such bucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, ErrNotFound},
		{"api access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, ErrAccessDenied},
		{"api slow down", &smithy.GenericAPIError{Code: "SlowDown"}, ErrThrottled},
		{"api expired token", &smithy.GenericAPIError{Code: "ExpiredToken"}, ErrAuth},
		{"api request timeout", &smithy.GenericAPIError{Code: "RequestTimeout"}, ErrTimeout},
		{"timeout interface", timeoutErr{}, ErrTimeout},
		{"message not found", errors.New("bucket does not exist"), ErrNotFound},
		{"message throttled", errors.New("Rate exceeded"), ErrThrottled},
		{"message credentials", errors.New("failed to retrieve credentials"), ErrAuth},
		{"message forbidden", errors.New("StatusCode: 403, Forbidden"), ErrAccessDenied},
		{"message network", errors.New("dial tcp 127.0.0.1:9000: connection refused"), ErrNetwork},
		{"unclassified", errors.New("something odd"), ErrUnclassified},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewStorageError_NilPassthrough(t *testing.T) {
	if err := NewStorageError("put", "b", "k", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
