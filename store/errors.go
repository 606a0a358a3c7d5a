package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// Sentinel errors for object store failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrNotFound indicates the bucket or key does not exist (NoSuchBucket, 404).
	ErrNotFound = errors.New("not found")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrThrottled indicates rate limiting (SlowDown, 503, 429).
	ErrThrottled = errors.New("rate limited")

	// ErrAuth indicates authentication failure (no credentials, expired token).
	ErrAuth = errors.New("authentication failed")

	// ErrAccessDenied indicates authorization failure (valid creds but no permission).
	ErrAccessDenied = errors.New("access denied")

	// ErrNetwork indicates a network-level failure (connection refused, DNS).
	ErrNetwork = errors.New("network error")

	// ErrCanceled indicates the caller's context was canceled.
	ErrCanceled = errors.New("canceled")

	// ErrUnclassified is the kind for errors matching no other class.
	ErrUnclassified = errors.New("storage error")
)

// StorageError wraps an object store failure with its classification and
// the bucket/key involved. The original error stays in the chain.
type StorageError struct {
	// Kind is the sentinel error for classification (e.g., ErrAccessDenied).
	Kind error
	// Op is the operation that failed: "put", "list" or "delete".
	Op string
	// Bucket is the bucket involved.
	Bucket string
	// Key is the object key involved, empty for bucket-level operations.
	Key string
	// Err is the underlying error.
	Err error
}

func (e *StorageError) Error() string {
	target := e.Bucket
	if e.Key != "" {
		target = e.Bucket + "/" + e.Key
	}
	return fmt.Sprintf("%s s3://%s: %v: %v", e.Op, target, e.Kind, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *StorageError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// NewStorageError classifies err and wraps it. Returns nil if err is nil.
func NewStorageError(op, bucket, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{
		Kind:   Classify(err),
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Classify determines the sentinel kind for err. AWS API error codes are
// checked first, then timeout interfaces, then message patterns.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return ErrCanceled
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NoSuchKey", "NotFound", "NoSuchDistribution", "ValidationError":
			return ErrNotFound
		case "AccessDenied", "AccessDeniedException", "Forbidden", "AllAccessDisabled":
			return ErrAccessDenied
		case "SlowDown", "Throttling", "ThrottlingException", "TooManyRequests",
			"TooManyInvalidationsInProgress", "RequestLimitExceeded":
			return ErrThrottled
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken",
			"InvalidToken", "UnrecognizedClientException", "InvalidClientTokenId":
			return ErrAuth
		case "RequestTimeout", "RequestTimeoutException":
			return ErrTimeout
		}
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "no such bucket", "does not exist", "not found", "404"):
		return ErrNotFound
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return ErrTimeout
	case containsAny(msg, "slowdown", "rate exceeded", "throttl", "429"):
		return ErrThrottled
	case containsAny(msg, "nocredentialproviders", "failed to retrieve credentials",
		"expiredtoken", "401", "unauthorized"):
		return ErrAuth
	case containsAny(msg, "accessdenied", "access denied", "forbidden", "403"):
		return ErrAccessDenied
	case containsAny(msg, "connection refused", "no route to host", "network unreachable",
		"no such host", "dial tcp"):
		return ErrNetwork
	default:
		return ErrUnclassified
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
