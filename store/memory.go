package store

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// MemoryObject is an object held by MemoryStore.
type MemoryObject struct {
	Data         []byte
	ContentType  string
	CacheControl string
}

// MemoryStore is an in-process ObjectStore for tests in other packages.
// It records every call so tests can assert on them.
//
// Failures can be injected per key (PutErrs, DeleteErrs) or for listing
// (ListErr). All methods are safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]map[string]MemoryObject

	PutErrs    map[string]error
	DeleteErrs map[string]error
	ListErr    error

	PutCalls    int
	ListCalls   int
	DeleteCalls int
	PutKeys     []string
	DeleteKeys  []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]map[string]MemoryObject)}
}

var _ ObjectStore = (*MemoryStore)(nil)

// Seed adds objects with empty content to bucket.
func (m *MemoryStore) Seed(bucket string, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucketLocked(bucket)
	for _, k := range keys {
		b[k] = MemoryObject{}
	}
}

// Get returns the object at bucket/key.
func (m *MemoryStore) Get(bucket, key string) (MemoryObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.buckets[bucket][key]
	return obj, ok
}

// Keys returns the sorted keys currently in bucket.
func (m *MemoryStore) Keys(bucket string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.buckets[bucket]))
	for k := range m.buckets[bucket] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PutObject stores obj, reading its body fully.
func (m *MemoryStore) PutObject(ctx context.Context, obj Object) error {
	m.mu.Lock()
	m.PutCalls++
	m.PutKeys = append(m.PutKeys, obj.Key)
	injected := m.PutErrs[obj.Key]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return NewStorageError("put", obj.Bucket, obj.Key, err)
	}
	if injected != nil {
		return NewStorageError("put", obj.Bucket, obj.Key, injected)
	}

	var data []byte
	if obj.Body != nil {
		b, err := io.ReadAll(obj.Body)
		if err != nil {
			return NewStorageError("put", obj.Bucket, obj.Key, fmt.Errorf("read body: %w", err))
		}
		data = b
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucketLocked(obj.Bucket)[obj.Key] = MemoryObject{
		Data:         data,
		ContentType:  obj.ContentType,
		CacheControl: obj.CacheControl,
	}
	return nil
}

// ListKeys returns a snapshot of the keys in bucket.
func (m *MemoryStore) ListKeys(ctx context.Context, bucket string) ([]string, error) {
	m.mu.Lock()
	m.ListCalls++
	listErr := m.ListErr
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, NewStorageError("list", bucket, "", err)
	}
	if listErr != nil {
		return nil, NewStorageError("list", bucket, "", listErr)
	}
	return m.Keys(bucket), nil
}

// DeleteObject removes key from bucket. Deleting a missing key succeeds,
// matching S3 semantics.
func (m *MemoryStore) DeleteObject(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	m.DeleteKeys = append(m.DeleteKeys, key)

	if err := ctx.Err(); err != nil {
		return NewStorageError("delete", bucket, key, err)
	}
	if err := m.DeleteErrs[key]; err != nil {
		return NewStorageError("delete", bucket, key, err)
	}
	delete(m.buckets[bucket], key)
	return nil
}

func (m *MemoryStore) bucketLocked(bucket string) map[string]MemoryObject {
	b, ok := m.buckets[bucket]
	if !ok {
		b = make(map[string]MemoryObject)
		m.buckets[bucket] = b
	}
	return b
}
