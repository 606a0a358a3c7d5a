package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.Seed("b", "old.js")

	err := m.PutObject(ctx, Object{
		Bucket: "b", Key: "index.html", ContentType: "text/html",
		CacheControl: "no-cache", Size: 2, Body: strings.NewReader("hi"),
	})
	if err != nil {
		t.Fatalf("PutObject failed: %v", err)
	}

	keys, err := m.ListKeys(ctx, "b")
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if diff := cmp.Diff([]string{"index.html", "old.js"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	obj, ok := m.Get("b", "index.html")
	if !ok || string(obj.Data) != "hi" || obj.CacheControl != "no-cache" {
		t.Errorf("Get = %+v, %v", obj, ok)
	}

	if err := m.DeleteObject(ctx, "b", "old.js"); err != nil {
		t.Fatalf("DeleteObject failed: %v", err)
	}
	if err := m.DeleteObject(ctx, "b", "never-existed"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
	if diff := cmp.Diff([]string{"index.html"}, m.Keys("b")); diff != "" {
		t.Errorf("keys after delete mismatch (-want +got):\n%s", diff)
	}
	if m.PutCalls != 1 || m.ListCalls != 1 || m.DeleteCalls != 2 {
		t.Errorf("calls put=%d list=%d delete=%d", m.PutCalls, m.ListCalls, m.DeleteCalls)
	}
}

func TestMemoryStore_InjectedErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.PutErrs = map[string]error{"bad.js": errors.New("AccessDenied")}
	m.DeleteErrs = map[string]error{"stuck.js": errors.New("SlowDown")}
	m.ListErr = errors.New("no such bucket")

	if err := m.PutObject(ctx, Object{Bucket: "b", Key: "bad.js"}); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("PutObject err = %v, want ErrAccessDenied", err)
	}
	if _, ok := m.Get("b", "bad.js"); ok {
		t.Error("failed put must not store the object")
	}
	if err := m.DeleteObject(ctx, "b", "stuck.js"); !errors.Is(err, ErrThrottled) {
		t.Errorf("DeleteObject err = %v, want ErrThrottled", err)
	}
	if _, err := m.ListKeys(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ListKeys err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryStore().PutObject(ctx, Object{Bucket: "b", Key: "k"})
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("err = %v, want ErrCanceled", err)
	}
}
