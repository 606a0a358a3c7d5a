// Package iox holds cleanup helpers for closers and flushers whose errors
// cannot change the result of a deploy.
package iox

import "io"

// DiscardClose closes c and drops the error, for deferred closes of
// response bodies, read-only files and notifiers:
//
//	defer iox.DiscardClose(resp.Body)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc adapts c for t.Cleanup.
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}

// DiscardErr calls fn and drops the error. Used for logger syncs, which
// fail on some terminals:
//
//	defer iox.DiscardErr(logger.Sync)
func DiscardErr(fn func() error) { _ = fn() }
