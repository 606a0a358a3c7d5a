// Package policy resolves the Cache-Control directive attached to each
// uploaded object.
//
// Directive classes:
//   - HTML documents are always revalidated, since they reference hashed asset names
//   - static assets (scripts, styles, images, fonts) are cached for one year
//   - everything else is cached for one hour
//
// Long-lived caching of static assets is only safe when the build step
// content-hashes their filenames. Resolution does not verify that.
package policy

import (
	"path"
	"strings"
)

// Cache directives.
const (
	NoCache    = "no-cache, no-store, must-revalidate"
	Immutable  = "public, max-age=31536000"
	ShortLived = "public, max-age=3600"
)

// Resolver maps an object key to its Cache-Control directive.
// Implementations must be total: every key yields a directive.
type Resolver func(key string) string

// staticExtensions are the asset extensions served with the Immutable directive.
var staticExtensions = map[string]struct{}{
	"js":    {},
	"css":   {},
	"png":   {},
	"jpg":   {},
	"jpeg":  {},
	"gif":   {},
	"ico":   {},
	"svg":   {},
	"woff":  {},
	"woff2": {},
	"ttf":   {},
	"eot":   {},
}

// CacheControl returns the directive for key. It is pure and never fails.
// Matching is case-sensitive: "INDEX.HTML" gets the default directive.
func CacheControl(key string) string {
	if strings.HasSuffix(key, ".html") {
		return NoCache
	}
	if ext := path.Ext(key); ext != "" {
		if _, ok := staticExtensions[ext[1:]]; ok {
			return Immutable
		}
	}
	return ShortLived
}
