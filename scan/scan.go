// Package scan enumerates the local build output as deployable files.
//
// Files are only stat'ed here. Content is read at upload time so that large
// trees are never held in memory.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/policy"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// DefaultContentType is used when an extension has no known MIME type.
const DefaultContentType = "application/octet-stream"

// webTypes pins the types of common web assets. mime.TypeByExtension reads
// host tables (/etc/mime.types, the Windows registry) that disagree between
// machines, so these take precedence.
var webTypes = map[string]string{
	".html":        "text/html; charset=utf-8",
	".css":         "text/css; charset=utf-8",
	".js":          "text/javascript; charset=utf-8",
	".mjs":         "text/javascript; charset=utf-8",
	".json":        "application/json",
	".map":         "application/json",
	".webmanifest": "application/manifest+json",
	".txt":         "text/plain; charset=utf-8",
	".xml":         "application/xml",
	".svg":         "image/svg+xml",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".ico":         "image/x-icon",
	".webp":        "image/webp",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".ttf":         "font/ttf",
	".eot":         "application/vnd.ms-fontobject",
	".wasm":        "application/wasm",
}

// ContentType returns the MIME type for key based on its extension.
// Extension matching is case-insensitive.
func ContentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ext == "" {
		return DefaultContentType
	}
	if ct, ok := webTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return DefaultContentType
}

// Scanner walks a build output directory.
type Scanner struct {
	// CachePolicy resolves the Cache-Control directive per key.
	// Defaults to policy.CacheControl.
	CachePolicy policy.Resolver
}

// NewScanner creates a Scanner using the default cache policy.
func NewScanner() *Scanner {
	return &Scanner{CachePolicy: policy.CacheControl}
}

// Scan returns every regular file under root, sorted by key.
// Directories are not emitted. The root and any symlinks below it are
// followed, including links to directories; a link back to one of its own
// ancestor directories is skipped. Other non-regular entries are skipped.
func (s *Scanner) Scan(root string) ([]types.DeployableFile, error) {
	resolve := s.CachePolicy
	if resolve == nil {
		resolve = policy.CacheControl
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve build root %q: %w", root, err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("build root %q does not exist (was the build run?)", root)
		}
		return nil, fmt.Errorf("resolve build root %q: %w", root, err)
	}
	info, err := os.Stat(realRoot)
	if err != nil {
		return nil, fmt.Errorf("stat build root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build root %q is not a directory", root)
	}

	w := &walker{
		root:      realRoot,
		resolve:   resolve,
		ancestors: map[string]struct{}{},
	}
	if err := w.walk(realRoot, realRoot); err != nil {
		return nil, err
	}

	sort.Slice(w.out, func(i, j int) bool { return w.out[i].Key < w.out[j].Key })
	return w.out, nil
}

// walker descends through the tree by logical path. Keys are derived from
// the logical path so a linked directory contributes keys under the link's
// name.
type walker struct {
	root      string
	resolve   policy.Resolver
	ancestors map[string]struct{} // resolved paths of directories being walked
	out       []types.DeployableFile
}

func (w *walker) walk(dir, realDir string) error {
	if _, ok := w.ancestors[realDir]; ok {
		return nil
	}
	w.ancestors[realDir] = struct{}{}
	defer delete(w.ancestors, realDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("walk %q: %w", dir, err)
	}
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		fi, err := os.Stat(p) // follows symlinks
		if err != nil {
			return fmt.Errorf("stat %q: %w", p, err)
		}

		switch {
		case fi.IsDir():
			realSub := filepath.Join(realDir, e.Name())
			if e.Type()&fs.ModeSymlink != 0 {
				if realSub, err = filepath.EvalSymlinks(p); err != nil {
					return fmt.Errorf("resolve %q: %w", p, err)
				}
			}
			if err := w.walk(p, realSub); err != nil {
				return err
			}
		case fi.Mode().IsRegular():
			key, err := Key(w.root, p)
			if err != nil {
				return err
			}
			w.out = append(w.out, types.DeployableFile{
				Key:          key,
				AbsolutePath: p,
				ContentType:  ContentType(key),
				CacheControl: w.resolve(key),
				Size:         fi.Size(),
			})
		}
	}
	return nil
}

// Key derives the canonical object key for a file below root: the relative
// path with forward slashes, independent of host path conventions.
func Key(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", fmt.Errorf("relative path of %q: %w", file, err)
	}
	if rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", fmt.Errorf("%q is not below build root %q", file, root)
	}
	return filepath.ToSlash(rel), nil
}
