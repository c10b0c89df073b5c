// Package ignore walks a directory tree while honoring gitignore rules.
package ignore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Walker traverses a root directory, skipping entries matched by the
// gitignore pattern chain read from the root, the .git directory itself, and
// anything that is not a regular file.
type Walker struct {
	root    string
	matcher gitignore.Matcher
}

// NewWalker reads the gitignore pattern chain under root and returns a Walker
// for it.
func NewWalker(root string) (*Walker, error) {
	bfs := osfs.New(root)
	patterns, err := gitignore.ReadPatterns(bfs, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	return &Walker{
		root:    root,
		matcher: gitignore.NewMatcher(patterns),
	}, nil
}

// Ignored reports whether the root-relative path is excluded from traversal.
func (w *Walker) Ignored(rel string, isDir bool) bool {
	if rel == "." {
		return false
	}

	parts := strings.Split(rel, string(os.PathSeparator))
	if isDir && parts[len(parts)-1] == ".git" {
		return true
	}
	return w.matcher.Match(parts, isDir)
}

// Files calls fn once per regular, non-ignored file under the root, passing
// the root-relative slash path, in the walker's lexical order. The order is
// deterministic for a fixed filesystem snapshot within one run. A non-nil
// error from fn stops the walk.
func (w *Walker) Files(fn func(rel string) error) error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if w.Ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if w.Ignored(rel, false) {
			return nil
		}

		// Devices, sockets, broken symlinks, and symlinks that do not
		// resolve to a regular file are never yielded.
		if !d.Type().IsRegular() {
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		}

		return fn(filepath.ToSlash(rel))
	})
}
