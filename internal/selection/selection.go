// Package selection decides which walked files are flattened into the output.
//
// Two mutually exclusive predicate modes exist:
//
//  1. Glob mode: a path is selected iff it matches at least one include
//     pattern and no exclude pattern. Patterns are doublestar globs. A
//     pattern without a path separator is matched against the path's base
//     name; a pattern containing a separator is matched against the whole
//     root-relative slash path. This is the gitignore convention, so "*.py"
//     selects .py files at any depth.
//
//  2. Extension mode (legacy): a path is selected iff its extension, without
//     the leading dot, is an exact case-sensitive member of the configured
//     set. Files without an extension are never selected.
//
// Selection is a pure function of (path, rules): patterns are validated at
// construction, so Match never fails and carries no hidden state.
package selection

import (
	"fmt"
	pathpkg "path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rules is the active selection predicate for one run.
type Rules struct {
	include []string
	exclude []string
	exts    map[string]struct{}
}

// DefaultIncludes returns the stock include set used when no patterns and no
// legacy config are given: common source, doc, and text extensions.
func DefaultIncludes() []string {
	return []string{
		"*.py", "*.rs", "*.go",
		"*.c", "*.h", "*.cpp", "*.hpp",
		"*.md", "*.rst", "*.toml", "*.txt",
	}
}

// NewGlobRules builds glob-mode rules. An empty include list falls back to
// DefaultIncludes; the default exclude list is empty. Every pattern is
// validated up front so that Match stays infallible.
func NewGlobRules(include, exclude []string) (*Rules, error) {
	if len(include) == 0 {
		include = DefaultIncludes()
	}

	for _, p := range include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	return &Rules{include: include, exclude: exclude}, nil
}

// NewExtensionRules builds extension-mode rules. A leading dot on an entry is
// tolerated; matching is case-sensitive. Extension mode has no exclude
// concept.
func NewExtensionRules(exts []string) *Rules {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.TrimPrefix(e, ".")] = struct{}{}
	}
	return &Rules{exts: set}
}

// Match reports whether the root-relative slash path is selected. Exclude
// patterns win over include patterns.
func (r *Rules) Match(path string) bool {
	if r.exts != nil {
		return r.matchExtension(path)
	}
	if !matchAny(r.include, path) {
		return false
	}
	return !matchAny(r.exclude, path)
}

func (r *Rules) matchExtension(path string) bool {
	base := pathpkg.Base(path)
	ext := pathpkg.Ext(base)
	// A dotfile's leading dot does not start an extension: ".py" is a name
	// with no extension, not an empty name with extension "py".
	if ext == "" || ext == base {
		return false
	}
	_, ok := r.exts[ext[1:]]
	return ok
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		target := path
		if !strings.Contains(pattern, "/") {
			target = pathpkg.Base(path)
		}
		// Patterns were validated at construction; Match cannot fail here.
		ok, _ := doublestar.Match(pattern, target)
		if ok {
			return true
		}
	}
	return false
}
