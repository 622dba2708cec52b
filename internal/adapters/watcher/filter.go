package watcher

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	bfs "go.trai.ch/bmake/internal/adapters/fs"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/zerr"
)

// Filter decides which changed paths trigger a re-run.
// Paths inside skipped directories never match. With no patterns every other path
// matches; otherwise the path relative to root must match one of the patterns,
// where "*" stays within a directory and "**" spans directories.
type Filter struct {
	root     string
	patterns []glob.Glob
}

// NewFilter compiles patterns relative to root.
func NewFilter(root string, patterns []string) (*Filter, error) {
	f := &Filter{root: root}
	for _, p := range patterns {
		g, err := glob.Compile(filepath.ToSlash(p), '/')
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidWatchPattern, err.Error()), "pattern", p)
		}
		f.patterns = append(f.patterns, g)
	}
	return f, nil
}

// Match reports whether a change to path should trigger a re-run.
func (f *Filter) Match(path string) bool {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(f.root, path)
		if err != nil || strings.HasPrefix(r, "..") {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)

	for _, segment := range strings.Split(rel, "/") {
		if bfs.SkipDir(segment) {
			return false
		}
	}

	if len(f.patterns) == 0 {
		return true
	}
	for _, g := range f.patterns {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
