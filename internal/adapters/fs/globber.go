package fs

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Globber = (*Globber)(nil)

// Globber implements ports.Globber on the local filesystem.
//
// Patterns use filepath.Match syntax. A pattern containing "**" is matched against
// every file below its static prefix instead, with "**" spanning directories.
type Globber struct {
	walker *Walker
	dir    string
}

// NewGlobber creates a Globber that resolves relative patterns against the working directory.
func NewGlobber(walker *Walker) *Globber {
	return &Globber{walker: walker}
}

// WithDir returns a copy of the globber that resolves relative patterns against dir.
// Matches of relative patterns stay relative to dir.
func (g *Globber) WithDir(dir string) *Globber {
	return &Globber{walker: g.walker, dir: dir}
}

// Glob returns the files matching pattern in lexical order, or nil if nothing matches.
func (g *Globber) Glob(pattern string) ([]string, error) {
	var (
		matches []string
		err     error
	)
	if strings.Contains(pattern, "**") {
		matches, err = g.globRecursive(pattern)
	} else {
		matches, err = filepath.Glob(g.abs(pattern))
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid glob pattern"), "pattern", pattern)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	res := make([]string, 0, len(matches))
	for _, m := range matches {
		res = append(res, g.rel(pattern, m))
	}
	slices.Sort(res)
	return res, nil
}

func (g *Globber) globRecursive(pattern string) ([]string, error) {
	matcher, err := glob.Compile(filepath.ToSlash(g.abs(pattern)), '/')
	if err != nil {
		return nil, err
	}

	var matches []string
	for path := range g.walker.WalkFiles(g.abs(staticPrefix(pattern))) {
		if matcher.Match(filepath.ToSlash(path)) {
			matches = append(matches, path)
		}
	}
	return matches, nil
}

func (g *Globber) abs(pattern string) string {
	if g.dir == "" || filepath.IsAbs(pattern) {
		return pattern
	}
	return filepath.Join(g.dir, pattern)
}

func (g *Globber) rel(pattern, match string) string {
	if g.dir == "" || filepath.IsAbs(pattern) {
		return match
	}
	if rel, err := filepath.Rel(g.dir, match); err == nil {
		return rel
	}
	return match
}

// staticPrefix returns the directory part of pattern that precedes the first
// segment containing a glob meta character.
func staticPrefix(pattern string) string {
	segments := strings.Split(filepath.ToSlash(pattern), "/")
	var prefix []string
	for _, seg := range segments {
		if strings.ContainsAny(seg, `*?[{\`) {
			break
		}
		prefix = append(prefix, seg)
	}
	if len(prefix) == 0 {
		return "."
	}
	joined := strings.Join(prefix, "/")
	if joined == "" {
		return "/"
	}
	return filepath.FromSlash(joined)
}
