// Package fs provides file system adapters for walking and globbing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/bmake/internal/core/domain"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files below root, skipping VCS and bmake state directories.
// Paths are yielded as filepath.WalkDir produces them, prefixed with root.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries are left out of the result.
				return nil
			}

			if d.IsDir() {
				if path != root && SkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

// SkipDir reports whether a directory named name is never walked or watched.
func SkipDir(name string) bool {
	switch name {
	case ".git", ".jj", domain.StateDirName:
		return true
	default:
		return false
	}
}
