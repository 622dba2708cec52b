// Package script locates and reads bmake scripts from disk.
package script

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ScriptSource = (*FileSource)(nil)

// FileSource implements ports.ScriptSource on the local filesystem.
type FileSource struct{}

// NewFileSource creates a new FileSource.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Locate returns the script to use in dir. A relative explicit path is resolved against dir.
func (s *FileSource) Locate(dir, explicit string) (string, error) {
	if explicit != "" {
		path := explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if !isFile(path) {
			return "", zerr.With(zerr.Wrap(domain.ErrScriptNotFound, "explicit script"), "path", path)
		}
		return path, nil
	}

	for _, name := range domain.DefaultScriptNames {
		path := filepath.Join(dir, name)
		if isFile(path) {
			return path, nil
		}
	}

	err := zerr.Wrap(domain.ErrScriptNotFound, "no default script")
	err = zerr.With(err, "dir", dir)
	return "", zerr.With(err, "candidates", strings.Join(domain.DefaultScriptNames, ", "))
}

// Load reads the script at path and splits it into lines.
func (s *FileSource) Load(path string) (*domain.SourceFile, error) {
	//nolint:gosec // Reading the user's script is the point
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrScriptNotFound, "script does not exist"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScriptReadFailed.Error()), "path", path)
	}

	return &domain.SourceFile{Path: path, Lines: SplitLines(string(data))}, nil
}

// SplitLines splits text into lines without terminators. A final newline does not
// produce an empty trailing line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
