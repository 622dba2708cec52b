// Package cas implements the run cache store.
package cas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RunStore = (*Store)(nil)

// Store implements ports.RunStore using a file-per-target strategy under
// <root>/.bmake/runs.
type Store struct{}

// NewStore creates a new run store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the last successful record of a target.
func (s *Store) Get(root, target string) (*domain.RunRecord, error) {
	filename := s.filename(root, target)
	//nolint:gosec // Path is constructed from the project root and a hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "target", target)
	}

	var record domain.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "target", target)
	}

	return &record, nil
}

// Put stores the record, replacing the previous record of the same target.
func (s *Store) Put(root string, record domain.RunRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.filename(root, record.Target)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from the project root and a hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "target", record.Target)
	}

	return nil
}

// Clean removes the state directory of the project at root.
func (s *Store) Clean(root string) error {
	return os.RemoveAll(filepath.Join(root, domain.DefaultStatePath()))
}

func (s *Store) filename(root, target string) string {
	name := fmt.Sprintf("%016x.json", xxhash.Sum64String(target))
	return filepath.Join(root, domain.DefaultRunsPath(), name)
}
