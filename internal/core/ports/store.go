package ports

import "go.trai.ch/bmake/internal/core/domain"

// RunStore persists the outcome of successful targets for the run cache.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type RunStore interface {
	// Get retrieves the last successful record of a target.
	// Returns nil, nil if not found.
	Get(root, target string) (*domain.RunRecord, error)

	// Put stores a record, replacing any previous record of the same target.
	Put(root string, record domain.RunRecord) error
	// Clean removes every record kept for the project at root.
	Clean(root string) error
}
