package ports

import "go.trai.ch/bmake/internal/core/domain"

// ScriptSource finds and reads script files.
//
//go:generate mockgen -source=script_source.go -destination=mocks/mock_script_source.go -package=mocks
type ScriptSource interface {
	// Locate returns the script to use in dir. An explicit path wins; otherwise the
	// names in domain.DefaultScriptNames are probed in order.
	Locate(dir, explicit string) (string, error)

	// Load reads the script at path.
	Load(path string) (*domain.SourceFile, error)
}
