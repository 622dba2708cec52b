package ports

import "go.trai.ch/bmake/internal/core/domain"

// SettingsLoader loads project settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type SettingsLoader interface {
	// Load reads bmake.yaml from dir. A missing file yields domain.DefaultSettings().
	Load(dir string) (domain.Settings, error)
}
