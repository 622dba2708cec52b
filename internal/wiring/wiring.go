// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bmake/internal/adapters/cas"
	_ "go.trai.ch/bmake/internal/adapters/config"
	_ "go.trai.ch/bmake/internal/adapters/fs"
	_ "go.trai.ch/bmake/internal/adapters/logger"
	_ "go.trai.ch/bmake/internal/adapters/script"
	_ "go.trai.ch/bmake/internal/adapters/shell"
	_ "go.trai.ch/bmake/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/bmake/internal/app"
)
