package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bmake/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/bmake/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/bmake/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/bmake/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/bmake/internal/adapters/script"  //nolint:depguard // Wired in app layer
	"go.trai.ch/bmake/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/bmake/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/bmake/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			script.NodeID,
			config.NodeID,
			fs.GlobberNodeID,
			shell.NodeID,
			cas.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	source, err := graft.Dep[ports.ScriptSource](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}

	globber, err := graft.Dep[ports.Globber](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.CommandRunner](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.RunStore](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(source, settings, globber, runner, store, watchers, log), nil
}
