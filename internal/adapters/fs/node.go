package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bmake/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the file walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// GlobberNodeID is the unique identifier for the globber Graft node.
	GlobberNodeID graft.ID = "adapter.fs.globber"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.Globber]{
		ID:        GlobberNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.Globber, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewGlobber(walker), nil
		},
	})
}
