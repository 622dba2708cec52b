package script

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bmake/internal/core/ports"
)

// NodeID is the unique identifier for the script source Graft node.
const NodeID graft.ID = "adapter.script_source"

func init() {
	graft.Register(graft.Node[ports.ScriptSource]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ScriptSource, error) {
			return NewFileSource(), nil
		},
	})
}
