package linear

import (
	"io"

	"github.com/muesli/termenv"

	"go.trai.ch/bmake/internal/core/ports"
)

// Node creates renderers. Renderers are built per run, so this is not a Graft node.
type Node struct{}

// NewNode creates a new Node.
func NewNode() *Node {
	return &Node{}
}

// Output modes understood by Renderer.
const (
	ModeLinear = "linear"
	ModePlain  = "plain"
	ModeQuiet  = "quiet"
)

// Renderer returns a renderer for the given output mode writing to stdout and stderr.
// Unknown modes fall back to the linear renderer.
func (n *Node) Renderer(mode string, stdout, stderr io.Writer) ports.Renderer {
	switch mode {
	case ModeQuiet:
		return NewQuietRenderer(stderr)
	case ModePlain:
		return NewRendererWithProfile(stdout, stderr, func() termenv.Profile { return termenv.Ascii })
	default:
		return NewRenderer(stdout, stderr)
	}
}
