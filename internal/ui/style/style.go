// Package style holds the colors and icons shared by the logger and the renderers.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/bmake/internal/core/domain"
)

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	White  = lipgloss.Color("#FFFFFF")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)

// ForStatus returns the icon and color used to present a target status.
func ForStatus(status domain.TargetStatus) (string, lipgloss.Color) {
	switch status {
	case domain.StatusCompleted:
		return Check, Green
	case domain.StatusCached:
		return Tilde, Green
	case domain.StatusFailed:
		return Cross, Red
	case domain.StatusCancelled:
		return Warning, Yellow
	case domain.StatusRunning:
		return Dot, Iris
	default:
		return Circle, Slate
	}
}
