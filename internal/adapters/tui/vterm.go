package tui

import (
	"bytes"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/midterm"
)

// Vterm holds the scrollback of one target's commands.
type Vterm struct {
	vt      *midterm.Terminal
	Offset  int
	Height  int
	Width   int
	viewBuf *bytes.Buffer
	mu      sync.Mutex
}

// NewVterm creates a new Vterm instance.
func NewVterm() *Vterm {
	return &Vterm{
		vt:      midterm.NewAutoResizingTerminal(),
		viewBuf: new(bytes.Buffer),
	}
}

// Write implements io.Writer to write output to the virtual terminal.
func (v *Vterm) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Follow new output only when the view is already at the bottom.
	stickToBottom := v.Offset >= v.maxOffset()

	n, err := v.vt.Write(p)

	if stickToBottom {
		v.Offset = v.maxOffset()
	}

	return n, err
}

// SetHeight updates the view height and keeps the offset in range.
func (v *Vterm) SetHeight(h int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if h < 1 {
		h = 1
	}

	stickToBottom := v.Offset >= v.maxOffset()
	v.Height = h

	if stickToBottom || v.Offset > v.maxOffset() {
		v.Offset = v.maxOffset()
	}
}

// SetWidth updates the terminal width.
func (v *Vterm) SetWidth(w int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if w < 1 {
		w = 1
	}
	v.Width = w
	v.vt.ResizeX(w)
}

// UsedHeight returns the number of lines written so far.
func (v *Vterm) UsedHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// View renders the visible window of the scrollback.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.clamp()
	v.viewBuf.Reset()
	for i := 0; i < v.Height; i++ {
		row := v.Offset + i
		if row >= v.vt.UsedHeight() {
			break
		}
		if i > 0 {
			_ = v.viewBuf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(v.viewBuf, row)
	}
	return v.viewBuf.String()
}

// Content renders the whole scrollback, trailing blank lines removed.
func (v *Vterm) Content() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	var buf bytes.Buffer
	for row := 0; row < v.vt.UsedHeight(); row++ {
		if row > 0 {
			_ = buf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(&buf, row)
	}
	return strings.TrimRight(buf.String(), "\n ")
}

// Update scrolls the view on key presses.
func (v *Vterm) Update(msg tea.Msg) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "pgup":
			v.Offset -= v.Height
		case "pgdown":
			v.Offset += v.Height
		case "home":
			v.Offset = 0
		case "end":
			v.Offset = v.maxOffset()
		}
	}
	v.clamp()
}

// ScrollToBottom moves the view to the latest output.
func (v *Vterm) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Offset = v.maxOffset()
}

func (v *Vterm) clamp() {
	if v.Offset < 0 {
		v.Offset = 0
	}
	if limit := v.maxOffset(); v.Offset > limit {
		v.Offset = limit
	}
}

func (v *Vterm) maxOffset() int {
	maxOff := v.vt.UsedHeight() - v.Height
	if maxOff < 0 {
		return 0
	}
	return maxOff
}
