package tui

import (
	"bytes"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/bmake/internal/core/domain"
)

const (
	targetListWidthRatio = 0.3
	logPaneBorderWidth   = 4
	footerHeight         = 1
)

// TargetNode is a single target in the list.
type TargetNode struct {
	Name    string
	Status  domain.TargetStatus
	Elapsed time.Duration
	Err     error
	Term    *Vterm
}

// Model is the TUI state.
type Model struct {
	Targets      []*TargetNode
	TargetMap    map[string]*TargetNode
	ActiveTarget string
	SelectedIdx  int
	ListOffset   int
	ListHeight   int
	LogWidth     int
	LogHeight    int
	FollowMode   bool
	Summary      string
}

// NewModel creates a model that follows the running target.
func NewModel() *Model {
	return &Model{
		TargetMap:  make(map[string]*TargetNode),
		FollowMode: true,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case MsgPlan:
		m.Targets = make([]*TargetNode, len(msg.Order))
		m.TargetMap = make(map[string]*TargetNode, len(msg.Order))
		for i, name := range msg.Order {
			term := NewVterm()
			if m.LogWidth > 0 && m.LogHeight > 0 {
				term.SetWidth(m.LogWidth)
				term.SetHeight(m.LogHeight)
			}
			m.Targets[i] = &TargetNode{Name: name, Status: domain.StatusPending, Term: term}
			m.TargetMap[name] = m.Targets[i]
		}

	case MsgTargetStart:
		if node, ok := m.TargetMap[msg.Name]; ok {
			node.Status = domain.StatusRunning
			if m.FollowMode {
				m.selectTarget(msg.Name)
			}
		}

	case MsgCommand:
		if node, ok := m.TargetMap[msg.Name]; ok {
			_, _ = node.Term.Write([]byte(commandStyle.Render("$ "+msg.Command) + "\r\n"))
		}

	case MsgTargetLog:
		if node, ok := m.TargetMap[msg.Name]; ok {
			// Output comes from pipes, not a pty, so apply the terminal's newline translation.
			_, _ = node.Term.Write(bytes.ReplaceAll(msg.Data, []byte("\n"), []byte("\r\n")))
		}

	case MsgTargetComplete:
		if node, ok := m.TargetMap[msg.Name]; ok {
			node.Status = msg.Status
			node.Elapsed = msg.Elapsed
			node.Err = msg.Err
		}

	case MsgRunComplete:
		m.Summary = msg.Summary
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.FollowMode = false
			m.SelectedIdx--
			m.updateActiveView()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Targets)-1 {
			m.FollowMode = false
			m.SelectedIdx++
			m.updateActiveView()
		}
	case "esc":
		m.FollowMode = true
		for _, t := range m.Targets {
			if t.Status == domain.StatusRunning {
				m.selectTarget(t.Name)
				break
			}
		}
	default:
		if node, ok := m.TargetMap[m.ActiveTarget]; ok {
			node.Term.Update(msg)
		}
	}
	return nil
}

func (m *Model) resize(width, height int) {
	listWidth := int(float64(width) * targetListWidthRatio)
	m.LogWidth = width - listWidth - logPaneBorderWidth

	headerHeight := lipgloss.Height(titleStyle.Render("LOGS"))
	m.LogHeight = height - headerHeight - footerHeight

	fullHeader := titleStyle.Render("TARGETS") + "\n\n"
	m.ListHeight = height - lipgloss.Height(fullHeader) - footerHeight
	m.ensureVisible()

	for _, node := range m.Targets {
		node.Term.SetWidth(m.LogWidth)
		node.Term.SetHeight(m.LogHeight)
	}
}

func (m *Model) selectTarget(name string) {
	for i, t := range m.Targets {
		if t.Name == name {
			m.SelectedIdx = i
			break
		}
	}
	m.updateActiveView()
}

func (m *Model) updateActiveView() {
	m.ensureVisible()
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.Targets) {
		return
	}
	node := m.Targets[m.SelectedIdx]
	m.ActiveTarget = node.Name
	if m.FollowMode {
		node.Term.ScrollToBottom()
	}
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

// Failed returns the targets that failed, in plan order.
func (m *Model) Failed() []*TargetNode {
	var failed []*TargetNode
	for _, t := range m.Targets {
		if t.Status == domain.StatusFailed {
			failed = append(failed, t)
		}
	}
	return failed
}
