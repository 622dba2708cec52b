package tui_test

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bmake/internal/adapters/tui"
	"go.trai.ch/bmake/internal/core/domain"
)

func newPlannedModel(t *testing.T, order ...string) *tui.Model {
	t.Helper()
	m := tui.NewModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m.Update(tui.MsgPlan{Roots: order[len(order)-1:], Order: order})
	require.Len(t, m.Targets, len(order))
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel_Plan(t *testing.T) {
	m := newPlannedModel(t, "clean", "build")

	assert.Equal(t, "clean", m.Targets[0].Name)
	assert.Equal(t, domain.StatusPending, m.Targets[1].Status)
	assert.Same(t, m.Targets[1], m.TargetMap["build"])
	assert.Equal(t, m.LogHeight, m.Targets[0].Term.Height)
}

func TestModel_FollowsRunningTarget(t *testing.T) {
	m := newPlannedModel(t, "clean", "build")

	m.Update(tui.MsgTargetStart{Name: "build", StartTime: time.Now()})

	assert.Equal(t, domain.StatusRunning, m.TargetMap["build"].Status)
	assert.Equal(t, "build", m.ActiveTarget)
	assert.Equal(t, 1, m.SelectedIdx)
}

func TestModel_ManualSelectionStopsFollowing(t *testing.T) {
	m := newPlannedModel(t, "a", "b", "c")
	m.Update(tui.MsgTargetStart{Name: "b"})

	m.Update(key("up"))
	assert.False(t, m.FollowMode)
	assert.Equal(t, "a", m.ActiveTarget)

	m.Update(tui.MsgTargetStart{Name: "c"})
	assert.Equal(t, "a", m.ActiveTarget)

	m.Update(key("j"))
	assert.Equal(t, "b", m.ActiveTarget)

	m.Update(key("esc"))
	assert.True(t, m.FollowMode)
	assert.Equal(t, "b", m.ActiveTarget)
}

func TestModel_SelectionStaysInBounds(t *testing.T) {
	m := newPlannedModel(t, "a", "b")

	m.Update(key("k"))
	assert.Equal(t, 0, m.SelectedIdx)

	m.Update(key("down"))
	m.Update(key("down"))
	assert.Equal(t, 1, m.SelectedIdx)
}

func TestModel_LogsAndCommands(t *testing.T) {
	m := newPlannedModel(t, "build")

	m.Update(tui.MsgCommand{Name: "build", Command: "echo hi"})
	m.Update(tui.MsgTargetLog{Name: "build", Data: []byte("hi\n")})
	m.Update(tui.MsgTargetLog{Name: "unknown", Data: []byte("ignored\n")})

	content := m.TargetMap["build"].Term.Content()
	assert.Contains(t, content, "$ echo hi")
	assert.Contains(t, content, "hi")
	assert.NotContains(t, content, "ignored")
}

func TestModel_CompleteAndFailed(t *testing.T) {
	m := newPlannedModel(t, "a", "b", "c")
	boom := errors.New("boom")

	m.Update(tui.MsgTargetComplete{Name: "a", Status: domain.StatusCompleted, Elapsed: time.Second})
	m.Update(tui.MsgTargetComplete{Name: "b", Status: domain.StatusFailed, Err: boom})
	m.Update(tui.MsgTargetComplete{Name: "c", Status: domain.StatusSkipped})
	m.Update(tui.MsgRunComplete{Summary: "Stopped: 1 completed, 1 failed, 1 skipped in 1s"})

	assert.Equal(t, time.Second, m.TargetMap["a"].Elapsed)
	failed := m.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].Name)
	assert.Equal(t, boom, failed[0].Err)
	assert.Contains(t, m.Summary, "Stopped")
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := newPlannedModel(t, "a")

			_, cmd := m.Update(key(k))

			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_ListScrollsWithSelection(t *testing.T) {
	m := tui.NewModel()
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m.Update(tui.MsgPlan{Order: []string{"a", "b", "c", "d", "e", "f", "g", "h"}})
	require.Positive(t, m.ListHeight)

	for range m.Targets {
		m.Update(key("down"))
	}

	assert.Equal(t, len(m.Targets)-1, m.SelectedIdx)
	assert.Equal(t, m.SelectedIdx-m.ListHeight+1, m.ListOffset)
}

func TestModel_View(t *testing.T) {
	m := tui.NewModel()
	assert.Equal(t, "Initializing...", m.View())

	m = newPlannedModel(t, "clean", "build")
	m.Update(tui.MsgTargetStart{Name: "clean"})
	m.Update(tui.MsgTargetComplete{Name: "clean", Status: domain.StatusFailed, Elapsed: 1500 * time.Millisecond})

	view := m.View()
	assert.Contains(t, view, "TARGETS")
	assert.Contains(t, view, "clean (1.5s)")
	assert.Contains(t, view, "LOGS: clean (Following)")
	assert.Contains(t, view, "q quit")

	m.Update(tui.MsgRunComplete{Summary: "Stopped: 1 failed in 2s"})
	assert.Contains(t, m.View(), "Stopped: 1 failed in 2s")
}
