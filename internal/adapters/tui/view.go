package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.targetList(),
		m.logPane(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())
}

func (m *Model) targetList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("TARGETS") + "\n\n")

	start := m.ListOffset
	end := min(m.ListOffset+m.ListHeight, len(m.Targets))
	start = min(start, end)

	for i := start; i < end; i++ {
		s.WriteString(m.renderTargetRow(i, m.Targets[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderTargetRow(index int, target *TargetNode) string {
	icon, _ := style.ForStatus(target.Status)
	rowStyle := statusStyle(target.Status)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if !target.Status.IsTerminal() {
			rowStyle = selectedStyle
		}
	}

	content := fmt.Sprintf("%s %s", icon, target.Name)
	if target.Status == domain.StatusCompleted || target.Status == domain.StatusFailed {
		content += fmt.Sprintf(" (%v)", target.Elapsed.Round(time.Millisecond))
	}
	return cursor + rowStyle.Render(content)
}

func (m *Model) logPane() string {
	header := titleStyle.Render("LOGS (Waiting...)")
	var content string

	if node, ok := m.TargetMap[m.ActiveTarget]; ok {
		mode := " (Manual)"
		if m.FollowMode {
			mode = " (Following)"
		}
		title := titleStyle
		if node.Status == domain.StatusFailed {
			title = failureTitleStyle
		}
		header = title.Render("LOGS: " + node.Name + mode)
		content = node.Term.View()
	}

	return logStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, content))
}

func (m *Model) footer() string {
	if m.Summary != "" {
		return summaryStyle.Render(m.Summary + "  (q to quit)")
	}
	return summaryStyle.Render("j/k select  esc follow  pgup/pgdown scroll  q quit")
}
