package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/ui/style"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Iris).
			Bold(true)

	commandStyle = lipgloss.NewStyle().
			Bold(true)

	summaryStyle = lipgloss.NewStyle().
			Foreground(style.Slate)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Iris).
			Foreground(style.White)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.White)

	listStyle = lipgloss.NewStyle().
			MarginRight(2)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(style.Slate)
)

func statusStyle(status domain.TargetStatus) lipgloss.Style {
	_, color := style.ForStatus(status)
	s := lipgloss.NewStyle().Foreground(color)
	switch status {
	case domain.StatusRunning:
		s = s.Bold(true)
	case domain.StatusCached, domain.StatusSkipped:
		s = s.Faint(true)
	}
	return s
}
