package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JeanZorzetti/orion-analytics/internal/cli"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor).
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(cli.PrimaryColor)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(cli.SubtleColor).
				Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor)
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch {
	case m.lastError != nil:
		b.WriteString(cli.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.lastError)))
		b.WriteString("\n")
	case m.loading:
		b.WriteString(cli.SubtleStyle.Render("Loading..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = inactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m Model) renderFooter() string {
	if m.showHelp {
		return statusBarStyle.Render(
			"←/h previous tab • →/l next tab • ↑/↓ scroll • r refresh • ? close help • q quit")
	}
	return statusBarStyle.Render(fmt.Sprintf(
		"as of %s • %s side • ? help • q quit",
		m.config.ReferenceDate.Format("2006-01-02"), m.config.Side))
}
