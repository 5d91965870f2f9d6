package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/bsptile/internal/wm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	monitorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	focusedMonitorStyle = monitorStyle.
				BorderForeground(lipgloss.Color("12"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Padding(0, 1)

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	monocleBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("monocle")
)

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("bsptile"))
	switch {
	case !m.connected && m.lastErr != nil:
		b.WriteString("  " + errorStyle.Render("daemon unreachable: "+m.lastErr.Error()))
	case m.snap != nil:
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d managed, hiding: %s", m.snap.Managed, m.snap.Hiding)))
	default:
		b.WriteString(dimStyle.Render("  connecting..."))
	}
	b.WriteString("\n\n")

	if m.snap != nil {
		panels := make([]string, 0, len(m.snap.Monitors))
		for _, mon := range m.snap.Monitors {
			panels = append(panels, renderMonitor(mon, m.snap))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(dimStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderMonitor(mon wm.MonitorSnapshot, snap *wm.Snapshot) string {
	name := mon.Name
	if name == "" {
		name = fmt.Sprintf("monitor %d", mon.ID)
	}
	header := fmt.Sprintf("%s  %dx%d", name, mon.Area.Width, mon.Area.Height)

	tabs := make([]string, 0, len(mon.Workspaces))
	var active *wm.WorkspaceSnapshot
	for i := range mon.Workspaces {
		ws := &mon.Workspaces[i]
		label := fmt.Sprintf("%d", ws.Number)
		if ws.Number == mon.ActiveWorkspace {
			tabs = append(tabs, activeTabStyle.Render(label))
			active = ws
			continue
		}
		tabs = append(tabs, tabStyle.Render(label))
	}

	lines := []string{titleStyle.Render(header), lipgloss.JoinHorizontal(lipgloss.Top, tabs...)}
	if active != nil && active.Monocle {
		lines = append(lines, monocleBadge)
	}
	if active == nil || len(active.Windows) == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	} else {
		for _, id := range active.Windows {
			s := fmt.Sprintf("0x%08x", uint32(id))
			if id == snap.FocusedWindow {
				lines = append(lines, focusStyle.Render("> "+s))
				continue
			}
			lines = append(lines, "  "+s)
		}
	}

	style := monitorStyle
	if mon.ID == snap.FocusedMonitor {
		style = focusedMonitorStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
