package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/radlabs/radcontrol/internal/registry"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderProjectPanel())
	b.WriteString("\n")
	b.WriteString(m.renderNote())
	b.WriteString("\n")
	b.WriteString(m.styles.LogViewport.Render(m.logView.View()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return m.styles.App.Render(b.String())
}

func (m *Model) renderHeader() string {
	title := "⚡ RadControl"

	listening := 0
	for _, st := range m.statuses {
		if st.Listening {
			listening++
		}
	}

	status := fmt.Sprintf("Projects: %d | Listening: %d/%d",
		len(m.projects), listening, len(m.statuses))
	if m.resources.CPUPercent > 0 {
		status += fmt.Sprintf(" | CPU: %.1f%%", m.resources.CPUPercent)
	}
	if m.resources.MemPercent > 0 {
		status += fmt.Sprintf(" | Mem: %s/%s",
			FormatBytes(m.resources.MemoryUsed), FormatBytes(m.resources.MemoryTotal))
	}

	headerWidth := m.width - 4
	if headerWidth < 40 {
		headerWidth = 40
	}

	padding := headerWidth - lipgloss.Width(title) - lipgloss.Width(status)
	if padding < 1 {
		padding = 1
	}

	return m.styles.Header.Width(headerWidth).Render(
		title + strings.Repeat(" ", padding) + status,
	)
}

func (m *Model) renderTabs() string {
	if len(m.projects) == 0 {
		return m.styles.Dim.Render("no projects")
	}

	tabs := make([]string, 0, len(m.projects))
	for i, p := range m.projects {
		label := p.DisplayLabel()
		if st, ok := m.statuses[p.Port]; ok && st.Listening {
			label = "● " + label
		}
		if i == m.selected {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderProjectPanel() string {
	p, ok := m.selectedProject()
	if !ok {
		return m.styles.PanelBox.Render(m.styles.Dim.Render("nothing selected"))
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("%s  %s", p.DisplayLabel(), m.styles.Dim.Render(p.Key)))
	lines = append(lines, m.renderPortRow(p))

	if url := projectURL(p); url != "" {
		lines = append(lines, "URL: "+m.styles.URL.Render(url))
	}

	lines = append(lines, m.renderActionRow(p))

	width := m.width - 6
	if width < 60 {
		width = 60
	}
	return m.styles.PanelBox.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPortRow(p registry.Project) string {
	if p.Port <= 0 {
		return m.styles.Dim.Render("no port configured")
	}

	st, ok := m.statuses[p.Port]
	switch {
	case !ok:
		return fmt.Sprintf("Port %d: %s", p.Port, m.styles.StatusUnknown.Render("◌ unknown"))
	case st.Err != "":
		return fmt.Sprintf("Port %d: %s %s", p.Port,
			m.styles.StatusErr.Render("✗ probe failed"),
			m.styles.Dim.Render(firstLine(st.Err)))
	case st.Listening:
		detail := ""
		if st.PID > 0 {
			detail = fmt.Sprintf(" (%s pid %d)", st.Command, st.PID)
		}
		return fmt.Sprintf("Port %d: %s%s", p.Port,
			m.styles.StatusUp.Render("● listening"), m.styles.Dim.Render(detail))
	default:
		return fmt.Sprintf("Port %d: %s", p.Port, m.styles.StatusDown.Render("○ stopped"))
	}
}

// renderActionRow shows the action keys, dimming the ones the project
// doesn't define. While a command is outstanding the whole row is replaced
// by the busy indicator.
func (m *Model) renderActionRow(p registry.Project) string {
	if m.busy {
		return m.styles.Busy.Render(fmt.Sprintf("⏳ running %s ...", m.busyKey))
	}

	type actionDef struct {
		key   string
		name  string
		value string
	}
	actions := []actionDef{
		{"s", "start", p.Start},
		{"n", "snapshot", p.Snapshot},
		{"c", "commit", p.Commit},
		{"m", "map", p.Map},
		{"p", "proof", p.ProofPack},
	}

	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		label := fmt.Sprintf("%s %s", m.styles.HelpKey.Render(a.key), a.name)
		if a.value == "" {
			label = m.styles.Dim.Render(fmt.Sprintf("%s %s", a.key, a.name))
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderNote() string {
	title := m.styles.Dim.Render("scratch")
	if m.editingNote {
		title = m.styles.Busy.Render("scratch (esc to save)")
	}
	return title + "\n" + m.styles.NoteBox.Render(m.note.View())
}

func (m *Model) renderFooter() string {
	var help string
	if m.showHelp {
		help = fmt.Sprintf("%s nav • %s refresh • %s burst • %s start • %s snapshot • %s commit • %s map • %s proof • %s kill • %s open • %s copy • %s note • %s quit",
			m.styles.HelpKey.Render("←→"),
			m.styles.HelpKey.Render("r"),
			m.styles.HelpKey.Render("b"),
			m.styles.HelpKey.Render("s"),
			m.styles.HelpKey.Render("n"),
			m.styles.HelpKey.Render("c"),
			m.styles.HelpKey.Render("m"),
			m.styles.HelpKey.Render("p"),
			m.styles.HelpKey.Render("K"),
			m.styles.HelpKey.Render("o"),
			m.styles.HelpKey.Render("y"),
			m.styles.HelpKey.Render("e"),
			m.styles.HelpKey.Render("q"))
	} else {
		help = fmt.Sprintf("%s nav • %s refresh • %s note • %s more • %s quit",
			m.styles.HelpKey.Render("←→"),
			m.styles.HelpKey.Render("r"),
			m.styles.HelpKey.Render("e"),
			m.styles.HelpKey.Render("?"),
			m.styles.HelpKey.Render("q"))
	}

	footerWidth := m.width - 4
	if footerWidth < 40 {
		footerWidth = 40
	}
	return m.styles.Footer.Width(footerWidth).Render(help)
}
