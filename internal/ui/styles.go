package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the panel.
type Styles struct {
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	PanelBox lipgloss.Style

	StatusUp      lipgloss.Style
	StatusDown    lipgloss.Style
	StatusErr     lipgloss.Style
	StatusUnknown lipgloss.Style

	URL  lipgloss.Style
	Busy lipgloss.Style
	Dim  lipgloss.Style

	LogViewport lipgloss.Style
	NoteBox     lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() *Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#666", Dark: "#999"}
	highlight := lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#AD8EE6"}
	success := lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#00FF00"}
	warning := lipgloss.AdaptiveColor{Light: "#AAAA00", Dark: "#FFFF00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#AA0000", Dark: "#FF0000"}
	info := lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#00AAFF"}

	return &Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(subtle).
			MarginBottom(1).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(subtle).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(subtle).
			MarginTop(1).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Padding(0, 1).
			Background(highlight).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),

		TabInactive: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(subtle),

		PanelBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1),

		StatusUp: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),

		StatusDown: lipgloss.NewStyle().
			Foreground(warning),

		StatusErr: lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true),

		StatusUnknown: lipgloss.NewStyle().
			Foreground(subtle),

		URL: lipgloss.NewStyle().
			Foreground(info).
			Underline(true),

		Busy: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),

		Dim: lipgloss.NewStyle().
			Foreground(subtle),

		LogViewport: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1),

		NoteBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
