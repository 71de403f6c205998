package ui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorSuccess = lipgloss.Color("#73F59F")
	ColorDanger  = lipgloss.Color("#F56565")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorBorder  = lipgloss.Color("#3F3F46")
	ColorCyan    = lipgloss.Color("#22D3EE")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C084FC")). // soft violet
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 3)

	DoneStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ActiveStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	FailedStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Help bar
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
)
