package report

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorMuted   = lipgloss.Color("#6B7280")

	// Change colors
	ColorAddition     = lipgloss.Color("#86EFAC") // light green
	ColorDeletion     = lipgloss.Color("#FCA5A5") // light red
	ColorModification = lipgloss.Color("#C4B5FD") // light violet
)

// Styles
var (
	FolderHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(ColorPrimary).
				Padding(0, 1).
				Bold(true)

	FolderPathStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	AdditionStyle = lipgloss.NewStyle().
			Foreground(ColorAddition)

	DeletionStyle = lipgloss.NewStyle().
			Foreground(ColorDeletion)

	ModificationStyle = lipgloss.NewStyle().
				Foreground(ColorModification)

	DetailStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)

// entryStyle returns the style for a change entry
func entryStyle(e Entry) lipgloss.Style {
	switch {
	case e.IsAddition:
		return AdditionStyle
	case e.IsModification:
		return ModificationStyle
	default:
		return DeletionStyle
	}
}
