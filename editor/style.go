package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the chrome around the text area.
type Style struct {
	StatusBar lipgloss.Style
	Message   lipgloss.Style
	Cursor    lipgloss.Style
}

func DefaultStyle() Style {
	return Style{
		StatusBar: lipgloss.NewStyle().Reverse(true),
		Message:   lipgloss.NewStyle(),
		Cursor:    lipgloss.NewStyle().Reverse(true),
	}
}
