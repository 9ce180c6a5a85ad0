package main

import "github.com/charmbracelet/lipgloss"

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00afff")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff87")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
)

// applyTheme switches the style palette for the configured theme. The
// default palette targets dark terminals.
func applyTheme(theme string) {
	if theme == "light" {
		userStyle = userStyle.Foreground(lipgloss.Color("#005faf"))
		assistantStyle = assistantStyle.Foreground(lipgloss.Color("#008700"))
		mutedStyle = mutedStyle.Foreground(lipgloss.Color("#6c6c6c"))
		errorStyle = errorStyle.Foreground(lipgloss.Color("#d70000"))
	}
}
