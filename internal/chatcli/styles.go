// Package chatcli runs the expense conversation in a terminal.
package chatcli

import "github.com/charmbracelet/lipgloss"

var (
	accentColor  = lipgloss.Color("#16A34A")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	subtleColor  = lipgloss.Color("#6B7280")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	questionStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	subtleStyle   = lipgloss.NewStyle().Foreground(subtleColor)
	labelStyle    = lipgloss.NewStyle().Bold(true).Width(12)

	expenseBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)
