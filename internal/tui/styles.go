package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.AdaptiveColor{Light: "#C2185B", Dark: "#FF5FAF"}
	subtle  = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#626262"}
	alert   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5F5F"}
	caution = lipgloss.AdaptiveColor{Light: "#EF6C00", Dark: "#FFAF00"}

	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle = tabStyle.Foreground(accent).Bold(true).Underline(true)
	// inactive tabs share padding so the bar does not shift when switching
	inactiveTabStyle = tabStyle.Foreground(subtle)

	titleStyle       = lipgloss.NewStyle().Foreground(accent).Bold(true)
	iconPreviewStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	dangerStyle      = lipgloss.NewStyle().Foreground(alert).Bold(true)
	warningStyle     = lipgloss.NewStyle().Foreground(caution).Italic(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(subtle)
	docStyle         = lipgloss.NewStyle().Margin(1, 2)
)
