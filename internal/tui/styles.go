package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorTitle   = "#7D56F4"
	colorSuccess = "#04B575"
	colorWarning = "#FFB454"
	colorError   = "#FF5C57"
	colorMuted   = "#6C6C6C"
	colorText    = "#E5E5E5"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(colorTitle)).
			Bold(true).
			Padding(0, 1)

	screenStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorMuted)).
			Padding(0, 1)

	statusRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorSuccess)).
				Bold(true)

	statusPausedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorWarning)).
				Bold(true)

	statusStoppedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorError)).
				Bold(true)

	statusIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText)).
			Bold(true)
)
