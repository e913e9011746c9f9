package cli

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorYellow = lipgloss.Color("220") // Amber - gestures in progress
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleStatus = lipgloss.NewStyle().Foreground(colorGray)
	styleActive = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError  = lipgloss.NewStyle().Foreground(colorRed)
	styleHelp   = lipgloss.NewStyle().Foreground(colorDim)
	styleCanvas = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)
