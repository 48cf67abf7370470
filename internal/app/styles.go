package app

import "github.com/charmbracelet/lipgloss"

var (
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("179"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	busyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("211"))
	overlayStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
