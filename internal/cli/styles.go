package cli

import "github.com/charmbracelet/lipgloss"

var (
	BorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	TodayStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	DoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	MissedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)
