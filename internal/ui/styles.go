// Package ui renders scan results and summaries, and provides the
// interactive confirmers used by the execution engine.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	sizeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	safeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	reviewStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	unknownStyle = lipgloss.NewStyle().Faint(true)
)
