package main

import "github.com/charmbracelet/lipgloss"

var (
	errorIconStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")) // red
	errorTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            // red
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))            // magenta
	successStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
)
