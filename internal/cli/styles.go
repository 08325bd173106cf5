package cli

import "github.com/charmbracelet/lipgloss"

// Centralized Lip Gloss styles for mcpsync's command output.
// All colors are specified using hex codes.

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5fd7ff"))

	TargetStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))

	PathStyle = lipgloss.NewStyle().
			Faint(true).
			Foreground(lipgloss.Color("#a8a8a8"))

	AddStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff5f"))

	UpdateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffd700"))

	RemoveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff005f"))

	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8700"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff005f")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff5f")).
			Bold(true)
)
