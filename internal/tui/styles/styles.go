package styles

import "github.com/charmbracelet/lipgloss"

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Subtitle is used for secondary headings.
	Subtitle = lipgloss.NewStyle().
			Foreground(Gray)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorText is for error messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// SuccessText is for success messages.
	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// WarningText is for warning messages.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// --- Plan change lines ---

var (
	// CreateLine marks records to be added.
	CreateLine = lipgloss.NewStyle().Foreground(Green)

	// UpdateLine marks records whose value or TTL changes.
	UpdateLine = lipgloss.NewStyle().Foreground(Yellow)

	// DeleteLine marks records to be removed.
	DeleteLine = lipgloss.NewStyle().Foreground(Red)

	// UnchangedLine marks records already in the desired state.
	UnchangedLine = lipgloss.NewStyle().Foreground(Muted)
)
