package action

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is used for the heading of the outputs listing.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")) // Purple

	// KeyStyle is used for output names.
	KeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")) // Light blue

	// ValueStyle is used for output values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// EmptyStyle is used for outputs set to an empty string.
	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Dark gray
			Italic(true)
)
