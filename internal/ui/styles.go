package ui

import "github.com/charmbracelet/lipgloss"

// Color palette: one lime accent plus red for ignored paths.
const (
	ColorLime     = "154" // Included paths, re-including rules
	ColorLimeDim  = "106" // Line numbers
	ColorWhite    = "255" // Headers
	ColorGray     = "245" // Sources, labels
	ColorDarkGray = "238" // Separators
	ColorRed      = "196" // Ignored paths, errors
	ColorYellow   = "220" // Warnings
)

// Styles holds the styles used for terminal output.
type Styles struct {
	Header  lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style

	// check-ignore
	Source   lipgloss.Style
	Line     lipgloss.Style
	Ignored  lipgloss.Style
	Included lipgloss.Style

	// watch
	Added   lipgloss.Style
	Removed lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),

		Source:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Line:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Ignored:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Included: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),

		Added:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Removed: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:   plain,
		Warning:  plain,
		Error:    plain,
		Dim:      plain,
		Source:   plain,
		Line:     plain,
		Ignored:  plain,
		Included: plain,
		Added:    plain,
		Removed:  plain,
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
