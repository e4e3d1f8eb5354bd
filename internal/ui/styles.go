package ui

import "github.com/charmbracelet/lipgloss"

// GetStack palette, tuned for dark terminal backgrounds
const (
	ColorWhite = "#FFFFFF"

	ColorGray400 = "#9CA3AF"
	ColorGray500 = "#6B7280"
	ColorGray600 = "#4B5563"
	ColorGray800 = "#1F2937"

	ColorIndigo300 = "#A5B4FC"
	ColorIndigo400 = "#818CF8"
	ColorIndigo500 = "#6366F1"
	ColorIndigo600 = "#4F46E5"

	ColorEmerald400 = "#34D399"
	ColorRose400    = "#FB7185"
	ColorAmber400   = "#FBBF24"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorIndigo500))

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorEmerald400))

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAmber400))

	// DimStyle is for secondary text such as paths and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGray500))

	CommandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorIndigo400))
)
