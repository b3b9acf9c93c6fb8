package tui

import "github.com/charmbracelet/lipgloss"

// Clock face palette
var (
	ColorAccent = lipgloss.Color("#A8D8EA") // Running clock
	ColorDeep   = lipgloss.Color("#596E79") // Borders and secondary text
	ColorText   = lipgloss.Color("#E0E0E0")
	ColorAlert  = lipgloss.Color("#FF6B6B") // Flag down
	ColorWarn   = lipgloss.Color("#FFE66D") // Under ten seconds
	ColorMuted  = lipgloss.Color("#6c757d")
)

var (
	StyleApp = lipgloss.NewStyle().Margin(1, 2)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorDeep).
			Padding(0, 1).
			MarginBottom(1)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDeep).
			Padding(1, 3).
			Margin(0, 1).
			Width(28).
			Align(lipgloss.Center)

	StyleActiveCard = StyleCard.
			BorderForeground(ColorAccent).
			Border(lipgloss.ThickBorder())

	StyleFlaggedCard = StyleCard.
				BorderForeground(ColorAlert)

	StyleSideLabel = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleTime        = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleTimeLow     = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
	StyleTimeFlagged = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)

	StyleDetail = lipgloss.NewStyle().Foreground(ColorDeep).Italic(true)

	StyleStatus = lipgloss.NewStyle().Foreground(ColorMuted).MarginTop(1)
)
