package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// ── Color Palette (muted, professional, 2-accent system) ──

var (
	// Background surfaces
	ColorBG      = lipgloss.Color("#0c0c14")
	ColorSurface = lipgloss.Color("#161624")
	ColorBorder  = lipgloss.Color("#2a2a3d")

	// Text hierarchy
	ColorText      = lipgloss.Color("#c8c8d4")
	ColorTextDim   = lipgloss.Color("#6b6b7b")
	ColorTextMuted = lipgloss.Color("#3e3e50")

	// Single accent color
	ColorAccent    = lipgloss.Color("#5eead4")
	ColorAccentDim = lipgloss.Color("#2d6a5e")

	// Severity (softer tones)
	ColorCritical = lipgloss.Color("#ef4444")
	ColorHigh     = lipgloss.Color("#f59e0b")
	ColorMedium   = lipgloss.Color("#eab308")
	ColorLow      = lipgloss.Color("#22c55e")

	// Semantic
	ColorSuccess = lipgloss.Color("#22c55e")
	ColorError   = lipgloss.Color("#ef4444")
)

// ── Reusable Styles ──

var (
	// Title banner
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Subtitle
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// Info box
	InfoBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// Active button (reverse video)
	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorBG).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 3)

	// Severity badge styles
	CriticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorCritical).
			Bold(true).
			Padding(0, 1)

	HighStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorHigh).
			Bold(true).
			Padding(0, 1)

	MediumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorMedium).
			Padding(0, 1)

	LowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorLow).
			Padding(0, 1)

	// Probe list item
	ProbeStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// Selected list item
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	// Hint / help text
	HintStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// Pass / flag markers
	PassStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	FlagStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	// Alert / error
	AlertStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Separator line
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	// Pending probe row
	PendingStyle = lipgloss.NewStyle().Foreground(ColorTextMuted)
)

// SeverityStyle returns the appropriate style for a severity level.
func SeverityStyle(severity types.Severity) lipgloss.Style {
	switch severity {
	case types.SeverityCritical:
		return CriticalStyle
	case types.SeverityHigh:
		return HighStyle
	case types.SeverityMedium:
		return MediumStyle
	case types.SeverityLow:
		return LowStyle
	default:
		return lipgloss.NewStyle().Foreground(ColorTextDim)
	}
}

// Truncate truncates a string to maxLen runes, adding "..." if needed.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
