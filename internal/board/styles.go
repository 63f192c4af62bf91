package board

import (
	"github.com/charmbracelet/lipgloss"
)

// Wallboard color palette - Gen Z Electric Synthwave
const (
	// Background colors (glassmorphism-inspired)
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Semantic colors - neon style
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF") // Pure white
	ColorTextSecondary = lipgloss.Color("#B4B4D0") // Lavender gray
	ColorTextMuted     = lipgloss.Color("#6B6B8D") // Purple-gray

	// Accent colors - neon pink primary, cyan secondary
	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple

	// Traffic direction colors
	ColorRx = lipgloss.Color("#00FFFF") // Neon cyan for downlink
	ColorTx = lipgloss.Color("#39FF14") // Neon green for uplink
)

// Base styles for the wallboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Padding(0, 1)

	// Tile card styles - no background set here, each line handles its own
	TileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	TileSelectedStyle = TileStyle.
				BorderForeground(ColorAccent)

	TileDragSourceStyle = TileStyle.
				BorderForeground(ColorAccentDim)

	TileDragTargetStyle = TileStyle.
				BorderForeground(ColorRx)

	TileWarnStyle = TileStyle.
			BorderForeground(ColorCritical)

	// Text styles
	DeviceNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	IfaceStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	WarnTextStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	StaleTextStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	RxStyle = lipgloss.NewStyle().
		Foreground(ColorRx)

	TxStyle = lipgloss.NewStyle().
		Foreground(ColorTx)
)

// Status indicator characters - cyber glyphs
const (
	GlyphOnline  = "◉" // Filled target - device reachable
	GlyphOffline = "◌" // Dashed circle - device down
	GlyphHandle  = "≡" // Drag handle on the tile title row
	GlyphRx      = "↓"
	GlyphTx      = "↑"
	GlyphPaused  = "⏸"
	GlyphLive    = "⣿"
)

// rateStyle picks the style for a rendered rate value. Warned values go
// critical, stale values go muted, everything else keeps the direction color.
func rateStyle(base lipgloss.Style, warned, stale bool) lipgloss.Style {
	switch {
	case warned:
		return WarnTextStyle
	case stale:
		return MutedStyle
	default:
		return base
	}
}
