package board

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines all keyboard shortcuts shown in the help overlay.
var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "e / Enter", Desc: "Edit selected slot"},
	{Key: "x", Desc: "Clear selected slot"},
	{Key: "d", Desc: "Expand selected slot"},
	{Key: "g", Desc: "Cycle grid preset"},
	{Key: "[ / ]", Desc: "Previous / next page"},
	{Key: "Space", Desc: "Pause / resume polling"},
	{Key: "1 / 2 / 5", Desc: "Poll every 1s / 2s / 5s"},
	{Key: "r", Desc: "Refresh device registry"},
	{Key: "s", Desc: "Sync board state now"},
	{Key: "arrows / hjkl", Desc: "Move selection"},
	{Key: "Esc", Desc: "Cancel drag / close"},
	{Key: "?", Desc: "Toggle this help"},
}

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(16)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m *Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, binding := range helpBindings {
		line := helpKeyStyle.Render(binding.Key) + helpDescStyle.Render(binding.Desc)
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, MutedStyle.Render("Press ? or Esc to close"))

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
