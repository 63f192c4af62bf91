package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tridigitals/ispmanagement-sub005/internal/ui"
)

// Detail view styles
var (
	detailContainerStyle = lipgloss.NewStyle().
				Padding(1, 2)

	detailSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1).
				MarginBottom(1)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Width(12)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary)
)

// renderDetailView renders the expanded single-tile view. The body scrolls
// inside the viewport so long histories fit small terminals.
func (m *Model) renderDetailView() string {
	s := m.layout.Slot(m.detailIndex)
	if s == nil {
		return detailContainerStyle.Render(MutedStyle.Render("slot is empty"))
	}

	var b strings.Builder
	b.WriteString(m.renderDetailHeader(s))
	b.WriteString("\n")
	b.WriteString(m.detailViewport.View())
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("↑/↓ scroll · esc close · q quit"))
	return b.String()
}

// renderDetailHeader shows the device name and online state prominently.
func (m *Model) renderDetailHeader(s *Slot) string {
	name := s.DeviceID
	online := false
	if d, ok := m.devices[s.DeviceID]; ok {
		if d.Name != "" {
			name = d.Name
		}
		online = d.Online
	}

	status := MutedStyle.Render(GlyphOffline + " offline")
	if online {
		status = lipgloss.NewStyle().Foreground(ColorHealthy).Render(GlyphOnline + " online")
	}

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render(name)

	return detailContainerStyle.Render(fmt.Sprintf("%s  %s  %s", title, IfaceStyle.Render(s.Interface), status))
}

// detailContent builds the scrollable body: a device section and one
// throughput section per direction.
func (m *Model) detailContent() string {
	s := m.layout.Slot(m.detailIndex)
	if s == nil {
		return ""
	}

	width := m.width - 8
	if width < 40 {
		width = 40
	}

	key := s.Key()
	rates, haveRates := m.engine.Current(key)
	now := time.Now()

	var b strings.Builder
	b.WriteString(m.renderDetailDeviceSection(s, rates, haveRates, now, width))
	b.WriteString("\n")

	var rx, tx *int64
	if haveRates {
		rx, tx = rates.RxBps, rates.TxBps
	}
	b.WriteString(m.renderDetailRateSection("receive "+GlyphRx, rx, s.WarnBelowRxBps,
		m.history.Rx(key, DefaultHistorySize), ColorRx, width))
	b.WriteString("\n")
	b.WriteString(m.renderDetailRateSection("transmit "+GlyphTx, tx, s.WarnBelowTxBps,
		m.history.Tx(key, DefaultHistorySize), ColorTx, width))

	return detailContainerStyle.Render(b.String())
}

// renderDetailDeviceSection lists the device registry facts for the tile.
func (m *Model) renderDetailDeviceSection(s *Slot, rates Rates, haveRates bool, now time.Time, width int) string {
	lines := []string{
		detailLabelStyle.Render("device") + detailValueStyle.Render(s.DeviceID),
		detailLabelStyle.Render("interface") + detailValueStyle.Render(s.Interface),
	}

	if d, ok := m.devices[s.DeviceID]; ok {
		lines = append(lines,
			detailLabelStyle.Render("address")+detailValueStyle.Render(fmt.Sprintf("%s:%d", d.Host, d.Port)))
	} else if m.devicesSeen {
		lines = append(lines, detailLabelStyle.Render("address")+WarnTextStyle.Render("not in registry"))
	}

	seen := "never"
	if haveRates {
		seen = rates.LastSeen.Format("15:04:05")
		if IsStale(rates.LastSeen, now, m.paused, m.interval, m.staleMultiplier) {
			seen += " " + StaleTextStyle.Render("stale")
		}
	}
	lines = append(lines, detailLabelStyle.Render("last sample")+detailValueStyle.Render(seen))

	return detailSectionStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// renderDetailRateSection shows one direction: current rate, threshold,
// history summary, and a full-width sparkline.
func (m *Model) renderDetailRateSection(title string, bps, threshold *int64, history []float64, color lipgloss.Color, width int) string {
	current := "—"
	if bps != nil {
		current = ui.FormatBps(*bps)
	}

	lines := []string{
		DeviceNameStyle.Render(title),
		detailLabelStyle.Render("current") + detailValueStyle.Render(current),
	}

	if threshold != nil {
		line := detailLabelStyle.Render("warn below") + detailValueStyle.Render(FormatThreshold(*threshold))
		if WarnBelow(threshold, bps) {
			line += " " + WarnTextStyle.Render("< threshold")
		}
		lines = append(lines, line)
	}

	if len(history) > 0 {
		min, max, avg := historyStats(history)
		lines = append(lines,
			detailLabelStyle.Render("min/avg/max")+detailValueStyle.Render(
				fmt.Sprintf("%s / %s / %s", ui.FormatBps(min), ui.FormatBps(avg), ui.FormatBps(max))),
			"",
			ui.RenderSparkline(history, width-4, color),
		)
	} else {
		lines = append(lines, detailLabelStyle.Render("history")+MutedStyle.Render("no samples yet"))
	}

	return detailSectionStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// historyStats summarizes a non-empty rate history.
func historyStats(values []float64) (min, max, avg int64) {
	lo, hi, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += v
	}
	return int64(lo), int64(hi), int64(sum / float64(len(values)))
}
