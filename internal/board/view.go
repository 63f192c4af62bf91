package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tridigitals/ispmanagement-sub005/internal/ui"
)

const (
	// headerRows is the vertical offset of the grid: title line plus a
	// blank spacer.
	headerRows = 2

	// tileContentRows is the line count inside each tile card.
	tileContentRows = 6

	// tileFootprintH is the full vertical footprint: content, border,
	// and a blank row between grid rows.
	tileFootprintH = tileContentRows + 3

	minTileWidth = 22
)

// gridGeometry maps between screen cells and page-relative tile offsets.
// The renderer and the mouse hit-testing both derive from it, so a tile is
// always clickable exactly where it is drawn.
type gridGeometry struct {
	cols    int
	rows    int
	tileW   int
	tileH   int
	originX int
	originY int
}

func (m *Model) geometry() gridGeometry {
	preset := m.layout.Preset()
	cols := preset.Columns()

	width := m.width
	if width <= 0 {
		width = 80
	}
	tileW := width / cols
	if tileW < minTileWidth {
		tileW = minTileWidth
	}

	return gridGeometry{
		cols:    cols,
		rows:    preset.Rows(),
		tileW:   tileW,
		tileH:   tileFootprintH,
		originX: 0,
		originY: headerRows,
	}
}

// tileAt returns the page-relative offset of the tile under the given
// screen cell, or -1 when the cell is outside every tile.
func (g gridGeometry) tileAt(x, y int) int {
	x -= g.originX
	y -= g.originY
	if x < 0 || y < 0 {
		return -1
	}

	col := x / g.tileW
	row := y / g.tileH
	if col >= g.cols || row >= g.rows {
		return -1
	}

	// The rightmost column of each footprint is the inter-tile gap, and
	// the bottom row is the blank spacer line.
	if x%g.tileW == g.tileW-1 || y%g.tileH == g.tileH-1 {
		return -1
	}

	return row*g.cols + col
}

// handleAt reports the tile offset when the cell sits on the tile's drag
// handle, which is the top border plus the title row.
func (g gridGeometry) handleAt(x, y int) (int, bool) {
	offset := g.tileAt(x, y)
	if offset < 0 {
		return -1, false
	}
	if (y-g.originY)%g.tileH > 1 {
		return -1, false
	}
	return offset, true
}

// renderBoard draws the header, tile grid, and footer.
func (m *Model) renderBoard() string {
	g := m.geometry()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	slots := m.layout.PageSlots()
	now := time.Now()

	for row := 0; row < g.rows; row++ {
		tiles := make([]string, 0, g.cols)
		for col := 0; col < g.cols; col++ {
			offset := row*g.cols + col
			var s *Slot
			if offset < len(slots) {
				s = slots[offset]
			}
			tiles = append(tiles, m.renderTile(g, offset, s, now))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	status := []string{
		m.layout.Preset().String(),
		fmt.Sprintf("page %d/%d", m.layout.Page()+1, m.layout.PageCount()),
		m.interval.String(),
	}

	switch {
	case m.paused:
		status = append(status, GlyphPaused+" paused")
	case !m.focused:
		status = append(status, "blurred")
	default:
		status = append(status, GlyphLive+" live")
	}

	if !m.lastCycleAt.IsZero() {
		status = append(status, "updated "+m.lastCycleAt.Format("15:04:05"))
	}

	title := HeaderStyle.Render("netwall")
	meta := MutedStyle.Render(strings.Join(status, " · "))
	return title + " " + meta
}

func (m *Model) renderFooter() string {
	hints := "e edit · x clear · d detail · g grid · [/] page · space pause · 1/2/5 rate · s sync · ? help · q quit"
	footer := FooterStyle.Render(hints)
	if m.notice != "" {
		footer += "\n" + NoticeStyle.Render(m.notice)
	}
	return footer
}

// renderTile draws a single card. The page-relative offset drives the
// selection and drag highlights.
func (m *Model) renderTile(g gridGeometry, offset int, s *Slot, now time.Time) string {
	contentWidth := g.tileW - 5 // border, horizontal padding, gap
	if contentWidth < 8 {
		contentWidth = 8
	}

	global := m.layout.GlobalIndex(offset)
	style := TileStyle
	switch {
	case m.drag.Active() && m.drag.Dest() == global:
		style = TileDragTargetStyle
	case m.drag.Active() && m.drag.Source() == global:
		style = TileDragSourceStyle
	case s != nil && m.tileWarned(s, now):
		style = TileWarnStyle
	case offset == m.selected:
		style = TileSelectedStyle
	}

	var lines []string
	if s == nil {
		lines = []string{
			MutedStyle.Render("empty"),
			"",
			MutedStyle.Render("press e to assign"),
			"",
			"",
			"",
		}
	} else {
		lines = m.tileLines(s, now, contentWidth)
	}

	for i, line := range lines {
		lines[i] = padLine(line, contentWidth)
	}

	return style.Width(contentWidth + 2).Render(strings.Join(lines, "\n"))
}

// tileLines builds the six content rows for an assigned tile.
func (m *Model) tileLines(s *Slot, now time.Time, width int) []string {
	key := s.Key()
	rates, haveRates := m.engine.Current(key)
	stale := haveRates && IsStale(rates.LastSeen, now, m.paused, m.interval, m.staleMultiplier)
	missing := m.devicesSeen && !m.deviceKnown(s.DeviceID)

	name := s.DeviceID
	online := false
	if d, ok := m.devices[s.DeviceID]; ok {
		if d.Name != "" {
			name = d.Name
		}
		online = d.Online
	}

	statusGlyph := MutedStyle.Render(GlyphOffline)
	if online {
		statusGlyph = lipgloss.NewStyle().Foreground(ColorHealthy).Render(GlyphOnline)
	}

	title := MutedStyle.Render(GlyphHandle) + " " +
		DeviceNameStyle.Render(ui.TruncateWithEllipsis(name, width-4)) + " " + statusGlyph

	iface := IfaceStyle.Render(ui.TruncateWithEllipsis(s.Interface, width))
	switch {
	case missing:
		iface = WarnTextStyle.Render("device missing")
	case stale:
		iface += " " + StaleTextStyle.Render("stale")
	}

	rxWarn := haveRates && WarnBelow(s.WarnBelowRxBps, rates.RxBps)
	txWarn := haveRates && WarnBelow(s.WarnBelowTxBps, rates.TxBps)

	sparkWidth := width - 2
	if sparkWidth < 4 {
		sparkWidth = 4
	}

	return []string{
		title,
		iface,
		rateLine(GlyphRx, rates.RxBps, s.WarnBelowRxBps, RxStyle, rxWarn, stale),
		"  " + ui.RenderSparkline(m.history.Rx(key, sparkWidth), sparkWidth, sparkColor(ColorRx, rxWarn, stale)),
		rateLine(GlyphTx, rates.TxBps, s.WarnBelowTxBps, TxStyle, txWarn, stale),
		"  " + ui.RenderSparkline(m.history.Tx(key, sparkWidth), sparkWidth, sparkColor(ColorTx, txWarn, stale)),
	}
}

func (m *Model) deviceKnown(id string) bool {
	_, ok := m.devices[id]
	return ok
}

// tileWarned reports whether either direction of a tile is in alert.
func (m *Model) tileWarned(s *Slot, now time.Time) bool {
	rates, ok := m.engine.Current(s.Key())
	if !ok {
		return false
	}
	if IsStale(rates.LastSeen, now, m.paused, m.interval, m.staleMultiplier) {
		return false
	}
	return TileWarn(s, rates)
}

// rateLine formats one direction: glyph, current rate, and the threshold
// annotation when an alert is active.
func rateLine(glyph string, bps, threshold *int64, base lipgloss.Style, warned, stale bool) string {
	value := "—"
	if bps != nil {
		value = ui.FormatBps(*bps)
	}

	line := rateStyle(base, warned, stale).Render(glyph + " " + value)
	if warned && threshold != nil {
		line += " " + WarnTextStyle.Render("< "+FormatThreshold(*threshold))
	}
	return line
}

func sparkColor(base lipgloss.Color, warned, stale bool) lipgloss.Color {
	switch {
	case warned:
		return ColorCritical
	case stale:
		return ColorTextMuted
	default:
		return base
	}
}

// padLine right-pads a styled line to the given display width.
func padLine(line string, width int) string {
	gap := width - lipgloss.Width(line)
	if gap <= 0 {
		return line
	}
	return line + strings.Repeat(" ", gap)
}

// renderEditor draws the modal slot form with a small header.
func (m *Model) renderEditor() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("netwall"))
	b.WriteString(" ")
	b.WriteString(MutedStyle.Render(fmt.Sprintf("slot %d", m.editor.index+1)))
	b.WriteString("\n\n")
	b.WriteString(m.editor.form.View())
	return b.String()
}
