// Package board implements the wallboard core: the slot/layout model, the
// polling scheduler, counter-to-rate derivation with bounded history, warn
// threshold evaluation, dual-tier persistence, and the drag-reorder state
// machine. The bubbletea model in this package ties them together.
package board

import "fmt"

// TileKey identifies the (device, interface) pair a tile is bound to.
type TileKey struct {
	DeviceID  string
	Interface string
}

// Slot is one logical grid cell assignment. Warn thresholds are optional and
// independently nullable; nil means "no threshold".
type Slot struct {
	DeviceID       string `json:"device_id"`
	Interface      string `json:"interface"`
	WarnBelowRxBps *int64 `json:"warn_below_rx_bps,omitempty"`
	WarnBelowTxBps *int64 `json:"warn_below_tx_bps,omitempty"`
}

// Key returns the tile key for this slot.
func (s *Slot) Key() TileKey {
	return TileKey{DeviceID: s.DeviceID, Interface: s.Interface}
}

// LayoutPreset is one of the closed set of grid shapes.
type LayoutPreset int

const (
	Layout2x2 LayoutPreset = iota
	Layout3x2
	Layout3x3
	Layout4x3
)

// DefaultPreset is used when no layout has been persisted or the persisted
// value does not parse.
const DefaultPreset = Layout3x3

// Presets lists all valid presets in display order.
var Presets = []LayoutPreset{Layout2x2, Layout3x2, Layout3x3, Layout4x3}

// Columns returns the fixed column count for the preset.
func (p LayoutPreset) Columns() int {
	switch p {
	case Layout2x2:
		return 2
	case Layout3x2, Layout3x3:
		return 3
	case Layout4x3:
		return 4
	default:
		return DefaultPreset.Columns()
	}
}

// Rows returns the fixed row count for the preset.
func (p LayoutPreset) Rows() int {
	switch p {
	case Layout2x2, Layout3x2:
		return 2
	case Layout3x3, Layout4x3:
		return 3
	default:
		return DefaultPreset.Rows()
	}
}

// Capacity returns the number of visible tiles per page. It is a pure
// function of the preset tag.
func (p LayoutPreset) Capacity() int {
	return p.Columns() * p.Rows()
}

// String returns the canonical "CxR" form, e.g. "3x3".
func (p LayoutPreset) String() string {
	return fmt.Sprintf("%dx%d", p.Columns(), p.Rows())
}

// ParsePreset parses a "CxR" string. Unknown values fall back to
// DefaultPreset with ok=false so corrupt persisted layouts degrade instead
// of failing the load.
func ParsePreset(s string) (LayoutPreset, bool) {
	for _, p := range Presets {
		if p.String() == s {
			return p, true
		}
	}
	return DefaultPreset, false
}

// NextPreset cycles to the following preset in display order.
func (p LayoutPreset) Next() LayoutPreset {
	for i, candidate := range Presets {
		if candidate == p {
			return Presets[(i+1)%len(Presets)]
		}
	}
	return DefaultPreset
}

// Layout owns the logical list of tile assignments and the active preset.
// The slots list is unbounded and never shrinks; the preset only controls
// how many slots are visible per page.
type Layout struct {
	preset LayoutPreset
	slots  []*Slot
	page   int
}

// NewLayout creates a layout with the given preset and an empty slot list
// grown to the preset's capacity.
func NewLayout(preset LayoutPreset) *Layout {
	l := &Layout{preset: preset}
	l.EnsureCapacity(preset)
	return l
}

// Preset returns the active grid preset.
func (l *Layout) Preset() LayoutPreset {
	return l.preset
}

// SetPreset switches the grid shape. The slot list is grown (never
// truncated) and the current page resets to 0.
func (l *Layout) SetPreset(p LayoutPreset) {
	l.preset = p
	l.EnsureCapacity(p)
	l.page = 0
}

// EnsureCapacity grows the slot list to at least the preset's capacity.
func (l *Layout) EnsureCapacity(p LayoutPreset) {
	for len(l.slots) < p.Capacity() {
		l.slots = append(l.slots, nil)
	}
}

// grow extends the slot list so index is addressable.
func (l *Layout) grow(index int) {
	for len(l.slots) <= index {
		l.slots = append(l.slots, nil)
	}
}

// SetSlot assigns a tile, growing the list if index is out of bounds.
func (l *Layout) SetSlot(index int, s Slot) {
	if index < 0 {
		return
	}
	l.grow(index)
	copied := s
	l.slots[index] = &copied
}

// ClearSlot empties a cell. Out-of-range indices are a no-op.
func (l *Layout) ClearSlot(index int) {
	if index < 0 || index >= len(l.slots) {
		return
	}
	l.slots[index] = nil
}

// Swap exchanges two entries in place, growing the list so both indices are
// addressable. Swapping a null with an occupied slot is valid.
func (l *Layout) Swap(i, j int) {
	if i < 0 || j < 0 || i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	l.grow(j)
	l.slots[i], l.slots[j] = l.slots[j], l.slots[i]
}

// Slot returns the entry at a global index, nil when empty or out of range.
func (l *Layout) Slot(index int) *Slot {
	if index < 0 || index >= len(l.slots) {
		return nil
	}
	return l.slots[index]
}

// Slots returns the underlying slot list. Callers must treat it as
// read-only; all mutation goes through the methods above.
func (l *Layout) Slots() []*Slot {
	return l.slots
}

// Assigned returns all non-nil slots in list order, across every page.
func (l *Layout) Assigned() []*Slot {
	var out []*Slot
	for _, s := range l.slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// PageCount returns how many pages the slot list spans, at least 1.
func (l *Layout) PageCount() int {
	capacity := l.preset.Capacity()
	count := (len(l.slots) + capacity - 1) / capacity
	if count < 1 {
		count = 1
	}
	return count
}

// Page returns the current page index, clamped to the valid range.
func (l *Layout) Page() int {
	l.clampPage()
	return l.page
}

// SetPage moves to the given page, clamped to [0, PageCount).
func (l *Layout) SetPage(page int) {
	l.page = page
	l.clampPage()
}

// NextPage advances one page, clamped at the last page.
func (l *Layout) NextPage() {
	l.SetPage(l.page + 1)
}

// PrevPage goes back one page, clamped at 0.
func (l *Layout) PrevPage() {
	l.SetPage(l.page - 1)
}

func (l *Layout) clampPage() {
	if last := l.PageCount() - 1; l.page > last {
		l.page = last
	}
	if l.page < 0 {
		l.page = 0
	}
}

// PageSlots returns the current page's slice of slots, nil-padded to exactly
// the preset capacity. The returned slice is derived, not stored.
func (l *Layout) PageSlots() []*Slot {
	capacity := l.preset.Capacity()
	out := make([]*Slot, capacity)

	start := l.Page() * capacity
	for i := 0; i < capacity; i++ {
		idx := start + i
		if idx < len(l.slots) {
			out[i] = l.slots[idx]
		}
	}
	return out
}

// GlobalIndex converts a page-relative offset to a global slot index.
func (l *Layout) GlobalIndex(pageOffset int) int {
	return l.Page()*l.preset.Capacity() + pageOffset
}

// PruneMissing nulls every slot whose device is absent from the given
// registry snapshot. Called only after an explicit registry refresh has
// confirmed removal; transient registry gaps must not clear user config.
// Returns how many slots were cleared.
func (l *Layout) PruneMissing(known map[string]bool) int {
	cleared := 0
	for i, s := range l.slots {
		if s != nil && !known[s.DeviceID] {
			l.slots[i] = nil
			cleared++
		}
	}
	return cleared
}
