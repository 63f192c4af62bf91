package board

// DragState is the pointer-driven reorder controller: an explicit
// Idle -> Dragging -> Idle machine. Indices are always GLOBAL slot indices,
// so a cross-page drop behaves exactly like a same-page one.
type DragState struct {
	active bool
	source int
	dest   int
}

// NewDragState returns an idle controller.
func NewDragState() *DragState {
	return &DragState{source: -1, dest: -1}
}

// Active reports whether a drag is in progress.
func (d *DragState) Active() bool {
	return d.active
}

// Source returns the global index the drag started from, -1 when idle.
func (d *DragState) Source() int {
	if !d.active {
		return -1
	}
	return d.source
}

// Dest returns the currently tracked drop target, -1 when none.
func (d *DragState) Dest() int {
	if !d.active {
		return -1
	}
	return d.dest
}

// Start enters the dragging state from the given global index. Returns
// false if a drag is already active; a second press during a drag is not a
// defined input and must be rejected at this boundary.
func (d *DragState) Start(globalIndex int) bool {
	if d.active || globalIndex < 0 {
		return false
	}
	d.active = true
	d.source = globalIndex
	d.dest = -1
	return true
}

// Track records the tile currently under the pointer as the drop candidate.
// Pass -1 when the pointer is over no tile.
func (d *DragState) Track(globalIndex int) {
	if !d.active {
		return
	}
	d.dest = globalIndex
}

// Drop exits the dragging state. ok is true only when a destination tile
// was tracked and differs from the source; the caller then swaps the two
// entries. Releasing outside any tile aborts without mutating anything.
func (d *DragState) Drop() (source, dest int, ok bool) {
	if !d.active {
		return -1, -1, false
	}
	source, dest = d.source, d.dest
	d.reset()

	if dest < 0 || dest == source {
		return source, dest, false
	}
	return source, dest, true
}

// Abort cancels an in-progress drag without mutating state.
func (d *DragState) Abort() {
	d.reset()
}

func (d *DragState) reset() {
	d.active = false
	d.source = -1
	d.dest = -1
}
