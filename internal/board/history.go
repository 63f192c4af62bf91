package board

// DefaultHistorySize is the number of samples retained per tile, enough for
// a compact sparkline without unbounded memory growth.
const DefaultHistorySize = 60

// History holds bounded rx/tx rate history per tile using ring buffers.
// It is owned by the dashboard model and only touched from the UI event
// loop, so it carries no locking. History is rebuilt from scratch on every
// session; it is never persisted.
type History struct {
	size  int
	tiles map[TileKey]*tileHistory
}

// tileHistory holds the ring buffers for a single tile.
type tileHistory struct {
	rx *ringBuffer
	tx *ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history tracker with the specified buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:  size,
		tiles: make(map[TileKey]*tileHistory),
	}
}

// Push appends one rx/tx rate pair for the tile, dropping the oldest sample
// once the buffer is full.
func (h *History) Push(key TileKey, rxBps, txBps float64) {
	hist, ok := h.tiles[key]
	if !ok {
		hist = &tileHistory{
			rx: newRingBuffer(h.size),
			tx: newRingBuffer(h.size),
		}
		h.tiles[key] = hist
	}
	hist.rx.push(rxBps)
	hist.tx.push(txBps)
}

// Rx returns the last count rx rates for the tile in chronological order.
// Returns fewer values if not enough history is available.
func (h *History) Rx(key TileKey, count int) []float64 {
	hist, ok := h.tiles[key]
	if !ok {
		return nil
	}
	return hist.rx.getLast(count)
}

// Tx returns the last count tx rates for the tile in chronological order.
func (h *History) Tx(key TileKey, count int) []float64 {
	hist, ok := h.tiles[key]
	if !ok {
		return nil
	}
	return hist.tx.getLast(count)
}

// Len returns the number of samples stored for a tile.
func (h *History) Len(key TileKey) int {
	hist, ok := h.tiles[key]
	if !ok {
		return 0
	}
	return hist.rx.count
}

// Clear removes all history for one tile.
func (h *History) Clear(key TileKey) {
	delete(h.tiles, key)
}

// ClearAll removes all history.
func (h *History) ClearAll() {
	h.tiles = make(map[TileKey]*tileHistory)
}

// newRingBuffer creates a ring buffer with the specified capacity.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

// push adds a value to the ring buffer.
func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head points to the next write position, so the most recent value is
	// at head-1. We want 'count' values ending at head-1.
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}

	return result
}
