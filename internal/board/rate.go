package board

import (
	"math"
	"time"
)

// rawSample is the last observed counter snapshot for a tile, kept for
// delta derivation on the next cycle.
type rawSample struct {
	rxBytes    int64
	txBytes    int64
	observedAt time.Time
}

// Rates is the derived throughput for a tile. A nil rate means "never
// measured" (only one sample so far), which is distinct from measured zero
// throughput.
type Rates struct {
	RxBps    *int64
	TxBps    *int64
	LastSeen time.Time
}

// RateEngine converts raw counter snapshots into bits-per-second and
// maintains the bounded history buffers. All state is in-memory only: after
// a restart the first cycle always yields unknown rates until a second
// sample arrives.
type RateEngine struct {
	prev    map[TileKey]rawSample
	current map[TileKey]Rates
	history *History
}

// NewRateEngine creates an engine that appends derived rates to history.
func NewRateEngine(history *History) *RateEngine {
	return &RateEngine{
		prev:    make(map[TileKey]rawSample),
		current: make(map[TileKey]Rates),
		history: history,
	}
}

// Observe consumes one counter snapshot for a tile.
//
// With a previous sample and a positive time delta, rates are
// round(deltaBytes/deltaSeconds)*8, clamped at zero so counter resets and
// wraparound (device reboot, 32/64-bit rollover) report zero instead of a
// negative rate. The first observation for a key yields nil rates.
func (e *RateEngine) Observe(key TileKey, rxBytes, txBytes int64, now time.Time) {
	prev, hasPrev := e.prev[key]
	e.prev[key] = rawSample{rxBytes: rxBytes, txBytes: txBytes, observedAt: now}

	rates := Rates{LastSeen: now}
	if hasPrev && now.After(prev.observedAt) {
		deltaSeconds := now.Sub(prev.observedAt).Seconds()
		rx := bitsPerSecond(rxBytes-prev.rxBytes, deltaSeconds)
		tx := bitsPerSecond(txBytes-prev.txBytes, deltaSeconds)
		rates.RxBps = &rx
		rates.TxBps = &tx
	}
	e.current[key] = rates

	// History records unknown as zero; the "unknown vs zero" distinction
	// only matters for the current-rate display and warn evaluation.
	e.history.Push(key, float64(orZero(rates.RxBps)), float64(orZero(rates.TxBps)))
}

// Current returns the derived rates for a tile, false if never observed.
func (e *RateEngine) Current(key TileKey) (Rates, bool) {
	r, ok := e.current[key]
	return r, ok
}

// Reset drops all live samples and derived rates. History is cleared
// separately by its owner.
func (e *RateEngine) Reset() {
	e.prev = make(map[TileKey]rawSample)
	e.current = make(map[TileKey]Rates)
}

// bitsPerSecond derives a clamped bit rate from a byte delta.
func bitsPerSecond(deltaBytes int64, deltaSeconds float64) int64 {
	bytesPerSecond := int64(math.Round(float64(deltaBytes) / deltaSeconds))
	if bytesPerSecond < 0 {
		return 0
	}
	return bytesPerSecond * 8
}

func orZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
