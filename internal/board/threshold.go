package board

import (
	"fmt"
	"time"
)

// WarnBelow reports whether a known rate is under a configured minimum.
// False whenever the threshold or the rate is unset: an unmeasured tile is
// never in warn state.
func WarnBelow(threshold, rate *int64) bool {
	return threshold != nil && rate != nil && *rate >= 0 && *rate < *threshold
}

// TileWarn is the overall warn state for one slot: either direction under
// its threshold. Recomputed on every render tick, never cached.
func TileWarn(s *Slot, r Rates) bool {
	if s == nil {
		return false
	}
	return WarnBelow(s.WarnBelowRxBps, r.RxBps) || WarnBelow(s.WarnBelowTxBps, r.TxBps)
}

// minStaleWindow is the floor on the staleness window so a single missed
// cycle at short intervals does not flag a tile.
const minStaleWindow = 10 * time.Second

// IsStale reports whether a tile has gone without a fresh sample for more
// than max(minStaleWindow, interval*multiplier). Paused polling never
// produces stale tiles, and a tile that has never been seen is "unknown",
// not stale.
func IsStale(lastSeen, now time.Time, paused bool, interval time.Duration, multiplier int) bool {
	if paused || lastSeen.IsZero() {
		return false
	}
	window := interval * time.Duration(multiplier)
	if window < minStaleWindow {
		window = minStaleWindow
	}
	return now.Sub(lastSeen) > window
}

// RateUnit is a human-facing throughput unit used when authoring thresholds.
type RateUnit string

const (
	UnitKbps RateUnit = "Kbps"
	UnitMbps RateUnit = "Mbps"
	UnitGbps RateUnit = "Gbps"
)

// RateUnits lists the authoring units from smallest to largest.
var RateUnits = []RateUnit{UnitKbps, UnitMbps, UnitGbps}

// Multiplier returns the decimal bits-per-second factor for the unit.
func (u RateUnit) Multiplier() float64 {
	switch u {
	case UnitMbps:
		return 1e6
	case UnitGbps:
		return 1e9
	default:
		return 1e3
	}
}

// ToBps converts an authored value to raw bits per second. Values at or
// below zero mean "no threshold" and yield nil.
func ToBps(value float64, unit RateUnit) *int64 {
	if value <= 0 {
		return nil
	}
	bps := int64(value * unit.Multiplier())
	return &bps
}

// FromBps converts a raw threshold back to the display unit, picking the
// largest unit that yields a value >= 1.
func FromBps(bps int64) (float64, RateUnit) {
	for i := len(RateUnits) - 1; i > 0; i-- {
		unit := RateUnits[i]
		if value := float64(bps) / unit.Multiplier(); value >= 1 {
			return value, unit
		}
	}
	return float64(bps) / UnitKbps.Multiplier(), UnitKbps
}

// FormatThreshold renders a threshold for the editor, e.g. "2.5 Mbps".
func FormatThreshold(bps int64) string {
	value, unit := FromBps(bps)
	return fmt.Sprintf("%g %s", value, unit)
}
