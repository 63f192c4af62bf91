package board

import (
	"context"

	"github.com/tridigitals/ispmanagement-sub005/internal/api"
	"github.com/tridigitals/ispmanagement-sub005/internal/logger"
)

// Bounds protecting the upstream device-polling surface. A wallboard with
// hundreds of configured slots still issues a predictable number of
// requests per cycle.
const (
	MaxDevicesPerCycle     = 12
	MaxInterfacesPerDevice = 12
)

// Batch is one device's counter request for a poll cycle.
type Batch struct {
	DeviceID   string
	Interfaces []string
}

// Sample is one returned counter snapshot, ready for the rate engine.
type Sample struct {
	Key     TileKey
	RxBytes int64
	TxBytes int64
}

// PlanBatches groups the wanted interface names of all assigned slots by
// device, preserving first-seen order and deduplicating names. All pages
// are included, not just the visible one, so background pages stay warm.
// The per-cycle and per-device caps are applied here.
func PlanBatches(slots []*Slot) []Batch {
	var order []string
	wanted := make(map[string][]string)
	seen := make(map[TileKey]bool)

	for _, s := range slots {
		if s == nil || s.DeviceID == "" || s.Interface == "" {
			continue
		}
		key := s.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		if _, ok := wanted[s.DeviceID]; !ok {
			if len(order) >= MaxDevicesPerCycle {
				continue
			}
			order = append(order, s.DeviceID)
		}
		if len(wanted[s.DeviceID]) >= MaxInterfacesPerDevice {
			continue
		}
		wanted[s.DeviceID] = append(wanted[s.DeviceID], s.Interface)
	}

	batches := make([]Batch, 0, len(order))
	for _, id := range order {
		batches = append(batches, Batch{DeviceID: id, Interfaces: wanted[id]})
	}
	return batches
}

// Poller runs poll cycles against a counter source.
type Poller struct {
	source api.CounterSource
	log    logger.Logger
}

// NewPoller creates a poller. A nil logger gets the package default.
func NewPoller(source api.CounterSource, log logger.Logger) *Poller {
	if log == nil {
		log = logger.Default()
	}
	return &Poller{source: source, log: log}
}

// Cycle fetches counters for every assigned slot, strictly sequentially per
// device so per-device API load stays predictable. A failure on one device
// is logged at debug level and skipped; one unreachable device must not
// interrupt the rest of the cycle or spam the user every tick.
func (p *Poller) Cycle(ctx context.Context, slots []*Slot) []Sample {
	var samples []Sample
	for _, batch := range PlanBatches(slots) {
		if ctx.Err() != nil {
			break
		}

		counters, err := p.source.FetchCounters(ctx, batch.DeviceID, batch.Interfaces)
		if err != nil {
			p.log.Debug("[poll] device %s: %v", batch.DeviceID, err)
			continue
		}

		for _, c := range counters {
			samples = append(samples, Sample{
				Key:     TileKey{DeviceID: batch.DeviceID, Interface: c.Name},
				RxBytes: c.RxBytes,
				TxBytes: c.TxBytes,
			})
		}
	}
	return samples
}
