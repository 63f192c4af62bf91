package mockapi

import (
	"math"
	"math/rand"
	"sync"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"
)

// LocalDeviceID is the registry id of the pseudo-device backed by this
// machine's real NIC counters, collected through gopsutil.
const LocalDeviceID = "local"

// ifaceState is the accumulated synthetic counter for one simulated port.
type ifaceState struct {
	rxBytes int64
	txBytes int64
	lastAt  time.Time
	phase   float64
}

// Simulator advances monotonic byte counters for simulated interfaces.
// Traffic follows a slow sine swell around each port's baseline with
// random jitter, so sparklines show believable movement. Handlers run on
// gin's worker goroutines, hence the lock.
type Simulator struct {
	mu    sync.Mutex
	state map[string]*ifaceState
	rng   *rand.Rand
	now   func() time.Time
}

// NewSimulator creates a traffic simulator. seed fixes the jitter stream
// for reproducible tests; pass 0 for a time-based seed.
func NewSimulator(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		state: make(map[string]*ifaceState),
		rng:   rand.New(rand.NewSource(seed)),
		now:   time.Now,
	}
}

// Counters returns the current monotonic counters for one port, advancing
// the simulation by the wall time elapsed since the previous call.
func (s *Simulator) Counters(deviceID, iface string, baselineBps int64) (rx, tx int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := deviceID + "/" + iface
	st, ok := s.state[key]
	now := s.now()
	if !ok {
		st = &ifaceState{lastAt: now, phase: s.rng.Float64() * 2 * math.Pi}
		// Start with a plausible uptime's worth of traffic.
		st.rxBytes = baselineBps / 8 * int64(3600+s.rng.Intn(86400))
		st.txBytes = st.rxBytes / 4
		s.state[key] = st
		return st.rxBytes, st.txBytes
	}

	elapsed := now.Sub(st.lastAt).Seconds()
	if elapsed > 0 {
		st.lastAt = now
		st.phase += elapsed / 60 * 2 * math.Pi // one swell per minute

		swell := 0.65 + 0.35*math.Sin(st.phase)
		jitter := 0.9 + 0.2*s.rng.Float64()
		rate := float64(baselineBps) / 8 * swell * jitter

		st.rxBytes += int64(rate * elapsed)
		st.txBytes += int64(rate * elapsed * 0.3)
	}
	return st.rxBytes, st.txBytes
}

// localInterfaces lists this machine's NICs as catalog entries.
func localInterfaces() ([]Interface, error) {
	stats, err := psnet.IOCounters(true)
	if err != nil {
		return nil, err
	}

	ifaces := make([]Interface, 0, len(stats))
	for _, st := range stats {
		ifaces = append(ifaces, Interface{
			Name:    st.Name,
			Type:    "ether",
			Running: true,
		})
	}
	return ifaces, nil
}

// localCounters reads real byte counters for the named NICs.
func localCounters(names []string) (map[string][2]int64, error) {
	stats, err := psnet.IOCounters(true)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	out := make(map[string][2]int64)
	for _, st := range stats {
		if wanted[st.Name] {
			out[st.Name] = [2]int64{int64(st.BytesRecv), int64(st.BytesSent)}
		}
	}
	return out, nil
}
