package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tileA = TileKey{DeviceID: "r1", Interface: "ether1"}

func TestObserveFirstSampleYieldsUnknown(t *testing.T) {
	e := NewRateEngine(NewHistory(10))

	e.Observe(tileA, 1000, 500, time.Unix(100, 0))

	r, ok := e.Current(tileA)
	require.True(t, ok)
	assert.Nil(t, r.RxBps, "one sample is not enough for a rate")
	assert.Nil(t, r.TxBps)
	assert.Equal(t, time.Unix(100, 0), r.LastSeen)
}

func TestObserveDerivesRate(t *testing.T) {
	e := NewRateEngine(NewHistory(10))

	// 1000 bytes over one second is 8000 bits per second.
	e.Observe(tileA, 1000, 0, time.Unix(100, 0))
	e.Observe(tileA, 2000, 3000, time.Unix(101, 0))

	r, ok := e.Current(tileA)
	require.True(t, ok)
	require.NotNil(t, r.RxBps)
	assert.Equal(t, int64(8000), *r.RxBps)
	require.NotNil(t, r.TxBps)
	assert.Equal(t, int64(24000), *r.TxBps)
}

func TestObserveFractionalInterval(t *testing.T) {
	e := NewRateEngine(NewHistory(10))

	e.Observe(tileA, 0, 0, time.Unix(100, 0))
	e.Observe(tileA, 1000, 0, time.Unix(100, 0).Add(2500*time.Millisecond))

	r, _ := e.Current(tileA)
	require.NotNil(t, r.RxBps)
	// 1000 bytes / 2.5s = 400 B/s = 3200 bps.
	assert.Equal(t, int64(3200), *r.RxBps)
}

func TestObserveCounterResetClampsToZero(t *testing.T) {
	e := NewRateEngine(NewHistory(10))

	e.Observe(tileA, 1_000_000, 500_000, time.Unix(100, 0))
	// Device rebooted; counters restart near zero.
	e.Observe(tileA, 200, 100, time.Unix(102, 0))

	r, _ := e.Current(tileA)
	require.NotNil(t, r.RxBps)
	assert.Equal(t, int64(0), *r.RxBps)
	require.NotNil(t, r.TxBps)
	assert.Equal(t, int64(0), *r.TxBps)
}

func TestObserveNonPositiveTimeDelta(t *testing.T) {
	e := NewRateEngine(NewHistory(10))

	at := time.Unix(100, 0)
	e.Observe(tileA, 1000, 0, at)
	e.Observe(tileA, 2000, 0, at)

	r, _ := e.Current(tileA)
	assert.Nil(t, r.RxBps, "repeated timestamp cannot produce a rate")
}

func TestObserveRoundsBytesPerSecond(t *testing.T) {
	e := NewRateEngine(NewHistory(10))

	e.Observe(tileA, 0, 0, time.Unix(100, 0))
	// 1001 bytes over 2s rounds to 501 B/s, then 4008 bps.
	e.Observe(tileA, 1001, 0, time.Unix(102, 0))

	r, _ := e.Current(tileA)
	require.NotNil(t, r.RxBps)
	assert.Equal(t, int64(4008), *r.RxBps)
}

func TestObserveFeedsHistory(t *testing.T) {
	h := NewHistory(10)
	e := NewRateEngine(h)

	e.Observe(tileA, 1000, 0, time.Unix(100, 0))
	e.Observe(tileA, 2000, 0, time.Unix(101, 0))

	// Unknown first-cycle rates land in history as zero.
	assert.Equal(t, []float64{0, 8000}, h.Rx(tileA, 10))
}

func TestCurrentUnknownKey(t *testing.T) {
	e := NewRateEngine(NewHistory(10))

	_, ok := e.Current(TileKey{DeviceID: "nope", Interface: "ether1"})
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	e := NewRateEngine(NewHistory(10))
	e.Observe(tileA, 1000, 0, time.Unix(100, 0))
	e.Observe(tileA, 2000, 0, time.Unix(101, 0))

	e.Reset()

	_, ok := e.Current(tileA)
	assert.False(t, ok)

	// After a reset the next observation starts over with unknown rates.
	e.Observe(tileA, 3000, 0, time.Unix(102, 0))
	r, ok := e.Current(tileA)
	require.True(t, ok)
	assert.Nil(t, r.RxBps)
}
