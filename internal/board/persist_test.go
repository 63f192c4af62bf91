package board

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tridigitals/ispmanagement-sub005/internal/logger"
)

// fakeSettingsStore is an in-memory settings store with failure injection.
type fakeSettingsStore struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
	fail   bool
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{values: make(map[string]string)}
}

func (f *fakeSettingsStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", false, fmt.Errorf("store unavailable")
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeSettingsStore) Set(_ context.Context, key, value, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("store unavailable")
	}
	f.values[key] = value
	f.sets++
	return nil
}

func (f *fakeSettingsStore) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

func (f *fakeSettingsStore) value(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}

func testCoordinator(t *testing.T, store *fakeSettingsStore) *Coordinator {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.json")
	c := NewCoordinator(store, path, logger.Noop())
	c.SetDebounce(20 * time.Millisecond)
	return c
}

func sampleConfig() PersistedConfig {
	return PersistedConfig{
		Layout: Layout3x2,
		Slots: []*Slot{
			{DeviceID: "r1", Interface: "ether1", WarnBelowRxBps: int64p(1_000_000)},
			nil,
			{DeviceID: "r2", Interface: "sfp1"},
		},
	}
}

func TestParseSlotsStructured(t *testing.T) {
	data := []byte(`[{"device_id":"r1","interface":"ether1","warn_below_rx_bps":5000},null]`)

	slots := ParseSlots(data)
	require.Len(t, slots, 2)
	require.NotNil(t, slots[0])
	assert.Equal(t, "r1", slots[0].DeviceID)
	assert.Equal(t, "ether1", slots[0].Interface)
	require.NotNil(t, slots[0].WarnBelowRxBps)
	assert.Equal(t, int64(5000), *slots[0].WarnBelowRxBps)
	assert.Nil(t, slots[1])
}

func TestParseSlotsLegacyStrings(t *testing.T) {
	// Older saves stored each slot as a bare device-id string.
	data := []byte(`["router-a",null,"router-b"]`)

	slots := ParseSlots(data)
	require.Len(t, slots, 3)
	require.NotNil(t, slots[0])
	assert.Equal(t, "router-a", slots[0].DeviceID)
	assert.Equal(t, DefaultInterfaceName, slots[0].Interface)
	assert.Nil(t, slots[0].WarnBelowRxBps)
	assert.Nil(t, slots[1])
	assert.Equal(t, "router-b", slots[2].DeviceID)
}

func TestParseSlotsRejectsMalformedEntries(t *testing.T) {
	data := []byte(`[{"interface":"ether1"},{"device_id":"r1"},42,{"device_id":"r2","interface":"ether2"}]`)

	slots := ParseSlots(data)
	require.Len(t, slots, 4)
	assert.Nil(t, slots[0], "missing device_id")
	assert.Nil(t, slots[1], "missing interface")
	assert.Nil(t, slots[2], "wrong type")
	assert.NotNil(t, slots[3])
}

func TestParseSlotsNotAnArray(t *testing.T) {
	assert.Nil(t, ParseSlots([]byte(`{"oops":true}`)))
	assert.Nil(t, ParseSlots([]byte(`garbage`)))
}

func TestPersistedConfigRoundTrip(t *testing.T) {
	cfg := sampleConfig()

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var back PersistedConfig
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Layout3x2, back.Layout)
	require.Len(t, back.Slots, 3)
	assert.Equal(t, "r1", back.Slots[0].DeviceID)
	assert.Nil(t, back.Slots[1])
}

func TestLocalRoundTrip(t *testing.T) {
	c := testCoordinator(t, newFakeSettingsStore())

	assert.Nil(t, c.LoadLocal(), "missing file is not an error")

	c.Save(sampleConfig())

	got := c.LoadLocal()
	require.NotNil(t, got)
	assert.Equal(t, Layout3x2, got.Layout)
	require.Len(t, got.Slots, 3)
	assert.Equal(t, "r2", got.Slots[2].DeviceID)
}

func TestLoadLocalCorruptFile(t *testing.T) {
	store := newFakeSettingsStore()
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := NewCoordinator(store, path, logger.Noop())
	assert.Nil(t, c.LoadLocal(), "corrupt state falls back to defaults")
}

func TestLoadRemote(t *testing.T) {
	store := newFakeSettingsStore()
	c := testCoordinator(t, store)

	_, found, err := c.LoadRemote(context.Background())
	require.NoError(t, err)
	assert.False(t, found)

	store.values[RemoteLayoutKey] = "4x3"
	store.values[RemoteSlotsKey] = `["legacy-device"]`

	cfg, found, err := c.LoadRemote(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, Layout4x3, cfg.Layout)
	require.Len(t, cfg.Slots, 1)
	assert.Equal(t, "legacy-device", cfg.Slots[0].DeviceID)
	assert.Equal(t, DefaultInterfaceName, cfg.Slots[0].Interface)
}

func TestLoadRemoteUnavailable(t *testing.T) {
	store := newFakeSettingsStore()
	store.fail = true
	c := testCoordinator(t, store)

	_, _, err := c.LoadRemote(context.Background())
	assert.Error(t, err)
}

func TestSaveDebouncesRemoteWrites(t *testing.T) {
	store := newFakeSettingsStore()
	c := testCoordinator(t, store)

	// A burst of edits must collapse into a single remote write.
	cfg := sampleConfig()
	for i := 0; i < 5; i++ {
		cfg.Slots[2].Interface = fmt.Sprintf("ether%d", i)
		c.Save(cfg)
	}

	assert.Equal(t, 0, store.setCount(), "nothing written before the debounce fires")

	require.Eventually(t, func() bool {
		return store.setCount() == 2
	}, time.Second, 5*time.Millisecond, "exactly one flush: one layout write plus one slots write")

	assert.Contains(t, store.value(RemoteSlotsKey), "ether4", "last edit wins")
	assert.Equal(t, "3x2", store.value(RemoteLayoutKey))
}

func TestFlushWritesPendingImmediately(t *testing.T) {
	store := newFakeSettingsStore()
	c := NewCoordinator(store, filepath.Join(t.TempDir(), "board.json"), logger.Noop())
	c.SetDebounce(time.Hour)

	c.Save(sampleConfig())
	assert.Equal(t, 0, store.setCount())

	require.NoError(t, c.Flush(context.Background()))
	assert.Equal(t, 2, store.setCount())
}

func TestRemoteWriteSkipsUnchangedPayload(t *testing.T) {
	store := newFakeSettingsStore()
	c := NewCoordinator(store, filepath.Join(t.TempDir(), "board.json"), logger.Noop())
	c.SetDebounce(time.Hour)

	c.Save(sampleConfig())
	require.NoError(t, c.Flush(context.Background()))
	require.Equal(t, 2, store.setCount())

	// Same payload again: the remote write is skipped entirely.
	c.Save(sampleConfig())
	require.NoError(t, c.Flush(context.Background()))
	assert.Equal(t, 2, store.setCount())

	// A real change writes again.
	cfg := sampleConfig()
	cfg.Layout = Layout2x2
	c.Save(cfg)
	require.NoError(t, c.Flush(context.Background()))
	assert.Equal(t, 4, store.setCount())
}

func TestFlushWithNothingPending(t *testing.T) {
	c := testCoordinator(t, newFakeSettingsStore())
	assert.NoError(t, c.Flush(context.Background()))
}

func TestRemoteWriteFailureKeepsPending(t *testing.T) {
	store := newFakeSettingsStore()
	c := NewCoordinator(store, filepath.Join(t.TempDir(), "board.json"), logger.Noop())
	c.SetDebounce(time.Hour)

	c.Save(sampleConfig())

	store.fail = true
	assert.Error(t, c.Flush(context.Background()))

	// The payload was not marked written, so recovery retries it.
	store.fail = false
	require.NoError(t, c.Flush(context.Background()))
	assert.Equal(t, 2, store.setCount())
}
