package board

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tridigitals/ispmanagement-sub005/internal/api"
	"github.com/tridigitals/ispmanagement-sub005/internal/logger"
)

// Settings-store keys for remote persistence. The layout preset and the
// slots array are stored under separate keys so either can be read alone.
const (
	RemoteLayoutKey = "netwall.wallboard.layout"
	RemoteSlotsKey  = "netwall.wallboard.slots"
)

// DefaultInterfaceName is the interface implied by the legacy persisted
// format, which stored each slot as a bare device-id string.
const DefaultInterfaceName = "ether1"

// remoteDebounce collapses bursts of edits into one settings-store write.
const remoteDebounce = 700 * time.Millisecond

// remoteWriteTimeout bounds each background settings-store write.
const remoteWriteTimeout = 5 * time.Second

// PersistedConfig is the only wallboard state that is written to storage.
// Live samples and history are deliberately not persisted.
type PersistedConfig struct {
	Layout LayoutPreset
	Slots  []*Slot
}

// persistedConfigJSON is the wire shape of PersistedConfig.
type persistedConfigJSON struct {
	Layout string          `json:"layout"`
	Slots  json.RawMessage `json:"slots"`
}

// MarshalJSON encodes the layout preset in its canonical "CxR" form.
func (c PersistedConfig) MarshalJSON() ([]byte, error) {
	slots, err := json.Marshal(c.Slots)
	if err != nil {
		return nil, err
	}
	return json.Marshal(persistedConfigJSON{Layout: c.Layout.String(), Slots: slots})
}

// UnmarshalJSON accepts both the current structured slot form and the
// legacy bare-string form. Corrupt entries decode to null rather than
// failing the whole load.
func (c *PersistedConfig) UnmarshalJSON(data []byte) error {
	var aux persistedConfigJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Layout, _ = ParsePreset(aux.Layout)
	c.Slots = ParseSlots(aux.Slots)
	return nil
}

// ParseSlots decodes a persisted slots array, normalizing every entry to
// the structured Slot shape:
//   - a JSON object with device_id and interface passes through;
//   - a legacy bare device-id string implies DefaultInterfaceName;
//   - anything else (including objects missing required fields) becomes null.
//
// A payload that is not an array at all yields an empty list.
func ParseSlots(data []byte) []*Slot {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	slots := make([]*Slot, len(raw))
	for i, entry := range raw {
		slots[i] = parseSlotEntry(entry)
	}
	return slots
}

func parseSlotEntry(data []byte) *Slot {
	// Legacy form: "deviceid"
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		if legacy == "" {
			return nil
		}
		return &Slot{DeviceID: legacy, Interface: DefaultInterfaceName}
	}

	// Structured form
	var s Slot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if s.DeviceID == "" || s.Interface == "" {
		return nil
	}
	return &s
}

// Coordinator reconciles the two persistence tiers: a local JSON file
// written synchronously on every mutation (fast cache, offline fallback)
// and the remote settings store written through a debounce and guarded by
// last-payload equality.
type Coordinator struct {
	store     api.SettingsStore
	localPath string
	log       logger.Logger
	debounce  time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	pending     string
	lastWritten string
}

// NewCoordinator creates a coordinator persisting to the given local file
// path and remote settings store.
func NewCoordinator(store api.SettingsStore, localPath string, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.Default()
	}
	return &Coordinator{
		store:     store,
		localPath: localPath,
		log:       log,
		debounce:  remoteDebounce,
	}
}

// SetDebounce overrides the remote write debounce. Test hook.
func (c *Coordinator) SetDebounce(d time.Duration) {
	c.debounce = d
}

// LoadLocal reads the local file. A missing or corrupt file yields nil;
// the wallboard starts fresh rather than failing.
func (c *Coordinator) LoadLocal() *PersistedConfig {
	data, err := os.ReadFile(c.localPath)
	if err != nil {
		return nil
	}

	var cfg PersistedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		c.log.Warn("[persist] local state unreadable, starting fresh: %v", err)
		return nil
	}
	return &cfg
}

// LoadRemote reads the authoritative copy from the settings store. Returns
// found=false when nothing has been stored yet. Errors are returned so the
// caller can decide to swallow them (startup does; the wallboard must stay
// usable when persistence is unreachable).
func (c *Coordinator) LoadRemote(ctx context.Context) (*PersistedConfig, bool, error) {
	layoutValue, layoutFound, err := c.store.Get(ctx, RemoteLayoutKey)
	if err != nil {
		return nil, false, err
	}
	slotsValue, slotsFound, err := c.store.Get(ctx, RemoteSlotsKey)
	if err != nil {
		return nil, false, err
	}
	if !layoutFound && !slotsFound {
		return nil, false, nil
	}

	cfg := &PersistedConfig{Layout: DefaultPreset}
	if layoutFound {
		cfg.Layout, _ = ParsePreset(layoutValue)
	}
	if slotsFound {
		cfg.Slots = ParseSlots([]byte(slotsValue))
	}
	return cfg, true, nil
}

// Save persists a snapshot: the local file synchronously, the remote store
// through the debounce. Local write failures are logged and otherwise
// ignored; persistence recovers on the next mutation.
func (c *Coordinator) Save(cfg PersistedConfig) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		c.log.Error("[persist] serialize: %v", err)
		return
	}

	c.writeLocal(payload)
	c.scheduleRemote(string(payload))
}

func (c *Coordinator) writeLocal(payload []byte) {
	if dir := filepath.Dir(c.localPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			c.log.Warn("[persist] local dir: %v", err)
			return
		}
	}
	if err := os.WriteFile(c.localPath, payload, 0o644); err != nil {
		c.log.Warn("[persist] local write: %v", err)
	}
}

// scheduleRemote arms (or re-arms) the debounce timer for a remote write.
func (c *Coordinator) scheduleRemote(payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = payload
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.flushPending)
}

// flushPending runs on the debounce timer's goroutine. It only touches
// coordinator internals and the settings store, never board state.
func (c *Coordinator) flushPending() {
	ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
	defer cancel()
	c.writeRemote(ctx)
}

// Flush performs a best-effort synchronous remote write of any pending
// payload. Called on teardown so the last edit is not lost to the debounce
// window.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	return c.writeRemote(ctx)
}

// writeRemote pushes the pending payload to the settings store, skipping
// the write entirely when the payload is byte-identical to the last
// successful one.
func (c *Coordinator) writeRemote(ctx context.Context) error {
	c.mu.Lock()
	payload := c.pending
	last := c.lastWritten
	c.mu.Unlock()

	if payload == "" || payload == last {
		return nil
	}

	var cfg PersistedConfig
	if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
		return err
	}

	slots, err := json.Marshal(cfg.Slots)
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, RemoteLayoutKey, cfg.Layout.String(), "wallboard grid preset"); err != nil {
		c.log.Debug("[persist] remote layout write: %v", err)
		return err
	}
	if err := c.store.Set(ctx, RemoteSlotsKey, string(slots), "wallboard tile assignments"); err != nil {
		c.log.Debug("[persist] remote slots write: %v", err)
		return err
	}

	c.mu.Lock()
	c.lastWritten = payload
	c.mu.Unlock()
	return nil
}
