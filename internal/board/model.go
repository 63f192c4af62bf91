package board

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tridigitals/ispmanagement-sub005/internal/api"
	"github.com/tridigitals/ispmanagement-sub005/internal/logger"
)

// cycleTimeout bounds a whole poll cycle. Generous on purpose: slow devices
// inside a cycle are skipped per request by the API client's own timeout.
const cycleTimeout = 30 * time.Second

// registryTimeout bounds a device registry fetch.
const registryTimeout = 10 * time.Second

// Options configures a wallboard model.
type Options struct {
	Service         api.Service
	Coordinator     *Coordinator
	Interval        time.Duration
	StaleMultiplier int
	Logger          logger.Logger
}

// Model is the bubbletea model for the wallboard. All fields are owned by
// the event loop; commands only touch snapshots handed to them.
type Model struct {
	svc         api.Service
	coordinator *Coordinator
	log         logger.Logger

	layout  *Layout
	history *History
	engine  *RateEngine
	poller  *Poller
	ifaces  *IfaceCache
	drag    *DragState
	editor  *slotEditor

	devices     map[string]api.DeviceSummary
	deviceOrder []string
	devicesSeen bool

	interval        time.Duration
	staleMultiplier int
	paused          bool
	focused         bool
	timerSeq        int

	selected    int
	width       int
	height      int
	notice      string
	lastCycleAt time.Time
	quitting    bool
	showHelp    bool

	// Expanded single-tile view, scrollable for long histories.
	showDetail     bool
	detailIndex    int
	detailViewport viewport.Model
	viewportReady  bool
}

// tickMsg fires a poll cycle. The sequence number lets interval and pause
// changes invalidate timers already in flight.
type tickMsg struct {
	seq int
}

// cycleMsg carries the counter samples from one poll cycle.
type cycleMsg struct {
	samples []Sample
	at      time.Time
}

// devicesMsg carries a registry snapshot. explicit marks a user-requested
// refresh, which surfaces errors and confirms removals.
type devicesMsg struct {
	devices  []api.DeviceSummary
	explicit bool
	err      error
}

// remoteConfigMsg carries the remotely persisted board state, if any.
type remoteConfigMsg struct {
	cfg   *PersistedConfig
	found bool
}

// flushedMsg reports a user-requested synchronous remote write.
type flushedMsg struct {
	err error
}

// NewModel builds the wallboard from persisted local state, falling back
// to an empty default grid.
func NewModel(opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	interval := opts.Interval
	if !ValidInterval(interval) {
		interval = 2 * time.Second
	}
	multiplier := opts.StaleMultiplier
	if multiplier < 1 {
		multiplier = 3
	}

	layout := NewLayout(DefaultPreset)
	if cfg := opts.Coordinator.LoadLocal(); cfg != nil {
		layout = layoutFromPersisted(cfg)
	}

	history := NewHistory(DefaultHistorySize)

	return &Model{
		svc:             opts.Service,
		coordinator:     opts.Coordinator,
		log:             log,
		layout:          layout,
		history:         history,
		engine:          NewRateEngine(history),
		poller:          NewPoller(opts.Service, log),
		ifaces:          NewIfaceCache(opts.Service),
		drag:            NewDragState(),
		devices:         make(map[string]api.DeviceSummary),
		interval:        interval,
		staleMultiplier: multiplier,
		focused:         true,
	}
}

// ValidInterval reports whether d is one of the supported poll cadences.
func ValidInterval(d time.Duration) bool {
	switch d {
	case 1 * time.Second, 2 * time.Second, 5 * time.Second:
		return true
	}
	return false
}

// Init starts the poll timer and loads devices plus remote board state.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(m.timerSeq),
		m.devicesCmd(false),
		m.remoteLoadCmd(),
		m.collectCmd(),
	)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A modal editor owns the input until it completes or aborts.
	if m.editor != nil {
		return m, m.updateEditor(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.MouseMsg:
		if m.showDetail {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}
		return m, m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		if m.showDetail {
			m.updateDetailContent()
		}

	case tea.FocusMsg:
		m.focused = true
		// Catch up right away instead of waiting out the current timer.
		return m, m.collectCmd()

	case tea.BlurMsg:
		m.focused = false

	case tickMsg:
		if msg.seq != m.timerSeq {
			return m, nil
		}
		cmds := []tea.Cmd{m.tickCmd(m.timerSeq)}
		if !m.paused && m.focused {
			cmds = append(cmds, m.collectCmd())
		}
		return m, tea.Batch(cmds...)

	case cycleMsg:
		for _, s := range msg.samples {
			m.engine.Observe(s.Key, s.RxBytes, s.TxBytes, msg.at)
		}
		if len(msg.samples) > 0 {
			m.lastCycleAt = msg.at
		}
		if m.showDetail {
			m.updateDetailContent()
		}

	case devicesMsg:
		m.applyDevices(msg)

	case remoteConfigMsg:
		if msg.found && msg.cfg != nil {
			m.layout = layoutFromPersisted(msg.cfg)
			m.clampSelection()
		}

	case flushedMsg:
		if msg.err != nil {
			m.notice = "sync failed: " + msg.err.Error()
		} else {
			m.notice = "synced"
		}
	}

	return m, nil
}

// View renders the wallboard.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.editor != nil {
		return m.renderEditor()
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.showDetail {
		return m.renderDetailView()
	}
	return m.renderBoard()
}

// resizeViewport sizes the detail viewport under the detail header and
// above the hint footer.
func (m *Model) resizeViewport() {
	headerHeight := 3
	footerHeight := 2
	viewportHeight := m.height - headerHeight - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.viewportReady {
		m.detailViewport = viewport.New(m.width, viewportHeight)
		m.detailViewport.YPosition = headerHeight
		m.viewportReady = true
	} else {
		m.detailViewport.Width = m.width
		m.detailViewport.Height = viewportHeight
	}
}

// openDetail expands the tile at a global index.
func (m *Model) openDetail(index int) {
	if m.layout.Slot(index) == nil {
		m.notice = "slot is empty"
		return
	}
	if !m.viewportReady {
		m.resizeViewport()
	}
	m.detailIndex = index
	m.showDetail = true
	m.detailViewport.GotoTop()
	m.updateDetailContent()
}

func (m *Model) updateDetailContent() {
	if !m.viewportReady {
		return
	}
	m.detailViewport.SetContent(m.detailContent())
}

// tickCmd schedules the next poll tick for the given timer generation.
func (m *Model) tickCmd(seq int) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

// restartTimer invalidates any pending tick and starts a fresh timer.
func (m *Model) restartTimer() tea.Cmd {
	m.timerSeq++
	return m.tickCmd(m.timerSeq)
}

// setInterval switches the poll cadence and restarts the timer. An
// immediate cycle runs so the display reflects the new cadence at once.
func (m *Model) setInterval(d time.Duration) tea.Cmd {
	if !ValidInterval(d) || d == m.interval {
		return nil
	}
	m.interval = d
	cmds := []tea.Cmd{m.restartTimer()}
	if !m.paused && m.focused {
		cmds = append(cmds, m.collectCmd())
	}
	return tea.Batch(cmds...)
}

// collectCmd snapshots the assigned slots and runs one poll cycle off the
// event loop. The result comes back as a cycleMsg.
func (m *Model) collectCmd() tea.Cmd {
	slots := snapshotSlots(m.layout.Assigned())
	if len(slots) == 0 {
		return nil
	}
	poller := m.poller

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()

		samples := poller.Cycle(ctx, slots)
		return cycleMsg{samples: samples, at: time.Now()}
	}
}

// devicesCmd fetches the device registry.
func (m *Model) devicesCmd(explicit bool) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), registryTimeout)
		defer cancel()

		devices, err := svc.ListDevices(ctx)
		return devicesMsg{devices: devices, explicit: explicit, err: err}
	}
}

// remoteLoadCmd reads board state persisted on the server. Failures are
// swallowed; local state already drives the display.
func (m *Model) remoteLoadCmd() tea.Cmd {
	coordinator := m.coordinator
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), registryTimeout)
		defer cancel()

		cfg, found, err := coordinator.LoadRemote(ctx)
		if err != nil {
			log.Debug("remote board state unavailable: %v", err)
			return remoteConfigMsg{}
		}
		return remoteConfigMsg{cfg: cfg, found: found}
	}
}

// flushCmd forces the pending remote write out now.
func (m *Model) flushCmd() tea.Cmd {
	m.persist()
	coordinator := m.coordinator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), registryTimeout)
		defer cancel()

		return flushedMsg{err: coordinator.Flush(ctx)}
	}
}

// applyDevices installs a registry snapshot. Only an explicit refresh may
// prune assignments, so a flaky background fetch never clears tiles.
func (m *Model) applyDevices(msg devicesMsg) {
	if msg.err != nil {
		if msg.explicit {
			m.notice = "device refresh failed: " + msg.err.Error()
		} else {
			m.log.Debug("device registry fetch failed: %v", msg.err)
		}
		return
	}

	m.devices = make(map[string]api.DeviceSummary, len(msg.devices))
	m.deviceOrder = m.deviceOrder[:0]
	for _, d := range msg.devices {
		m.devices[d.ID] = d
		m.deviceOrder = append(m.deviceOrder, d.ID)
	}
	m.devicesSeen = true

	if msg.explicit {
		known := make(map[string]bool, len(m.devices))
		for id := range m.devices {
			known[id] = true
		}
		if pruned := m.layout.PruneMissing(known); pruned > 0 {
			m.persist()
			m.notice = "cleared slots for removed devices"
		} else {
			m.notice = "registry refreshed"
		}
	}
}

// persist saves the current board state locally now and remotely soon.
func (m *Model) persist() {
	m.coordinator.Save(PersistedConfig{
		Layout: m.layout.Preset(),
		Slots:  m.layout.Slots(),
	})
}

// openEditor starts the modal slot form for a global index.
func (m *Model) openEditor(index int) tea.Cmd {
	if len(m.deviceOrder) == 0 {
		m.notice = "no devices available yet"
		return nil
	}

	ordered := make([]api.DeviceSummary, 0, len(m.deviceOrder))
	for _, id := range m.deviceOrder {
		ordered = append(ordered, m.devices[id])
	}

	m.editor = newSlotEditor(index, m.layout.Slot(index), ordered, m.ifaces)
	return m.editor.form.Init()
}

// updateEditor forwards a message to the active form and applies the
// result once the form finishes.
func (m *Model) updateEditor(msg tea.Msg) tea.Cmd {
	// Window size still matters while the form is up.
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}

	form, cmd := m.editor.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.editor.form = f
	}

	switch m.editor.form.State {
	case huh.StateCompleted:
		slot := m.editor.Slot()
		m.layout.SetSlot(m.editor.index, slot)
		m.history.Clear(slot.Key())
		m.persist()
		m.editor = nil
		return nil
	case huh.StateAborted:
		m.editor = nil
		return nil
	}

	return cmd
}

// handleMouse drives drag and drop. Press on a tile's handle row starts a
// drag, motion retargets it, release swaps and persists.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	g := m.geometry()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if offset, onHandle := g.handleAt(msg.X, msg.Y); onHandle {
			if m.layout.Slot(m.layout.GlobalIndex(offset)) != nil {
				m.drag.Start(m.layout.GlobalIndex(offset))
				m.selected = offset
			}
		}

	case tea.MouseActionMotion:
		if m.drag.Active() {
			if offset := g.tileAt(msg.X, msg.Y); offset >= 0 {
				m.drag.Track(m.layout.GlobalIndex(offset))
			} else {
				m.drag.Track(-1)
			}
		}

	case tea.MouseActionRelease:
		if source, dest, ok := m.drag.Drop(); ok {
			m.layout.Swap(source, dest)
			m.persist()
		}
	}

	return nil
}

// snapshotSlots deep-copies slot assignments so a poll cycle never races
// the event loop mutating the layout.
func snapshotSlots(slots []*Slot) []*Slot {
	out := make([]*Slot, 0, len(slots))
	for _, s := range slots {
		if s == nil {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	return out
}

// layoutFromPersisted rebuilds a layout from saved state.
func layoutFromPersisted(cfg *PersistedConfig) *Layout {
	l := NewLayout(cfg.Layout)
	for i, s := range cfg.Slots {
		if s != nil {
			l.SetSlot(i, *s)
		}
	}
	return l
}
