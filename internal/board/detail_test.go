package board

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/tridigitals/ispmanagement-sub005/internal/api"
)

func detailModel(t *testing.T) *Model {
	t.Helper()
	m, _ := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.layout.SetSlot(0, Slot{DeviceID: "r1", Interface: "ether1"})
	m.Update(devicesMsg{devices: []api.DeviceSummary{
		{ID: "r1", Name: "core-router", Host: "10.0.0.1", Port: 8728, Online: true},
	}})
	return m
}

func TestOpenDetailOnAssignedSlot(t *testing.T) {
	m := detailModel(t)

	handled, _ := m.HandleKeyMsg(keyMsg(KeyDetail))

	assert.True(t, handled)
	assert.True(t, m.showDetail)
	assert.Equal(t, 0, m.detailIndex)
}

func TestOpenDetailOnEmptySlot(t *testing.T) {
	m := detailModel(t)
	m.selected = 1

	m.HandleKeyMsg(keyMsg(KeyDetail))

	assert.False(t, m.showDetail)
	assert.Equal(t, "slot is empty", m.notice)
}

func TestDetailClosesOnEsc(t *testing.T) {
	m := detailModel(t)
	m.openDetail(0)

	handled, _ := m.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, handled)
	assert.False(t, m.showDetail)
}

func TestDetailQuitStillWorks(t *testing.T) {
	m := detailModel(t)
	m.openDetail(0)

	_, cmd := m.HandleKeyMsg(keyMsg(KeyQuit))

	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
}

func TestDetailViewContent(t *testing.T) {
	m := detailModel(t)
	now := time.Now()
	m.engine.Observe(TileKey{DeviceID: "r1", Interface: "ether1"}, 0, 0, now.Add(-time.Second))
	m.engine.Observe(TileKey{DeviceID: "r1", Interface: "ether1"}, 1000, 3000, now)
	m.openDetail(0)

	out := m.View()
	assert.Contains(t, out, "core-router")
	assert.Contains(t, out, "ether1")
	assert.Contains(t, out, "10.0.0.1:8728")
	assert.Contains(t, out, "8.0 Kbps")
	assert.Contains(t, out, "min/avg/max")
	assert.Contains(t, out, "esc close")
}

func TestDetailViewWithoutSamples(t *testing.T) {
	m := detailModel(t)
	m.openDetail(0)

	out := m.View()
	assert.Contains(t, out, "no samples yet")
	assert.Contains(t, out, "never")
}

func TestDetailRefreshesOnCycle(t *testing.T) {
	m := detailModel(t)
	m.openDetail(0)
	assert.Contains(t, m.detailViewport.View(), "no samples yet")

	key := TileKey{DeviceID: "r1", Interface: "ether1"}
	now := time.Now()
	m.Update(cycleMsg{samples: []Sample{{Key: key, RxBytes: 0, TxBytes: 0}}, at: now.Add(-time.Second)})
	m.Update(cycleMsg{samples: []Sample{{Key: key, RxBytes: 1000, TxBytes: 0}}, at: now})

	assert.Contains(t, m.detailViewport.View(), "8.0 Kbps")
}

func TestHelpOverlayToggle(t *testing.T) {
	m := detailModel(t)

	m.HandleKeyMsg(keyMsg(KeyToggleHelp))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestHistoryStats(t *testing.T) {
	min, max, avg := historyStats([]float64{1000, 3000, 2000})

	assert.Equal(t, int64(1000), min)
	assert.Equal(t, int64(3000), max)
	assert.Equal(t, int64(2000), avg)
}
