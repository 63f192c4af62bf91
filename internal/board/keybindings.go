package board

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyPause       = " "
	KeyInterval1s  = "1"
	KeyInterval2s  = "2"
	KeyInterval5s  = "5"
	KeyPreset      = "g"
	KeyPrevPage    = "["
	KeyNextPage    = "]"
	KeySelectLeft  = "left"
	KeySelectLeftH = "h"
	KeySelectRight = "right"
	KeySelectRApos = "l"
	KeySelectUp    = "up"
	KeySelectUpK   = "k"
	KeySelectDown  = "down"
	KeySelectDownJ = "j"
	KeyEdit        = "e"
	KeyEditAlt     = "enter"
	KeyClear       = "x"
	KeyDetail      = "d"
	KeySyncNow     = "s"
	KeyCancel      = "esc"
	KeyToggleHelp  = "?"
)

// HandleKeyMsg processes keyboard input. Returns true if the key was
// handled, plus any command to run.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyCancel {
		m.showHelp = false
		return true, nil
	}

	// The expanded tile view owns navigation keys for scrolling.
	if m.showDetail {
		switch key {
		case KeyCancel, KeyDetail:
			m.showDetail = false
			return true, nil
		case KeyQuit, KeyQuitAlt:
			m.quitting = true
			return true, tea.Quit
		}
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return true, cmd
	}

	// Esc aborts an in-progress drag before anything else.
	if key == KeyCancel && m.drag.Active() {
		m.drag.Abort()
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		// Explicit refresh: re-read the registry (confirming removals) and
		// poll immediately. Failures surface, since the user asked.
		return true, tea.Batch(m.devicesCmd(true), m.collectCmd())

	case KeyPause:
		m.paused = !m.paused
		return true, m.restartTimer()

	case KeyInterval1s:
		return true, m.setInterval(1 * time.Second)

	case KeyInterval2s:
		return true, m.setInterval(2 * time.Second)

	case KeyInterval5s:
		return true, m.setInterval(5 * time.Second)

	case KeyPreset:
		m.layout.SetPreset(m.layout.Preset().Next())
		m.clampSelection()
		m.persist()
		return true, nil

	case KeyPrevPage:
		m.layout.PrevPage()
		m.clampSelection()
		return true, nil

	case KeyNextPage:
		m.layout.NextPage()
		m.clampSelection()
		return true, nil

	case KeySelectLeft, KeySelectLeftH:
		m.moveSelection(-1, 0)
		return true, nil

	case KeySelectRight, KeySelectRApos:
		m.moveSelection(1, 0)
		return true, nil

	case KeySelectUp, KeySelectUpK:
		m.moveSelection(0, -1)
		return true, nil

	case KeySelectDown, KeySelectDownJ:
		m.moveSelection(0, 1)
		return true, nil

	case KeyEdit, KeyEditAlt:
		return true, m.openEditor(m.layout.GlobalIndex(m.selected))

	case KeyClear:
		m.layout.ClearSlot(m.layout.GlobalIndex(m.selected))
		m.persist()
		return true, nil

	case KeyDetail:
		m.openDetail(m.layout.GlobalIndex(m.selected))
		return true, nil

	case KeySyncNow:
		return true, m.flushCmd()
	}

	return false, nil
}

// moveSelection moves the page-relative selection within the grid.
func (m *Model) moveSelection(dx, dy int) {
	cols := m.layout.Preset().Columns()
	capacity := m.layout.Preset().Capacity()

	col := m.selected%cols + dx
	row := m.selected/cols + dy
	if col < 0 || col >= cols || row < 0 {
		return
	}
	next := row*cols + col
	if next >= capacity {
		return
	}
	m.selected = next
}

// clampSelection keeps the selection valid after a capacity change.
func (m *Model) clampSelection() {
	if capacity := m.layout.Preset().Capacity(); m.selected >= capacity {
		m.selected = capacity - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}
