package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetGeometry(t *testing.T) {
	tests := []struct {
		preset   LayoutPreset
		cols     int
		rows     int
		capacity int
	}{
		{Layout2x2, 2, 2, 4},
		{Layout3x2, 3, 2, 6},
		{Layout3x3, 3, 3, 9},
		{Layout4x3, 4, 3, 12},
	}

	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			assert.Equal(t, tt.cols, tt.preset.Columns())
			assert.Equal(t, tt.rows, tt.preset.Rows())
			assert.Equal(t, tt.capacity, tt.preset.Capacity())
		})
	}
}

func TestParsePreset(t *testing.T) {
	p, ok := ParsePreset("4x3")
	assert.True(t, ok)
	assert.Equal(t, Layout4x3, p)

	p, ok = ParsePreset("7x7")
	assert.False(t, ok)
	assert.Equal(t, DefaultPreset, p)

	p, ok = ParsePreset("")
	assert.False(t, ok)
	assert.Equal(t, DefaultPreset, p)
}

func TestPresetNextCycles(t *testing.T) {
	seen := map[LayoutPreset]bool{}
	p := Layout2x2
	for i := 0; i < 4; i++ {
		seen[p] = true
		p = p.Next()
	}
	assert.Equal(t, Layout2x2, p, "cycle returns to start")
	assert.Len(t, seen, 4)
}

func TestSetSlotGrowsAndCopies(t *testing.T) {
	l := NewLayout(Layout2x2)

	src := Slot{DeviceID: "r1", Interface: "ether1"}
	l.SetSlot(10, src)

	// Mutating the caller's value must not affect the stored slot.
	src.Interface = "ether2"

	got := l.Slot(10)
	require.NotNil(t, got)
	assert.Equal(t, "ether1", got.Interface)
	assert.Nil(t, l.Slot(3))
	assert.Nil(t, l.Slot(999))
}

func TestClearSlot(t *testing.T) {
	l := NewLayout(Layout2x2)
	l.SetSlot(1, Slot{DeviceID: "r1", Interface: "ether1"})

	l.ClearSlot(1)
	assert.Nil(t, l.Slot(1))

	// Clearing out-of-range indices is a no-op.
	l.ClearSlot(-1)
	l.ClearSlot(500)
}

func TestSwap(t *testing.T) {
	l := NewLayout(Layout3x3)
	l.SetSlot(0, Slot{DeviceID: "a", Interface: "ether1"})
	l.SetSlot(8, Slot{DeviceID: "b", Interface: "sfp1"})

	l.Swap(0, 8)

	require.NotNil(t, l.Slot(0))
	assert.Equal(t, "b", l.Slot(0).DeviceID)
	require.NotNil(t, l.Slot(8))
	assert.Equal(t, "a", l.Slot(8).DeviceID)
}

func TestSwapWithEmptyTarget(t *testing.T) {
	l := NewLayout(Layout3x3)
	l.SetSlot(2, Slot{DeviceID: "a", Interface: "ether1"})

	// Swapping into an empty slot moves the assignment.
	l.Swap(2, 5)
	assert.Nil(t, l.Slot(2))
	require.NotNil(t, l.Slot(5))
	assert.Equal(t, "a", l.Slot(5).DeviceID)

	// Swapping past the current length grows the slot array.
	l.Swap(5, 20)
	assert.Nil(t, l.Slot(5))
	require.NotNil(t, l.Slot(20))
}

func TestPageCount(t *testing.T) {
	l := NewLayout(Layout3x3)
	assert.Equal(t, 1, l.PageCount(), "empty board still has one page")

	// 11 assignments on a 9-tile grid need two pages.
	for i := 0; i < 11; i++ {
		l.SetSlot(i, Slot{DeviceID: "d", Interface: "ether1"})
	}
	assert.Equal(t, 2, l.PageCount())
}

func TestPageNavigationClamps(t *testing.T) {
	l := NewLayout(Layout3x3)
	for i := 0; i < 11; i++ {
		l.SetSlot(i, Slot{DeviceID: "d", Interface: "ether1"})
	}

	assert.Equal(t, 0, l.Page())
	l.PrevPage()
	assert.Equal(t, 0, l.Page(), "cannot go before first page")

	l.NextPage()
	assert.Equal(t, 1, l.Page())
	l.NextPage()
	assert.Equal(t, 1, l.Page(), "cannot go past last page")

	l.SetPage(99)
	assert.Equal(t, 1, l.Page())
	l.SetPage(-5)
	assert.Equal(t, 0, l.Page())
}

func TestPageSlotsPadsToCapacity(t *testing.T) {
	l := NewLayout(Layout3x3)
	for i := 0; i < 11; i++ {
		l.SetSlot(i, Slot{DeviceID: "d", Interface: "ether1"})
	}
	l.SetPage(1)

	slots := l.PageSlots()
	require.Len(t, slots, 9)
	assert.NotNil(t, slots[0])
	assert.NotNil(t, slots[1])
	for i := 2; i < 9; i++ {
		assert.Nil(t, slots[i], "tail of last page is padded with empties")
	}
}

func TestGlobalIndex(t *testing.T) {
	l := NewLayout(Layout3x3)
	assert.Equal(t, 4, l.GlobalIndex(4))

	for i := 0; i < 11; i++ {
		l.SetSlot(i, Slot{DeviceID: "d", Interface: "ether1"})
	}
	l.SetPage(1)
	assert.Equal(t, 9, l.GlobalIndex(0))
	assert.Equal(t, 13, l.GlobalIndex(4))
}

func TestPresetShrinkKeepsAssignments(t *testing.T) {
	l := NewLayout(Layout4x3)
	l.SetSlot(11, Slot{DeviceID: "d", Interface: "ether1"})

	// Shrinking the grid pushes trailing assignments onto later pages
	// instead of dropping them.
	l.SetPreset(Layout2x2)
	require.NotNil(t, l.Slot(11))
	assert.Equal(t, 3, l.PageCount())
}

func TestPruneMissing(t *testing.T) {
	l := NewLayout(Layout3x3)
	l.SetSlot(0, Slot{DeviceID: "keep", Interface: "ether1"})
	l.SetSlot(1, Slot{DeviceID: "gone", Interface: "ether1"})
	l.SetSlot(2, Slot{DeviceID: "gone", Interface: "ether2"})

	cleared := l.PruneMissing(map[string]bool{"keep": true})
	assert.Equal(t, 2, cleared)
	assert.NotNil(t, l.Slot(0))
	assert.Nil(t, l.Slot(1))
	assert.Nil(t, l.Slot(2))

	assert.Equal(t, 0, l.PruneMissing(map[string]bool{"keep": true}))
}

func TestAssigned(t *testing.T) {
	l := NewLayout(Layout3x3)
	assert.Empty(t, l.Assigned())

	l.SetSlot(0, Slot{DeviceID: "a", Interface: "ether1"})
	l.SetSlot(5, Slot{DeviceID: "b", Interface: "ether1"})
	assert.Len(t, l.Assigned(), 2)
}
