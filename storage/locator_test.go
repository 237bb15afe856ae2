package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupFreeSlotLocator_EmptySlots(t *testing.T) {
	loc := setupFreeSlotLocator(nil)
	assert.Equal(t, 0, loc.Index)
	assert.Equal(t, uint64(0), loc.Offset)
}

func TestSetupFreeSlotLocator_FastForwardsPastFullSlots(t *testing.T) {
	full := NewSlotHeader(2)
	full.Lengths[0] = 10
	full.Lengths[1] = 10
	notFull := NewSlotHeader(2)
	notFull.Lengths[0] = 5

	slots := []slotMeta{
		{header: full, offset: 0},
		{header: notFull, offset: full.SSize() + full.Width()},
	}
	loc := setupFreeSlotLocator(slots)
	assert.Equal(t, 1, loc.Index)
	assert.Equal(t, slots[1].offset, loc.Offset)
}

func TestSetupFreeSlotLocator_AllFullAppendsNew(t *testing.T) {
	full := NewSlotHeader(1)
	full.Lengths[0] = 7
	slots := []slotMeta{{header: full, offset: 0}}

	loc := setupFreeSlotLocator(slots)
	assert.Equal(t, 1, loc.Index)
	assert.Equal(t, full.SSize()+full.Width(), loc.Offset)
}

func TestAdvanceFreeSlotLocator_StaysOnSameSlotWhileNotFull(t *testing.T) {
	notFull := NewSlotHeader(2)
	notFull.Lengths[0] = 5
	slots := []slotMeta{{header: notFull, offset: 0}}
	loc := FreeSlotLocator{Index: 0, Offset: 0}

	advanced := advanceFreeSlotLocator(loc, slots)
	assert.Equal(t, loc, advanced)
}

func TestAdvanceFreeSlotLocator_MovesToNextSlotWhenFull(t *testing.T) {
	full := NewSlotHeader(1)
	full.Lengths[0] = 5
	notFull := NewSlotHeader(1)
	slots := []slotMeta{
		{header: full, offset: 0},
		{header: notFull, offset: full.SSize() + full.Width()},
	}
	loc := FreeSlotLocator{Index: 0, Offset: 0}

	advanced := advanceFreeSlotLocator(loc, slots)
	assert.Equal(t, 1, advanced.Index)
	assert.Equal(t, slots[1].offset, advanced.Offset)
}

func TestAdvanceFreeSlotLocator_AppendsNewSlotWhenAllFull(t *testing.T) {
	full := NewSlotHeader(1)
	full.Lengths[0] = 5
	slots := []slotMeta{{header: full, offset: 0}}
	loc := FreeSlotLocator{Index: 0, Offset: 0}

	advanced := advanceFreeSlotLocator(loc, slots)
	assert.Equal(t, 1, advanced.Index)
	assert.Equal(t, full.SSize()+full.Width(), advanced.Offset)
}
