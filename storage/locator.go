package storage

// slotMeta pairs a loaded SlotHeader with its on-disk byte offset.
type slotMeta struct {
	header SlotHeader
	offset uint64
}

// FreeSlotLocator tracks where the next Insert should land: either a free
// entry in an existing slot, or a brand new slot appended at the end of
// the file.
//
// Reference: spec §4.6 "After load, a FreeSlotLocator scans slot metadata
// to set (current_slot_index, byte_offset_of_current_slot)"; supplemented
// by original_source/brec storage/locator.rs's fast-forward-on-setup
// behavior (see DESIGN.md).
type FreeSlotLocator struct {
	// Index is the slot index Insert should target. It equals len(slots)
	// when every existing slot is full and a new one must be appended.
	Index int
	// Offset is the byte offset of the slot at Index — its on-disk offset
	// if Index < len(slots), or the end-of-file offset if a new slot is
	// needed.
	Offset uint64
}

// setup scans slots once, fast-forwarding past every already-full slot,
// and returns the locator positioned at the first slot with a free entry
// (or one-past-the-end if none has one).
func setupFreeSlotLocator(slots []slotMeta) FreeSlotLocator {
	var endOffset uint64
	for _, s := range slots {
		endOffset = s.offset + s.header.SSize() + s.header.Width()
	}
	for i, s := range slots {
		if !s.header.IsFull() {
			return FreeSlotLocator{Index: i, Offset: s.offset}
		}
	}
	return FreeSlotLocator{Index: len(slots), Offset: endOffset}
}

// advance recomputes the locator after an insert into the slot at
// locator.Index grew that slot's Width() by insertedLen and possibly
// filled it. If the targeted slot is now full, the locator moves on to
// the next slot (scanning forward) or to one-past-the-end if none remain
// with a free entry.
func advanceFreeSlotLocator(loc FreeSlotLocator, slots []slotMeta) FreeSlotLocator {
	if loc.Index >= len(slots) {
		return loc
	}
	if !slots[loc.Index].header.IsFull() {
		return loc
	}
	for i := loc.Index + 1; i < len(slots); i++ {
		if !slots[i].header.IsFull() {
			return FreeSlotLocator{Index: i, Offset: slots[i].offset}
		}
	}
	last := slots[len(slots)-1]
	return FreeSlotLocator{Index: len(slots), Offset: last.offset + last.header.SSize() + last.header.Width()}
}
