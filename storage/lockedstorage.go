package storage

import (
	"io"
	"time"

	"github.com/icsmw/brec"
	"github.com/icsmw/brec/internal/vfs"
)

// LockedWriter wraps a Writer so that each Insert is additionally guarded
// by a process-exclusive advisory lock on lockPath, guaranteeing a slotted
// storage file has at most one active writer process at a time. An
// optional flush-debounce duration lets a high-frequency caller skip the
// Writer's per-step Sync on every single insert.
//
// Reference: spec §4.6 "Optional locked variant"; SPEC_FULL.md's
// storage/lockedstorage.go entry.
type LockedWriter struct {
	inner       *Writer
	lockPath    string
	debounce    time.Duration
	lastFlushed time.Time
}

// LockedWriterOption configures a LockedWriter at construction time.
type LockedWriterOption func(*LockedWriter)

// WithFlushDebounce sets a minimum interval between Syncs triggered by
// Insert; a zero duration (the default) flushes on every Insert, matching
// Writer's unwrapped behavior.
func WithFlushDebounce(d time.Duration) LockedWriterOption {
	return func(lw *LockedWriter) { lw.debounce = d }
}

// NewLockedWriter opens rw as a slotted storage file (as NewWriter does)
// and arranges for every Insert to be guarded by an exclusive advisory
// lock on lockPath.
func NewLockedWriter(rw ReadWriteSeeker, lockPath string, opts ...LockedWriterOption) (*LockedWriter, error) {
	w, err := NewWriter(rw)
	if err != nil {
		return nil, err
	}
	lw := &LockedWriter{inner: w, lockPath: lockPath}
	for _, opt := range opts {
		opt(lw)
	}
	return lw, nil
}

// Insert acquires the exclusive lock, performs Writer.Insert, and releases
// the lock on every exit path, including when Writer.Insert fails.
func (lw *LockedWriter) Insert(packetBytes []byte) error {
	lock, err := vfs.LockFile(lw.lockPath)
	if err != nil {
		return err
	}
	defer lock.Close()

	if lw.debounce > 0 {
		return lw.insertDebounced(packetBytes)
	}
	return lw.inner.Insert(packetBytes)
}

// insertDebounced performs the same steps as Writer.Insert but skips the
// Sync calls when the last flush happened more recently than lw.debounce,
// trading a larger crash-recovery window for fewer fsyncs under bursty
// insert load.
func (lw *LockedWriter) insertDebounced(packetBytes []byte) error {
	w := lw.inner
	if w.locator.Index == len(w.slots) {
		w.slots = append(w.slots, slotMeta{
			header: NewSlotHeader(w.defaultCapacity),
			offset: w.locator.Offset,
		})
	}
	slot := &w.slots[w.locator.Index]
	freeIdx := slot.header.FirstFreeIndex()
	if freeIdx < 0 {
		return brec.ErrCannotInsertIntoSlot
	}
	packetOffsetInSlot := slot.header.OffsetOfEntry(freeIdx)
	slot.header.Lengths[freeIdx] = uint64(len(packetBytes))

	if _, err := w.rw.Seek(int64(slot.offset), io.SeekStart); err != nil {
		return err
	}
	if _, err := w.rw.Write(slot.header.Encode()); err != nil {
		return err
	}

	packetsStart := slot.offset + slot.header.SSize()
	if _, err := w.rw.Seek(int64(packetsStart+packetOffsetInSlot), io.SeekStart); err != nil {
		return err
	}
	if _, err := w.rw.Write(packetBytes); err != nil {
		return err
	}

	if time.Since(lw.lastFlushed) >= lw.debounce {
		if err := w.flush(); err != nil {
			return err
		}
		lw.lastFlushed = time.Now()
	}

	w.locator = advanceFreeSlotLocator(w.locator, w.slots)
	return nil
}

// SlotCount returns the number of slots currently on disk.
func (lw *LockedWriter) SlotCount() int {
	return lw.inner.SlotCount()
}
