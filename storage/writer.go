package storage

import (
	"errors"
	"io"

	"github.com/icsmw/brec"
	"github.com/icsmw/brec/internal/logging"
)

// ReadWriteSeeker is the minimal capability a storage file must offer.
type ReadWriteSeeker = io.ReadWriteSeeker

// flusher is implemented by sources that can be asked to commit writes to
// stable storage (e.g. *os.File.Sync). Sources that don't implement it are
// treated as flushing synchronously on every Write.
type flusher interface {
	Sync() error
}

// Writer appends packets to a slotted storage file, maintaining the slot
// length tables that let a Reader later iterate them by index.
//
// Reference: spec §4.6 "Writer".
type Writer struct {
	rw              ReadWriteSeeker
	slots           []slotMeta
	locator         FreeSlotLocator
	defaultCapacity uint64
	logger          logging.Logger
}

// WriterOption configures a Writer at construction time.
type WriterOption func(*Writer)

// WithDefaultCapacity overrides DefaultSlotCapacity for slots this writer
// creates.
func WithDefaultCapacity(n uint64) WriterOption {
	return func(w *Writer) { w.defaultCapacity = n }
}

// WithWriterLogger attaches a logger for DamagedSlot and insert diagnostics.
func WithWriterLogger(l logging.Logger) WriterOption {
	return func(w *Writer) { w.logger = logging.OrDefault(l) }
}

// NewWriter opens rw as a slotted storage file, loading its existing slot
// table. rw's current contents (if any) must already be a well-formed
// sequence of slots; a fresh, empty rw is also valid (zero slots).
func NewWriter(rw ReadWriteSeeker, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		rw:              rw,
		defaultCapacity: DefaultSlotCapacity,
		logger:          logging.Discard,
	}
	for _, opt := range opts {
		opt(w)
	}
	slots, err := loadSlots(rw, w.logger)
	if err != nil {
		return nil, err
	}
	w.slots = slots
	w.locator = setupFreeSlotLocator(slots)
	return w, nil
}

// SlotCount returns the number of slots currently on disk (not counting
// one the locator may be about to append in memory).
func (w *Writer) SlotCount() int {
	return len(w.slots)
}

// loadSlots scans rw from byte 0, accumulating slot metadata until a short
// read ends the scan cleanly, or a signature/CRC failure reports
// *brec.DamagedSlotError.
func loadSlots(rw ReadWriteSeeker, logger logging.Logger) ([]slotMeta, error) {
	if _, err := rw.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	var slots []slotMeta
	var offset uint64
	for {
		var fixed [16]byte
		n, err := io.ReadFull(rw, fixed[:])
		if err != nil {
			if n == 0 && errors.Is(err, io.EOF) {
				return slots, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return slots, nil
			}
			return nil, err
		}
		capacity, err := DecodeSlotHeaderFixed(fixed)
		if err != nil {
			logger.Errorf("%sdamaged slot %d: %v", logging.NSStorage, len(slots), err)
			return nil, &brec.DamagedSlotError{Slot: len(slots), Err: err}
		}
		rest := make([]byte, capacity*8+4)
		if _, err = io.ReadFull(rw, rest); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return slots, nil
			}
			return nil, err
		}
		var capBuf [8]byte
		copy(capBuf[:], fixed[8:16])
		header, err := DecodeSlotHeaderRest(capacity, capBuf, rest)
		if err != nil {
			logger.Errorf("%sdamaged slot %d: %v", logging.NSStorage, len(slots), err)
			return nil, &brec.DamagedSlotError{Slot: len(slots), Err: err}
		}
		slots = append(slots, slotMeta{header: header, offset: offset})
		offset += header.SSize() + header.Width()
		if _, err := rw.Seek(int64(offset), io.SeekStart); err != nil {
			return nil, err
		}
	}
}

// Insert encodes and appends one packet's bytes to the storage file,
// updating (and, if necessary, creating) a slot's length table to record
// it.
//
// Reference: spec §4.6 "insert(packet)" steps 1-6.
func (w *Writer) Insert(packetBytes []byte) error {
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
	headerBuf := slot.header.Encode()
	if _, err := w.rw.Write(headerBuf); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}

	packetsStart := slot.offset + slot.header.SSize()
	if _, err := w.rw.Seek(int64(packetsStart+packetOffsetInSlot), io.SeekStart); err != nil {
		return err
	}
	if _, err := w.rw.Write(packetBytes); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}

	w.locator = advanceFreeSlotLocator(w.locator, w.slots)
	return nil
}

func (w *Writer) flush() error {
	if f, ok := w.rw.(flusher); ok {
		return f.Sync()
	}
	return nil
}
