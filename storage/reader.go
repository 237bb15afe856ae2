package storage

import (
	"fmt"
	"io"

	"github.com/icsmw/brec"
	"github.com/icsmw/brec/internal/logging"
)

// Reader provides random-access, in-order iteration over packets
// previously written by a Writer to the same slotted storage file.
//
// Reference: spec §4.6 "Reader".
type Reader struct {
	rw       io.ReadSeeker
	slots    []slotMeta
	registry *brec.BlockRegistry
}

// NewReader opens rw for iteration, loading its slot table. It returns
// *brec.DamagedSlotError if a slot fails to validate.
func NewReader(rw io.ReadSeeker, registry *brec.BlockRegistry) (*Reader, error) {
	slots, err := loadSlotsFromReader(rw)
	if err != nil {
		return nil, err
	}
	return &Reader{rw: rw, slots: slots, registry: registry}, nil
}

// loadSlotsFromReader is loadSlots adapted to an io.ReadSeeker (Writer's
// load needs ReadWriteSeeker; iteration-only callers need less).
func loadSlotsFromReader(rw io.ReadSeeker) ([]slotMeta, error) {
	rws, ok := rw.(ReadWriteSeeker)
	if ok {
		return loadSlots(rws, logging.Discard)
	}
	return loadSlots(readOnlySeeker{rw}, logging.Discard)
}

// readOnlySeeker adapts an io.ReadSeeker to ReadWriteSeeker for loadSlots,
// which never writes during a load scan; Write is never called on this
// adapter.
type readOnlySeeker struct {
	io.ReadSeeker
}

func (readOnlySeeker) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

// SlotCount returns the number of slots this storage file holds.
func (r *Reader) SlotCount() int {
	return len(r.slots)
}

// Count returns the total number of packets recorded across all slots.
func (r *Reader) Count() int {
	n := 0
	for _, s := range r.slots {
		for _, l := range s.header.Lengths {
			if l != 0 {
				n++
			}
		}
	}
	return n
}

// Visitor is called once per packet during iteration. Returning false stops
// iteration early.
type Visitor func(index int, packet *brec.RawPacket) bool

// Iterate visits every packet in slot order, decoding each through a fresh
// brec.StreamReader bounded to that packet's byte range.
func (r *Reader) Iterate(visit Visitor) error {
	return r.IterateFiltered(nil, visit)
}

// IterateFiltered is like Iterate but applies rules (shared with the
// streaming brec.StreamReader) to each packet; packets a rule rejects are
// not passed to visit.
//
// Reference: SPEC_FULL.md "Storage-level filtered iteration".
func (r *Reader) IterateFiltered(rules *brec.RuleSet, visit Visitor) error {
	index := 0
	for _, s := range r.slots {
		packetsStart := s.offset + s.header.SSize()
		var off uint64
		for _, length := range s.header.Lengths {
			if length == 0 {
				break
			}
			if _, err := r.rw.Seek(int64(packetsStart+off), io.SeekStart); err != nil {
				return err
			}
			buf := make([]byte, length)
			if _, err := io.ReadFull(r.rw, buf); err != nil {
				return err
			}
			opts := []brec.ReaderOption{}
			if rules != nil {
				opts = append(opts, brec.WithRules(rules))
			}
			sr := brec.NewReader(r.registry, opts...)
			sr.Feed(buf)
			outcome := sr.Read()
			switch outcome.Kind {
			case brec.Found:
				if !visit(index, outcome.Packet) {
					return nil
				}
			case brec.Skipped:
				// rule rejected; continue iteration
			default:
				return fmt.Errorf("storage: packet at slot offset %d did not decode as a complete packet: %w", packetsStart+off, brec.ErrCrcMismatch)
			}
			index++
			off += length
		}
	}
	return nil
}
