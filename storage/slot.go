// Package storage implements brec's append-only slotted storage file
// format: fixed-capacity slot tables indexing variable-length packets,
// plus a writer and random-access, rule-filterable reader.
//
// Reference: spec §4.6 "Slotted Storage (C7)"; original_source/brec
// storage/slot/**.
package storage

import (
	"encoding/binary"

	"github.com/icsmw/brec"
	"github.com/icsmw/brec/internal/checksum"
)

// SlotSig is the constant 8-byte signature every slot header begins with.
var SlotSig = [8]byte{0xA6, 0xB1, 0xBC, 0xC7, 0xC7, 0xBC, 0xB1, 0xA6}

// DefaultSlotCapacity is the number of packet-length entries a new slot
// carries when the writer is not configured with an explicit capacity.
const DefaultSlotCapacity = 100

// slotFixedOverhead is the byte count of a slot header's fixed fields:
// SLOT_SIG(8) + capacity(8) + crc(4), excluding the variable-length
// entries table.
const slotFixedOverhead = 8 + 8 + 4

// SlotHeader is a fixed-capacity table of packet lengths, used to index
// the variable-length packets physically following it in the storage
// file.
//
// On-wire layout: SLOT_SIG(8B) | capacity(8B LE) |
// entry_i(8B LE) x capacity | crc(4B LE, over capacity + all entries).
//
// Reference: spec §3 "Storage slot"; §6 "Slot on-wire layout".
type SlotHeader struct {
	Lengths []uint64
}

// NewSlotHeader returns an empty slot header with capacity free entries.
func NewSlotHeader(capacity uint64) SlotHeader {
	return SlotHeader{Lengths: make([]uint64, capacity)}
}

// Capacity returns the slot's fixed entry count.
func (h SlotHeader) Capacity() uint64 {
	return uint64(len(h.Lengths))
}

// SSize returns the slot header's on-wire byte size.
func (h SlotHeader) SSize() uint64 {
	return uint64(slotFixedOverhead) + h.Capacity()*8
}

// Width returns the sum of all nonzero entries: the byte count of packets
// physically following this slot header, up to the next slot or EOF.
func (h SlotHeader) Width() uint64 {
	var w uint64
	for _, l := range h.Lengths {
		w += l
	}
	return w
}

// IsFull reports whether the slot's last entry is non-zero, meaning no
// free entries remain (free entries are always contiguous at the tail).
func (h SlotHeader) IsFull() bool {
	if len(h.Lengths) == 0 {
		return true
	}
	return h.Lengths[len(h.Lengths)-1] != 0
}

// FirstFreeIndex returns the index of the first zero entry, or -1 if the
// slot is full.
func (h SlotHeader) FirstFreeIndex() int {
	for i, l := range h.Lengths {
		if l == 0 {
			return i
		}
	}
	return -1
}

// OffsetOfEntry returns the byte offset, relative to the first packet
// byte following this slot header, at which entry i's packet begins —
// the sum of all preceding entries' lengths.
func (h SlotHeader) OffsetOfEntry(i int) uint64 {
	var off uint64
	for _, l := range h.Lengths[:i] {
		off += l
	}
	return off
}

// Encode serializes the slot header to a freshly allocated SSize() buffer.
func (h SlotHeader) Encode() []byte {
	buf := make([]byte, h.SSize())
	copy(buf[0:8], SlotSig[:])
	binary.LittleEndian.PutUint64(buf[8:16], h.Capacity())
	off := 16
	for _, l := range h.Lengths {
		binary.LittleEndian.PutUint64(buf[off:off+8], l)
		off += 8
	}
	crcSpan := buf[8:off]
	crc := checksum.Value(crcSpan)
	binary.LittleEndian.PutUint32(buf[off:off+4], crc)
	return buf
}

// DecodeSlotHeaderFixed decodes the SLOT_SIG and capacity fields from a
// 16-byte buffer, returning the capacity the caller must then read
// capacity*8+4 more bytes for. It fails with brec.ErrSignatureMismatch if the
// signature does not match.
func DecodeSlotHeaderFixed(buf [16]byte) (capacity uint64, err error) {
	var sig [8]byte
	copy(sig[:], buf[:8])
	if sig != SlotSig {
		return 0, brec.ErrSignatureMismatch
	}
	return binary.LittleEndian.Uint64(buf[8:16]), nil
}

// DecodeSlotHeaderRest decodes the entries table and CRC from rest (which
// must be exactly capacity*8+4 bytes), given the capacity already read by
// DecodeSlotHeaderFixed. It fails with brec.ErrCrcMismatch if the trailing CRC
// does not validate.
func DecodeSlotHeaderRest(capacity uint64, fixedCapBuf [8]byte, rest []byte) (SlotHeader, error) {
	wantLen := int(capacity)*8 + 4
	if len(rest) != wantLen {
		return SlotHeader{}, brec.ErrUnexpectedSliceLength
	}
	entries := make([]uint64, capacity)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint64(rest[i*8 : i*8+8])
	}
	crcGot := binary.LittleEndian.Uint32(rest[int(capacity)*8 : wantLen])
	crcSpan := make([]byte, 0, 8+len(rest)-4)
	crcSpan = append(crcSpan, fixedCapBuf[:]...)
	crcSpan = append(crcSpan, rest[:int(capacity)*8]...)
	crcWant := checksum.Value(crcSpan)
	if crcGot != crcWant {
		return SlotHeader{}, brec.ErrCrcMismatch
	}
	return SlotHeader{Lengths: entries}, nil
}
