// Package encoding provides little-endian fixed-width encode/decode
// primitives matching brec's wire formats (block fields, packet and slot
// headers, payload headers). No package in this module imports it; the
// codecs call encoding/binary directly.
//
// brec's on-wire integers are all fixed-width, little-endian; there is no
// varint encoding anywhere in the format, so this package only carries
// fixed-width encode/decode helpers.
package encoding

import "encoding/binary"

// EncodeFixed16 encodes a uint16 into a 2-byte little-endian buffer.
// REQUIRES: dst has at least 2 bytes.
func EncodeFixed16(dst []byte, value uint16) {
	binary.LittleEndian.PutUint16(dst, value)
}

// DecodeFixed16 decodes a uint16 from a 2-byte little-endian buffer.
// REQUIRES: src has at least 2 bytes.
func DecodeFixed16(src []byte) uint16 {
	return binary.LittleEndian.Uint16(src)
}

// EncodeFixed32 encodes a uint32 into a 4-byte little-endian buffer.
// REQUIRES: dst has at least 4 bytes.
func EncodeFixed32(dst []byte, value uint32) {
	binary.LittleEndian.PutUint32(dst, value)
}

// DecodeFixed32 decodes a uint32 from a 4-byte little-endian buffer.
// REQUIRES: src has at least 4 bytes.
func DecodeFixed32(src []byte) uint32 {
	return binary.LittleEndian.Uint32(src)
}

// EncodeFixed64 encodes a uint64 into an 8-byte little-endian buffer.
// REQUIRES: dst has at least 8 bytes.
func EncodeFixed64(dst []byte, value uint64) {
	binary.LittleEndian.PutUint64(dst, value)
}

// DecodeFixed64 decodes a uint64 from an 8-byte little-endian buffer.
// REQUIRES: src has at least 8 bytes.
func DecodeFixed64(src []byte) uint64 {
	return binary.LittleEndian.Uint64(src)
}

// AppendFixed32 appends a little-endian uint32 to dst and returns the extended slice.
func AppendFixed32(dst []byte, value uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, value)
}

// AppendFixed64 appends a little-endian uint64 to dst and returns the extended slice.
func AppendFixed64(dst []byte, value uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, value)
}

// Slice is a cursor over a byte slice for reading a sequence of fixed-width
// fields without tracking an offset by hand. The block, packet and slot
// decoders in this module do not use it; they call encoding/binary directly.
//
// Reference: aalhour/rockyardkv internal/encoding.Slice (RocksDB-style Slice)
type Slice struct {
	data []byte
	pos  int
}

// NewSlice creates a new Slice positioned at the start of data.
func NewSlice(data []byte) *Slice {
	return &Slice{data: data}
}

// Remaining returns the number of unread bytes.
func (s *Slice) Remaining() int {
	return len(s.data) - s.pos
}

// Pos returns the current cursor offset.
func (s *Slice) Pos() int {
	return s.pos
}

// GetFixed32 reads a fixed 32-bit little-endian value.
func (s *Slice) GetFixed32() (uint32, bool) {
	if s.Remaining() < 4 {
		return 0, false
	}
	v := DecodeFixed32(s.data[s.pos:])
	s.pos += 4
	return v, true
}

// GetFixed64 reads a fixed 64-bit little-endian value.
func (s *Slice) GetFixed64() (uint64, bool) {
	if s.Remaining() < 8 {
		return 0, false
	}
	v := DecodeFixed64(s.data[s.pos:])
	s.pos += 8
	return v, true
}

// GetBytes reads exactly n bytes and advances the cursor.
func (s *Slice) GetBytes(n int) ([]byte, bool) {
	if s.Remaining() < n {
		return nil, false
	}
	v := s.data[s.pos : s.pos+n]
	s.pos += n
	return v, true
}
