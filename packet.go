package brec

import (
	"encoding/binary"
	"io"
	"net"

	"github.com/icsmw/brec/internal/checksum"
)

// PacketSig is the constant 8-byte signature every packet header begins
// with.
//
// Reference: spec §6 "Constants (bit-exact)".
var PacketSig = [8]byte{0xEC, 0x25, 0x5E, 0x88, 0xEC, 0x25, 0x5E, 0x88}

// PacketHeaderSize is the fixed on-wire size of a PacketHeader: 8 (sig) +
// 8 (size) + 8 (blocks_len) + 1 (has_payload) + 4 (crc).
const PacketHeaderSize = 8 + 8 + 8 + 1 + 4

// packetHeaderCrcSpan is the number of leading header bytes the header CRC
// covers (everything except the CRC field itself).
const packetHeaderCrcSpan = PacketHeaderSize - 4

// PacketHeader is the fixed-layout header preceding every packet's blocks
// and optional payload.
//
// On-wire layout: PACKET_SIG(8B) | size(8B LE) | blocks_len(8B LE) |
// has_payload(1B) | header_crc(4B LE, CRC-32 of the preceding 25 bytes).
//
// Reference: spec §3 "PacketHeader"; §6 "Packet on-wire layout".
type PacketHeader struct {
	Size       uint64
	BlocksLen  uint64
	HasPayload bool
}

// Encode serializes h to a freshly allocated PacketHeaderSize buffer,
// computing the trailing CRC over the first 25 bytes.
func (h PacketHeader) Encode() []byte {
	buf := make([]byte, PacketHeaderSize)
	copy(buf[0:8], PacketSig[:])
	binary.LittleEndian.PutUint64(buf[8:16], h.Size)
	binary.LittleEndian.PutUint64(buf[16:24], h.BlocksLen)
	if h.HasPayload {
		buf[24] = 1
	}
	crc := checksum.Value(buf[:packetHeaderCrcSpan])
	binary.LittleEndian.PutUint32(buf[25:29], crc)
	return buf
}

// DecodePacketHeader decodes a PacketHeader from buf, which must be exactly
// PacketHeaderSize bytes and already confirmed to start with PacketSig by
// the caller (StreamReader's scan loop does this before calling in). It
// fails with ErrCrcMismatch if the header CRC does not validate.
func DecodePacketHeader(buf []byte) (PacketHeader, error) {
	if len(buf) != PacketHeaderSize {
		return PacketHeader{}, ErrUnexpectedSliceLength
	}
	want := binary.LittleEndian.Uint32(buf[25:29])
	got := checksum.Value(buf[:packetHeaderCrcSpan])
	if want != got {
		return PacketHeader{}, ErrCrcMismatch
	}
	return PacketHeader{
		Size:       binary.LittleEndian.Uint64(buf[8:16]),
		BlocksLen:  binary.LittleEndian.Uint64(buf[16:24]),
		HasPayload: buf[24] != 0,
	}, nil
}

// Packet is a packet header followed by an ordered list of blocks and an
// optional payload, ready to be written to any byte sink.
//
// Reference: spec §3 "Packet"; §4.4 "Packet Framing (C5)".
type Packet struct {
	Blocks  []Block
	Payload Payload // nil if the packet carries no payload
}

// MaxBlocksPerPacket is the implementation-defined ceiling on the number of
// blocks one packet may carry (spec §7's "Storage" error kind
// MaxBlocksCount). assemble rejects a Packet whose Blocks list is longer
// than this before encoding any block; a legitimate schema carries at most
// a handful of blocks per packet. StreamReader does not apply this limit
// when parsing.
const MaxBlocksPerPacket = 4096

// Validate reports ErrZeroLengthBlock if p carries neither blocks nor a
// payload. Encode and WriteTo never call this themselves — spec §9's Open
// Question leaves an empty packet (zero blocks, no payload) permitted by
// default (see DESIGN.md); a caller that wants the stricter behavior the
// spec describes as an alternative calls Validate itself before writing.
func (p Packet) Validate() error {
	if len(p.Blocks) == 0 && p.Payload == nil {
		return ErrZeroLengthBlock
	}
	return nil
}

// Assemble computes the packet header and the raw wire bytes for each
// component, but does not concatenate or write them — use Encode to get a
// single buffer, or WriteVectoredTo to write without copying.
func (p Packet) assemble() (header PacketHeader, blockBufs [][]byte, payloadHeader []byte, payloadBody []byte, err error) {
	if len(p.Blocks) > MaxBlocksPerPacket {
		return PacketHeader{}, nil, nil, nil, ErrMaxBlocksCount
	}
	var blocksLen uint64
	blockBufs = make([][]byte, len(p.Blocks))
	for i, b := range p.Blocks {
		buf := EncodeBlock(b)
		blockBufs[i] = buf
		blocksLen += uint64(len(buf))
	}

	total := uint64(PacketHeaderSize) + blocksLen
	if p.Payload != nil {
		var ph PayloadHeader
		ph, payloadBody, err = NewPayloadHeader(p.Payload)
		if err != nil {
			return PacketHeader{}, nil, nil, nil, err
		}
		payloadHeader = ph.Encode()
		total += uint64(len(payloadHeader)) + uint64(len(payloadBody))
	}

	header = PacketHeader{
		Size:       total,
		BlocksLen:  blocksLen,
		HasPayload: p.Payload != nil,
	}
	return header, blockBufs, payloadHeader, payloadBody, nil
}

// Encode serializes the whole packet (header, blocks, optional payload) to
// one freshly allocated buffer.
func (p Packet) Encode() ([]byte, error) {
	header, blockBufs, payloadHeader, payloadBody, err := p.assemble()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, header.Size)
	out = append(out, header.Encode()...)
	for _, b := range blockBufs {
		out = append(out, b...)
	}
	if payloadHeader != nil {
		out = append(out, payloadHeader...)
		out = append(out, payloadBody...)
	}
	return out, nil
}

// WriteTo writes the packet to w as a single concatenated buffer,
// satisfying io.WriterTo.
func (p Packet) WriteTo(w io.Writer) (int64, error) {
	buf, err := p.Encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// WriteVectoredTo writes the packet as a scatter-gather list of its
// component buffers (header, each block, payload header, payload body) via
// net.Buffers, which writes through a single writev syscall where the
// destination supports it, avoiding the single-buffer copy Encode/WriteTo
// performs.
//
// Reference: original_source/brec traits/write/slices.rs and
// packet/write.rs build an explicit scatter-gather list for the same
// reason; see DESIGN.md for why this is the one place this library reaches
// for the standard library instead of a pack dependency.
func (p Packet) WriteVectoredTo(w io.Writer) (int64, error) {
	header, blockBufs, payloadHeader, payloadBody, err := p.assemble()
	if err != nil {
		return 0, err
	}
	bufs := make(net.Buffers, 0, 2+len(blockBufs)+2)
	bufs = append(bufs, header.Encode())
	bufs = append(bufs, blockBufs...)
	if payloadHeader != nil {
		bufs = append(bufs, payloadHeader, payloadBody)
	}
	return bufs.WriteTo(w)
}
