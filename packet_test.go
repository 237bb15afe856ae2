package brec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketHeader_EncodeDecodeRoundTrip(t *testing.T) {
	h := PacketHeader{Size: 123, BlocksLen: 45, HasPayload: true}
	buf := h.Encode()
	assert.Equal(t, PacketHeaderSize, len(buf))
	assert.Equal(t, PacketSig[:], buf[0:8])

	got, err := DecodePacketHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodePacketHeader_CrcMismatch(t *testing.T) {
	h := PacketHeader{Size: 10, BlocksLen: 0}
	buf := h.Encode()
	buf[10] ^= 0xff

	_, err := DecodePacketHeader(buf)
	assert.ErrorIs(t, err, ErrCrcMismatch)
}

func TestDecodePacketHeader_WrongLength(t *testing.T) {
	_, err := DecodePacketHeader(make([]byte, PacketHeaderSize-1))
	assert.ErrorIs(t, err, ErrUnexpectedSliceLength)
}

func TestPacket_Encode_NoPayload(t *testing.T) {
	p := Packet{Blocks: []Block{pointBlock{X: 1, Y: 2}, pointBlock{X: 3, Y: 4}}}
	buf, err := p.Encode()
	require.NoError(t, err)

	header, err := DecodePacketHeader(buf[:PacketHeaderSize])
	require.NoError(t, err)
	assert.False(t, header.HasPayload)
	assert.Equal(t, uint64(len(buf))-uint64(PacketHeaderSize), header.BlocksLen)
	assert.Equal(t, uint64(len(buf)), header.Size)
}

func TestPacket_Encode_WithPayload(t *testing.T) {
	p := Packet{
		Blocks:  []Block{pointBlock{X: 1, Y: 2}},
		Payload: testPayload{data: []byte("payload body")},
	}
	buf, err := p.Encode()
	require.NoError(t, err)

	header, err := DecodePacketHeader(buf[:PacketHeaderSize])
	require.NoError(t, err)
	assert.True(t, header.HasPayload)
	assert.Equal(t, uint64(len(buf)), header.Size)
}

func TestPacket_WriteTo_MatchesEncode(t *testing.T) {
	p := Packet{Blocks: []Block{pointBlock{X: 9, Y: 9}}}
	encoded, err := p.Encode()
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(encoded)), n)
	assert.Equal(t, encoded, buf.Bytes())
}

func TestPacket_WriteVectoredTo_MatchesEncode(t *testing.T) {
	p := Packet{
		Blocks:  []Block{pointBlock{X: 1, Y: 2}, pointBlock{X: 3, Y: 4}},
		Payload: testPayload{data: []byte("vectored")},
	}
	encoded, err := p.Encode()
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := p.WriteVectoredTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(encoded)), n)
	assert.Equal(t, encoded, buf.Bytes())
}

func TestPacket_EmptyPacketRoundTrip(t *testing.T) {
	p := Packet{}
	buf, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, PacketHeaderSize, len(buf))

	header, err := DecodePacketHeader(buf)
	require.NoError(t, err)
	assert.False(t, header.HasPayload)
	assert.Equal(t, uint64(0), header.BlocksLen)
	assert.Equal(t, uint64(PacketHeaderSize), header.Size)

	r := NewReader(newTestRegistry())
	r.Feed(buf)
	out := r.Read()
	require.Equal(t, Found, out.Kind)
	assert.Empty(t, out.Packet.Blocks)
	assert.Nil(t, out.Packet.PayloadHeader)
	assert.Equal(t, NoData, r.Read().Kind)
}

func TestPacket_Validate(t *testing.T) {
	assert.ErrorIs(t, Packet{}.Validate(), ErrZeroLengthBlock)
	assert.NoError(t, Packet{Blocks: []Block{pointBlock{X: 1, Y: 2}}}.Validate())
	assert.NoError(t, Packet{Payload: testPayload{data: []byte("x")}}.Validate())
}

func TestPacket_Encode_TooManyBlocksFails(t *testing.T) {
	blocks := make([]Block, MaxBlocksPerPacket+1)
	for i := range blocks {
		blocks[i] = pointBlock{X: uint32(i), Y: uint32(i)}
	}
	_, err := Packet{Blocks: blocks}.Encode()
	assert.ErrorIs(t, err, ErrMaxBlocksCount)
}

// testPayload is a minimal Payload used across packet/reader tests.
type testPayload struct {
	data []byte
}

var testPayloadSig = NewByteBlock4(BlockSignature("TestPayload", FieldSpec{Name: "data", Type: "[]u8"}))

func (testPayload) Sig() ByteBlock   { return testPayloadSig }
func (p testPayload) Size() uint64   { return uint64(len(p.data)) }
func (p testPayload) Encode() []byte { return p.data }
