package brec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayloadHeader_AndEncode(t *testing.T) {
	p := testPayload{data: []byte("abc")}
	h, body, err := NewPayloadHeader(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), body)
	assert.Equal(t, uint32(3), h.PayloadLen)

	buf := h.Encode()
	assert.Equal(t, h.EncodedLen(), len(buf))
}

func TestWritePayload_ThenReadPayloadHeaderSeekable(t *testing.T) {
	p := testPayload{data: []byte("round trip body")}
	var buf bytes.Buffer
	_, err := WritePayload(&buf, p)
	require.NoError(t, err)

	r := bytes.NewReader(buf.Bytes())
	h, err := ReadPayloadHeaderSeekable(r)
	require.NoError(t, err)
	assert.True(t, h.Sig.Equal(testPayloadSig))
	assert.Equal(t, uint32(len(p.data)), h.PayloadLen)

	body := make([]byte, h.PayloadLen)
	_, err = r.Read(body)
	require.NoError(t, err)
	assert.Equal(t, p.data, body)
}

func TestReadPayloadHeaderSeekable_RewindsOnShortRead(t *testing.T) {
	p := testPayload{data: []byte("x")}
	h, _, err := NewPayloadHeader(p)
	require.NoError(t, err)
	full := h.Encode()

	r := bytes.NewReader(full[:len(full)-1])
	start, err := r.Seek(0, 1)
	require.NoError(t, err)

	_, err = ReadPayloadHeaderSeekable(r)
	require.Error(t, err)

	pos, err := r.Seek(0, 1)
	require.NoError(t, err)
	assert.Equal(t, start, pos)
}

func TestTryReadPayloadHeader_NotEnoughData(t *testing.T) {
	p := testPayload{data: []byte("some data")}
	h, _, err := NewPayloadHeader(p)
	require.NoError(t, err)
	full := h.Encode()

	_, _, err = TryReadPayloadHeader(full[:len(full)-1])
	var nd *NotEnoughDataError
	require.ErrorAs(t, err, &nd)
}

func TestTryReadPayloadHeader_ExactConsumedLength(t *testing.T) {
	p := testPayload{data: []byte("payload")}
	h, body, err := NewPayloadHeader(p)
	require.NoError(t, err)
	encoded := h.Encode()

	got, consumed, err := TryReadPayloadHeader(append(encoded, body...))
	require.NoError(t, err)
	assert.Equal(t, len(encoded), consumed)
	assert.Equal(t, h.PayloadLen, got.PayloadLen)
}

func TestReadPayloadBody_ValidatesSigAndCrc(t *testing.T) {
	p := testPayload{data: []byte("validated")}
	h, body, err := NewPayloadHeader(p)
	require.NoError(t, err)

	err = ReadPayloadBody(h, body, testPayloadSig, nil)
	require.NoError(t, err)

	wrongSig := NewByteBlock4([4]byte{9, 9, 9, 9})
	err = ReadPayloadBody(h, body, wrongSig, nil)
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	tampered := append([]byte(nil), body...)
	tampered[0] ^= 0xff
	err = ReadPayloadBody(h, tampered, testPayloadSig, nil)
	assert.ErrorIs(t, err, ErrCrcMismatch)
}
