package payloads

import (
	"strings"
	"testing"

	"github.com/icsmw/brec/internal/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressedPayload_RoundTrip_AllAlgorithms(t *testing.T) {
	plain := strings.Repeat("the quick brown fox jumps over the lazy dog ", 50)
	inner := RawPayload{Bytes: []byte(plain)}

	for _, typ := range []compression.Type{
		compression.NoCompression,
		compression.SnappyCompression,
		compression.LZ4Compression,
		compression.ZstdCompression,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			wrapped := CompressedPayload{Inner: inner, Type: typ}
			body := wrapped.Encode()
			require.Equal(t, uint64(len(body)), wrapped.Size())

			dec := &CompressedDecoder{Inner: &RawPayload{}}
			err := dec.Decode(body)
			require.NoError(t, err)
			assert.Equal(t, inner.Bytes, dec.Inner.(*RawPayload).Bytes)
		})
	}
}

func TestCompressedPayload_ShrinksCompressibleInput(t *testing.T) {
	plain := strings.Repeat("a", 4096)
	inner := RawPayload{Bytes: []byte(plain)}
	wrapped := CompressedPayload{Inner: inner, Type: compression.ZstdCompression}
	body := wrapped.Encode()
	assert.Less(t, len(body), len(plain))
}

func TestCompressedDecoder_RejectsShortBody(t *testing.T) {
	dec := &CompressedDecoder{Inner: &RawPayload{}}
	err := dec.Decode([]byte{0x01, 0x02})
	assert.Error(t, err)
}
