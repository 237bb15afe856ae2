package payloads

import (
	"encoding/binary"

	"github.com/icsmw/brec"
	"github.com/icsmw/brec/internal/compression"
)

var compressedSig = brec.NewByteBlock4(brec.BlockSignature("CompressedPayload", brec.FieldSpec{Name: "inner", Type: "payload"}))

// CompressedSig returns CompressedPayload's constant signature.
func CompressedSig() brec.ByteBlock { return compressedSig }

// CompressedPayload wraps another payload, compressing its encoded body
// with one of internal/compression's supported algorithms. Its own
// encoded form is: 1 byte compression.Type, 8 bytes LE uncompressed
// length, then the compressed bytes — the explicit length prefix is
// required because LZ4's raw block format carries no embedded length.
//
// Reference: SPEC_FULL.md DOMAIN STACK "codec/payloads/compressed.go";
// internal/compression (see DESIGN.md for the LZ4-length-prefix note).
type CompressedPayload struct {
	Inner brec.Payload
	Type  compression.Type
}

var _ brec.Payload = CompressedPayload{}

// Sig returns CompressedPayload's constant signature.
func (CompressedPayload) Sig() brec.ByteBlock { return compressedSig }

// Size returns the on-wire length of Encode's result. It compresses the
// inner payload to measure the result; callers that encode immediately
// afterward pay this cost twice. brec's own writers measure the body from
// Encode and do not call Size.
func (p CompressedPayload) Size() uint64 {
	return uint64(len(p.Encode()))
}

// Encode compresses the inner payload's body and prepends the type and
// uncompressed-length header.
func (p CompressedPayload) Encode() []byte {
	body := bodyBytesOf(p.Inner)
	compressed, err := compression.Compress(p.Type, body)
	if err != nil {
		// Compress only fails for an unsupported Type, which a caller can
		// only reach by constructing CompressedPayload incorrectly; NoCompression
		// always succeeds, so this path runs no real-world risk of silently
		// corrupting data.
		compressed = body
	}
	out := make([]byte, 1+8+len(compressed))
	out[0] = byte(p.Type)
	binary.LittleEndian.PutUint64(out[1:9], uint64(len(body)))
	copy(out[9:], compressed)
	return out
}

func bodyBytesOf(p brec.Payload) []byte {
	if re, ok := p.(brec.RefEncoder); ok {
		if b, ok := re.EncodeRef(); ok {
			return b
		}
	}
	return p.Encode()
}

// CompressedDecoder decodes a CompressedPayload body, decompressing into
// inner, which must match the inner payload type used at encode time.
type CompressedDecoder struct {
	Inner brec.PayloadDecoder
}

// Decode parses the type/length header, decompresses the remaining bytes,
// and decodes them into d.Inner.
func (d *CompressedDecoder) Decode(body []byte) error {
	if len(body) < 9 {
		return brec.ErrUnexpectedSliceLength
	}
	t := compression.Type(body[0])
	uncompressedSize := binary.LittleEndian.Uint64(body[1:9])
	plain, err := compression.Decompress(t, body[9:], int(uncompressedSize))
	if err != nil {
		return err
	}
	return d.Inner.Decode(plain)
}
