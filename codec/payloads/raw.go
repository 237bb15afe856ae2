// Package payloads provides brec's built-in payload shapes: raw bytes,
// UTF-8 strings, an XXH3-checksummed wrapper, and a compressed wrapper.
//
// Reference: spec §3 "Two built-in payload shapes are always available:
// raw byte sequence and UTF-8 string"; original_source/brec
// payload/defaults/vec_u8.rs.
package payloads

import (
	"unicode/utf8"

	"github.com/icsmw/brec"
)

// rawSig and stringSig are the built-in payload signatures, derived the
// same way a generated payload type's signature would be.
var (
	rawSig    = brec.NewByteBlock4(brec.BlockSignature("RawPayload", brec.FieldSpec{Name: "bytes", Type: "[]u8"}))
	stringSig = brec.NewByteBlock4(brec.BlockSignature("StringPayload", brec.FieldSpec{Name: "value", Type: "utf8"}))
)

// RawSig returns RawPayload's constant signature.
func RawSig() brec.ByteBlock { return rawSig }

// StringSig returns StringPayload's constant signature.
func StringSig() brec.ByteBlock { return stringSig }

// RawPayload is the built-in raw-byte-sequence payload: its encoded form
// is the value itself, so writers can emit it without copying.
type RawPayload struct {
	Bytes []byte
}

var (
	_ brec.Payload        = RawPayload{}
	_ brec.RefEncoder     = RawPayload{}
	_ brec.PayloadDecoder = (*RawPayload)(nil)
)

// Sig returns RawPayload's constant signature.
func (RawPayload) Sig() brec.ByteBlock { return rawSig }

// Size returns the number of bytes the payload occupies on the wire.
func (p RawPayload) Size() uint64 { return uint64(len(p.Bytes)) }

// Encode returns the payload's body bytes.
func (p RawPayload) Encode() []byte { return p.Bytes }

// EncodeRef returns the payload's body bytes without copying.
func (p RawPayload) EncodeRef() ([]byte, bool) { return p.Bytes, true }

// Decode replaces p's contents with a copy of body.
func (p *RawPayload) Decode(body []byte) error {
	p.Bytes = append([]byte(nil), body...)
	return nil
}

// StringPayload is the built-in UTF-8 string payload.
type StringPayload struct {
	Value string
}

var (
	_ brec.Payload        = StringPayload{}
	_ brec.PayloadDecoder = (*StringPayload)(nil)
)

// Sig returns StringPayload's constant signature.
func (StringPayload) Sig() brec.ByteBlock { return stringSig }

// Size returns the number of bytes the payload occupies on the wire.
func (p StringPayload) Size() uint64 { return uint64(len(p.Value)) }

// Encode returns the UTF-8 bytes of the string.
func (p StringPayload) Encode() []byte { return []byte(p.Value) }

// Decode fails with brec.ErrInvalidData if body is not valid UTF-8.
func (p *StringPayload) Decode(body []byte) error {
	if !utf8.Valid(body) {
		return brec.ErrInvalidData
	}
	p.Value = string(body)
	return nil
}
