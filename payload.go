package brec

import (
	"encoding/binary"
	"io"

	"github.com/icsmw/brec/internal/checksum"
)

// Payload is implemented by a payload schema type. Sig is the type's
// constant signature; Size is the on-wire length of Encode's result;
// Encode produces the body bytes.
//
// Reference: spec §4.3 "Payload Header & Codec (C3/C4)".
type Payload interface {
	Sig() ByteBlock
	Size() uint64
	Encode() []byte
}

// PayloadDecoder is implemented by a pointer receiver to decode a payload's
// body bytes back into a value. It fails with ErrInvalidData (wrapped, if
// more context is useful) on malformed input.
type PayloadDecoder interface {
	Payload
	Decode(body []byte) error
}

// RefEncoder is an optional interface a Payload may implement when its
// encoded form is the value itself (e.g. raw bytes), letting the writer
// emit the body without copying.
type RefEncoder interface {
	EncodeRef() ([]byte, bool)
}

// CrcOverrider is an optional interface a Payload may implement to replace
// the default CRC-32-over-encoded-bytes checksum with its own (e.g. an
// XXH3-64 wrapped into a ByteBlock).
type CrcOverrider interface {
	Crc() ByteBlock
}

// Hooks is an optional interface a Payload may implement for
// before-encode/after-decode extension points. Payloads that don't
// implement it are treated as having no-op hooks.
type Hooks interface {
	BeforeEncode()
	AfterDecode()
}

// bodyBytes returns the bytes that will go on the wire for p, preferring
// RefEncoder's zero-copy form when available.
func bodyBytes(p Payload) []byte {
	if re, ok := p.(RefEncoder); ok {
		if b, ok := re.EncodeRef(); ok {
			return b
		}
	}
	return p.Encode()
}

// payloadCrc computes the CRC ByteBlock for encoded body bytes, honoring
// CrcOverrider if p implements it; otherwise defaults to CRC-32 over body.
func payloadCrc(p Payload, body []byte) ByteBlock {
	if co, ok := p.(CrcOverrider); ok {
		return co.Crc()
	}
	return NewByteBlock4(checksum.LE(checksum.Value(body)))
}

func runBeforeEncode(p Payload) {
	if h, ok := p.(Hooks); ok {
		h.BeforeEncode()
	}
}

func runAfterDecode(p Payload) {
	if h, ok := p.(Hooks); ok {
		h.AfterDecode()
	}
}

// PayloadHeader is the self-describing header preceding a payload body.
//
// On-wire layout: sig_len (1B) | sig (sig_len B) | crc_len (1B) |
// crc (crc_len B) | payload_len (4B LE u32).
//
// Reference: spec §3 "PayloadHeader"; §6 "Payload header on-wire layout".
type PayloadHeader struct {
	Sig        ByteBlock
	Crc        ByteBlock
	PayloadLen uint32
}

// NewPayloadHeader builds the header for p: reads its signature, computes
// its CRC (honoring CrcOverrider), and measures its encoded size. It runs
// BeforeEncode first if p implements Hooks.
func NewPayloadHeader(p Payload) (PayloadHeader, []byte, error) {
	runBeforeEncode(p)
	body := bodyBytes(p)
	if uint64(len(body)) > 1<<32-1 {
		return PayloadHeader{}, nil, &EncodeError{Message: "payload body exceeds u32 length"}
	}
	return PayloadHeader{
		Sig:        p.Sig(),
		Crc:        payloadCrc(p, body),
		PayloadLen: uint32(len(body)),
	}, body, nil
}

// EncodedLen returns the header's on-wire byte length: 2 + len(Sig) + len(Crc) + 4.
func (h PayloadHeader) EncodedLen() int {
	return 1 + h.Sig.Len() + 1 + h.Crc.Len() + 4
}

// Encode serializes the header to a freshly allocated buffer.
func (h PayloadHeader) Encode() []byte {
	buf := make([]byte, h.EncodedLen())
	i := 0
	buf[i] = byte(h.Sig.Len())
	i++
	copy(buf[i:], h.Sig.Bytes())
	i += h.Sig.Len()
	buf[i] = byte(h.Crc.Len())
	i++
	copy(buf[i:], h.Crc.Bytes())
	i += h.Crc.Len()
	binary.LittleEndian.PutUint32(buf[i:], h.PayloadLen)
	return buf
}

// WritePayload writes header + body for p to w as two sequential writes.
func WritePayload(w io.Writer, p Payload) (int, error) {
	header, body, err := NewPayloadHeader(p)
	if err != nil {
		return 0, err
	}
	hb := header.Encode()
	n, err := w.Write(hb)
	if err != nil {
		return n, err
	}
	m, err := w.Write(body)
	return n + m, err
}

// ReadPayloadHeaderSeekable reads a PayloadHeader from rs. On any short
// read it seeks rs back to the offset it started at before returning the
// error, so a caller that retries after getting more data does not need to
// re-seek itself.
//
// Reference: original_source/brec payload/header/sreader.rs
// ("SafeHeaderReader"), supplementing spec §4.3's "seekable" read mode.
func ReadPayloadHeaderSeekable(rs io.ReadSeeker) (PayloadHeader, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return PayloadHeader{}, err
	}
	h, err := readPayloadHeaderFixed(rs)
	if err != nil {
		if _, serr := rs.Seek(start, io.SeekStart); serr != nil {
			return PayloadHeader{}, serr
		}
		return PayloadHeader{}, err
	}
	return h, nil
}

func readPayloadHeaderFixed(r io.Reader) (PayloadHeader, error) {
	var sigLenB [1]byte
	if _, err := io.ReadFull(r, sigLenB[:]); err != nil {
		return PayloadHeader{}, err
	}
	sigLen := int(sigLenB[0])
	if !IsValidByteBlockCapacity(sigLen) {
		return PayloadHeader{}, &InvalidCapacityError{Got: sigLen}
	}
	sigBuf := make([]byte, sigLen)
	if _, err := io.ReadFull(r, sigBuf); err != nil {
		return PayloadHeader{}, err
	}
	var crcLenB [1]byte
	if _, err := io.ReadFull(r, crcLenB[:]); err != nil {
		return PayloadHeader{}, err
	}
	crcLen := int(crcLenB[0])
	if !IsValidByteBlockCapacity(crcLen) {
		return PayloadHeader{}, &InvalidCapacityError{Got: crcLen}
	}
	crcBuf := make([]byte, crcLen)
	if _, err := io.ReadFull(r, crcBuf); err != nil {
		return PayloadHeader{}, err
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return PayloadHeader{}, err
	}
	sig, err := TryNewByteBlock(sigBuf)
	if err != nil {
		return PayloadHeader{}, err
	}
	crc, err := TryNewByteBlock(crcBuf)
	if err != nil {
		return PayloadHeader{}, err
	}
	return PayloadHeader{
		Sig:        sig,
		Crc:        crc,
		PayloadLen: binary.LittleEndian.Uint32(lenBuf[:]),
	}, nil
}

// TryReadPayloadHeader is the buffered-reader (non-blocking) counterpart of
// ReadPayloadHeaderSeekable: it peeks at data without requiring a seekable
// source, returning *NotEnoughDataError if data does not yet hold a
// complete header. On success it returns the header and the number of
// bytes consumed from data.
func TryReadPayloadHeader(data []byte) (PayloadHeader, int, error) {
	if len(data) < 1 {
		return PayloadHeader{}, 0, &NotEnoughDataError{Needed: 1}
	}
	sigLen := int(data[0])
	if !IsValidByteBlockCapacity(sigLen) {
		return PayloadHeader{}, 0, &InvalidCapacityError{Got: sigLen}
	}
	need := 1 + sigLen + 1
	if len(data) < need {
		return PayloadHeader{}, 0, &NotEnoughDataError{Needed: uint64(need - len(data))}
	}
	crcLen := int(data[1+sigLen])
	if !IsValidByteBlockCapacity(crcLen) {
		return PayloadHeader{}, 0, &InvalidCapacityError{Got: crcLen}
	}
	need = 1 + sigLen + 1 + crcLen + 4
	if len(data) < need {
		return PayloadHeader{}, 0, &NotEnoughDataError{Needed: uint64(need - len(data))}
	}
	sig, err := TryNewByteBlock(data[1 : 1+sigLen])
	if err != nil {
		return PayloadHeader{}, 0, err
	}
	crcOff := 1 + sigLen + 1
	crc, err := TryNewByteBlock(data[crcOff : crcOff+crcLen])
	if err != nil {
		return PayloadHeader{}, 0, err
	}
	lenOff := crcOff + crcLen
	payloadLen := binary.LittleEndian.Uint32(data[lenOff : lenOff+4])
	return PayloadHeader{Sig: sig, Crc: crc, PayloadLen: payloadLen}, need, nil
}

// ReadPayloadBody validates that body's signature and CRC match the header
// h and, if out is non-nil, decodes body into it (running AfterDecode if
// out implements Hooks). expectedSig is the payload type's own constant
// signature, used to fail fast with ErrSignatureMismatch before touching
// the body bytes at all.
func ReadPayloadBody(h PayloadHeader, body []byte, expectedSig ByteBlock, out PayloadDecoder) error {
	if !h.Sig.Equal(expectedSig) {
		return ErrSignatureMismatch
	}
	if uint64(len(body)) != uint64(h.PayloadLen) {
		return ErrUnexpectedSliceLength
	}
	crc := payloadCrc(out, body)
	if !crc.Equal(h.Crc) {
		return ErrCrcMismatch
	}
	if out != nil {
		if err := out.Decode(body); err != nil {
			return err
		}
		runAfterDecode(out)
	}
	return nil
}
