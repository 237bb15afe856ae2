package brec

import (
	"encoding/binary"
	"io"

	"github.com/icsmw/brec/internal/checksum"
)

// blockSigSize and blockCrcSize are the fixed header/trailer around every
// block's field area: 4 bytes of SIG_B followed by schema fields followed
// by a 4-byte CRC-32 over those fields.
const (
	blockSigSize = 4
	blockCrcSize = 4
)

// Block is implemented by a block schema type (hand-written here since the
// schema code generator is out of scope for this library). SSize is the
// schema's constant on-wire size including the signature and CRC; Sig is
// the schema's constant SIG_B; EncodeFields writes exactly SSize()-8 bytes
// of little-endian field data in declaration order.
//
// Reference: spec §4.2 "Block Codec (C2)".
type Block interface {
	SSize() uint64
	Sig() [4]byte
	EncodeFields(dst []byte)
}

// BlockDecoder is a Block that can also decode its fields back from a byte
// slice of length SSize()-8.
type BlockDecoder interface {
	Block
	DecodeFields(src []byte) error
}

// EncodeBlock serializes b to a freshly allocated buffer of exactly
// SSize() bytes: SIG_B, fields, CRC-32(fields).
func EncodeBlock(b Block) []byte {
	ssize := b.SSize()
	buf := make([]byte, ssize)
	sig := b.Sig()
	copy(buf[:blockSigSize], sig[:])
	fields := buf[blockSigSize : ssize-blockCrcSize]
	b.EncodeFields(fields)
	crc := checksum.Value(fields)
	binary.LittleEndian.PutUint32(buf[ssize-blockCrcSize:], crc)
	return buf
}

// WriteBlock serializes b and writes the whole record to w, failing with
// io.ErrShortWrite if fewer than SSize() bytes were accepted.
func WriteBlock(w io.Writer, b Block) (int, error) {
	buf := EncodeBlock(b)
	n, err := w.Write(buf)
	if err != nil {
		return n, err
	}
	if n != len(buf) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// ReadBlock reads one block from r into out. If skipSig is false, it first
// reads 4 bytes and compares them against out.Sig(), failing with
// ErrSignatureMismatch on a mismatch; if skipSig is true, reading begins at
// the field area — used when the caller (typically StreamReader) has
// already consumed and verified the signature itself. After the fields, it
// reads the trailing CRC-32 and fails with ErrCrcMismatch if it disagrees
// with the CRC computed over the fields just read.
func ReadBlock(r io.Reader, skipSig bool, out BlockDecoder) error {
	if !skipSig {
		var sig [blockSigSize]byte
		if _, err := io.ReadFull(r, sig[:]); err != nil {
			return err
		}
		want := out.Sig()
		if sig != want {
			return ErrSignatureMismatch
		}
	}
	ssize := out.SSize()
	fieldsLen := ssize - blockSigSize - blockCrcSize
	fields := make([]byte, fieldsLen)
	if _, err := io.ReadFull(r, fields); err != nil {
		return err
	}
	var crcBuf [blockCrcSize]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return err
	}
	want := checksum.Value(fields)
	got := binary.LittleEndian.Uint32(crcBuf[:])
	if want != got {
		return ErrCrcMismatch
	}
	return out.DecodeFields(fields)
}

// TryReadBlock looks for a complete block (including the leading signature
// unless skipSig is set) at the start of data and, if present, decodes it
// into out and returns the number of bytes consumed. If data is shorter
// than required, it returns *NotEnoughDataError naming the exact shortfall
// instead of reading partially — this is the non-blocking counterpart to
// ReadBlock used by StreamReader.
func TryReadBlock(data []byte, skipSig bool, out BlockDecoder) (int, error) {
	ssize := int(out.SSize())
	need := ssize
	if skipSig {
		need -= blockSigSize
	}
	if len(data) < need {
		return 0, &NotEnoughDataError{Needed: uint64(need - len(data))}
	}
	rest := data
	if !skipSig {
		sig := out.Sig()
		if !bytesEqual(data[:blockSigSize], sig[:]) {
			return 0, ErrSignatureMismatch
		}
		rest = data[blockSigSize:]
	}
	fieldsLen := ssize - blockSigSize - blockCrcSize
	fields := rest[:fieldsLen]
	crcGot := binary.LittleEndian.Uint32(rest[fieldsLen : fieldsLen+blockCrcSize])
	crcWant := checksum.Value(fields)
	if crcGot != crcWant {
		return 0, ErrCrcMismatch
	}
	if err := out.DecodeFields(fields); err != nil {
		return 0, err
	}
	return need, nil
}

// ReferredBlock is a borrowed, zero-copy view over one block's wire bytes
// within a backing slice: it validates length, signature, and CRC eagerly
// and exposes the field area as a slice that aliases the backing buffer,
// so converting a stream of candidate packets into rule-engine decisions
// never allocates.
//
// Go's encoding/binary decodes multi-byte fields byte-at-a-time rather than
// through a raw unaligned pointer load, so unlike the reference
// implementation's target ISAs, this view never needs to reject a buffer
// for misalignment — see DESIGN.md.
//
// Reference: spec §4.2 "Block referred view"; original_source/brec's
// block/props.rs referred-type pattern.
type ReferredBlock struct {
	sig    [4]byte
	fields []byte
	crc    uint32
}

// NewReferredBlock validates the first ssize bytes of data against sig and
// returns a zero-copy view whose Fields() slice aliases data. It fails with
// ErrUnexpectedSliceLength if data is shorter than ssize,
// ErrSignatureMismatch if the leading 4 bytes don't match sig, or
// ErrCrcMismatch if the trailing CRC doesn't validate.
func NewReferredBlock(data []byte, sig [4]byte, ssize uint64) (ReferredBlock, error) {
	if uint64(len(data)) < ssize {
		return ReferredBlock{}, ErrUnexpectedSliceLength
	}
	if !bytesEqual(data[:blockSigSize], sig[:]) {
		return ReferredBlock{}, ErrSignatureMismatch
	}
	fieldsLen := ssize - blockSigSize - blockCrcSize
	fields := data[blockSigSize : uint64(blockSigSize)+fieldsLen]
	crcGot := binary.LittleEndian.Uint32(data[uint64(blockSigSize)+fieldsLen : ssize])
	crcWant := checksum.Value(fields)
	if crcGot != crcWant {
		return ReferredBlock{}, ErrCrcMismatch
	}
	return ReferredBlock{sig: sig, fields: fields, crc: crcGot}, nil
}

// Fields returns the zero-copy field-area slice. The caller must not retain
// it beyond the lifetime of the buffer passed to NewReferredBlock, and must
// not mutate it.
func (r ReferredBlock) Fields() []byte { return r.fields }

// Sig returns the block's validated signature.
func (r ReferredBlock) Sig() [4]byte { return r.sig }

// Crc returns the block's validated CRC-32.
func (r ReferredBlock) Crc() uint32 { return r.crc }

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
