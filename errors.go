package brec

import (
	"errors"
	"fmt"
)

// Sentinel errors for brec's framing, progress, storage, and rule
// violations. Framing errors are only returned from explicit single-item
// reads (ReadBlock, TryReadBlock, ReadPayloadBody, DecodePacketHeader);
// inside StreamReader's scan loop the
// same conditions trigger resynchronization instead of surfacing to the
// caller.
//
// Reference: aalhour/rockyardkv internal/wal/reader.go's sentinel list.
var (
	// ErrSignatureMismatch is returned when a read signature does not match
	// the expected constant or schema-derived signature.
	ErrSignatureMismatch = errors.New("brec: signature mismatch")

	// ErrCrcMismatch is returned when a computed CRC-32 does not match the
	// CRC stored on the wire.
	ErrCrcMismatch = errors.New("brec: crc mismatch")

	// ErrInvalidAlign is returned when a referred (zero-copy) read would
	// require constructing a misaligned primitive reference and the target
	// requires alignment.
	ErrInvalidAlign = errors.New("brec: invalid alignment")

	// ErrMisalignedPointer is returned by referred reads on an ISA that
	// mandates alignment when the backing buffer's address does not satisfy
	// a field's natural alignment.
	ErrMisalignedPointer = errors.New("brec: misaligned pointer")

	// ErrUnexpectedSliceLength is returned when a referred read is given a
	// slice shorter than the schema's fixed on-wire size.
	ErrUnexpectedSliceLength = errors.New("brec: unexpected slice length")

	// ErrZeroLengthBlock is returned when a packet is written with no blocks
	// and no payload, if the caller has opted into rejecting empty packets.
	ErrZeroLengthBlock = errors.New("brec: zero-length block")

	// ErrRuleDuplicate is returned when a RuleSet already holds a rule of
	// the category being added.
	ErrRuleDuplicate = errors.New("brec: duplicate rule category")

	// ErrNoPendingPacket is returned by StreamReader.DiscardPending when no
	// partial packet is currently pending.
	ErrNoPendingPacket = errors.New("brec: no pending packet")

	// ErrCannotInsertIntoSlot is returned by the storage writer when a
	// packet cannot be recorded into the current slot's length table.
	ErrCannotInsertIntoSlot = errors.New("brec: cannot insert into slot")

	// ErrCannotFindFreeSlot names the condition where no slot has a free
	// length entry and a new slot cannot be appended. The storage writer in
	// this module does not return it: when every slot is full it appends a
	// new slot.
	ErrCannotFindFreeSlot = errors.New("brec: cannot find free slot")

	// ErrMaxBlocksCount is returned when a packet's block count exceeds an
	// implementation-defined ceiling.
	ErrMaxBlocksCount = errors.New("brec: too many blocks in one packet")

	// ErrFailExtractByteBlock is returned when a ByteBlock cannot be
	// extracted from its backing storage.
	ErrFailExtractByteBlock = errors.New("brec: failed to extract byte block")

	// ErrInvalidData is returned by a payload codec's Decode when the body
	// bytes cannot be interpreted as a valid value of that payload type.
	ErrInvalidData = errors.New("brec: invalid payload data")
)

// InvalidCapacityError is returned when a ByteBlock is constructed from a
// byte slice whose length is not one of the six fixed capacities.
type InvalidCapacityError struct {
	Got int
}

func (e *InvalidCapacityError) Error() string {
	return fmt.Sprintf("brec: invalid byte block capacity %d (want one of 4,8,16,32,64,128)", e.Got)
}

// NotEnoughDataError is returned by try-read operations (TryReadBlock,
// TryReadPayloadHeader) when the given bytes are too short to complete the
// read. Needed is the minimum number of additional bytes required before
// retrying.
type NotEnoughDataError struct {
	Needed uint64
}

func (e *NotEnoughDataError) Error() string {
	return fmt.Sprintf("brec: not enough data, need %d more bytes", e.Needed)
}

// NotEnoughSignatureDataError is returned while scanning for PacketSig when
// the buffered window ends mid-signature.
type NotEnoughSignatureDataError struct {
	Have, Need uint64
}

func (e *NotEnoughSignatureDataError) Error() string {
	return fmt.Sprintf("brec: not enough signature data, have %d need %d", e.Have, e.Need)
}

// DamagedSlotError is returned by the storage writer/reader's load routine
// when a slot's signature or CRC fails to validate. This is fatal: loading
// stops at the first damaged slot.
type DamagedSlotError struct {
	// Slot is the zero-based index of the damaged slot.
	Slot int
	// Err is the underlying framing error (ErrSignatureMismatch or
	// ErrCrcMismatch).
	Err error
}

func (e *DamagedSlotError) Error() string {
	return fmt.Sprintf("brec: damaged slot %d: %v", e.Slot, e.Err)
}

func (e *DamagedSlotError) Unwrap() error {
	return e.Err
}

// FailedConvertingError is returned when an 8-bit-backed enumeration's
// reverse conversion (byte -> variant) fails during decode.
type FailedConvertingError struct {
	Target  string
	Message string
}

func (e *FailedConvertingError) Error() string {
	return fmt.Sprintf("brec: failed converting to %s: %s", e.Target, e.Message)
}

// EncodeError is returned by a payload or block codec's encode path when it
// cannot produce a valid wire form for a value.
type EncodeError struct {
	Message string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("brec: encode error: %s", e.Message)
}
