package brec

// ByteBlock is a tagged fixed-capacity byte buffer holding payload
// signatures and CRCs, and a block signature when it is passed to
// BlockRegistry.RegisterSig. Block signatures elsewhere are [4]byte values,
// and the CRC fields of blocks, packet headers and slot headers are plain
// uint32 values, not ByteBlocks. Its length is always one of
// 4, 8, 16, 32, 64, or 128 bytes — the six capacities the wire format's
// length-prefixed sig/crc fields can express in one byte.
//
// Reference: spec §3 "ByteBlock"; §4.1.
type ByteBlock struct {
	data []byte
}

// validByteBlockCapacities lists the only lengths a ByteBlock may hold.
var validByteBlockCapacities = [...]int{4, 8, 16, 32, 64, 128}

// IsValidByteBlockCapacity reports whether n is one of the six fixed
// capacities a ByteBlock may hold.
func IsValidByteBlockCapacity(n int) bool {
	for _, c := range validByteBlockCapacities {
		if c == n {
			return true
		}
	}
	return false
}

// NewByteBlock4 constructs a ByteBlock from a 4-byte array. Used for block
// signatures (SIG_B) and CRC-32 fields.
func NewByteBlock4(b [4]byte) ByteBlock { return ByteBlock{data: b[:]} }

// NewByteBlock8 constructs a ByteBlock from an 8-byte array.
func NewByteBlock8(b [8]byte) ByteBlock { return ByteBlock{data: b[:]} }

// NewByteBlock16 constructs a ByteBlock from a 16-byte array.
func NewByteBlock16(b [16]byte) ByteBlock { return ByteBlock{data: b[:]} }

// NewByteBlock32 constructs a ByteBlock from a 32-byte array.
func NewByteBlock32(b [32]byte) ByteBlock { return ByteBlock{data: b[:]} }

// NewByteBlock64 constructs a ByteBlock from a 64-byte array.
func NewByteBlock64(b [64]byte) ByteBlock { return ByteBlock{data: b[:]} }

// NewByteBlock128 constructs a ByteBlock from a 128-byte array.
func NewByteBlock128(b [128]byte) ByteBlock { return ByteBlock{data: b[:]} }

// TryNewByteBlock constructs a ByteBlock from a variable-length byte slice,
// copying it, and fails with *InvalidCapacityError if its length is not one
// of the six fixed capacities.
func TryNewByteBlock(b []byte) (ByteBlock, error) {
	if !IsValidByteBlockCapacity(len(b)) {
		return ByteBlock{}, &InvalidCapacityError{Got: len(b)}
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return ByteBlock{data: cp}, nil
}

// Bytes borrows the ByteBlock's contents as a contiguous slice. The caller
// must not mutate the returned slice.
func (bb ByteBlock) Bytes() []byte {
	return bb.data
}

// Len reports the ByteBlock's fixed capacity (always one of 4, 8, 16, 32,
// 64, 128).
func (bb ByteBlock) Len() int {
	return len(bb.data)
}

// As4 extracts bb's contents as a [4]byte, failing with
// ErrFailExtractByteBlock if bb's capacity is not 4. Block signatures
// (SIG_B) are always exactly 4 bytes; this is the bridge a caller holding a
// signature as a ByteBlock (e.g. a payload's Sig()) uses to register it
// against a BlockRegistry, which is keyed by [4]byte.
func (bb ByteBlock) As4() ([4]byte, error) {
	var out [4]byte
	if len(bb.data) != 4 {
		return out, ErrFailExtractByteBlock
	}
	copy(out[:], bb.data)
	return out, nil
}

// Equal reports whether two ByteBlocks hold identical bytes.
func (bb ByteBlock) Equal(other ByteBlock) bool {
	if len(bb.data) != len(other.data) {
		return false
	}
	for i := range bb.data {
		if bb.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
