package brec

import (
	"bytes"

	"github.com/icsmw/brec/internal/logging"
)

// OutcomeKind enumerates the possible results of one StreamReader.Read call.
type OutcomeKind int

const (
	// NotFound means no PacketSig was located in the currently buffered
	// bytes; the caller should Feed more data.
	NotFound OutcomeKind = iota
	// NotEnoughDataOutcome means a signature was found but the full packet
	// is not yet buffered; Outcome.Needed names the shortfall.
	NotEnoughDataOutcome
	// NoData means the reader has nothing buffered at all.
	NoData
	// Skipped means a candidate packet was fully read but dropped by a rule.
	Skipped
	// Found means a complete, validated packet was produced.
	Found
)

// Outcome is the result of one StreamReader.Read call.
//
// Reference: spec §4.5 "States and outcomes".
type Outcome struct {
	Kind   OutcomeKind
	Needed uint64
	Packet *RawPacket
}

// RawPacket is a fully decoded packet as produced by StreamReader: the
// validated header, the ordered list of referred (zero-copy at parse time,
// owned on return) block views, and the optional payload header and body.
type RawPacket struct {
	Header        PacketHeader
	Blocks        []ReferredBlock
	PayloadHeader *PayloadHeader
	PayloadBody   []byte
}

// pendingPacket remembers a header that validated successfully but whose
// body was not yet fully buffered, so the next Read call can skip
// re-scanning and re-validating the header.
//
// Reference: spec §4.5 "Partial-packet accept policy".
type pendingPacket struct {
	header PacketHeader
}

// StreamReader incrementally parses packets out of an accumulating byte
// buffer, resynchronizing past noise and corrupted candidates, and
// filtering candidates through an optional RuleSet.
//
// StreamReader is not safe for concurrent use; it is bound to one logical
// byte source for its lifetime.
//
// Reference: spec §4.5 "Stream Reader (C6)".
type StreamReader struct {
	buf      []byte
	registry *BlockRegistry
	rules    *RuleSet
	pending  *pendingPacket
	logger   logging.Logger
}

// ReaderOption configures a StreamReader at construction time.
type ReaderOption func(*StreamReader)

// WithLogger attaches a logger used for resynchronization diagnostics.
func WithLogger(l logging.Logger) ReaderOption {
	return func(r *StreamReader) { r.logger = logging.OrDefault(l) }
}

// WithRules attaches a RuleSet; if omitted, no rule runs and every
// well-formed packet is accepted.
func WithRules(rules *RuleSet) ReaderOption {
	return func(r *StreamReader) { r.rules = rules }
}

// NewReader constructs a StreamReader. registry must map every block
// schema signature the caller expects to encounter to its on-wire size.
func NewReader(registry *BlockRegistry, opts ...ReaderOption) *StreamReader {
	r := &StreamReader{
		registry: registry,
		rules:    NewRuleSet(),
		logger:   logging.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Feed appends data to the reader's internal buffer. It never blocks and
// never parses; call Read afterward to make progress.
func (r *StreamReader) Feed(data []byte) {
	r.buf = append(r.buf, data...)
}

// Buffered reports how many bytes are currently held, unconsumed.
func (r *StreamReader) Buffered() int {
	return len(r.buf)
}

// Pending reports the header of a partially-buffered packet awaiting more
// body bytes, if any.
func (r *StreamReader) Pending() (PacketHeader, bool) {
	if r.pending == nil {
		return PacketHeader{}, false
	}
	return r.pending.header, true
}

// DiscardPending drops a partially-buffered packet's state (and its
// buffered prefix bytes), for a caller that has determined no more data is
// coming (e.g. the underlying source reached EOF) and wants to give up on
// it. It returns ErrNoPendingPacket if there is nothing pending.
func (r *StreamReader) DiscardPending() error {
	if r.pending == nil {
		return ErrNoPendingPacket
	}
	r.pending = nil
	r.buf = nil
	return nil
}

const minPacketSigWindow = len(PacketSig) - 1

// findPacketSig scans buf for a complete PacketSig. If none is present, it
// checks whether buf's tail is itself a nonzero-length prefix of PacketSig —
// meaning a real signature could still be completed once more bytes arrive —
// and if so returns *NotEnoughSignatureDataError naming exactly how many of
// those trailing bytes must be kept. A tail that doesn't even partially
// match PacketSig returns (-1, nil), telling the caller the whole buffer is
// noise and can be discarded.
func findPacketSig(buf []byte) (int, error) {
	if idx := bytes.Index(buf, PacketSig[:]); idx >= 0 {
		return idx, nil
	}
	max := minPacketSigWindow
	if max > len(buf) {
		max = len(buf)
	}
	for l := max; l > 0; l-- {
		if bytes.Equal(buf[len(buf)-l:], PacketSig[:l]) {
			return -1, &NotEnoughSignatureDataError{Have: uint64(l), Need: uint64(len(PacketSig))}
		}
	}
	return -1, nil
}

// Read attempts to produce the next packet from the buffered bytes. It
// never performs I/O; all data must already have been supplied via Feed.
func (r *StreamReader) Read() Outcome {
	if len(r.buf) == 0 && r.pending == nil {
		return Outcome{Kind: NoData}
	}

	for {
		var idx int
		if r.pending != nil {
			idx = 0
		} else {
			found, sigErr := findPacketSig(r.buf)
			idx = found
			if idx < 0 {
				keep := 0
				if nsd, ok := sigErr.(*NotEnoughSignatureDataError); ok {
					keep = int(nsd.Have)
				}
				consumed := len(r.buf) - keep
				if consumed > 0 {
					r.buf = r.buf[consumed:]
				}
				return Outcome{Kind: NotFound}
			}
			if idx > 0 {
				r.buf = r.buf[idx:]
				idx = 0
			}
		}

		var header PacketHeader
		if r.pending != nil {
			header = r.pending.header
		} else {
			if len(r.buf) < PacketHeaderSize {
				return Outcome{Kind: NotEnoughDataOutcome, Needed: uint64(PacketHeaderSize - len(r.buf))}
			}
			h, err := DecodePacketHeader(r.buf[:PacketHeaderSize])
			if err != nil {
				r.logger.Debugf("%sheader crc mismatch at offset, resyncing", logging.NSReader)
				r.buf = r.buf[1:]
				continue
			}
			header = h
		}

		have := uint64(len(r.buf))
		if have < header.Size {
			r.pending = &pendingPacket{header: header}
			return Outcome{Kind: NotEnoughDataOutcome, Needed: header.Size - have}
		}

		body := r.buf[:header.Size]
		packet, skip, err := r.decodeBody(header, body)
		if err != nil {
			r.logger.Debugf("%sblock/payload validation failed, resyncing: %v", logging.NSReader, err)
			r.pending = nil
			r.buf = r.buf[1:]
			continue
		}

		r.pending = nil
		r.buf = r.buf[header.Size:]
		if skip {
			return Outcome{Kind: Skipped}
		}
		return Outcome{Kind: Found, Packet: packet}
	}
}

// decodeBody parses the blocks section and optional payload out of body
// (which begins at the packet header and spans header.Size bytes total),
// applying the rule set. It returns (nil, false, err) on any framing
// failure so the caller can resynchronize, or (nil, true, nil) when a rule
// rejected the packet.
func (r *StreamReader) decodeBody(header PacketHeader, body []byte) (*RawPacket, bool, error) {
	if r.rules.ignored != nil && r.rules.ignored(header) {
		return nil, true, nil
	}

	blocksStart := PacketHeaderSize
	blocksEnd := blocksStart + int(header.BlocksLen)
	if blocksEnd > len(body) {
		return nil, false, ErrUnexpectedSliceLength
	}
	blocksArea := body[blocksStart:blocksEnd]

	blocks := make([]ReferredBlock, 0)
	off := 0
	for off < len(blocksArea) {
		if off+4 > len(blocksArea) {
			return nil, false, ErrUnexpectedSliceLength
		}
		var sig [4]byte
		copy(sig[:], blocksArea[off:off+4])
		ssize, ok := r.registry.SSizeOf(sig)
		if !ok {
			return nil, false, ErrSignatureMismatch
		}
		rb, err := NewReferredBlock(blocksArea[off:], sig, ssize)
		if err != nil {
			return nil, false, err
		}
		blocks = append(blocks, rb)
		off += int(ssize)
	}
	if off != len(blocksArea) {
		return nil, false, ErrUnexpectedSliceLength
	}

	if r.rules.filterByBlocks != nil && !r.rules.filterByBlocks(blocks) {
		return nil, true, nil
	}

	result := &RawPacket{
		Header: header,
		Blocks: cloneReferredBlocks(blocks, blocksArea),
	}

	if header.HasPayload {
		rest := body[blocksEnd:]
		ph, consumed, err := TryReadPayloadHeader(rest)
		if err != nil {
			return nil, false, err
		}
		payloadBody := rest[consumed:]
		if uint64(len(payloadBody)) != uint64(ph.PayloadLen) {
			return nil, false, ErrUnexpectedSliceLength
		}
		if r.rules.filterByPayload != nil && !r.rules.filterByPayload(payloadBody) {
			return nil, true, nil
		}
		phCopy := ph
		result.PayloadHeader = &phCopy
		result.PayloadBody = bytes.Clone(payloadBody)
	}

	return result, false, nil
}

// cloneReferredBlocks copies blocksArea once and rebuilds the referred
// views against the copy, so a Found RawPacket does not keep the reader's
// internal buffer alive after Read returns.
func cloneReferredBlocks(blocks []ReferredBlock, original []byte) []ReferredBlock {
	owned := bytes.Clone(original)
	out := make([]ReferredBlock, len(blocks))
	off := 0
	for i, b := range blocks {
		ssize := len(b.fields) + blockSigSize + blockCrcSize
		rb, err := NewReferredBlock(owned[off:off+ssize], b.sig, uint64(ssize))
		if err != nil {
			// original already validated; this cannot fail.
			panic(err)
		}
		out[i] = rb
		off += ssize
	}
	return out
}
