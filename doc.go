/*
Package brec provides a self-delimiting, self-verifying binary record
format and the streaming reader that recovers from noise and corruption
between records.

A packet is a packet header followed by zero or more fixed-size "blocks"
and an optional variable-size "payload". Blocks and payloads are both
signature-tagged and CRC-32 protected, so a consumer reading an arbitrary
byte stream can locate packet boundaries, validate their contents, and
resynchronize past garbage bytes or corrupted records without losing any
well-formed packet that follows.

# Usage

A producer builds a Packet from blocks implementing Block and,
optionally, one value implementing Payload, then writes it with
Packet.WriteTo or Packet.WriteVectoredTo. A consumer feeds bytes into a
StreamReader and calls Read repeatedly; each call returns one of Found,
NotFound, NotEnoughDataOutcome, NoData, or Skipped.

The storage subpackage layers an append-only, slot-indexed file format on
top of the same packet format, for callers that want random access to
previously written packets rather than (or in addition to) a live stream.

# Concurrency

A StreamReader, storage Writer, or storage Reader is bound to one backing
byte source and is not safe for concurrent use by multiple goroutines;
callers needing concurrent access must synchronize externally or use
separate instances over separate sources. CRC and signature computation
functions are pure and safe for concurrent use.

# Compatibility

The wire format is fixed by this package's signature constants
(PacketSig, SlotSig) and field layouts; it does not version itself and
carries no schema-evolution machinery — see the storage and codec
subpackages for the pieces that do change over a program's lifetime
(slot capacity, payload compression).
*/
package brec
