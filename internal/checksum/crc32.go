// Package checksum provides the CRC-32 primitives used for every signature
// and integrity check in brec's wire formats: SIG_B derivation, block CRCs,
// payload CRCs, packet header CRCs and storage slot CRCs.
//
// brec uses the plain IEEE CRC-32 polynomial (not RocksDB's Castagnoli
// variant) for all of the above; the API shape (Value/Extend) lets a
// payload codec fold a checksum over a discriminant byte plus a body
// without concatenating buffers.
package checksum

import "hash/crc32"

var ieeeTable = crc32.MakeTable(crc32.IEEE)

// Value computes the CRC-32 (IEEE) checksum of data.
func Value(data []byte) uint32 {
	return crc32.Checksum(data, ieeeTable)
}

// Extend computes the CRC-32 of concat(a, data) where initCRC is the CRC-32 of a.
func Extend(initCRC uint32, data []byte) uint32 {
	return crc32.Update(initCRC, ieeeTable, data)
}

// LE returns the little-endian encoding of a CRC-32 value, as used on the
// wire (every CRC field in this format is 4 bytes little-endian).
func LE(crc uint32) [4]byte {
	return [4]byte{byte(crc), byte(crc >> 8), byte(crc >> 16), byte(crc >> 24)}
}

// FromLE decodes a little-endian CRC-32 value from its 4-byte wire form.
func FromLE(b [4]byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
