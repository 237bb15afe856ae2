// Package compression provides the compression algorithms brec's optional
// CompressedPayload codec can wrap an inner payload in: Snappy, LZ4, and
// Zstandard.
package compression

import (
	"fmt"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type represents a compression algorithm wrapping a payload body.
type Type uint8

const (
	// NoCompression indicates the payload body is stored as-is.
	NoCompression Type = 0x0
	// SnappyCompression uses Google Snappy compression.
	SnappyCompression Type = 0x1
	// LZ4Compression uses LZ4 block compression.
	LZ4Compression Type = 0x2
	// ZstdCompression uses Zstandard compression.
	ZstdCompression Type = 0x3
)

// String returns the human-readable name of the compression type.
func (t Type) String() string {
	switch t {
	case NoCompression:
		return "NoCompression"
	case SnappyCompression:
		return "Snappy"
	case LZ4Compression:
		return "LZ4"
	case ZstdCompression:
		return "ZSTD"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// IsSupported returns true if the compression type is one brec knows how to
// compress and decompress.
func (t Type) IsSupported() bool {
	switch t {
	case NoCompression, SnappyCompression, LZ4Compression, ZstdCompression:
		return true
	default:
		return false
	}
}

// Compress compresses data using the specified compression type.
func Compress(t Type, data []byte) ([]byte, error) {
	switch t {
	case NoCompression:
		return data, nil
	case SnappyCompression:
		return snappy.Encode(nil, data), nil
	case LZ4Compression:
		return compressLZ4(data)
	case ZstdCompression:
		return compressZstd(data)
	default:
		return nil, fmt.Errorf("compression: unsupported type %s", t)
	}
}

// compressLZ4 compresses data using LZ4's raw block format (no frame header).
func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	var ht [1 << 16]int
	n, err := lz4.CompressBlock(data, dst, ht[:])
	if err != nil {
		return nil, fmt.Errorf("compression: lz4 compress block: %w", err)
	}
	if n == 0 {
		// Incompressible input: lz4 signals this with n == 0. Store raw.
		return append([]byte(nil), data...), nil
	}
	return dst[:n], nil
}

// compressZstd compresses data using Zstandard at the default encoder level.
func compressZstd(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("compression: zstd encoder: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses data using the specified compression type.
// uncompressedSize must be the exact size of the original payload body; LZ4's
// raw block format has no embedded length, so brec's CompressedPayload wire
// form carries it explicitly ahead of the compressed bytes.
func Decompress(t Type, data []byte, uncompressedSize int) ([]byte, error) {
	switch t {
	case NoCompression:
		return data, nil
	case SnappyCompression:
		return snappy.Decode(nil, data)
	case LZ4Compression:
		return decompressLZ4(data, uncompressedSize)
	case ZstdCompression:
		return decompressZstd(data)
	default:
		return nil, fmt.Errorf("compression: unsupported type %s", t)
	}
}

// decompressLZ4 decompresses LZ4 raw block data given the known output size.
func decompressLZ4(data []byte, uncompressedSize int) ([]byte, error) {
	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("compression: lz4 uncompress block: %w", err)
	}
	return dst[:n], nil
}

// decompressZstd decompresses Zstandard data.
func decompressZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("compression: zstd decoder: %w", err)
	}
	defer decoder.Close()
	return decoder.DecodeAll(data, nil)
}
