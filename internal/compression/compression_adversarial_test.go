// compression_adversarial_test.go exercises corrupted and truncated input
// against each supported codec, verifying that decompression fails cleanly
// instead of panicking.
package compression

import (
	"bytes"
	"testing"
)

// TestAdversarial_AllCompressionTypesWithCorruptedInput tests that all
// compression types handle corrupted input gracefully.
func TestAdversarial_AllCompressionTypesWithCorruptedInput(t *testing.T) {
	types := []Type{
		SnappyCompression,
		LZ4Compression,
		ZstdCompression,
	}

	garbage := bytes.Repeat([]byte{0xDE, 0xAD, 0xBE, 0xEF}, 100)

	for _, ct := range types {
		t.Run(ct.String(), func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Panic with corrupted %s input: %v", ct, r)
				}
			}()

			_, err := Decompress(ct, garbage, len(garbage)*4)
			// Should fail but not panic
			if err != nil {
				t.Logf("%s with garbage: error = %v (expected)", ct, err)
			}
		})
	}
}

// TestAdversarial_TruncatedCompressedData tests behavior with truncated
// compressed output from each codec.
func TestAdversarial_TruncatedCompressedData(t *testing.T) {
	data := bytes.Repeat([]byte("test data for compression adversarial checks "), 200)

	types := []Type{SnappyCompression, LZ4Compression, ZstdCompression}

	for _, ct := range types {
		t.Run(ct.String(), func(t *testing.T) {
			compressed, err := Compress(ct, data)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}

			truncPoints := []int{1, len(compressed) / 2, len(compressed) - 1}
			for _, truncAt := range truncPoints {
				if truncAt <= 0 || truncAt >= len(compressed) {
					continue
				}
				truncated := compressed[:truncAt]

				func() {
					defer func() {
						if r := recover(); r != nil {
							t.Errorf("panic decompressing truncated %s data: %v", ct, r)
						}
					}()
					result, err := Decompress(ct, truncated, len(data))
					if err == nil && bytes.Equal(result, data) {
						t.Errorf("%s: truncated input at %d unexpectedly round-tripped", ct, truncAt)
					}
				}()
			}
		})
	}
}

// TestAdversarial_GarbageSizedSmall tests small hand-picked byte sequences
// that could confuse a codec's header parsing.
func TestAdversarial_GarbageSizedSmall(t *testing.T) {
	garbage := [][]byte{
		{0x00},
		{0xFF, 0xFF, 0xFF, 0xFF},
		bytes.Repeat([]byte{0xAB}, 16),
	}

	types := []Type{SnappyCompression, LZ4Compression, ZstdCompression}

	for _, ct := range types {
		for i, data := range garbage {
			t.Run(ct.String()+"_"+itoa(i), func(t *testing.T) {
				_, err := Decompress(ct, data, len(data)*2)
				if err != nil {
					t.Logf("%s garbage test %d: error = %v (expected)", ct, i, err)
				}
			})
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}
