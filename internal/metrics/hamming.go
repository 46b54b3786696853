package metrics

import (
	"encoding/hex"
	"fmt"
	"math/bits"
)

// HammingDistance counts bit differences between two hex-encoded compact
// codes. The codes must decode to byte strings of equal length.
func HammingDistance(hexA, hexB string) (int, error) {
	a, err := hex.DecodeString(hexA)
	if err != nil {
		return 0, fmt.Errorf("decoding code %q: %w", hexA, err)
	}
	b, err := hex.DecodeString(hexB)
	if err != nil {
		return 0, fmt.Errorf("decoding code %q: %w", hexB, err)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("code length mismatch: %d vs %d bytes", len(a), len(b))
	}

	dist := 0
	for i := range a {
		dist += bits.OnesCount8(a[i] ^ b[i])
	}
	return dist, nil
}

// CodeBitLength returns the bit length of a hex-encoded compact code.
func CodeBitLength(hexCode string) int {
	return len(hexCode) / 2 * 8
}

// DefaultMaxThreshold derives the default top of the Hamming threshold sweep
// as a quarter of the code bit length.
func DefaultMaxThreshold(hexCode string) int {
	return CodeBitLength(hexCode) / 4
}
