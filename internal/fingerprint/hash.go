// Package fingerprint implements k-gram rolling hashes and winnowing over
// token-kind streams.
package fingerprint

import "github.com/standardbeagle/armoss/internal/types"

// hashBase is the multiplier of the polynomial rolling hash, computed in the
// natural 64-bit ring. The constant is fixed: changing it invalidates
// cross-version report comparisons.
const hashBase uint64 = 0x100000001b3

// Fingerprint is a selected k-gram hash plus the logical index of the
// k-gram's first token.
type Fingerprint struct {
	Hash uint64
	Pos  int
}

// KGrams returns the rolling hash of every k-gram of kinds, in order. The
// result has len(kinds)-k+1 entries, or none when the stream is shorter
// than k. Each step rolls in O(1).
func KGrams(kinds []types.TokenKind, k int) []uint64 {
	if k < 1 || len(kinds) < k {
		return nil
	}

	// lead is the weight of the window's oldest kind, hashBase^(k-1)
	lead := uint64(1)
	for i := 1; i < k; i++ {
		lead *= hashBase
	}

	hashes := make([]uint64, len(kinds)-k+1)
	var h uint64
	for i, kind := range kinds {
		h = h*hashBase + uint64(kind)
		if i >= k-1 {
			hashes[i-k+1] = h
			h -= uint64(kinds[i-k+1]) * lead
		}
	}
	return hashes
}
