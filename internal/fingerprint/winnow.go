package fingerprint

// Winnow selects fingerprints from a sequence of k-gram hashes: for every
// window of w consecutive hashes it keeps the minimum, the rightmost one on
// ties, and skips re-selection of a position the previous window already
// chose. Every run of w consecutive hashes therefore contributes at least
// one selection, which yields the guarantee that any token substring of
// length >= t contains a fingerprint.
//
// When fewer than w hashes exist the single window covering all of them is
// winnowed (best effort below the guarantee threshold).
func Winnow(hashes []uint64, w int) []Fingerprint {
	if len(hashes) == 0 || w < 1 {
		return nil
	}
	if w > len(hashes) {
		w = len(hashes)
	}

	prints := make([]Fingerprint, 0, 2*len(hashes)/(w+1)+1)
	selected := -1
	for start := 0; start+w <= len(hashes); start++ {
		minIdx := start
		for j := start + 1; j < start+w; j++ {
			if hashes[j] <= hashes[minIdx] {
				minIdx = j
			}
		}
		if minIdx != selected {
			prints = append(prints, Fingerprint{Hash: hashes[minIdx], Pos: minIdx})
			selected = minIdx
		}
	}
	return prints
}
