package engine

import "sort"

// run is a maximal aligned range of agreeing k-grams between two streams.
// length counts k-grams; the covered token range is length+k-1 tokens long
// on each side.
type run struct {
	aStart, bStart int
	length         int
}

func (r run) tokenLen(k int) int {
	return r.length + k - 1
}

// matchPair extends every seed of one project pair into maximal runs,
// verifies them, and resolves overlaps. Extension walks the full k-gram
// hash sequences (not only winnowed positions) and stops at project
// boundaries; file boundaries inside a project are crossed freely and dealt
// with at reporting time.
func matchPair(a, b *stream, seeds []seed, k int) []run {
	unique := make(map[run]struct{}, len(seeds))

	for _, sd := range seeds {
		pa, pb := int(sd.posA), int(sd.posB)
		if pa >= len(a.grams) || pb >= len(b.grams) || a.grams[pa] != b.grams[pb] {
			continue
		}

		for pa > 0 && pb > 0 && a.grams[pa-1] == b.grams[pb-1] {
			pa--
			pb--
		}
		ea, eb := int(sd.posA), int(sd.posB)
		for ea+1 < len(a.grams) && eb+1 < len(b.grams) && a.grams[ea+1] == b.grams[eb+1] {
			ea++
			eb++
		}

		r := run{aStart: pa, bStart: pb, length: ea - pa + 1}
		if !kindsEqual(a, b, r, k) {
			// hash collision that does not survive the equality check
			continue
		}
		unique[r] = struct{}{}
	}

	runs := make([]run, 0, len(unique))
	for r := range unique {
		runs = append(runs, r)
	}
	return resolveOverlaps(runs, k)
}

// kindsEqual verifies that the token-kind sequences underlying a run are
// exactly equal on both sides.
func kindsEqual(a, b *stream, r run, k int) bool {
	n := r.tokenLen(k)
	for i := 0; i < n; i++ {
		if a.kinds[r.aStart+i] != b.kinds[r.bStart+i] {
			return false
		}
	}
	return true
}

// resolveOverlaps keeps a non-overlapping subset of runs: longer runs win,
// ties go to the earlier start in project 1, then project 2. Overlap on
// either side disqualifies a run.
func resolveOverlaps(runs []run, k int) []run {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].length != runs[j].length {
			return runs[i].length > runs[j].length
		}
		if runs[i].aStart != runs[j].aStart {
			return runs[i].aStart < runs[j].aStart
		}
		return runs[i].bStart < runs[j].bStart
	})

	var kept []run
	for _, r := range runs {
		conflict := false
		for _, o := range kept {
			if intervalsOverlap(r.aStart, r.aStart+r.tokenLen(k), o.aStart, o.aStart+o.tokenLen(k)) ||
				intervalsOverlap(r.bStart, r.bStart+r.tokenLen(k), o.bStart, o.bStart+o.tokenLen(k)) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, r)
		}
	}
	return kept
}

func intervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
