package engine

import (
	"fmt"

	"github.com/standardbeagle/armoss/internal/types"
)

// posting is one fingerprint occurrence: which project, and the logical
// token position of the k-gram's first token.
type posting struct {
	project int32
	pos     int32
}

// invertedIndex maps fingerprint hashes to their occurrences across all
// student projects. Built once after every fingerprint set is final, then
// read-only.
type invertedIndex struct {
	postings map[uint64][]posting
}

// buildIndex inserts every surviving fingerprint from every stream. Streams
// arrive sorted by project name, so posting lists are ordered by project id
// and then by position without further sorting.
func buildIndex(streams []*stream) *invertedIndex {
	total := 0
	for _, s := range streams {
		total += len(s.prints)
	}

	idx := &invertedIndex{postings: make(map[uint64][]posting, total)}
	for _, s := range streams {
		for _, fp := range s.prints {
			idx.postings[fp.Hash] = append(idx.postings[fp.Hash], posting{
				project: s.id,
				pos:     int32(fp.Pos),
			})
		}
	}
	return idx
}

// pairKey identifies an unordered project pair; a < b always holds, which
// with name-sorted ids makes project1 lexicographically smaller.
type pairKey struct {
	a, b int32
}

// seed is a raw fingerprint collision between the pair's two streams, at
// k-gram position granularity.
type seed struct {
	posA, posB int32
}

// collectSeeds enumerates all cross-project collisions. Hashes occurring in
// only one project contribute nothing; hashes whose posting list exceeds
// maxPostings are skipped with a warning to bound worst-case memory.
func collectSeeds(idx *invertedIndex, maxPostings int) (map[pairKey][]seed, []types.Warning) {
	seeds := make(map[pairKey][]seed)
	var warnings []types.Warning

	for hash, posts := range idx.postings {
		if len(posts) < 2 {
			continue
		}
		if len(posts) > maxPostings {
			warnings = append(warnings, types.Warning{
				Message: fmt.Sprintf("fingerprint %016x occurs %d times (limit %d); skipped during matching",
					hash, len(posts), maxPostings),
				Type: types.WarnFingerprint,
			})
			continue
		}

		multiProject := false
		for i := 1; i < len(posts); i++ {
			if posts[i].project != posts[0].project {
				multiProject = true
				break
			}
		}
		if !multiProject {
			continue
		}

		for i := 0; i < len(posts); i++ {
			for j := i + 1; j < len(posts); j++ {
				if posts[i].project == posts[j].project {
					continue
				}
				key := pairKey{a: posts[i].project, b: posts[j].project}
				sd := seed{posA: posts[i].pos, posB: posts[j].pos}
				if key.a > key.b {
					key.a, key.b = key.b, key.a
					sd.posA, sd.posB = sd.posB, sd.posA
				}
				seeds[key] = append(seeds[key], sd)
			}
		}
	}

	return seeds, warnings
}
