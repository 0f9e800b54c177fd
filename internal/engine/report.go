package engine

import (
	"sort"

	"github.com/standardbeagle/armoss/internal/types"
)

// pairResult is one project pair's resolved runs before back-translation.
type pairResult struct {
	a, b *stream
	runs []run
}

// totalTokens is the pair's score: the sum of matched token counts over its
// maximal runs (counted before per-file splitting, so straddling runs are
// not double-counted).
func (p *pairResult) totalTokens(k int) int {
	total := 0
	for _, r := range p.runs {
		total += r.tokenLen(k)
	}
	return total
}

// matchEntry is a split match plus its token length, kept for ordering.
type matchEntry struct {
	match    types.Match
	tokenLen int
}

// splitRun back-translates one run into match entries, splitting wherever
// either side crosses a file boundary so that every location lies within a
// single file. Sub-runs stay paired by token alignment; a location's span
// runs from its first token's start to its last token's end.
func splitRun(a, b *stream, r run, k int) []matchEntry {
	n := r.tokenLen(k)

	var entries []matchEntry
	segStart := 0
	for off := 1; off <= n; off++ {
		boundary := off == n ||
			a.fileAt(r.aStart+off) != a.fileAt(r.aStart+off-1) ||
			b.fileAt(r.bStart+off) != b.fileAt(r.bStart+off-1)
		if !boundary {
			continue
		}

		aFirst, aLast := r.aStart+segStart, r.aStart+off-1
		bFirst, bLast := r.bStart+segStart, r.bStart+off-1
		entries = append(entries, matchEntry{
			tokenLen: off - segStart,
			match: types.Match{
				Project1Location: types.Location{
					File: a.files[a.fileAt(aFirst)],
					Span: types.Span{
						Start: a.origins[aFirst].span.Start,
						End:   a.origins[aLast].span.End,
					},
				},
				Project2Location: types.Location{
					File: b.files[b.fileAt(bFirst)],
					Span: types.Span{
						Start: b.origins[bFirst].span.Start,
						End:   b.origins[bLast].span.End,
					},
				},
			},
		})
		segStart = off
	}
	return entries
}

// assembleReport orders everything for deterministic output: pairs by total
// matched tokens descending then by name, matches within a pair by length
// descending then project-1 file then span start, warnings by type, file
// and message.
func assembleReport(results []*pairResult, warnings []types.Warning, k int) *types.Report {
	sort.Slice(results, func(i, j int) bool {
		ti, tj := results[i].totalTokens(k), results[j].totalTokens(k)
		if ti != tj {
			return ti > tj
		}
		if results[i].a.name != results[j].a.name {
			return results[i].a.name < results[j].a.name
		}
		return results[i].b.name < results[j].b.name
	})

	pairs := make([]types.ProjectPair, 0, len(results))
	for _, res := range results {
		var entries []matchEntry
		for _, r := range res.runs {
			entries = append(entries, splitRun(res.a, res.b, r, k)...)
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].tokenLen != entries[j].tokenLen {
				return entries[i].tokenLen > entries[j].tokenLen
			}
			li, lj := entries[i].match.Project1Location, entries[j].match.Project1Location
			if li.File != lj.File {
				return li.File < lj.File
			}
			return li.Span.Start < lj.Span.Start
		})

		matches := make([]types.Match, len(entries))
		for i, e := range entries {
			matches[i] = e.match
		}
		pairs = append(pairs, types.ProjectPair{
			Project1: res.a.name,
			Project2: res.b.name,
			Matches:  matches,
		})
	}

	sorted := append([]types.Warning{}, warnings...)
	types.SortWarnings(sorted)

	return &types.Report{
		Warnings:     sorted,
		ProjectPairs: pairs,
	}
}
