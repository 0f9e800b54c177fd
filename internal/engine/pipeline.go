package engine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/armoss/internal/config"
	"github.com/standardbeagle/armoss/internal/lexer"
	"github.com/standardbeagle/armoss/internal/types"
)

// Run executes the whole similarity pipeline: tokenize and fingerprint every
// project and starter file in parallel, subtract starter hashes, build the
// inverted index, extend collisions pairwise, and assemble the report.
//
// The report is deterministic for identical inputs and configuration
// regardless of input order or scheduling: projects are name-sorted up
// front, workers write into pre-sized slots, and every observable ordering
// is established by an explicit sort before output.
func Run(ctx context.Context, cfg *config.Config, projects []types.Project, starter []types.SourceFile) (*types.Report, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	tok, err := lexer.New(cfg.Analysis.Tokenizer, cfg.Analysis.MaxTokenOffset)
	if err != nil {
		return nil, err
	}

	a := cfg.Analysis
	k := a.NoiseThreshold

	sorted := append([]types.Project{}, projects...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	// Stage 1: fingerprint projects and starter files. Each task is a pure
	// function of its input; results land in per-task slots.
	streams := make([]*stream, len(sorted))
	streamWarnings := make([][]types.Warning, len(sorted))
	starterResults := make([]starterFileResult, len(starter))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Performance.EffectiveWorkers())
	for i := range sorted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			streams[i], streamWarnings[i] = buildStream(int32(i), sorted[i], tok, a)
			return nil
		})
	}
	for i := range starter {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			starterResults[i] = fingerprintStarterFile(starter[i], tok, a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var warnings []types.Warning
	for _, w := range streamWarnings {
		warnings = append(warnings, w...)
	}

	// Barrier: the starter set is immutable from here on.
	starterSet := make(map[uint64]struct{})
	for _, res := range starterResults {
		warnings = append(warnings, res.warnings...)
		for _, h := range res.hashes {
			starterSet[h] = struct{}{}
		}
	}
	for _, s := range streams {
		subtractStarter(s, starterSet)
	}

	// Barrier: all fingerprints are final before the index is built, and
	// the index is complete before pair enumeration.
	idx := buildIndex(streams)
	seeds, seedWarnings := collectSeeds(idx, config.MaxPostingListLen)
	warnings = append(warnings, seedWarnings...)

	keys := make([]pairKey, 0, len(seeds))
	for key := range seeds {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].a != keys[j].a {
			return keys[i].a < keys[j].a
		}
		return keys[i].b < keys[j].b
	})

	// Stage 2: extend each pair's seeds in parallel.
	results := make([]*pairResult, len(keys))
	g2, g2ctx := errgroup.WithContext(ctx)
	g2.SetLimit(cfg.Performance.EffectiveWorkers())
	for i, key := range keys {
		g2.Go(func() error {
			if err := g2ctx.Err(); err != nil {
				return err
			}
			sa, sb := streams[key.a], streams[key.b]
			runs := matchPair(sa, sb, seeds[key], k)
			if len(runs) > 0 {
				results[i] = &pairResult{a: sa, b: sb, runs: runs}
			}
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}

	// Barrier: all extensions complete before assembly.
	kept := results[:0]
	for _, res := range results {
		if res != nil {
			kept = append(kept, res)
		}
	}
	return assembleReport(kept, warnings, k), nil
}
