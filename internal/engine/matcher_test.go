package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/armoss/internal/config"
	"github.com/standardbeagle/armoss/internal/lexer"
	"github.com/standardbeagle/armoss/internal/types"
)

func analysisConfig(tokenizer string, k, t, maxOffset int) config.Analysis {
	return config.Analysis{
		Tokenizer:          tokenizer,
		NoiseThreshold:     k,
		GuaranteeThreshold: t,
		MaxTokenOffset:     maxOffset,
	}
}

func testStream(t *testing.T, id int32, name string, a config.Analysis, files ...types.SourceFile) *stream {
	t.Helper()
	tok, err := lexer.New(a.Tokenizer, a.MaxTokenOffset)
	require.NoError(t, err)
	s, _ := buildStream(id, types.Project{Name: name, Files: files}, tok, a)
	return s
}

func TestBuildStreamConcatenatesInPathOrder(t *testing.T) {
	a := analysisConfig(config.TokenizerNaive, 2, 3, -1)
	s := testStream(t, 0, "alice", a,
		types.SourceFile{Path: "alice/z.s", Content: []byte("bx lr\n")},
		types.SourceFile{Path: "alice/a.s", Content: []byte("mov r0, #1\n")},
	)

	require.Equal(t, []string{"alice/a.s", "alice/z.s"}, s.files)
	require.Equal(t, 7, s.tokenCount())
	assert.Equal(t, int32(0), s.fileAt(0))
	assert.Equal(t, int32(1), s.fileAt(5), "bx belongs to z.s")

	// origin mapping is total and strictly ordered within each file
	for i := 1; i < s.tokenCount(); i++ {
		if s.origins[i].file == s.origins[i-1].file {
			assert.Greater(t, s.origins[i].span.Start, s.origins[i-1].span.Start)
		}
	}
}

func TestBuildStreamTooFewTokens(t *testing.T) {
	a := analysisConfig(config.TokenizerNaive, 10, 12, -1)
	tok, err := lexer.New(a.Tokenizer, a.MaxTokenOffset)
	require.NoError(t, err)

	s, warnings := buildStream(0, types.Project{
		Name:  "tiny",
		Files: []types.SourceFile{{Path: "tiny/a.s", Content: []byte("nop\n")}},
	}, tok, a)

	assert.Empty(t, s.prints)
	require.NotEmpty(t, warnings)
	assert.Equal(t, types.WarnFingerprint, warnings[0].Type)
}

func TestSubtractStarter(t *testing.T) {
	a := analysisConfig(config.TokenizerNaive, 2, 2, -1)
	s := testStream(t, 0, "alice", a,
		types.SourceFile{Path: "alice/a.s", Content: []byte("add r1, r2, r3\n")})
	require.NotEmpty(t, s.prints)

	set := make(map[uint64]struct{})
	for _, fp := range s.prints {
		set[fp.Hash] = struct{}{}
	}
	subtractStarter(s, set)
	assert.Empty(t, s.prints, "all fingerprints were in the starter set")
}

func TestCollectSeedsSkipsIntraProject(t *testing.T) {
	idx := &invertedIndex{postings: map[uint64][]posting{
		1: {{project: 0, pos: 3}, {project: 0, pos: 9}},
		2: {{project: 0, pos: 1}, {project: 1, pos: 4}},
	}}

	seeds, warnings := collectSeeds(idx, 100)
	assert.Empty(t, warnings)
	require.Len(t, seeds, 1)
	got := seeds[pairKey{a: 0, b: 1}]
	require.Len(t, got, 1)
	assert.Equal(t, seed{posA: 1, posB: 4}, got[0])
}

func TestCollectSeedsOrientsPairs(t *testing.T) {
	// postings arriving with the higher project id first still produce
	// seeds oriented as (lower, higher)
	idx := &invertedIndex{postings: map[uint64][]posting{
		7: {{project: 2, pos: 5}, {project: 1, pos: 8}},
	}}

	seeds, _ := collectSeeds(idx, 100)
	got, ok := seeds[pairKey{a: 1, b: 2}]
	require.True(t, ok)
	assert.Equal(t, seed{posA: 8, posB: 5}, got[0])
}

func TestCollectSeedsPostingLimit(t *testing.T) {
	idx := &invertedIndex{postings: map[uint64][]posting{
		1: {{project: 0, pos: 0}, {project: 1, pos: 0}, {project: 2, pos: 0}},
	}}

	seeds, warnings := collectSeeds(idx, 2)
	assert.Empty(t, seeds)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.WarnFingerprint, warnings[0].Type)
}

func TestMatchPairExtendsToMaximalRun(t *testing.T) {
	a := analysisConfig(config.TokenizerNaive, 2, 3, -1)
	sa := testStream(t, 0, "alice", a,
		types.SourceFile{Path: "alice/a.s", Content: []byte("mov r0, #1\nbx lr\n")})
	sb := testStream(t, 1, "bob", a,
		types.SourceFile{Path: "bob/b.s", Content: []byte("mov r0, #1\nbx lr\n")})

	// seed in the middle; extension must reach both ends
	runs := matchPair(sa, sb, []seed{{posA: 3, posB: 3}}, a.NoiseThreshold)
	require.Len(t, runs, 1)
	assert.Equal(t, run{aStart: 0, bStart: 0, length: len(sa.grams)}, runs[0])
}

func TestMatchPairDropsHashCollisions(t *testing.T) {
	// Hand-built streams with colliding gram hashes but unequal kinds
	sa := &stream{id: 0, name: "a", kinds: []types.TokenKind{1, 2, 3}, grams: []uint64{9, 9}}
	sb := &stream{id: 1, name: "b", kinds: []types.TokenKind{1, 4, 3}, grams: []uint64{9, 9}}

	runs := matchPair(sa, sb, []seed{{posA: 0, posB: 0}}, 2)
	assert.Empty(t, runs, "collision seeds that fail kind verification are dropped")
}

func TestMatchPairCollapsesAdjacentSeeds(t *testing.T) {
	a := analysisConfig(config.TokenizerNaive, 2, 3, -1)
	src := []byte("add r1, r2, r3\nsub r4, r5, r6\n")
	sa := testStream(t, 0, "alice", a, types.SourceFile{Path: "alice/a.s", Content: src})
	sb := testStream(t, 1, "bob", a, types.SourceFile{Path: "bob/b.s", Content: src})

	// several seeds inside the same aligned region collapse into one run
	runs := matchPair(sa, sb, []seed{
		{posA: 0, posB: 0},
		{posA: 4, posB: 4},
		{posA: 8, posB: 8},
	}, a.NoiseThreshold)
	require.Len(t, runs, 1)
}

func TestResolveOverlapsKeepsLonger(t *testing.T) {
	runs := resolveOverlaps([]run{
		{aStart: 0, bStart: 0, length: 3},
		{aStart: 1, bStart: 1, length: 8},
	}, 2)

	require.Len(t, runs, 1)
	assert.Equal(t, 8, runs[0].length)
}

func TestResolveOverlapsTieEarlierStart(t *testing.T) {
	kept := resolveOverlaps([]run{
		{aStart: 4, bStart: 0, length: 5},
		{aStart: 0, bStart: 2, length: 5},
	}, 3)

	require.NotEmpty(t, kept)
	assert.Equal(t, 0, kept[0].aStart, "equal lengths resolve to the earlier project-1 start")
}

func TestResolveOverlapsDisjointRunsAllKept(t *testing.T) {
	runs := resolveOverlaps([]run{
		{aStart: 0, bStart: 0, length: 3},
		{aStart: 20, bStart: 20, length: 3},
	}, 2)
	assert.Len(t, runs, 2)
}
