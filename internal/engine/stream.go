// Package engine implements the similarity pipeline: per-project token
// streams, winnowed fingerprints, starter-code subtraction, the inverted
// index, pairwise match extension and report assembly.
package engine

import (
	"fmt"
	"sort"

	"github.com/standardbeagle/armoss/internal/config"
	"github.com/standardbeagle/armoss/internal/fingerprint"
	"github.com/standardbeagle/armoss/internal/lexer"
	"github.com/standardbeagle/armoss/internal/types"
)

// tokenOrigin maps one logical token index back to its source file and byte
// range. The mapping is total and injective over a stream.
type tokenOrigin struct {
	file int32
	span types.Span
}

// stream is a project's logical token stream: the concatenation of its
// files' token sequences in path order, plus everything the matcher needs
// afterwards. Token buffers are dropped once kinds and origins are built.
type stream struct {
	id    int32
	name  string
	files []string

	kinds   []types.TokenKind
	origins []tokenOrigin

	grams  []uint64 // rolling hash of every k-gram, for match extension
	prints []fingerprint.Fingerprint
}

// buildStream tokenizes and fingerprints one project. Pure function of its
// inputs; safe to run on any worker.
func buildStream(id int32, proj types.Project, tok lexer.Tokenizer, a config.Analysis) (*stream, []types.Warning) {
	files := append([]types.SourceFile{}, proj.Files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	s := &stream{id: id, name: proj.Name}
	var warnings []types.Warning

	for _, f := range files {
		tokens, fileWarnings := tok.Tokenize(f.Path, f.Content)
		warnings = append(warnings, fileWarnings...)

		fileIdx := int32(len(s.files))
		s.files = append(s.files, f.Path)
		for _, t := range tokens {
			s.kinds = append(s.kinds, t.Kind)
			s.origins = append(s.origins, tokenOrigin{file: fileIdx, span: t.Span})
		}
	}

	if len(s.kinds) < a.NoiseThreshold {
		warnings = append(warnings, types.Warning{
			Message: fmt.Sprintf("project %q has %d tokens, fewer than the noise threshold %d; it contributes no fingerprints",
				proj.Name, len(s.kinds), a.NoiseThreshold),
			Type: types.WarnFingerprint,
		})
		return s, warnings
	}

	s.grams = fingerprint.KGrams(s.kinds, a.NoiseThreshold)
	s.prints = fingerprint.Winnow(s.grams, a.WindowSize())
	return s, warnings
}

// fileAt returns the file index owning logical token position t.
func (s *stream) fileAt(t int) int32 {
	return s.origins[t].file
}

// tokenCount is the logical stream length.
func (s *stream) tokenCount() int {
	return len(s.kinds)
}
