package engine

import (
	"fmt"

	"github.com/standardbeagle/armoss/internal/config"
	"github.com/standardbeagle/armoss/internal/fingerprint"
	"github.com/standardbeagle/armoss/internal/lexer"
	"github.com/standardbeagle/armoss/internal/types"
)

// starterFileResult carries one starter file's fingerprint hashes to the
// fan-in union. Files fingerprint independently; only the union of hash
// values matters for subtraction.
type starterFileResult struct {
	hashes   []uint64
	warnings []types.Warning
}

// fingerprintStarterFile computes one starter file's winnowed hashes with
// the same parameters as student projects.
func fingerprintStarterFile(f types.SourceFile, tok lexer.Tokenizer, a config.Analysis) starterFileResult {
	tokens, warnings := tok.Tokenize(f.Path, f.Content)

	kinds := make([]types.TokenKind, len(tokens))
	for i, t := range tokens {
		kinds[i] = t.Kind
	}

	if len(kinds) < a.NoiseThreshold {
		warnings = append(warnings, types.Warning{
			File: f.Path,
			Message: fmt.Sprintf("starter file has %d tokens, fewer than the noise threshold %d",
				len(kinds), a.NoiseThreshold),
			Type: types.WarnFingerprint,
		})
		return starterFileResult{warnings: warnings}
	}

	prints := fingerprint.Winnow(fingerprint.KGrams(kinds, a.NoiseThreshold), a.WindowSize())
	hashes := make([]uint64, len(prints))
	for i, fp := range prints {
		hashes[i] = fp.Hash
	}
	return starterFileResult{hashes: hashes, warnings: warnings}
}

// subtractStarter removes every fingerprint whose hash appears in the
// starter union from a stream, in place. Two students independently keeping
// starter code verbatim produce these hashes and are correctly excluded.
func subtractStarter(s *stream, starterSet map[uint64]struct{}) {
	if len(starterSet) == 0 || len(s.prints) == 0 {
		return
	}
	kept := s.prints[:0]
	for _, fp := range s.prints {
		if _, ok := starterSet[fp.Hash]; !ok {
			kept = append(kept, fp)
		}
	}
	s.prints = kept
}
