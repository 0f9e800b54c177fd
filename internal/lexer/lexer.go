// Package lexer turns raw ARMv7 GNU-assembler source into token streams.
//
// Two interchangeable tokenizers share one byte scanner. The naive tokenizer
// keys every lexeme to a stable kind; the relative tokenizer replaces
// registers and identifiers with back-reference distances so that uniform
// renames (r4 -> r7, loop -> my_loop) produce identical streams.
package lexer

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/armoss/internal/types"
)

// Tokenizer converts one file's bytes into an ordered token sequence.
// Tokenization never fails; anomalies surface as warnings.
type Tokenizer interface {
	Tokenize(path string, src []byte) ([]types.Token, []types.Warning)
}

// New selects a tokenizer by mode name. maxOffset only affects the relative
// tokenizer: -1 disables clamping, values >= 0 clamp back-references.
func New(mode string, maxOffset int) (Tokenizer, error) {
	switch mode {
	case "naive":
		return &Naive{}, nil
	case "relative":
		return &Relative{MaxOffset: maxOffset}, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", mode)
	}
}

// class is the internal lexical class of a scanned lexeme. The tokenizers
// map classes to kinds; the scanner never decides kinds for interned text.
type class uint8

const (
	clsPunct class = iota
	clsRegister
	clsIdent
	clsMnemonic
	clsDirective
	clsNumber
	clsString
	clsUnknown
)

type lexeme struct {
	class class
	span  types.Span
	punct types.TokenKind // clsPunct only
	reg   int             // clsRegister only: canonical register number
	text  string          // clsIdent/clsMnemonic/clsDirective: normalized text
	value uint64          // clsNumber only: parsed value
}

// hashedKind derives a stable kind for an interned lexeme. The namespace
// keeps identifier, mnemonic and directive spaces disjoint; the high bit
// keeps hashed kinds clear of the fixed constants in types. Deriving kinds
// by hashing means parallel tokenization needs no shared intern table and
// two runs over the same input always agree.
func hashedKind(namespace, text string) types.TokenKind {
	var d xxhash.Digest
	d.Reset()
	_, _ = d.WriteString(namespace)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(text)
	return types.TokenKind(d.Sum64() | 1<<63)
}

// naiveKind maps a lexeme to its kind under the naive tokenizer.
func (lx *lexeme) naiveKind() types.TokenKind {
	switch lx.class {
	case clsPunct:
		return lx.punct
	case clsRegister:
		return types.RegisterKind(lx.reg)
	case clsNumber:
		return hashedKind("num", fmt.Sprintf("%d", lx.value))
	case clsString:
		return types.KindString
	case clsIdent:
		return hashedKind("id", lx.text)
	case clsMnemonic:
		return hashedKind("op", lx.text)
	case clsDirective:
		return hashedKind("dir", lx.text)
	default:
		return types.KindUnknown
	}
}

// scanFile runs the scanner and converts its anomalies into warnings.
func scanFile(path string, src []byte) ([]lexeme, []types.Warning) {
	lexs, issues := scan(src)

	var warnings []types.Warning
	for _, msg := range issues {
		warnings = append(warnings, types.Warning{
			File:    path,
			Message: msg,
			Type:    types.WarnTokenization,
		})
	}
	return lexs, warnings
}

// Naive assigns every lexeme a kind from its literal syntactic class: each
// register its own kind, each distinct identifier/mnemonic/directive its own
// stable kind, numeric literals interned per value, all strings one kind.
type Naive struct{}

func (n *Naive) Tokenize(path string, src []byte) ([]types.Token, []types.Warning) {
	lexs, warnings := scanFile(path, src)

	tokens := make([]types.Token, len(lexs))
	for i := range lexs {
		tokens[i] = types.Token{Kind: lexs[i].naiveKind(), Span: lexs[i].span}
	}
	return tokens, warnings
}

// Relative replaces register and identifier tokens with back-reference
// distances: the number of tokens since the same concrete lexeme last
// appeared in this file's stream. First occurrences use a sentinel kind.
// When MaxOffset >= 0, any distance beyond it (first occurrences included)
// collapses into the shared MAX kind; MaxOffset 0 therefore collapses every
// register and identifier into one wildcard. All other classes tokenize as
// the naive variant does.
type Relative struct {
	MaxOffset int
}

func (r *Relative) Tokenize(path string, src []byte) ([]types.Token, []types.Warning) {
	lexs, warnings := scanFile(path, src)

	tokens := make([]types.Token, len(lexs))
	last := make(map[types.TokenKind]int)
	for i := range lexs {
		lx := &lexs[i]
		if lx.class != clsRegister && lx.class != clsIdent {
			tokens[i] = types.Token{Kind: lx.naiveKind(), Span: lx.span}
			continue
		}

		key := lx.naiveKind()
		prev, seen := last[key]
		last[key] = i

		var kind types.TokenKind
		switch {
		case !seen && r.MaxOffset >= 0:
			kind = types.KindRefMax
		case !seen:
			kind = types.KindRefFirst
		default:
			distance := i - prev
			if r.MaxOffset >= 0 && distance > r.MaxOffset {
				kind = types.KindRefMax
			} else {
				kind = types.KindRefBase + types.TokenKind(distance)
			}
		}
		tokens[i] = types.Token{Kind: kind, Span: lx.span}
	}
	return tokens, warnings
}
