package lexer

import (
	"fmt"

	"github.com/standardbeagle/armoss/internal/types"
)

// punctKinds maps single-character operators and separators to fixed kinds.
var punctKinds = map[byte]types.TokenKind{
	',': types.KindComma,
	'[': types.KindLBracket,
	']': types.KindRBracket,
	'{': types.KindLBrace,
	'}': types.KindRBrace,
	'#': types.KindHash,
	'!': types.KindBang,
	':': types.KindColon,
	'+': types.KindPlus,
	'-': types.KindMinus,
	'*': types.KindStar,
	'/': types.KindSlash,
	'(': types.KindLParen,
	')': types.KindRParen,
	'=': types.KindEquals,
	'&': types.KindAmp,
	'|': types.KindPipe,
	'^': types.KindCaret,
	'<': types.KindLess,
	'>': types.KindGreater,
	'~': types.KindTilde,
	'%': types.KindPercent,
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f'
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '.' || c == '$'
}

// scan converts source bytes into lexemes. Whitespace and comments (@ and ;
// to end of line, // to end of line, /* ... */) emit nothing. Unclassifiable
// byte runs become a single clsUnknown lexeme and an issue message; scanning
// always reaches end of input.
func scan(src []byte) ([]lexeme, []string) {
	var (
		lexs   []lexeme
		issues []string
	)

	i := 0
	n := len(src)
	for i < n {
		c := src[i]

		switch {
		case isSpace(c):
			i++

		case c == '@' || c == ';':
			for i < n && src[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < n && src[i+1] == '*':
			start := i
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			if i+1 < n {
				i += 2
			} else {
				i = n
				issues = append(issues, fmt.Sprintf("unterminated block comment at byte %d", start))
			}

		case c == '"':
			start := i
			i++
			terminated := false
			for i < n {
				if src[i] == '\\' && i+1 < n {
					i += 2
					continue
				}
				if src[i] == '"' {
					i++
					terminated = true
					break
				}
				i++
			}
			if !terminated {
				issues = append(issues, fmt.Sprintf("unterminated string literal at byte %d", start))
			}
			lexs = append(lexs, lexeme{
				class: clsString,
				span:  types.Span{Start: uint64(start), End: uint64(i)},
			})

		case c == '\'':
			start := i
			i++
			var value uint64
			if i < n && src[i] == '\\' && i+1 < n {
				value = uint64(unescape(src[i+1]))
				i += 2
			} else if i < n {
				value = uint64(src[i])
				i++
			}
			// GNU as accepts both 'a and 'a'
			if i < n && src[i] == '\'' {
				i++
			}
			lexs = append(lexs, lexeme{
				class: clsNumber,
				span:  types.Span{Start: uint64(start), End: uint64(i)},
				value: value,
			})

		case isWordByte(c):
			start := i
			for i < n && isWordByte(src[i]) {
				i++
			}
			word := string(src[start:i])
			labelled := i < n && src[i] == ':'
			lx := classifyWord(word, labelled)
			lx.span = types.Span{Start: uint64(start), End: uint64(i)}
			if lx.class == clsUnknown {
				issues = append(issues, fmt.Sprintf("unclassifiable lexeme %q at byte %d", word, start))
			}
			lexs = append(lexs, lx)

		default:
			if kind, ok := punctKinds[c]; ok {
				lexs = append(lexs, lexeme{
					class: clsPunct,
					punct: kind,
					span:  types.Span{Start: uint64(i), End: uint64(i + 1)},
				})
				i++
				break
			}
			// Unknown byte run: swallow until something recognizable
			start := i
			for i < n && !isSpace(src[i]) && !isWordByte(src[i]) {
				if _, ok := punctKinds[src[i]]; ok {
					break
				}
				if src[i] == '@' || src[i] == ';' || src[i] == '"' || src[i] == '\'' {
					break
				}
				i++
			}
			lexs = append(lexs, lexeme{
				class: clsUnknown,
				span:  types.Span{Start: uint64(start), End: uint64(i)},
			})
			issues = append(issues, fmt.Sprintf("unclassifiable input at byte %d", start))
		}
	}

	return lexs, issues
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	default:
		return c
	}
}
