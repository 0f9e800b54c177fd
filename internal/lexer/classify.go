package lexer

import "strings"

// registers maps every accepted register spelling to its number. Synonyms
// canonicalize so that sp and r13 share a kind, and so that the relative
// tokenizer links back-references across spellings.
var registers = map[string]int{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3,
	"r4": 4, "r5": 5, "r6": 6, "r7": 7,
	"r8": 8, "r9": 9, "r10": 10, "r11": 11,
	"r12": 12, "r13": 13, "r14": 14, "r15": 15,

	"sl": 10, "fp": 11, "ip": 12, "sp": 13, "lr": 14, "pc": 15,
	"sb": 9,

	// APCS argument/variable names
	"a1": 0, "a2": 1, "a3": 2, "a4": 3,
	"v1": 4, "v2": 5, "v3": 6, "v4": 7,
	"v5": 8, "v6": 9, "v7": 10, "v8": 11,
}

// mnemonics lists base ARMv7 instruction mnemonics, including the common
// load/store size and multiple-register addressing variants that GNU as
// spells as part of the word.
var mnemonics = map[string]struct{}{}

func init() {
	for _, m := range []string{
		// data processing
		"and", "eor", "sub", "rsb", "add", "adc", "sbc", "rsc",
		"tst", "teq", "cmp", "cmn", "orr", "mov", "bic", "mvn",
		"movw", "movt", "neg",
		// multiply
		"mul", "mla", "mls", "umull", "umlal", "smull", "smlal",
		// shifts
		"lsl", "lsr", "asr", "ror", "rrx",
		// load/store
		"ldr", "str", "ldrb", "strb", "ldrh", "strh",
		"ldrsb", "ldrsh", "ldrd", "strd",
		"ldm", "stm",
		"ldmia", "ldmib", "ldmda", "ldmdb", "ldmfd", "ldmed", "ldmfa", "ldmea",
		"stmia", "stmib", "stmda", "stmdb", "stmfd", "stmed", "stmfa", "stmea",
		"push", "pop", "swp", "swpb",
		// branch
		"b", "bl", "bx", "blx",
		// status and system
		"mrs", "msr", "svc", "swi", "bkpt", "nop",
		// bit twiddling and extension
		"clz", "rev", "rev16", "revsh", "sxtb", "sxth", "uxtb", "uxth",
		"ubfx", "sbfx", "bfi", "bfc",
		// common VFP subset
		"vadd", "vsub", "vmul", "vdiv", "vldr", "vstr", "vmov",
		"vpush", "vpop", "vcmp", "vcvt",
	} {
		mnemonics[m] = struct{}{}
	}
}

// conditions is the set of ARM condition-code suffixes.
var conditions = map[string]struct{}{
	"eq": {}, "ne": {}, "cs": {}, "hs": {}, "cc": {}, "lo": {},
	"mi": {}, "pl": {}, "vs": {}, "vc": {}, "hi": {}, "ls": {},
	"ge": {}, "lt": {}, "gt": {}, "le": {}, "al": {},
}

// isMnemonic reports whether a lowercased word is a mnemonic, allowing the
// flag suffix "s" and a condition suffix in either order (adds, addeq,
// addeqs, addseq).
func isMnemonic(w string) bool {
	if _, ok := mnemonics[w]; ok {
		return true
	}
	candidates := []string{w}
	if strings.HasSuffix(w, "s") && len(w) > 1 {
		candidates = append(candidates, w[:len(w)-1])
	}
	for _, base := range candidates {
		if _, ok := mnemonics[base]; ok {
			return true
		}
		if len(base) > 2 {
			if _, okc := conditions[base[len(base)-2:]]; okc {
				stripped := base[:len(base)-2]
				if _, ok := mnemonics[stripped]; ok {
					return true
				}
				if strings.HasSuffix(stripped, "s") && len(stripped) > 1 {
					if _, ok := mnemonics[stripped[:len(stripped)-1]]; ok {
						return true
					}
				}
			}
		}
	}
	return false
}

// classifyWord assigns a lexical class to a scanned word. labelled is true
// when the word is immediately followed by a colon, which forces the label
// (identifier) class: "b:" is a label even though "b" is a branch mnemonic.
func classifyWord(word string, labelled bool) lexeme {
	lower := strings.ToLower(word)

	if labelled {
		return lexeme{class: clsIdent, text: word}
	}

	if reg, ok := registers[lower]; ok {
		return lexeme{class: clsRegister, reg: reg}
	}

	if word[0] == '.' {
		// .L-prefixed words are local labels by GNU convention; they
		// rename with the code, so they classify as identifiers even in
		// operand position (b .Lloop).
		if strings.HasPrefix(word, ".L") {
			return lexeme{class: clsIdent, text: word}
		}
		return lexeme{class: clsDirective, text: lower}
	}

	if value, ok := parseNumber(lower); ok {
		return lexeme{class: clsNumber, value: value}
	}

	// Numeric local label references (1b, 2f)
	if isLocalLabelRef(lower) {
		return lexeme{class: clsIdent, text: lower}
	}

	if isMnemonic(lower) {
		return lexeme{class: clsMnemonic, text: lower}
	}

	if isIdentWord(word) {
		return lexeme{class: clsIdent, text: word}
	}

	return lexeme{class: clsUnknown}
}

// parseNumber parses decimal, hex (0x), binary (0b) and octal (leading 0)
// literals. Values accumulate modulo 2^64, which is enough for kind interning.
func parseNumber(w string) (uint64, bool) {
	if w == "" {
		return 0, false
	}

	base := uint64(10)
	digits := w
	switch {
	case strings.HasPrefix(w, "0x"):
		base, digits = 16, w[2:]
	case strings.HasPrefix(w, "0b"):
		base, digits = 2, w[2:]
	case len(w) > 1 && w[0] == '0':
		base, digits = 8, w[1:]
	}
	if digits == "" {
		return 0, false
	}

	var value uint64
	for i := 0; i < len(digits); i++ {
		d, ok := digitValue(digits[i])
		if !ok || uint64(d) >= base {
			return 0, false
		}
		value = value*base + uint64(d)
	}
	return value, true
}

func digitValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	default:
		return 0, false
	}
}

func isLocalLabelRef(w string) bool {
	if len(w) < 2 {
		return false
	}
	last := w[len(w)-1]
	if last != 'b' && last != 'f' {
		return false
	}
	for i := 0; i < len(w)-1; i++ {
		if w[i] < '0' || w[i] > '9' {
			return false
		}
	}
	return true
}

func isIdentWord(w string) bool {
	if w == "" {
		return false
	}
	c := w[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '.' || c == '$') {
		return false
	}
	for i := 1; i < len(w); i++ {
		if !isWordByte(w[i]) {
			return false
		}
	}
	return true
}
