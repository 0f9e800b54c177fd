package lexer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/armoss/internal/types"
)

func relativeTokens(t *testing.T, src string, maxOffset int) []types.Token {
	t.Helper()
	tok := &Relative{MaxOffset: maxOffset}
	tokens, warnings := tok.Tokenize("test.s", []byte(src))
	assert.Empty(t, warnings)
	return tokens
}

func kindsOf(tokens []types.Token) []types.TokenKind {
	kinds := make([]types.TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestRelativeRegisterRename(t *testing.T) {
	// Uniformly renaming r0 to r5 must produce an identical kind stream.
	a := relativeTokens(t, "mov r0,#1\nadd r0,r0,r0\n", 16)
	b := relativeTokens(t, "mov r5,#1\nadd r5,r5,r5\n", 16)

	assert.Equal(t, kindsOf(a), kindsOf(b))
}

func TestRelativeLabelRename(t *testing.T) {
	a := relativeTokens(t, "loop: subs r0, r0, #1\nbne loop\n", -1)
	b := relativeTokens(t, "my_loop: subs r3, r3, #1\nbne my_loop\n", -1)

	assert.Equal(t, kindsOf(a), kindsOf(b))
}

func TestRelativeDistances(t *testing.T) {
	// mov r0 , # 1 add r0 , r0 , r0
	//  0   1 2 3 4  5   6 7  8 9 10
	tokens := relativeTokens(t, "mov r0,#1\nadd r0,r0,r0\n", -1)
	require.Len(t, tokens, 11)

	assert.Equal(t, types.KindRefFirst, tokens[1].Kind, "first r0")
	assert.Equal(t, types.KindRefBase+5, tokens[6].Kind, "r0 five tokens after its last use")
	assert.Equal(t, types.KindRefBase+2, tokens[8].Kind)
	assert.Equal(t, types.KindRefBase+2, tokens[10].Kind)
}

func TestRelativeClamping(t *testing.T) {
	tokens := relativeTokens(t, "mov r0,#1\nadd r0,r0,r0\n", 3)

	assert.Equal(t, types.KindRefMax, tokens[1].Kind, "first occurrence clamps when a clamp is set")
	assert.Equal(t, types.KindRefMax, tokens[6].Kind, "distance 5 exceeds clamp 3")
	assert.Equal(t, types.KindRefBase+2, tokens[8].Kind, "distance 2 within clamp")
}

func TestRelativeDistinguishesStructure(t *testing.T) {
	// r0,r0 vs r0,r1 are structurally different and must not collapse
	a := relativeTokens(t, "add r0, r0, r0", -1)
	b := relativeTokens(t, "add r0, r1, r2", -1)
	assert.NotEqual(t, kindsOf(a), kindsOf(b))
}

func TestRelativeNonRenameableClassesMatchNaive(t *testing.T) {
	src := "start: mov r0, #42\n.word 7\nbne start\n"
	lexs, _ := scan([]byte(src))
	naive := naiveTokens(t, src)
	relative := relativeTokens(t, src, -1)

	require.Len(t, relative, len(naive))
	for i, lx := range lexs {
		if lx.class == clsRegister || lx.class == clsIdent {
			continue
		}
		assert.Equal(t, naive[i].Kind, relative[i].Kind,
			"non-renameable token %d should tokenize identically", i)
	}
}

func TestRelativeStatePerFile(t *testing.T) {
	// Back-references never reach across files: a fresh file starts fresh.
	first := relativeTokens(t, "mov r0, #1\n", -1)
	second := relativeTokens(t, "mov r0, #1\n", -1)
	assert.Equal(t, kindsOf(first), kindsOf(second))
	assert.Equal(t, types.KindRefFirst, second[1].Kind)
}

// TestRelativeZeroOffsetEqualsCollapsedNaive pins the wildcard equivalence:
// with max_token_offset 0 the relative stream equals the naive stream after
// collapsing every register and identifier kind into a single value.
func TestRelativeZeroOffsetEqualsCollapsedNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(8))

	mnems := []string{"mov", "add", "sub", "ldr", "str", "cmp"}
	regs := []string{"r0", "r1", "r2", "r7", "sp", "lr"}
	idents := []string{"loop", "done", "main", "helper"}

	for trial := 0; trial < 50; trial++ {
		var sb strings.Builder
		for line := 0; line < 5+rng.Intn(20); line++ {
			switch rng.Intn(4) {
			case 0:
				sb.WriteString(idents[rng.Intn(len(idents))] + ":\n")
			case 1:
				sb.WriteString("b " + idents[rng.Intn(len(idents))] + "\n")
			default:
				sb.WriteString(mnems[rng.Intn(len(mnems))] + " " +
					regs[rng.Intn(len(regs))] + ", " +
					regs[rng.Intn(len(regs))] + "\n")
			}
		}
		src := sb.String()

		lexs, _ := scan([]byte(src))
		naive := naiveTokens(t, src)
		relative := relativeTokens(t, src, 0)
		require.Len(t, relative, len(naive))

		for i, lx := range lexs {
			if lx.class == clsRegister || lx.class == clsIdent {
				assert.Equal(t, types.KindRefMax, relative[i].Kind,
					"token %d in %q", i, src)
			} else {
				assert.Equal(t, naive[i].Kind, relative[i].Kind)
			}
		}
	}
}
