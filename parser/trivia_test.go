package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiz-lang/wizc/token"
)

func renderAll(toks []token.Token) string {
	out := ""
	for _, t := range toks {
		out += t.Render()
	}
	return out
}

func TestRedistributeLineTrailingMovesSameLineCommentBack(t *testing.T) {
	// "x // why\ny" lexed naively puts "// why\n" entirely in y's leading
	// trivia; redistributeLineTrailing gives the comment to x's trailing
	// trivia instead, up to and including the newline that ends the line.
	toks := []token.Token{
		{Kind: token.Ident, Text: "x"},
		{
			Kind: token.Ident,
			Leading: token.Trivia{
				token.NewSpaces(1),
				token.NewLineComment("// why"),
				token.NewNewlines(1),
			},
			Text: "y",
		},
	}

	before := renderAll(toks)
	out := redistributeLineTrailing(toks)

	require.Len(t, out, 2)
	assert.Equal(t, " // why\n", out[0].Trailing.String())
	assert.Equal(t, "", out[1].Leading.String())
	assert.Equal(t, before, renderAll(out))
}

func TestRedistributeLineTrailingLeavesRemainderAsNextLeading(t *testing.T) {
	// Anything after the first newline in next's leading trivia (e.g. a
	// blank line, or indentation before the next token) stays put.
	toks := []token.Token{
		{Kind: token.Ident, Text: "x"},
		{
			Kind: token.Ident,
			Leading: token.Trivia{
				token.NewSpaces(1),
				token.NewLineComment("// why"),
				token.NewNewlines(1),
				token.NewTabs(1),
			},
			Text: "y",
		},
	}

	before := renderAll(toks)
	out := redistributeLineTrailing(toks)

	assert.Equal(t, " // why\n", out[0].Trailing.String())
	assert.Equal(t, "\t", out[1].Leading.String())
	assert.Equal(t, before, renderAll(out))
}

func TestRedistributeLineTrailingLeavesNoNewlineTriviaAlone(t *testing.T) {
	// No Newlines piece at all (e.g. "x y" on one line): nothing to
	// redistribute, next's leading trivia is untouched.
	toks := []token.Token{
		{Kind: token.Ident, Text: "x"},
		{Kind: token.Ident, Leading: token.Trivia{token.NewSpaces(1)}, Text: "y"},
	}

	out := redistributeLineTrailing(toks)
	assert.Equal(t, "", out[0].Trailing.String())
	assert.Equal(t, " ", out[1].Leading.String())
}

func TestRedistributeLineTrailingHandlesSingleToken(t *testing.T) {
	toks := []token.Token{{Kind: token.Ident, Text: "x"}}
	out := redistributeLineTrailing(toks)
	require.Len(t, out, 1)
	assert.Equal(t, "x", renderAll(out))
}
