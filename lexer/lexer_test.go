package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiz-lang/wizc/token"
)

// render reproduces the exact source bytes a token stream was scanned
// from, the same invariant the parser leans on for its own round-trip
// property: leading trivia, text, and (once attached) trailing trivia of
// every token must sum back to the input.
func render(toks []token.Token) string {
	out := ""
	for _, t := range toks {
		out += t.Render()
	}
	return out
}

func TestTokenizeRoundTripsArbitraryWhitespaceAndComments(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"only whitespace", "   \t\n\n  "},
		{"line comment", "x // trailing\ny"},
		{"doc line comment", "/// doc\nfun"},
		{"quadruple slash is not a doc comment", "//// not doc\nfun"},
		{"block comment", "x /* inner */ y"},
		{"doc block comment", "/** doc */ fun"},
		{"triple star block comment is not a doc comment", "/*** not doc */ fun"},
		{"crlf line endings", "x\r\ny\r\n"},
		{"shebang", "#!/usr/bin/env wiz\nfun main() {}\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := New("t.wiz", []byte(tc.src)).Tokenize()
			require.NoError(t, err)
			assert.Equal(t, tc.src, render(toks))
		})
	}
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	toks, err := New("t.wiz", []byte("x")).Tokenize()
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}

func TestTokenizeNumberLiterals(t *testing.T) {
	for _, tc := range []struct {
		src  string
		kind token.Kind
	}{
		{"123", token.IntLiteral},
		{"0x1F", token.IntLiteral},
		{"0o17", token.IntLiteral},
		{"0b101", token.IntLiteral},
		{"3.14", token.FloatLiteral},
		{"1e10", token.FloatLiteral},
		{"1.5e-3", token.FloatLiteral},
	} {
		t.Run(tc.src, func(t *testing.T) {
			toks, err := New("t.wiz", []byte(tc.src)).Tokenize()
			require.NoError(t, err)
			require.NotEmpty(t, toks)
			assert.Equal(t, tc.kind, toks[0].Kind)
			assert.Equal(t, tc.src, toks[0].Text)
		})
	}
}

func TestTokenizeBinOpCandidatesAreSingleCharTokens(t *testing.T) {
	// "||" and "&&" are not lexed as compound operators: each "|" or "&" is
	// its own BinOpCandidate token, and the parser fuses adjacent pairs
	// itself (see cursor.combine2/eat2). A lambda's leading "|" relies on
	// this: it must arrive as one standalone token, not half of a fused
	// "||" the lexer already welded shut.
	toks, err := New("t.wiz", []byte("a || b")).Tokenize()
	require.NoError(t, err)

	var texts []string
	for _, tok := range toks {
		if tok.Kind != token.EOF {
			texts = append(texts, tok.Text)
		}
	}
	assert.Equal(t, []string{"a", "|", "|", "b"}, texts)
}

func TestTokenizeUnterminatedBlockCommentErrors(t *testing.T) {
	_, err := New("t.wiz", []byte("x /* never closes")).Tokenize()
	require.Error(t, err)
}

func TestTokenizeReportsLineAndColumn(t *testing.T) {
	toks, err := New("t.wiz", []byte("a\nbc")).Tokenize()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 2, toks[1].Pos.Line)
	assert.Equal(t, 1, toks[1].Pos.Column)
}
