package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPieceStringRepeatsRuneForWhitespaceKinds(t *testing.T) {
	for _, tc := range []struct {
		name     string
		piece    Piece
		expected string
	}{
		{"spaces", NewSpaces(3), "   "},
		{"tabs", NewTabs(2), "\t\t"},
		{"newlines", NewNewlines(2), "\n\n"},
		{"crlf", NewCarriageReturnLineFeeds(1), "\r\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.piece.String())
		})
	}
}

func TestPieceStringRendersCommentVerbatim(t *testing.T) {
	p := NewLineComment("// hi")
	assert.Equal(t, "// hi", p.String())
}

func TestTriviaStringConcatenatesPiecesInOrder(t *testing.T) {
	tr := Trivia{NewSpaces(2), NewLineComment("// x"), NewNewlines(1)}
	assert.Equal(t, "  // x\n", tr.String())
}

func TestTriviaAppendDoesNotMutateReceiver(t *testing.T) {
	base := Trivia{NewSpaces(1)}
	extended := base.Append(NewTabs(1))

	assert.Equal(t, " ", base.String())
	assert.Equal(t, " \t", extended.String())
}

func TestPieceIsDocDistinguishesDocComments(t *testing.T) {
	assert.True(t, NewDocLineComment("/// doc").IsDoc())
	assert.True(t, NewDocBlockComment("/** doc */").IsDoc())
	assert.False(t, NewLineComment("// plain").IsDoc())
	assert.False(t, NewBlockComment("/* plain */").IsDoc())
}

func TestTriviaDocsReturnsOnlyDocPieces(t *testing.T) {
	tr := Trivia{
		NewSpaces(1),
		NewLineComment("// plain"),
		NewNewlines(1),
		NewDocLineComment("/// real doc"),
	}
	docs := tr.Docs()
	assert.Len(t, docs, 1)
	assert.Equal(t, "/// real doc", docs[0].Text)
}

func TestPositionStringOmitsFilenameWhenEmpty(t *testing.T) {
	assert.Equal(t, "3:5", Position{Line: 3, Column: 5}.String())
	assert.Equal(t, "t.wiz:3:5", Position{Filename: "t.wiz", Line: 3, Column: 5}.String())
}

func TestPositionShiftAdvancesColumnOnSameLine(t *testing.T) {
	p := Position{Line: 1, Column: 1, Offset: 0}
	p = p.Shift(3, 0)
	assert.Equal(t, 1, p.Line)
	assert.Equal(t, 4, p.Column)
	assert.Equal(t, 3, p.Offset)
}

func TestPositionShiftResetsColumnOnNewline(t *testing.T) {
	p := Position{Line: 1, Column: 5, Offset: 4}
	p = p.Shift(1, 1)
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 1, p.Column)
	assert.Equal(t, 5, p.Offset)
}

func TestTokenRenderJoinsLeadingTextTrailing(t *testing.T) {
	tok := Token{
		Kind:     Ident,
		Leading:  Trivia{NewSpaces(1)},
		Text:     "x",
		Trailing: Trivia{NewTabs(1)},
	}
	assert.Equal(t, " x\t", tok.Render())
}

func TestTokenWithLeadingTrailingTriviaDoesNotMutateOriginal(t *testing.T) {
	orig := Token{Text: "x"}
	withLead := orig.WithLeadingTrivia(Trivia{NewSpaces(2)})
	withTrail := orig.WithTrailingTrivia(Trivia{NewNewlines(1)})

	assert.Equal(t, "x", orig.Render())
	assert.Equal(t, "  x", withLead.Render())
	assert.Equal(t, "x\n", withTrail.Render())
}
