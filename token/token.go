package token

import "fmt"

// Position is a byte offset plus its line/column decomposition within a
// named source file. Analogous to the teacher's lexer.Position, kept as an
// independent type here since this package owns no lexer of its own.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Shift returns the position advanced by offset bytes and line newlines.
// When line is 0 the column advances with the offset; otherwise the column
// resets to 1, matching a fresh line.
func (p Position) Shift(offset, line int) Position {
	p.Offset += offset
	if line > 0 {
		p.Line += line
		p.Column = 1
	} else {
		p.Column += offset
	}
	return p
}

// Kind identifies the lexical category of a token's significant text.
type Kind int

const (
	EOF Kind = iota
	Ident
	RawIdent // backtick-quoted identifier, e.g. `class`
	IntLiteral
	FloatLiteral
	CharLiteral
	ByteCharLiteral
	StringLiteral
	ByteStringLiteral
	RawStringLiteral
	Lifetime
	Punct // single character from `; , . ( ) { } [ ] @ # ~ ? : $ = ! < >`
	BinOpCandidate // `+ - * / % & | ^`
	Keyword
)

// Token carries its own leading and trailing trivia so that rendering every
// token of a parsed file reproduces the original source byte-for-byte.
type Token struct {
	Kind     Kind
	Leading  Trivia
	Text     string
	Trailing Trivia
	Pos      Position
}

// Render returns leading ++ text ++ trailing exactly as specified.
func (t Token) Render() string {
	return t.Leading.String() + t.Text + t.Trailing.String()
}

// WithLeadingTrivia returns a copy of the token with its leading trivia
// replaced. Required so that CST combinators can redistribute trivia
// between adjacent tokens without losing bytes.
func (t Token) WithLeadingTrivia(lead Trivia) Token {
	t.Leading = lead
	return t
}

// WithTrailingTrivia returns a copy of the token with its trailing trivia
// replaced.
func (t Token) WithTrailingTrivia(trail Trivia) Token {
	t.Trailing = trail
	return t
}

func (t Token) String() string {
	return t.Text
}
