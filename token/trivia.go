// Package token defines the byte-exact token and trivia model shared by the
// lexer, parser, and every tree that renders back to source.
package token

import "strings"

// PieceKind identifies the shape of a single trivia piece.
type PieceKind int

const (
	Spaces PieceKind = iota
	Tabs
	VerticalTabs
	FormFeeds
	Newlines
	CarriageReturns
	CarriageReturnLineFeeds
	LineComment
	BlockComment
	DocLineComment
	DocBlockComment
	GarbageText
)

func (k PieceKind) String() string {
	switch k {
	case Spaces:
		return "Spaces"
	case Tabs:
		return "Tabs"
	case VerticalTabs:
		return "VerticalTabs"
	case FormFeeds:
		return "FormFeeds"
	case Newlines:
		return "Newlines"
	case CarriageReturns:
		return "CarriageReturns"
	case CarriageReturnLineFeeds:
		return "CarriageReturnLineFeeds"
	case LineComment:
		return "LineComment"
	case BlockComment:
		return "BlockComment"
	case DocLineComment:
		return "DocLineComment"
	case DocBlockComment:
		return "DocBlockComment"
	case GarbageText:
		return "GarbageText"
	default:
		return "Unknown"
	}
}

// repeatable reports whether a kind is rendered by repeating rune n times
// rather than by verbatim text (comments and garbage carry their own text).
func (k PieceKind) repeatable() bool {
	switch k {
	case LineComment, BlockComment, DocLineComment, DocBlockComment, GarbageText:
		return false
	default:
		return true
	}
}

var runeOf = map[PieceKind]string{
	Spaces:                  " ",
	Tabs:                    "\t",
	VerticalTabs:            "\v",
	FormFeeds:               "\f",
	Newlines:                "\n",
	CarriageReturns:         "\r",
	CarriageReturnLineFeeds: "\r\n",
}

// Piece is one indivisible unit of trivia: a run of identical whitespace
// bytes, or a single comment. Concatenating a Piece's String() with its
// neighbors must reproduce the original source exactly.
type Piece struct {
	Kind  PieceKind
	Count int    // valid when Kind.repeatable()
	Text  string // valid otherwise: verbatim comment or garbage text
}

// String renders the piece back to the bytes it was lexed from.
func (p Piece) String() string {
	if p.Kind.repeatable() {
		return strings.Repeat(runeOf[p.Kind], p.Count)
	}
	return p.Text
}

func NewSpaces(n int) Piece                  { return Piece{Kind: Spaces, Count: n} }
func NewTabs(n int) Piece                    { return Piece{Kind: Tabs, Count: n} }
func NewVerticalTabs(n int) Piece            { return Piece{Kind: VerticalTabs, Count: n} }
func NewFormFeeds(n int) Piece                { return Piece{Kind: FormFeeds, Count: n} }
func NewNewlines(n int) Piece                { return Piece{Kind: Newlines, Count: n} }
func NewCarriageReturns(n int) Piece         { return Piece{Kind: CarriageReturns, Count: n} }
func NewCarriageReturnLineFeeds(n int) Piece { return Piece{Kind: CarriageReturnLineFeeds, Count: n} }
func NewLineComment(text string) Piece       { return Piece{Kind: LineComment, Text: text} }
func NewBlockComment(text string) Piece      { return Piece{Kind: BlockComment, Text: text} }
func NewDocLineComment(text string) Piece    { return Piece{Kind: DocLineComment, Text: text} }
func NewDocBlockComment(text string) Piece   { return Piece{Kind: DocBlockComment, Text: text} }
func NewGarbageText(text string) Piece       { return Piece{Kind: GarbageText, Text: text} }

// IsDoc reports whether the piece carries doc-comment content, used by the
// arena's expand pass to surface a declaration's leading doc comment.
func (p Piece) IsDoc() bool {
	return p.Kind == DocLineComment || p.Kind == DocBlockComment
}

// Trivia is an ordered sequence of trivia pieces with string concatenation
// semantics: String() joins every piece's rendering in order.
type Trivia []Piece

func (t Trivia) String() string {
	var sb strings.Builder
	for _, p := range t {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Append returns a new Trivia with p appended, never mutating t's backing
// array so that a token's leading/trailing trivia can be shared safely.
func (t Trivia) Append(p Piece) Trivia {
	out := make(Trivia, len(t), len(t)+1)
	copy(out, t)
	return append(out, p)
}

// Docs returns the doc-comment pieces contained in the trivia, in order.
func (t Trivia) Docs() []Piece {
	var docs []Piece
	for _, p := range t {
		if p.IsDoc() {
			docs = append(docs, p)
		}
	}
	return docs
}
