// Package lexer implements the single-pass byte scanner described in spec
// §4.1. It never discards bytes: every run of whitespace or comment text is
// captured as a trivia piece and attached to the token stream, so that
// rendering the resulting tokens reproduces the scanned source exactly.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wiz-lang/wizc/token"
)

const punctChars = ";,.(){}[]@#~?:$=!<>"
const binOpChars = "+-*/%&|^"

// Lexer scans one source file into a flat token stream.
type Lexer struct {
	filename string
	src      []byte
	offset   int
	line     int
	col      int
}

// New constructs a Lexer over src, named filename for position reporting.
func New(filename string, src []byte) *Lexer {
	return &Lexer{filename: filename, src: src, line: 1, col: 1}
}

// Tokenize scans the entire source and returns its token stream, terminated
// by a token.EOF token that carries any trailing trivia of the file.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	var pending token.Trivia

	pending = l.stripShebang(pending)

	for {
		piece, ok, err := l.scanTrivia()
		if err != nil {
			return nil, err
		}
		if ok {
			pending = pending.Append(piece)
			continue
		}

		if l.atEOF() {
			toks = append(toks, token.Token{
				Kind:    token.EOF,
				Leading: pending,
				Pos:     l.pos(),
			})
			return toks, nil
		}

		startPos := l.pos()
		kind, text, err := l.scanSignificant()
		if err != nil {
			return nil, err
		}
		toks = append(toks, token.Token{
			Kind:    kind,
			Leading: pending,
			Text:    text,
			Pos:     startPos,
		})
		pending = nil
	}
}

// stripShebang consumes a leading "#!" line that is not an inner-attribute
// start ("#!["), preserving its bytes as GarbageText trivia rather than
// dropping them, so the round-trip invariant still holds.
func (l *Lexer) stripShebang(pending token.Trivia) token.Trivia {
	if !strings.HasPrefix(string(l.src), "#!") {
		return pending
	}
	if strings.HasPrefix(string(l.src), "#![") {
		return pending
	}
	idx := strings.IndexByte(string(l.src), '\n')
	var line string
	if idx < 0 {
		line = string(l.src)
	} else {
		line = string(l.src[:idx+1])
	}
	l.advance(len(line))
	return pending.Append(token.NewGarbageText(line))
}

func (l *Lexer) atEOF() bool { return l.offset >= len(l.src) }

func (l *Lexer) pos() token.Position {
	return token.Position{Filename: l.filename, Offset: l.offset, Line: l.line, Column: l.col}
}

func (l *Lexer) peek() byte {
	if l.atEOF() {
		return 0
	}
	return l.src[l.offset]
}

func (l *Lexer) peekAt(n int) byte {
	if l.offset+n >= len(l.src) {
		return 0
	}
	return l.src[l.offset+n]
}

// advance moves the cursor forward n bytes, tracking lines/columns.
func (l *Lexer) advance(n int) string {
	start := l.offset
	for i := 0; i < n && !l.atEOF(); i++ {
		if l.src[l.offset] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.offset++
	}
	return string(l.src[start:l.offset])
}

// scanTrivia scans exactly one trivia piece (a maximal run of one
// whitespace kind, or one comment) if the cursor is positioned at trivia.
func (l *Lexer) scanTrivia() (token.Piece, bool, error) {
	if l.atEOF() {
		return token.Piece{}, false, nil
	}

	c := l.peek()
	switch c {
	case ' ':
		return l.scanRun(' ', token.Spaces), true, nil
	case '\t':
		return l.scanRun('\t', token.Tabs), true, nil
	case '\v':
		return l.scanRun('\v', token.VerticalTabs), true, nil
	case '\f':
		return l.scanRun('\f', token.FormFeeds), true, nil
	case '\n':
		return l.scanRun('\n', token.Newlines), true, nil
	case '\r':
		if l.peekAt(1) == '\n' {
			return l.scanCRLFRun(), true, nil
		}
		return l.scanRun('\r', token.CarriageReturns), true, nil
	case '/':
		if l.peekAt(1) == '/' {
			return l.scanLineComment(), true, nil
		}
		if l.peekAt(1) == '*' {
			p, err := l.scanBlockComment()
			return p, true, err
		}
	}
	return token.Piece{}, false, nil
}

// scanRun consumes a maximal run of a single repeated byte.
func (l *Lexer) scanRun(b byte, kind token.PieceKind) token.Piece {
	n := 0
	for l.peek() == b {
		l.advance(1)
		n++
	}
	return token.Piece{Kind: kind, Count: n}
}

func (l *Lexer) scanCRLFRun() token.Piece {
	n := 0
	for l.peek() == '\r' && l.peekAt(1) == '\n' {
		l.advance(2)
		n++
	}
	return token.Piece{Kind: token.CarriageReturnLineFeeds, Count: n}
}

func (l *Lexer) scanLineComment() token.Piece {
	start := l.offset
	isDoc := l.peekAt(2) == '/' && l.peekAt(3) != '/'
	for !l.atEOF() && l.peek() != '\n' {
		l.advance(1)
	}
	text := string(l.src[start:l.offset])
	if isDoc {
		return token.NewDocLineComment(text)
	}
	return token.NewLineComment(text)
}

func (l *Lexer) scanBlockComment() (token.Piece, error) {
	start := l.offset
	isDoc := l.peekAt(2) == '*' && l.peekAt(3) != '/' && l.peekAt(3) != '*'
	l.advance(2) // "/*"
	for {
		if l.atEOF() {
			return token.Piece{}, &Error{Pos: l.pos(), Message: "unterminated block comment"}
		}
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance(2)
			break
		}
		l.advance(1)
	}
	text := string(l.src[start:l.offset])
	if isDoc {
		return token.NewDocBlockComment(text), nil
	}
	return token.NewBlockComment(text), nil
}

// scanSignificant scans exactly one significant (non-trivia) token.
func (l *Lexer) scanSignificant() (token.Kind, string, error) {
	c := l.peek()

	switch {
	case c == '`':
		return l.scanRawIdent()
	case c == '\'':
		return l.scanCharOrLifetime()
	case c == '"':
		return l.scanString(false)
	case c == 'b' && l.peekAt(1) == '"':
		l.advance(1)
		return l.scanString(true)
	case c == 'b' && l.peekAt(1) == '\'':
		l.advance(1)
		return l.scanByteChar()
	case c == 'r' && (l.peekAt(1) == '"' || l.peekAt(1) == '#'):
		return l.scanRawString()
	case isDigit(c):
		return l.scanNumber()
	case isIdentStart(rune(c)) || c >= utf8.RuneSelf:
		return l.scanIdent()
	case strings.IndexByte(punctChars, c) >= 0:
		l.advance(1)
		return token.Punct, string(c), nil
	case strings.IndexByte(binOpChars, c) >= 0:
		l.advance(1)
		return token.BinOpCandidate, string(c), nil
	default:
		l.advance(1)
		return token.Punct, string(c), nil
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) scanIdent() (token.Kind, string, error) {
	start := l.offset
	for !l.atEOF() {
		r, size := utf8.DecodeRune(l.src[l.offset:])
		if !isIdentCont(r) {
			break
		}
		l.advance(size)
	}
	text := string(l.src[start:l.offset])
	return token.Ident, text, nil
}

// scanRawIdent scans a backtick-quoted raw identifier. The first inner
// character must be alpha or underscore, per spec §8 boundary case.
func (l *Lexer) scanRawIdent() (token.Kind, string, error) {
	start := l.offset
	startPos := l.pos()
	l.advance(1) // opening `
	if l.atEOF() || !isIdentStart(rune(l.peek())) {
		return 0, "", &Error{Pos: startPos, Message: "raw identifier must start with a letter or underscore"}
	}
	for !l.atEOF() && isIdentCont(rune(l.peek())) {
		l.advance(1)
	}
	if l.peek() != '`' {
		return 0, "", &Error{Pos: startPos, Message: "unterminated raw identifier"}
	}
	l.advance(1) // closing `
	return token.RawIdent, string(l.src[start:l.offset]), nil
}

func (l *Lexer) scanNumber() (token.Kind, string, error) {
	start := l.offset
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance(2)
		for isHex(l.peek()) {
			l.advance(1)
		}
		return token.IntLiteral, string(l.src[start:l.offset]), nil
	}
	if l.peek() == '0' && (l.peekAt(1) == 'o' || l.peekAt(1) == 'O') {
		l.advance(2)
		for isOctal(l.peek()) {
			l.advance(1)
		}
		return token.IntLiteral, string(l.src[start:l.offset]), nil
	}
	if l.peek() == '0' && (l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		l.advance(2)
		for l.peek() == '0' || l.peek() == '1' {
			l.advance(1)
		}
		return token.IntLiteral, string(l.src[start:l.offset]), nil
	}

	for isDigit(l.peek()) {
		l.advance(1)
	}

	isFloat := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.advance(1)
		for isDigit(l.peek()) {
			l.advance(1)
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		save := l.offset
		n := 1
		if l.peekAt(1) == '+' || l.peekAt(1) == '-' {
			n = 2
		}
		if isDigit(l.peekAt(n)) {
			isFloat = true
			l.advance(n)
			for isDigit(l.peek()) {
				l.advance(1)
			}
		} else {
			_ = save
		}
	}

	text := string(l.src[start:l.offset])
	if isFloat {
		return token.FloatLiteral, text, nil
	}
	return token.IntLiteral, text, nil
}

func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isOctal(b byte) bool { return b >= '0' && b <= '7' }

func (l *Lexer) scanString(isByte bool) (token.Kind, string, error) {
	start := l.offset
	if isByte {
		start--
	}
	startPos := l.pos()
	l.advance(1) // opening quote
	for {
		if l.atEOF() {
			return 0, "", &Error{Pos: startPos, Message: "unterminated string literal"}
		}
		if l.peek() == '\\' {
			l.advance(2)
			continue
		}
		if l.peek() == '"' {
			l.advance(1)
			break
		}
		l.advance(1)
	}
	kind := token.StringLiteral
	if isByte {
		kind = token.ByteStringLiteral
	}
	return kind, string(l.src[start:l.offset]), nil
}

func (l *Lexer) scanByteChar() (token.Kind, string, error) {
	start := l.offset - 1 // include the 'b'
	startPos := l.pos()
	if _, _, err := l.scanCharBody(startPos); err != nil {
		return 0, "", err
	}
	return token.ByteCharLiteral, string(l.src[start:l.offset]), nil
}

// scanCharOrLifetime distinguishes 'x' (char literal) from 'ident
// (lifetime), both of which start with a single quote.
func (l *Lexer) scanCharOrLifetime() (token.Kind, string, error) {
	start := l.offset
	startPos := l.pos()

	// A lifetime is 'ident not immediately followed by a closing quote.
	save := *l
	l.advance(1)
	if isIdentStart(rune(l.peek())) {
		identStart := l.offset
		for isIdentCont(rune(l.peek())) {
			l.advance(1)
		}
		if l.peek() != '\'' {
			return token.Lifetime, string(l.src[start:l.offset]), nil
		}
		_ = identStart
		*l = save
	}

	return l.scanCharBody(startPos)
}

func (l *Lexer) scanCharBody(startPos token.Position) (token.Kind, string, error) {
	start := l.offset
	l.advance(1) // opening '
	if l.peek() == '\\' {
		l.advance(2)
	} else if !l.atEOF() {
		_, size := utf8.DecodeRune(l.src[l.offset:])
		l.advance(size)
	}
	if l.peek() != '\'' {
		return 0, "", &Error{Pos: startPos, Message: "unterminated char literal"}
	}
	l.advance(1)
	return token.CharLiteral, string(l.src[start:l.offset]), nil
}

// scanRawString scans r#"..."# with a variable number of '#' delimiters on
// each side, per spec §4.1.
func (l *Lexer) scanRawString() (token.Kind, string, error) {
	start := l.offset
	startPos := l.pos()
	l.advance(1) // "r"

	n := 0
	for l.peek() == '#' {
		l.advance(1)
		n++
	}
	if l.peek() != '"' {
		return 0, "", errInvalidStarter(startPos, rune(l.peek()))
	}
	l.advance(1)

	terminator := `"` + strings.Repeat("#", n)
	for {
		if l.atEOF() {
			return 0, "", errNoTerminator(startPos, terminator, "<eof>", l.offset)
		}
		if l.peek() == '"' {
			candidateStart := l.offset
			save := *l
			l.advance(1)
			hashes := 0
			for hashes < n && l.peek() == '#' {
				l.advance(1)
				hashes++
			}
			if hashes == n {
				break
			}
			*l = save
			_ = candidateStart
		}
		l.advance(1)
	}

	return token.RawStringLiteral, string(l.src[start:l.offset]), nil
}
