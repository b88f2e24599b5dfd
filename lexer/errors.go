package lexer

import (
	"fmt"

	"github.com/wiz-lang/wizc/token"
)

// RawStringErrorKind distinguishes the two ways a raw string literal can
// fail to lex, per the raw-string grammar in spec §4.1.
type RawStringErrorKind int

const (
	NoTerminator RawStringErrorKind = iota
	InvalidStarter
)

// Error is returned for any malformed literal or unterminated raw string
// encountered during lexing; a leading shebang line is stripped and never
// produces one. It is fatal and position annotated, matching the LexError
// taxonomy in spec §7.
type Error struct {
	Pos     token.Position
	Message string

	// Populated when Message concerns a raw string.
	RawKind                    RawStringErrorKind
	Expected                   string
	Found                      string
	PossibleTerminatorOffset   int
	BadChar                    rune
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func errNoTerminator(pos token.Position, expected, found string, possibleOffset int) *Error {
	return &Error{
		Pos:                      pos,
		Message:                  fmt.Sprintf("unterminated raw string: expected %q, found %q", expected, found),
		RawKind:                  NoTerminator,
		Expected:                 expected,
		Found:                    found,
		PossibleTerminatorOffset: possibleOffset,
	}
}

func errInvalidStarter(pos token.Position, bad rune) *Error {
	return &Error{
		Pos:     pos,
		Message: fmt.Sprintf("invalid raw string starter: %q", bad),
		RawKind: InvalidStarter,
		BadChar: bad,
	}
}
