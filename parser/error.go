package parser

import (
	"fmt"

	"github.com/wiz-lang/wizc/token"
)

// Error is a span-annotated parse failure: the parser reports the first
// unrecoverable position and does not attempt recovery, per spec §4.2.
type Error struct {
	Pos      token.Position
	Expected []string
	Found    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: expected %s, found %q", e.Pos, expectedSet(e.Expected), e.Found)
}

func expectedSet(exp []string) string {
	if len(exp) == 1 {
		return exp[0]
	}
	out := "one of "
	for i, e := range exp {
		if i > 0 {
			out += ", "
		}
		out += e
	}
	return out
}
