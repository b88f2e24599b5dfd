package syntax

import "github.com/wiz-lang/wizc/token"

// File is the root CST node for one source file: `file ::= ws0 (ws0 decl)*
// ws0`. The leading ws0 before the first declaration lives in the first
// decl's leading trivia (or, if the file is empty, in EOF's leading
// trivia); the trailing ws0 lives in EOF's leading trivia.
type File struct {
	Name  string
	Decls []*Decl
	EOF   token.Token
}

func (f *File) Position() token.Position {
	if len(f.Decls) > 0 {
		return f.Decls[0].Position()
	}
	return f.EOF.Pos
}

func (f *File) End() token.Position { return endOfText(f.EOF) }

// Render reproduces the exact bytes the file was parsed from (spec §8).
func (f *File) Render() string {
	out := ""
	for _, d := range f.Decls {
		out += d.Render()
	}
	out += f.EOF.Render()
	return out
}
