package syntax

import "github.com/wiz-lang/wizc/token"

// Stmt is the tagged union of `stmt ::= decl | assignment | loop | expr`.
type Stmt struct {
	Decl       *Decl
	Assignment *AssignmentStmt
	Loop       *LoopStmt
	Expr       *Expr
}

func (s *Stmt) inner() Node {
	switch {
	case s.Decl != nil:
		return s.Decl
	case s.Assignment != nil:
		return s.Assignment
	case s.Loop != nil:
		return s.Loop
	case s.Expr != nil:
		return s.Expr
	default:
		return nil
	}
}

func (s *Stmt) Position() token.Position { return s.inner().Position() }
func (s *Stmt) End() token.Position       { return s.inner().End() }
func (s *Stmt) Render() string            { return s.inner().Render() }

// OpEqKind enumerates compound assignment operators, e.g. `+=`.
type OpEqKind int

const (
	AssignEq OpEqKind = iota // plain "="
	AddEq
	SubEq
	MulEq
	DivEq
	ModEq
)

// AssignmentStmt is `(directly_assignable "=" | assignable op_eq) expr`.
//
// Target must be an lvalue: a name, member-access, or subscript expression
// (spec §4.5); the parser uses this shape to tell an assignment from an
// expression statement, and the resolver rejects any other target.
type AssignmentStmt struct {
	Target *Expr
	OpTok  token.Token
	Op     OpEqKind
	Value  *Expr
}

func (a *AssignmentStmt) Position() token.Position { return a.Target.Position() }
func (a *AssignmentStmt) End() token.Position       { return a.Value.End() }
func (a *AssignmentStmt) Render() string {
	return a.Target.Render() + a.OpTok.Render() + a.Value.Render()
}

// LoopStmt is `while_loop | for_loop`.
type LoopStmt struct {
	While *WhileLoop
	For   *ForLoop
}

func (l *LoopStmt) inner() Node {
	if l.While != nil {
		return l.While
	}
	return l.For
}
func (l *LoopStmt) Position() token.Position { return l.inner().Position() }
func (l *LoopStmt) End() token.Position       { return l.inner().End() }
func (l *LoopStmt) Render() string            { return l.inner().Render() }

type WhileLoop struct {
	WhileTok token.Token
	Open     token.Token
	Cond     *Expr
	Close    token.Token
	Body     *BlockStmt
}

func (w *WhileLoop) Position() token.Position { return w.WhileTok.Pos }
func (w *WhileLoop) End() token.Position       { return w.Body.End() }
func (w *WhileLoop) Render() string {
	return w.WhileTok.Render() + w.Open.Render() + w.Cond.Render() + w.Close.Render() + w.Body.Render()
}

type ForLoop struct {
	ForTok token.Token
	Binder *Ident
	InTok  token.Token
	Iter   *Expr
	Body   *BlockStmt
}

func (f *ForLoop) Position() token.Position { return f.ForTok.Pos }
func (f *ForLoop) End() token.Position       { return f.Body.End() }
func (f *ForLoop) Render() string {
	return f.ForTok.Render() + f.Binder.Render() + f.InTok.Render() + f.Iter.Render() + f.Body.Render()
}

// BlockStmt is a braced statement list, reused by function bodies, loop
// bodies, if/when arms, and lambda bodies.
type BlockStmt struct {
	OpenBrace  token.Token
	List       []*Stmt
	CloseBrace token.Token
}

func (b *BlockStmt) Position() token.Position { return b.OpenBrace.Pos }
func (b *BlockStmt) End() token.Position       { return endOfText(b.CloseBrace) }
func (b *BlockStmt) Render() string {
	out := b.OpenBrace.Render()
	for _, s := range b.List {
		out += s.Render()
	}
	out += b.CloseBrace.Render()
	return out
}
