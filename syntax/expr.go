package syntax

import "github.com/wiz-lang/wizc/token"

// Expr is the tagged union of every expression production in spec §3.2:
// name | literal | binary | unary | subscript | member | call | if | when |
// lambda | return | type-cast | array | tuple | parenthesized.
//
// Exactly one field is non-nil; Kind() reports which.
type Expr struct {
	Name        *NameExpr
	Literal     *Literal
	Binary      *BinaryExpr
	Unary       *UnaryExpr
	Subscript   *SubscriptExpr
	Member      *MemberExpr
	Call        *CallExpr
	If          *IfExpr
	When        *WhenExpr
	Lambda      *LambdaExpr
	Return      *ReturnExpr
	TypeCast    *TypeCastExpr
	Array       *ArrayExpr
	Tuple       *TupleExpr
	Parenthesized *ParenExpr
}

func (e *Expr) inner() Node {
	switch {
	case e.Name != nil:
		return e.Name
	case e.Literal != nil:
		return e.Literal
	case e.Binary != nil:
		return e.Binary
	case e.Unary != nil:
		return e.Unary
	case e.Subscript != nil:
		return e.Subscript
	case e.Member != nil:
		return e.Member
	case e.Call != nil:
		return e.Call
	case e.If != nil:
		return e.If
	case e.When != nil:
		return e.When
	case e.Lambda != nil:
		return e.Lambda
	case e.Return != nil:
		return e.Return
	case e.TypeCast != nil:
		return e.TypeCast
	case e.Array != nil:
		return e.Array
	case e.Tuple != nil:
		return e.Tuple
	case e.Parenthesized != nil:
		return e.Parenthesized
	default:
		return nil
	}
}

func (e *Expr) Position() token.Position { return e.inner().Position() }
func (e *Expr) End() token.Position       { return e.inner().End() }
func (e *Expr) Render() string            { return e.inner().Render() }

// NameExpr is a bare identifier reference, optionally namespaced.
type NameExpr struct {
	Path *TypeName // reuses the `a::b::name` path shape; Segments[last] is the name
}

func (n *NameExpr) Position() token.Position { return n.Path.Position() }
func (n *NameExpr) End() token.Position       { return n.Path.End() }
func (n *NameExpr) Render() string            { return n.Path.Render() }

// LiteralKind distinguishes the basic literal forms.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	CharLit
	BoolLit
)

// Literal is an integer, float, string, char, or bool literal token.
type Literal struct {
	Kind LiteralKind
	Tok  token.Token
}

func (l *Literal) Position() token.Position { return l.Tok.Pos }
func (l *Literal) End() token.Position       { return endOfText(l.Tok) }
func (l *Literal) Render() string            { return l.Tok.Render() }

// BinaryOp enumerates the spec §4.2 infix operators.
type BinaryOp int

const (
	OpOr BinaryOp = iota
	OpAnd
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

type BinaryExpr struct {
	Left  *Expr
	OpTok token.Token
	Op    BinaryOp
	Right *Expr
}

func (b *BinaryExpr) Position() token.Position { return b.Left.Position() }
func (b *BinaryExpr) End() token.Position       { return b.Right.End() }
func (b *BinaryExpr) Render() string {
	return b.Left.Render() + b.OpTok.Render() + b.Right.Render()
}

// UnaryOp enumerates prefix unary operators: `+ - ! & *`.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
	UnaryRef
	UnaryDeref
)

type UnaryExpr struct {
	OpTok   token.Token
	Op      UnaryOp
	Operand *Expr
}

func (u *UnaryExpr) Position() token.Position { return u.OpTok.Pos }
func (u *UnaryExpr) End() token.Position       { return u.Operand.End() }
func (u *UnaryExpr) Render() string            { return u.OpTok.Render() + u.Operand.Render() }

type SubscriptExpr struct {
	Target *Expr
	Open   token.Token // "["
	Index  *Expr
	Close  token.Token // "]"
}

func (s *SubscriptExpr) Position() token.Position { return s.Target.Position() }
func (s *SubscriptExpr) End() token.Position       { return endOfText(s.Close) }
func (s *SubscriptExpr) Render() string {
	return s.Target.Render() + s.Open.Render() + s.Index.Render() + s.Close.Render()
}

type MemberExpr struct {
	Target *Expr
	Dot    token.Token
	Name   *Ident
}

func (m *MemberExpr) Position() token.Position { return m.Target.Position() }
func (m *MemberExpr) End() token.Position       { return m.Name.End() }
func (m *MemberExpr) Render() string {
	return m.Target.Render() + m.Dot.Render() + m.Name.Render()
}

type CallExpr struct {
	Callee *Expr
	Open   token.Token
	Args   []*Expr
	Close  token.Token
}

func (c *CallExpr) Position() token.Position { return c.Callee.Position() }
func (c *CallExpr) End() token.Position       { return endOfText(c.Close) }
func (c *CallExpr) Render() string {
	out := c.Callee.Render() + c.Open.Render()
	for _, a := range c.Args {
		out += a.Render()
	}
	out += c.Close.Render()
	return out
}

type IfExpr struct {
	IfTok  token.Token
	Cond   *Expr
	Then   *BlockStmt
	ElseTok *token.Token // optional
	Else   *IfExpr       // "else if" chain
	ElseBlock *BlockStmt // terminal "else { }"
}

func (e *IfExpr) Position() token.Position { return e.IfTok.Pos }
func (e *IfExpr) End() token.Position {
	switch {
	case e.ElseBlock != nil:
		return e.ElseBlock.End()
	case e.Else != nil:
		return e.Else.End()
	default:
		return e.Then.End()
	}
}
func (e *IfExpr) Render() string {
	out := e.IfTok.Render() + e.Cond.Render() + e.Then.Render()
	if e.ElseTok != nil {
		out += e.ElseTok.Render()
		if e.Else != nil {
			out += e.Else.Render()
		} else if e.ElseBlock != nil {
			out += e.ElseBlock.Render()
		}
	}
	return out
}

// WhenArm is one `expr -> block` arm of a when expression. Left as an
// extension point per spec §9 Open Questions: the resolver rejects any
// WhenExpr it encounters rather than guessing semantics.
type WhenArm struct {
	Pattern *Expr
	Arrow   token.Token
	Body    *BlockStmt
}

func (a *WhenArm) Position() token.Position { return a.Pattern.Position() }
func (a *WhenArm) End() token.Position       { return a.Body.End() }
func (a *WhenArm) Render() string {
	return a.Pattern.Render() + a.Arrow.Render() + a.Body.Render()
}

type WhenExpr struct {
	WhenTok    token.Token
	Scrutinee  *Expr
	Open       token.Token
	Arms       []*WhenArm
	Close      token.Token
}

func (w *WhenExpr) Position() token.Position { return w.WhenTok.Pos }
func (w *WhenExpr) End() token.Position       { return endOfText(w.Close) }
func (w *WhenExpr) Render() string {
	out := w.WhenTok.Render() + w.Scrutinee.Render() + w.Open.Render()
	for _, a := range w.Arms {
		out += a.Render()
	}
	out += w.Close.Render()
	return out
}

type LambdaExpr struct {
	Params *FieldList
	Arrow  token.Token
	Body   *BlockStmt
}

func (l *LambdaExpr) Position() token.Position { return l.Params.Position() }
func (l *LambdaExpr) End() token.Position       { return l.Body.End() }
func (l *LambdaExpr) Render() string {
	return l.Params.Render() + l.Arrow.Render() + l.Body.Render()
}

type ReturnExpr struct {
	ReturnTok token.Token
	Value     *Expr // optional; bare `return`
}

func (r *ReturnExpr) Position() token.Position { return r.ReturnTok.Pos }
func (r *ReturnExpr) End() token.Position {
	if r.Value != nil {
		return r.Value.End()
	}
	return endOfText(r.ReturnTok)
}
func (r *ReturnExpr) Render() string {
	out := r.ReturnTok.Render()
	if r.Value != nil {
		out += r.Value.Render()
	}
	return out
}

type TypeCastExpr struct {
	Value   *Expr
	AsTok   token.Token // "as" or "as?"
	Optional bool
	Type    *TypeName
}

func (c *TypeCastExpr) Position() token.Position { return c.Value.Position() }
func (c *TypeCastExpr) End() token.Position       { return c.Type.End() }
func (c *TypeCastExpr) Render() string {
	return c.Value.Render() + c.AsTok.Render() + c.Type.Render()
}

type ArrayExpr struct {
	Open  token.Token
	Elems []*Expr
	Close token.Token
}

func (a *ArrayExpr) Position() token.Position { return a.Open.Pos }
func (a *ArrayExpr) End() token.Position       { return endOfText(a.Close) }
func (a *ArrayExpr) Render() string {
	out := a.Open.Render()
	for _, e := range a.Elems {
		out += e.Render()
	}
	out += a.Close.Render()
	return out
}

type TupleExpr struct {
	Open  token.Token
	Elems []*Expr
	Close token.Token
}

func (t *TupleExpr) Position() token.Position { return t.Open.Pos }
func (t *TupleExpr) End() token.Position       { return endOfText(t.Close) }
func (t *TupleExpr) Render() string {
	out := t.Open.Render()
	for _, e := range t.Elems {
		out += e.Render()
	}
	out += t.Close.Render()
	return out
}

type ParenExpr struct {
	Open  token.Token
	Inner *Expr
	Close token.Token
}

func (p *ParenExpr) Position() token.Position { return p.Open.Pos }
func (p *ParenExpr) End() token.Position       { return endOfText(p.Close) }
func (p *ParenExpr) Render() string {
	return p.Open.Render() + p.Inner.Render() + p.Close.Render()
}
