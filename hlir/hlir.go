// Package hlir implements the typed, resolved tree of spec §3.5: the same
// shape as the CST but with every expression annotated by a resolved
// types.Type and every name annotated with its resolved types.TypedPackage.
// `use` declarations are lifted to the file header rather than kept inline.
package hlir

import (
	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/syntax"
	"github.com/wiz-lang/wizc/types"
)

// File is one resolved source file: its `use` declarations lifted to Uses,
// and every remaining top-level declaration resolved to a Decl.
type File struct {
	Name  string
	Uses  []*Use
	Decls []*Decl
}

// Use is a lifted `use` declaration, resolved to the namespace it names.
type Use struct {
	Path  []string
	Glob  bool
	Alias string
	Decl  arena.DeclarationId
}

// Decl mirrors syntax.Decl's tagged union, minus Use (lifted to File.Uses).
type Decl struct {
	ID DeclarationRef

	Var       *VarDecl
	Fun       *FuncDecl
	Struct    *StructDecl
	Extern    *ExternBlockDecl
	Protocol  *ProtocolDecl
	Extension *ExtensionDecl
}

// DeclarationRef ties a resolved node back to its arena entry.
type DeclarationRef struct {
	ID    arena.DeclarationId
	Valid bool
}

type VarDecl struct {
	Ref     DeclarationRef
	Mutable bool
	Name    string
	Type    types.Type
	Value   *Expr
}

type FuncDecl struct {
	Ref            DeclarationRef
	Name           string
	Modifiers      []string
	TypeParameters []string
	Params         []*Field
	ReturnType     types.Type
	Body           *Block // nil for extern-declared signatures
}

type Field struct {
	Label string
	Self  bool
	Name  string
	Type  types.Type
}

type StructDecl struct {
	Ref            DeclarationRef
	Name           string
	TypeParameters []string
	Conforms       []types.Type
	Properties     []*VarDecl
	Members        []*FuncDecl
}

type ProtocolDecl struct {
	Ref     DeclarationRef
	Name    string
	Members []*FuncDecl
}

// ExtensionDecl's member functions are merged into the extended type's
// member-function set during the resolver's preload sub-pass; this node
// is retained in HLIR purely so diagnostics and `.wlib` serialization can
// still report where an extension member came from.
type ExtensionDecl struct {
	Type     types.Type
	Conforms []types.Type
	Members  []*FuncDecl
}

type ExternBlockDecl struct {
	ABI   string
	Funcs []*FuncDecl
}

// Stmt mirrors syntax.Stmt.
type Stmt struct {
	Decl       *Decl
	Assignment *Assignment
	Loop       *Loop
	Expr       *Expr
}

type Assignment struct {
	Target *Expr
	Op     syntax.OpEqKind
	Value  *Expr
}

type Loop struct {
	While *WhileLoop
	For   *ForLoop
}

type WhileLoop struct {
	Cond *Expr
	Body *Block
}

type ForLoop struct {
	Binder string
	Iter   *Expr
	Body   *Block
}

type Block struct {
	List []*Stmt
}

// Expr mirrors syntax.Expr's tagged union with a resolved Type attached to
// every variant (spec §3.5(a)).
type Expr struct {
	Type types.Type

	Name      *NameExpr
	Literal   *Literal
	Binary    *BinaryExpr
	Unary     *UnaryExpr
	Subscript *SubscriptExpr
	Member    *MemberExpr
	Call      *CallExpr
	If        *IfExpr
	Lambda    *LambdaExpr
	Return    *ReturnExpr
	TypeCast  *TypeCastExpr
	Array     *ArrayExpr
	Tuple     *TupleExpr
}

type NameExpr struct {
	Package types.TypedPackage
	Name    string
	Ref     DeclarationRef
}

type Literal struct {
	Kind syntax.LiteralKind
	Text string
}

type BinaryExpr struct {
	Op          syntax.BinaryOp
	Left, Right *Expr
	// Overload is set when the operands are not both primitive and the
	// operator lowers to a function call on a resolved overload instead of
	// a PrimitiveBinOp (spec §4.5).
	Overload *DeclarationRef
}

type UnaryExpr struct {
	Op      syntax.UnaryOp
	Operand *Expr
}

type SubscriptExpr struct {
	Target, Index *Expr
}

type MemberExpr struct {
	Target *Expr
	Name   string
}

type CallExpr struct {
	Callee *Expr
	Args   []*Expr
}

type IfExpr struct {
	Cond       *Expr
	Then       *Block
	ThenResult *Expr // trailing expression-statement value, if any
	Else       *Block
	ElseResult *Expr
}

type LambdaExpr struct {
	Params []*Field
	Body   *Block
}

type ReturnExpr struct {
	Value *Expr // nil for bare return
}

type TypeCastExpr struct {
	Value    *Expr
	Optional bool
	Target   types.Type
}

type ArrayExpr struct{ Elems []*Expr }
type TupleExpr struct{ Elems []*Expr }
