// Package mlir implements the flat, concrete, monomorphic IR of spec §3.6:
// the same shape class as hlir but with every generic resolved away and
// every type reduced to a primitive, a named struct, a pointer, a
// reference, or a fixed-length array. MLIR is produced by lower from a
// compilation's hlir.Files and consumed by backend; it has no lifetime
// beyond one compiler invocation.
package mlir

// Type is `Value(ValueType) | Function(FunctionType)`.
type Type struct {
	Value    *ValueType
	Function *FunctionType
}

func ValueOf(v ValueType) Type       { return Type{Value: &v} }
func FunctionOf(f FunctionType) Type { return Type{Function: &f} }

// ValueKind distinguishes the five concrete value-type shapes of spec §3.6.
type ValueKind int

const (
	PrimitiveKind ValueKind = iota
	StructKind
	PointerKind
	ReferenceKind
	ArrayKind
)

// ValueType is `Primitive(prim) | Struct(name) | Pointer(Type) |
// Reference(Type) | Array(ValueType, len)`.
type ValueType struct {
	Kind ValueKind

	Primitive  string // PrimitiveKind
	StructName string // StructKind

	Inner *Type // PointerKind / ReferenceKind

	Elem   *ValueType // ArrayKind
	Length int
}

func Primitive(name string) ValueType    { return ValueType{Kind: PrimitiveKind, Primitive: name} }
func Struct(name string) ValueType       { return ValueType{Kind: StructKind, StructName: name} }
func Pointer(inner Type) ValueType       { return ValueType{Kind: PointerKind, Inner: &inner} }
func Reference(inner Type) ValueType     { return ValueType{Kind: ReferenceKind, Inner: &inner} }
func Array(elem ValueType, n int) ValueType {
	return ValueType{Kind: ArrayKind, Elem: &elem, Length: n}
}

// Fixed primitive names, matching the types package's builtin identifiers
// one-for-one (lowering never invents a primitive name MLIR's consumers
// wouldn't also recognize in the typed source).
const (
	Int8    = "int8"
	Int16   = "int16"
	Int32   = "int32"
	Int64   = "int64"
	Size    = "size"
	UInt8   = "uint8"
	UInt16  = "uint16"
	UInt32  = "uint32"
	UInt64  = "uint64"
	USize   = "usize"
	Float   = "float"
	Double  = "double"
	Bool    = "bool"
	Str     = "str"
	Unit    = "unit"
	Noting  = "noting"
)

func (v ValueType) IsSignedInteger() bool {
	switch v.Primitive {
	case Int8, Int16, Int32, Int64, Size:
		return v.Kind == PrimitiveKind
	default:
		return false
	}
}

func (v ValueType) IsStruct() bool { return v.Kind == StructKind }

type FunctionType struct {
	Args []ValueType
	Ret  ValueType
}

// File is one monomorphized compilation unit's worth of declarations;
// lower.Lower flattens every hlir.File of a compilation into one mlir.File,
// and generic fan-out means the produced declaration count need not match
// the source declaration count.
type File struct {
	Name  string
	Decls []*Decl
}

// Decl is `Var(MLVar) | Fun(MLFun) | Struct(MLStruct)`.
type Decl struct {
	Var    *VarDecl
	Fun    *FunDecl
	Struct *StructDecl
}

type VarDecl struct {
	Mutable bool
	Name    string
	Type    Type
	Value   *Expr
}

// FunDecl is a mangled, monomorphic function: Name already encodes any
// generic substitution (spec §4.5 `name$argTy1$argTy2$...`). Body is nil
// for an extern-declared signature.
type FunDecl struct {
	Modifiers []string
	Name      string
	Args      []ArgDef
	Ret       ValueType
	Body      *FunBody
}

type ArgDef struct {
	Name string
	Type ValueType
}

type FunBody struct {
	Body []*Stmt
}

type StructDecl struct {
	Name   string
	Fields []Field
}

type Field struct {
	Name string
	Type ValueType
}

// Stmt is `Expr | Var | Assignment | Loop | Return`.
type Stmt struct {
	Expr       *Expr
	Var        *VarDecl
	Assignment *AssignmentStmt
	Loop       *LoopStmt
	Return     *ReturnStmt
}

type AssignmentStmt struct {
	Target *Expr
	Value  *Expr
}

type LoopStmt struct {
	Cond *Expr
	Body *Block
}

type ReturnStmt struct {
	Value *Expr // nil for bare return
}

type Block struct {
	Body []*Stmt
}

// ResultType is the block's value: the last statement's expression type if
// it is a trailing expression statement, otherwise unit (spec §4.5 `if`
// lowering rule).
func (b *Block) ResultType() ValueType {
	if len(b.Body) == 0 {
		return Primitive(Unit)
	}
	last := b.Body[len(b.Body)-1]
	if last.Expr != nil && last.Expr.Type.Value != nil {
		return *last.Expr.Type.Value
	}
	return Primitive(Unit)
}

// Expr is the flat expression union of spec §3.6, every variant carrying
// its own resolved Type the way hlir.Expr does.
type Expr struct {
	Type Type

	Name      *NameExpr
	Literal   *Literal
	Call      *CallExpr
	BinOp     *BinOpExpr
	UnaryOp   *UnaryOpExpr
	Subscript *SubscriptExpr
	Member    *MemberExpr
	If        *IfExpr
	Return    *ReturnStmt
	TypeCast  *TypeCastExpr
	Block     *Block
}

type NameExpr struct {
	Name string
}

type LiteralKind int

const (
	IntegerLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BooleanLiteral
	NullLiteral
	StructLiteral
)

type Literal struct {
	Kind LiteralKind
	Text string
}

type CallExpr struct {
	Target *Expr
	Args   []*Expr
}

// BinOpKind matches spec §3.6's fixed set exactly.
type BinOpKind int

const (
	Plus BinOpKind = iota
	Minus
	Mul
	Div
	Mod
	Equal
	NotEqual
	GreaterThan
	GreaterThanEqual
	LessThan
	LessThanEqual
)

type BinOpExpr struct {
	Left, Right *Expr
	Kind        BinOpKind
}

// UnaryOpKind matches spec §3.6's fixed set exactly.
type UnaryOpKind int

const (
	Negative UnaryOpKind = iota
	Positive
	Not
	Ref
	DeRef
)

type UnaryOpExpr struct {
	Target *Expr
	Kind   UnaryOpKind
}

type SubscriptExpr struct {
	Target, Index *Expr
}

type MemberExpr struct {
	Target *Expr
	Name   string
}

type IfExpr struct {
	Cond *Expr
	Body *Block
	Else *Block // nil when the if has no else branch
}

type TypeCastExpr struct {
	Target *Expr
}
