// Package backend implements spec §4.6: the fixed surface codegen invokes
// to turn one mlir.File into a compiled artifact. Builder is the abstract,
// LLVM-shaped interface a real backend (or, in tests, an in-memory fake)
// implements; codegen.go never touches a concrete backend directly.
//
// Grounded on the teacher's codegen.CodeGen, which drives an abstract
// Value/Register handle through a concrete executor (BuildKit's LLB
// builder) behind an interface boundary rather than constructing IR nodes
// itself — the same separation this package draws between CodeGen (the
// MLIR walker) and Builder (the thing that actually emits instructions).
package backend

import "github.com/wiz-lang/wizc/mlir"

// Function, Block and Value are opaque handles a concrete Builder hands
// back; codegen.go only ever threads them through, never inspects them.
type (
	Function interface{}
	Block    interface{}
	Value    interface{}
)

// Linkage controls whether a function is visible outside this compilation
// unit or private to it. CodeGen gives External to every function without
// a body (an extern-declared signature) and Internal to every function it
// defines, an entry point included.
type Linkage int

const (
	Internal Linkage = iota
	External
)

// IntPredicate names the `build_int_cmp{eq,ne,slt,sgt,sle,sge}` family from
// spec §4.6 as one parameterized op rather than six.
type IntPredicate int

const (
	IntEQ IntPredicate = iota
	IntNE
	IntSLT
	IntSGT
	IntSLE
	IntSGE
)

// FloatPredicate is IntPredicate's float analogue, spec §4.6's
// `build_float_*` comparison family.
type FloatPredicate int

const (
	FloatEQ FloatPredicate = iota
	FloatNE
	FloatLT
	FloatGT
	FloatLE
	FloatGE
)

// Builder is the operation set spec §4.6 lists the codegen pass as
// invoking, plus BuildCondBr/BuildBr: the spec's list assumes a block's
// terminator is implicit in append_basic_block/position_at_end, but
// lowering `if`/`while` to basic blocks needs an explicit branch
// instruction the same way any LLVM-shaped builder exposes one.
type Builder interface {
	AddFunction(name string, argTypes []mlir.ValueType, retType mlir.ValueType, linkage Linkage) (Function, error)
	Param(fn Function, index int) (Value, error)

	AppendBasicBlock(fn Function, label string) (Block, error)
	PositionAtEnd(b Block)

	BuildAlloca(t mlir.ValueType, name string) (Value, error)
	BuildStore(ptr, val Value) error
	BuildLoad(ptr Value, t mlir.ValueType, name string) (Value, error)

	BuildIntAdd(lhs, rhs Value, name string) (Value, error)
	BuildIntSub(lhs, rhs Value, name string) (Value, error)
	BuildIntMul(lhs, rhs Value, name string) (Value, error)
	BuildIntSDiv(lhs, rhs Value, name string) (Value, error)
	BuildIntSRem(lhs, rhs Value, name string) (Value, error)
	BuildIntCmp(pred IntPredicate, lhs, rhs Value, name string) (Value, error)

	BuildFloatAdd(lhs, rhs Value, name string) (Value, error)
	BuildFloatSub(lhs, rhs Value, name string) (Value, error)
	BuildFloatMul(lhs, rhs Value, name string) (Value, error)
	BuildFloatDiv(lhs, rhs Value, name string) (Value, error)
	BuildFloatCmp(pred FloatPredicate, lhs, rhs Value, name string) (Value, error)

	BuildCall(fn Function, args []Value, name string) (Value, error)
	BuildReturn(val Value) error // val is nil for a bare return
	BuildCondBr(cond Value, then, els Block) error
	BuildBr(target Block) error

	BuildGlobalString(value, name string) (Value, error)
	BuildBitcast(val Value, t mlir.ValueType, name string) (Value, error)

	// BuildGEP computes the address of pointee's field (when pointee is a
	// StructKind value, index a constant field index) or element (when
	// pointee is an ArrayKind value, index an arbitrary int-typed value) at
	// ptr. Spec §4.6's listed op set has no struct-field/array-element
	// address primitive at all, yet the for-loop-over-array desugaring
	// (lower/stmt.go) produces Subscript nodes that must be addressable to
	// ever execute; this op is the minimal LLVM-shaped getelementptr any
	// backend needs to make that desugaring reachable.
	BuildGEP(ptr Value, pointee mlir.ValueType, index Value, name string) (Value, error)

	ConstInt(t mlir.ValueType, text string) (Value, error)
	ConstFloat(t mlir.ValueType, text string) (Value, error)
	ConstBool(b bool) (Value, error)
}
