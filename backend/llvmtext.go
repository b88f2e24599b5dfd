package backend

import (
	"fmt"
	"strings"

	"github.com/wiz-lang/wizc/mlir"
)

// TextBuilder is a Builder that renders textual LLVM IR directly, with no
// dependency on a linked LLVM library: this core has no LLVM binding
// anywhere in its dependency set, so `--emit llvm-ir` is served by
// formatting the same instruction stream CodeGen would otherwise hand to a
// linked backend. Assembly and object emission need an actual target
// backend (llc, a native JIT) this core does not vendor, and are rejected
// by cmd/wizc rather than faked here.
type TextBuilder struct {
	b strings.Builder

	funcs    map[string]*textFunc
	curFunc  *textFunc
	curBlock string
	nextID   int
}

type textFunc struct {
	name    string
	args    []mlir.ValueType
	ret     mlir.ValueType
	linkage Linkage
}

type textValue struct{ ref string }
type textBlock struct {
	fn    string
	label string
}

func NewTextBuilder() *TextBuilder {
	return &TextBuilder{funcs: make(map[string]*textFunc)}
}

// String returns the accumulated module text.
func (b *TextBuilder) String() string { return b.b.String() }

func llTypeOf(t mlir.Type) string {
	if t.Value != nil {
		return llType(*t.Value)
	}
	return "void"
}

func llType(t mlir.ValueType) string {
	switch t.Kind {
	case mlir.PointerKind, mlir.ReferenceKind:
		return llTypeOf(*t.Inner) + "*"
	case mlir.StructKind:
		return "%" + t.StructName
	case mlir.ArrayKind:
		return fmt.Sprintf("[%d x %s]", t.Length, llType(*t.Elem))
	default:
		switch t.Primitive {
		case mlir.Int8, mlir.UInt8:
			return "i8"
		case mlir.Int16, mlir.UInt16:
			return "i16"
		case mlir.Int32, mlir.UInt32:
			return "i32"
		case mlir.Int64, mlir.UInt64, mlir.Size, mlir.USize:
			return "i64"
		case mlir.Float:
			return "float"
		case mlir.Double:
			return "double"
		case mlir.Bool:
			return "i1"
		case mlir.Str:
			return "i8*"
		case mlir.Unit, mlir.Noting:
			return "void"
		default:
			return "i32"
		}
	}
}

func (b *TextBuilder) emit(format string, a ...interface{}) {
	fmt.Fprintf(&b.b, "  "+format+"\n", a...)
}

func (b *TextBuilder) next(prefix string, format string, a ...interface{}) Value {
	b.nextID++
	v := fmt.Sprintf("%%%s%d", prefix, b.nextID)
	b.emit("%s = "+format, append([]interface{}{v}, a...)...)
	return textValue{ref: v}
}

func (b *TextBuilder) AddFunction(name string, argTypes []mlir.ValueType, retType mlir.ValueType, linkage Linkage) (Function, error) {
	fn := &textFunc{name: name, args: argTypes, ret: retType, linkage: linkage}
	b.funcs[name] = fn

	kw := "define"
	if linkage == External {
		kw = "declare"
	}
	argList := make([]string, len(argTypes))
	for i, t := range argTypes {
		argList[i] = llType(t)
		if linkage != External {
			argList[i] += fmt.Sprintf(" %%a%d", i)
		}
	}
	fmt.Fprintf(&b.b, "%s %s @%s(%s)", kw, llType(retType), name, strings.Join(argList, ", "))
	if linkage == External {
		fmt.Fprintln(&b.b)
	} else {
		fmt.Fprintln(&b.b, " {")
	}
	return fn, nil
}

func (b *TextBuilder) Param(fn Function, index int) (Value, error) {
	return textValue{ref: fmt.Sprintf("%%a%d", index)}, nil
}

func (b *TextBuilder) AppendBasicBlock(fn Function, label string) (Block, error) {
	f := fn.(*textFunc)
	return textBlock{fn: f.name, label: label}, nil
}

func (b *TextBuilder) PositionAtEnd(blk Block) {
	bb := blk.(textBlock)
	b.curFunc = b.funcs[bb.fn]
	b.curBlock = bb.label
	fmt.Fprintf(&b.b, "%s:\n", bb.label)
}

func (b *TextBuilder) BuildAlloca(t mlir.ValueType, name string) (Value, error) {
	return b.next("", "alloca %s", llType(t)), nil
}

func (b *TextBuilder) BuildStore(ptr, val Value) error {
	b.emit("store %v, %v", val, ptr)
	return nil
}

func (b *TextBuilder) BuildLoad(ptr Value, t mlir.ValueType, name string) (Value, error) {
	return b.next("", "load %s, %v", llType(t), ptr), nil
}

func (b *TextBuilder) BuildIntAdd(lhs, rhs Value, name string) (Value, error) {
	return b.next("", "add %v, %v", lhs, rhs), nil
}
func (b *TextBuilder) BuildIntSub(lhs, rhs Value, name string) (Value, error) {
	return b.next("", "sub %v, %v", lhs, rhs), nil
}
func (b *TextBuilder) BuildIntMul(lhs, rhs Value, name string) (Value, error) {
	return b.next("", "mul %v, %v", lhs, rhs), nil
}
func (b *TextBuilder) BuildIntSDiv(lhs, rhs Value, name string) (Value, error) {
	return b.next("", "sdiv %v, %v", lhs, rhs), nil
}
func (b *TextBuilder) BuildIntSRem(lhs, rhs Value, name string) (Value, error) {
	return b.next("", "srem %v, %v", lhs, rhs), nil
}

var intPredText = map[IntPredicate]string{
	IntEQ: "eq", IntNE: "ne", IntSLT: "slt", IntSGT: "sgt", IntSLE: "sle", IntSGE: "sge",
}

func (b *TextBuilder) BuildIntCmp(pred IntPredicate, lhs, rhs Value, name string) (Value, error) {
	return b.next("", "icmp %s %v, %v", intPredText[pred], lhs, rhs), nil
}

func (b *TextBuilder) BuildFloatAdd(lhs, rhs Value, name string) (Value, error) {
	return b.next("", "fadd %v, %v", lhs, rhs), nil
}
func (b *TextBuilder) BuildFloatSub(lhs, rhs Value, name string) (Value, error) {
	return b.next("", "fsub %v, %v", lhs, rhs), nil
}
func (b *TextBuilder) BuildFloatMul(lhs, rhs Value, name string) (Value, error) {
	return b.next("", "fmul %v, %v", lhs, rhs), nil
}
func (b *TextBuilder) BuildFloatDiv(lhs, rhs Value, name string) (Value, error) {
	return b.next("", "fdiv %v, %v", lhs, rhs), nil
}

var floatPredText = map[FloatPredicate]string{
	FloatEQ: "oeq", FloatNE: "one", FloatLT: "olt", FloatGT: "ogt", FloatLE: "ole", FloatGE: "oge",
}

func (b *TextBuilder) BuildFloatCmp(pred FloatPredicate, lhs, rhs Value, name string) (Value, error) {
	return b.next("", "fcmp %s %v, %v", floatPredText[pred], lhs, rhs), nil
}

func (b *TextBuilder) BuildCall(fn Function, args []Value, name string) (Value, error) {
	f := fn.(*textFunc)
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return b.next("", "call %s @%s(%s)", llType(f.ret), f.name, strings.Join(parts, ", ")), nil
}

func (b *TextBuilder) BuildReturn(val Value) error {
	if val == nil {
		b.emit("ret void")
	} else {
		b.emit("ret %v", val)
	}
	fmt.Fprintln(&b.b, "}")
	return nil
}

func (b *TextBuilder) BuildCondBr(cond Value, then, els Block) error {
	b.emit("br %v, label %%%s, label %%%s", cond, then.(textBlock).label, els.(textBlock).label)
	return nil
}

func (b *TextBuilder) BuildBr(target Block) error {
	b.emit("br label %%%s", target.(textBlock).label)
	return nil
}

func (b *TextBuilder) BuildGlobalString(value, name string) (Value, error) {
	return b.next("", "bitcast %q to i8*", value), nil
}

func (b *TextBuilder) BuildBitcast(val Value, t mlir.ValueType, name string) (Value, error) {
	return b.next("", "bitcast %v to %s", val, llType(t)), nil
}

func (b *TextBuilder) BuildGEP(ptr Value, pointee mlir.ValueType, index Value, name string) (Value, error) {
	return b.next("", "getelementptr %s, %v, %v", llType(pointee), ptr, index), nil
}

func (b *TextBuilder) ConstInt(t mlir.ValueType, text string) (Value, error) {
	return textValue{ref: text}, nil
}

func (b *TextBuilder) ConstFloat(t mlir.ValueType, text string) (Value, error) {
	return textValue{ref: text}, nil
}

func (b *TextBuilder) ConstBool(v bool) (Value, error) {
	if v {
		return textValue{ref: "1"}, nil
	}
	return textValue{ref: "0"}, nil
}

func (v textValue) String() string { return v.ref }
