package backend

import (
	"fmt"

	"github.com/wiz-lang/wizc/mlir"
)

// FakeBuilder is an in-memory Builder used by this package's own tests
// (and usable by any caller wanting a Builder without linking a real code
// generator backend). It does not produce an executable artifact; it
// records every operation as a line of text in Instrs, in emission order,
// which is enough to assert CodeGen drove the Builder correctly without
// depending on any particular backend's object format.
//
// Grounded on the teacher's own pattern of testing codegen.CodeGen against
// a recording/fake executor rather than a live BuildKit daemon.
type FakeBuilder struct {
	Instrs []string

	funcs    map[string]*fakeFunc
	curFunc  *fakeFunc
	curBlock string
	nextID   int
	nextBB   int
}

type fakeFunc struct {
	name    string
	args    []mlir.ValueType
	ret     mlir.ValueType
	linkage Linkage
	blocks  []string
}

type fakeValue struct{ id string }
type fakeBlock struct {
	fn    string
	label string
}

func NewFakeBuilder() *FakeBuilder {
	return &FakeBuilder{funcs: make(map[string]*fakeFunc)}
}

func (f *FakeBuilder) val(format string, a ...interface{}) Value {
	f.nextID++
	v := fmt.Sprintf("%%%d", f.nextID)
	f.Instrs = append(f.Instrs, fmt.Sprintf("%s = "+format, append([]interface{}{v}, a...)...))
	return fakeValue{id: v}
}

func (f *FakeBuilder) AddFunction(name string, argTypes []mlir.ValueType, retType mlir.ValueType, linkage Linkage) (Function, error) {
	fn := &fakeFunc{name: name, args: argTypes, ret: retType, linkage: linkage}
	f.funcs[name] = fn
	f.Instrs = append(f.Instrs, fmt.Sprintf("declare %s(%d args)", name, len(argTypes)))
	return fn, nil
}

func (f *FakeBuilder) Param(fn Function, index int) (Value, error) {
	ff := fn.(*fakeFunc)
	return fakeValue{id: fmt.Sprintf("%%%s.arg%d", ff.name, index)}, nil
}

func (f *FakeBuilder) AppendBasicBlock(fn Function, label string) (Block, error) {
	ff := fn.(*fakeFunc)
	f.nextBB++
	b := fakeBlock{fn: ff.name, label: fmt.Sprintf("%s.%d", label, f.nextBB)}
	ff.blocks = append(ff.blocks, b.label)
	return b, nil
}

func (f *FakeBuilder) PositionAtEnd(b Block) {
	bb := b.(fakeBlock)
	f.curFunc = f.funcs[bb.fn]
	f.curBlock = bb.label
	f.Instrs = append(f.Instrs, fmt.Sprintf("%s:", bb.label))
}

func (f *FakeBuilder) BuildAlloca(t mlir.ValueType, name string) (Value, error) {
	return f.val("alloca %s, %s", name, t.Primitive), nil
}

func (f *FakeBuilder) BuildStore(ptr, val Value) error {
	f.Instrs = append(f.Instrs, fmt.Sprintf("store %v -> %v", val, ptr))
	return nil
}

func (f *FakeBuilder) BuildLoad(ptr Value, t mlir.ValueType, name string) (Value, error) {
	return f.val("load %v, %s", ptr, name), nil
}

func (f *FakeBuilder) BuildIntAdd(lhs, rhs Value, name string) (Value, error) {
	return f.val("iadd %v, %v", lhs, rhs), nil
}
func (f *FakeBuilder) BuildIntSub(lhs, rhs Value, name string) (Value, error) {
	return f.val("isub %v, %v", lhs, rhs), nil
}
func (f *FakeBuilder) BuildIntMul(lhs, rhs Value, name string) (Value, error) {
	return f.val("imul %v, %v", lhs, rhs), nil
}
func (f *FakeBuilder) BuildIntSDiv(lhs, rhs Value, name string) (Value, error) {
	return f.val("sdiv %v, %v", lhs, rhs), nil
}
func (f *FakeBuilder) BuildIntSRem(lhs, rhs Value, name string) (Value, error) {
	return f.val("srem %v, %v", lhs, rhs), nil
}
func (f *FakeBuilder) BuildIntCmp(pred IntPredicate, lhs, rhs Value, name string) (Value, error) {
	return f.val("icmp %d, %v, %v", pred, lhs, rhs), nil
}

func (f *FakeBuilder) BuildFloatAdd(lhs, rhs Value, name string) (Value, error) {
	return f.val("fadd %v, %v", lhs, rhs), nil
}
func (f *FakeBuilder) BuildFloatSub(lhs, rhs Value, name string) (Value, error) {
	return f.val("fsub %v, %v", lhs, rhs), nil
}
func (f *FakeBuilder) BuildFloatMul(lhs, rhs Value, name string) (Value, error) {
	return f.val("fmul %v, %v", lhs, rhs), nil
}
func (f *FakeBuilder) BuildFloatDiv(lhs, rhs Value, name string) (Value, error) {
	return f.val("fdiv %v, %v", lhs, rhs), nil
}
func (f *FakeBuilder) BuildFloatCmp(pred FloatPredicate, lhs, rhs Value, name string) (Value, error) {
	return f.val("fcmp %d, %v, %v", pred, lhs, rhs), nil
}

func (f *FakeBuilder) BuildCall(fn Function, args []Value, name string) (Value, error) {
	ff := fn.(*fakeFunc)
	return f.val("call %s(%v)", ff.name, args), nil
}

func (f *FakeBuilder) BuildReturn(val Value) error {
	if val == nil {
		f.Instrs = append(f.Instrs, "ret void")
	} else {
		f.Instrs = append(f.Instrs, fmt.Sprintf("ret %v", val))
	}
	return nil
}

func (f *FakeBuilder) BuildCondBr(cond Value, then, els Block) error {
	f.Instrs = append(f.Instrs, fmt.Sprintf("br %v, %v, %v", cond, then.(fakeBlock).label, els.(fakeBlock).label))
	return nil
}

func (f *FakeBuilder) BuildBr(target Block) error {
	f.Instrs = append(f.Instrs, fmt.Sprintf("br %v", target.(fakeBlock).label))
	return nil
}

func (f *FakeBuilder) BuildGlobalString(value, name string) (Value, error) {
	return f.val("global_string %q, %s", value, name), nil
}

func (f *FakeBuilder) BuildBitcast(val Value, t mlir.ValueType, name string) (Value, error) {
	return f.val("bitcast %v, %s", val, name), nil
}

func (f *FakeBuilder) BuildGEP(ptr Value, pointee mlir.ValueType, index Value, name string) (Value, error) {
	return f.val("gep %v, %v, %s", ptr, index, name), nil
}

func (f *FakeBuilder) ConstInt(t mlir.ValueType, text string) (Value, error) {
	return fakeValue{id: "int:" + text}, nil
}

func (f *FakeBuilder) ConstFloat(t mlir.ValueType, text string) (Value, error) {
	return fakeValue{id: "float:" + text}, nil
}

func (f *FakeBuilder) ConstBool(b bool) (Value, error) {
	return fakeValue{id: fmt.Sprintf("bool:%v", b)}, nil
}
