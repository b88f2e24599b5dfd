package backend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/lower"
	"github.com/wiz-lang/wizc/mlir"
	"github.com/wiz-lang/wizc/parser"
	"github.com/wiz-lang/wizc/resolver"
	"github.com/wiz-lang/wizc/syntax"
)

// generate runs the full pipeline (parse, resolve, lower, codegen) over src
// against a fresh FakeBuilder and returns it for trace assertions.
func generate(t *testing.T, src string) *FakeBuilder {
	t.Helper()
	f, err := parser.ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)

	r := resolver.New(arena.New())
	require.NoError(t, r.Expand([]*syntax.File{f}))
	require.NoError(t, r.Preload([]*syntax.File{f}))
	hfs, err := r.BodyResolve([]*syntax.File{f})
	require.NoError(t, err)

	mf, err := lower.Lower(r.Arena(), hfs)
	require.NoError(t, err)

	fb := NewFakeBuilder()
	require.NoError(t, NewCodeGen(fb).Generate(mf))
	return fb
}

func joined(fb *FakeBuilder) string { return strings.Join(fb.Instrs, "\n") }

func TestGenerateSimpleFunctionAddition(t *testing.T) {
	const src = `
fun add(a: int32, b: int32): int32 {
	return a + b
}
`
	fb := generate(t, src)
	trace := joined(fb)
	assert.Contains(t, trace, "declare add(2 args)")
	assert.Contains(t, trace, "iadd")
	assert.Contains(t, trace, "ret")
}

func TestGenerateStructMemberAccessUsesGEP(t *testing.T) {
	const src = `
struct Point {
	var x: int32 = 0
	var y: int32 = 0

	fun sum(self): int32 {
		return self.x + self.y
	}
}
`
	fb := generate(t, src)
	trace := joined(fb)
	assert.Contains(t, trace, "declare Point::sum(1 args)")
	assert.Contains(t, trace, "gep")
	assert.Contains(t, trace, "iadd")
}

func TestGenerateIfExpressionUsesAllocaAndMergeBlock(t *testing.T) {
	const src = `
fun classify(n: int32): int32 {
	return if (n == 0) {
		0
	} else {
		1
	}
}
`
	fb := generate(t, src)
	trace := joined(fb)
	assert.Contains(t, trace, "icmp")
	assert.Contains(t, trace, "if.then")
	assert.Contains(t, trace, "if.else")
	assert.Contains(t, trace, "if.merge")
	assert.Contains(t, trace, "alloca")
}

func TestGenerateWhileLoopEmitsCondBodyAfterBlocks(t *testing.T) {
	const src = `
fun count_down(n: int32): int32 {
	var x: int32 = n
	while (x > 0) {
		x = x - 1
	}
	return x
}
`
	fb := generate(t, src)
	trace := joined(fb)
	assert.Contains(t, trace, "while.cond")
	assert.Contains(t, trace, "while.body")
	assert.Contains(t, trace, "while.after")
}

func TestGenerateExternFunctionIsDeclaredWithExternalLinkageOnly(t *testing.T) {
	const src = `
extern "C" {
	fun puts(s: str): int32
}
`
	fb := generate(t, src)
	trace := joined(fb)
	assert.Contains(t, trace, "declare puts(1 args)")
	assert.Equal(t, External, fb.funcs["puts"].linkage)
	// An extern signature has no body, so its only trace line is the
	// declaration itself — no entry block, no instructions.
	assert.NotContains(t, trace, "entry")
}

func TestGenerateGenericFunctionEmitsOnePerInstantiation(t *testing.T) {
	const src = `
fun identity<T>(x: T): T {
	return x
}

fun call_int(): int32 {
	return identity(42)
}
`
	fb := generate(t, src)
	trace := joined(fb)
	assert.Contains(t, trace, "declare identity$int32(1 args)")
	assert.NotContains(t, trace, "declare identity(")
}

func TestGenerateStringLiteralInternsRepeatedConstants(t *testing.T) {
	const src = `
fun greet_twice(): str {
	var a: str = "hi"
	var b: str = "hi"
	return b
}
`
	fb := generate(t, src)
	count := strings.Count(joined(fb), "global_string")
	assert.Equal(t, 1, count)
}

func TestGenerateFunctionCallPassesReceiverByAddress(t *testing.T) {
	const src = `
struct Counter {
	var n: int32 = 0

	fun get(self): int32 {
		return self.n
	}
}

fun read(c: Counter): int32 {
	return c.get()
}
`
	fb := generate(t, src)
	trace := joined(fb)
	assert.Contains(t, trace, "call Counter::get")
	// c's stack slot is passed as the receiver; c itself is never loaded.
	assert.NotContains(t, trace, "c.val")
}

func TestGenerateUnaryNegationAndLogicalNot(t *testing.T) {
	const src = `
fun negate(n: int32): int32 {
	return -n
}

fun invert(b: bool): bool {
	return !b
}
`
	fb := generate(t, src)
	trace := joined(fb)
	assert.Contains(t, trace, "isub") // 0 - n
	assert.Contains(t, trace, "icmp") // not via equality to false
}

func TestGenerateUnsupportedBuilderRejectsStructLiteral(t *testing.T) {
	fb := NewFakeBuilder()
	cg := NewCodeGen(fb)
	mf := &mlir.File{Decls: []*mlir.Decl{{Fun: &mlir.FunDecl{
		Name: "make",
		Ret:  mlir.Primitive(mlir.Int32),
		Body: &mlir.FunBody{Body: []*mlir.Stmt{{Expr: &mlir.Expr{
			Type:    mlir.ValueOf(mlir.Primitive(mlir.Int32)),
			Literal: &mlir.Literal{Kind: mlir.StructLiteral, Text: ""},
		}}}},
	}}}}
	err := cg.Generate(mf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "struct literals")
}
