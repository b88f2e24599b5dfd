package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/hlir"
	"github.com/wiz-lang/wizc/parser"
	"github.com/wiz-lang/wizc/syntax"
)

// resolveSource runs all three sub-passes over one source file and returns
// the resolver (for arena inspection) plus the resolved HLIR files.
func resolveSource(t *testing.T, src string) (*Resolver, []*hlir.File) {
	t.Helper()
	f, err := parser.ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)

	r := New(arena.New())
	require.NoError(t, r.Expand([]*syntax.File{f}))
	require.NoError(t, r.Preload([]*syntax.File{f}))
	hfs, err := r.BodyResolve([]*syntax.File{f})
	require.NoError(t, err)
	return r, hfs
}

func TestResolveSimpleFunctionAddition(t *testing.T) {
	const src = `
fun add(a: int32, b: int32): int32 {
	return a + b
}
`
	_, hfs := resolveSource(t, src)
	require.Len(t, hfs, 1)
	require.Len(t, hfs[0].Decls, 1)

	fn := hfs[0].Decls[0].Fun
	require.NotNil(t, fn)
	assert.Equal(t, "add", fn.Name)
	assert.True(t, fn.ReturnType.IsInteger())

	ret := fn.Body.List[0]
	require.NotNil(t, ret.Expr)
	require.NotNil(t, ret.Expr.Return)
	binOp := ret.Expr.Return.Value
	require.NotNil(t, binOp.Binary)
	assert.Equal(t, syntax.OpAdd, binOp.Binary.Op)
	assert.True(t, binOp.Type.IsInteger())
}

func TestResolveStructWithStoredPropertyAndMethod(t *testing.T) {
	const src = `
struct Point {
	var x: int32 = 0
	var y: int32 = 0

	fun sum(self): int32 {
		return self.x + self.y
	}
}

fun use_point(p: Point): int32 {
	return p.sum()
}
`
	_, hfs := resolveSource(t, src)
	require.Len(t, hfs[0].Decls, 2)

	structDecl := hfs[0].Decls[0].Struct
	require.NotNil(t, structDecl)
	assert.Equal(t, "Point", structDecl.Name)
	require.Len(t, structDecl.Properties, 2)
	require.Len(t, structDecl.Members, 1)

	useFn := hfs[0].Decls[1].Fun
	require.NotNil(t, useFn)
	retStmt := useFn.Body.List[0]
	call := retStmt.Expr.Return.Value
	require.NotNil(t, call.Call)
	// the dotted call rewrites to Point::sum(p) with the receiver prepended
	require.Len(t, call.Call.Args, 1)
	assert.True(t, call.Type.IsInteger())
}

func TestResolveGenericFunctionRecordsInstantiation(t *testing.T) {
	const src = `
fun identity<T>(x: T): T {
	return x
}

fun call_it(): int32 {
	return identity(42)
}
`
	r, _ := resolveSource(t, src)
	id, ok := r.Arena().ResolveDeclarationIDFromRoot([]string{"identity"})
	require.True(t, ok)
	fn := r.Arena().MustGet(id).Function
	require.NotNil(t, fn)
	require.Len(t, fn.UsedInstantiations, 1)
	assert.True(t, fn.UsedInstantiations[0]["T"].IsInteger())
}

func TestResolveGenericFunctionsShareTypeParamNameWithoutCollision(t *testing.T) {
	const src = `
fun first<T>(x: T): T {
	return x
}

fun second<T>(x: T): T {
	return x
}

fun call_both(): int32 {
	return first(second(7))
}
`
	r, _ := resolveSource(t, src)
	firstID, ok := r.Arena().ResolveDeclarationIDFromRoot([]string{"first"})
	require.True(t, ok)
	secondID, ok := r.Arena().ResolveDeclarationIDFromRoot([]string{"second"})
	require.True(t, ok)

	firstFn := r.Arena().MustGet(firstID).Function
	secondFn := r.Arena().MustGet(secondID).Function
	require.Len(t, firstFn.UsedInstantiations, 1)
	require.Len(t, secondFn.UsedInstantiations, 1)
	assert.True(t, firstFn.UsedInstantiations[0]["T"].IsInteger())
	assert.True(t, secondFn.UsedInstantiations[0]["T"].IsInteger())
}

func TestResolveExtensionMergesMemberFunction(t *testing.T) {
	const src = `
struct Counter {
	var n: int32 = 0
}

extension Counter {
	fun doubled(self): int32 {
		return self.n * 2
	}
}

fun run(c: Counter): int32 {
	return c.doubled()
}
`
	r, hfs := resolveSource(t, src)
	id, ok := r.Arena().ResolveDeclarationIDFromRoot([]string{"Counter"})
	require.True(t, ok)
	info := r.Arena().MustGet(id).Type
	assert.Contains(t, info.MemberFunctions, "doubled")

	runFn := hfs[0].Decls[2].Fun
	retStmt := runFn.Body.List[0]
	call := retStmt.Expr.Return.Value
	assert.True(t, call.Type.IsInteger())
}

func TestResolveIfExpressionYieldsBranchType(t *testing.T) {
	const src = `
fun choose(flag: bool): int32 {
	return if (flag) {
		1
	} else {
		2
	}
}
`
	_, hfs := resolveSource(t, src)
	fn := hfs[0].Decls[0].Fun
	ifExpr := fn.Body.List[0].Expr.Return.Value
	require.NotNil(t, ifExpr.If)
	assert.True(t, ifExpr.Type.IsInteger())
	require.NotNil(t, ifExpr.If.ThenResult)
	require.NotNil(t, ifExpr.If.ElseResult)
}

func TestResolveWhileLoopRequiresBoolCondition(t *testing.T) {
	const src = `
fun count(n: int32) {
	while (n) {
		n = n - 1
	}
}
`
	f, err := parser.ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)
	r := New(arena.New())
	require.NoError(t, r.Expand([]*syntax.File{f}))
	require.NoError(t, r.Preload([]*syntax.File{f}))
	_, err = r.BodyResolve([]*syntax.File{f})
	require.Error(t, err)
	e, ok := errdefs.As(err, errdefs.Resolver)
	require.True(t, ok)
	assert.Contains(t, e.Error(), "bool")
}

func TestResolveUndefinedNameFails(t *testing.T) {
	const src = `
fun bad(): int32 {
	return nonexistent
}
`
	f, err := parser.ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)
	r := New(arena.New())
	require.NoError(t, r.Expand([]*syntax.File{f}))
	require.NoError(t, r.Preload([]*syntax.File{f}))
	_, err = r.BodyResolve([]*syntax.File{f})
	require.Error(t, err)
	_, ok := errdefs.As(err, errdefs.Resolver)
	assert.True(t, ok)
}

func TestResolveAssignmentRejectsNonLvalueTarget(t *testing.T) {
	const src = `
fun bad() {
	1 = 2
}
`
	_, err := parser.ParseFile("t.wiz", []byte(src))
	// The parser itself only treats "=" after a directly-assignable shape
	// as an assignment; "1 = 2" parses as the expression statement "1"
	// followed by a dangling "= 2", which is a parse error, not a resolver
	// one. Confirm it is rejected before it ever reaches the resolver.
	require.Error(t, err)
}

func TestResolveMissingTypeAnnotationOnGlobalFails(t *testing.T) {
	const src = `
fun one(): int32 { return 1 }
var g = one()
`
	f, err := parser.ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)
	r := New(arena.New())
	require.NoError(t, r.Expand([]*syntax.File{f}))
	err = r.Preload([]*syntax.File{f})
	require.Error(t, err)
	_, ok := errdefs.As(err, errdefs.Resolver)
	assert.True(t, ok)
}

func TestResolveOverloadDisambiguationByArgType(t *testing.T) {
	const src = `
fun describe(x: int32): str {
	return "int"
}

fun describe(x: bool): str {
	return "bool"
}

fun pick(): str {
	return describe(true)
}
`
	_, hfs := resolveSource(t, src)
	pick := hfs[0].Decls[2].Fun
	call := pick.Body.List[0].Expr.Return.Value
	require.NotNil(t, call.Call)
	nameExpr := call.Call.Callee.Name
	require.NotNil(t, nameExpr)
	assert.Equal(t, "str", call.Type.Name())
}

func TestResolveUseBindsNamespacedName(t *testing.T) {
	const src = `
mod math {
	fun square(x: int32): int32 {
		return x * x
	}
}

use math::square

fun run(): int32 {
	return square(4)
}
`
	_, hfs := resolveSource(t, src)
	require.Len(t, hfs[0].Uses, 1)
	assert.Equal(t, []string{"math", "square"}, hfs[0].Uses[0].Path)

	runFn := hfs[0].Decls[1].Fun
	call := runFn.Body.List[0].Expr.Return.Value
	assert.True(t, call.Type.IsInteger())
}

func TestResolveLiteralDedentsMultilineStringText(t *testing.T) {
	src := "fun message(): str {\n\treturn \"line one\n\t            line two\"\n}\n"
	_, hfs := resolveSource(t, src)

	fn := hfs[0].Decls[0].Fun
	lit := fn.Body.List[0].Expr.Return.Value.Literal
	require.NotNil(t, lit)
	assert.Equal(t, "\"line one\nline two\"", lit.Text)
}

func TestPreloadCollectsDocCommentsOntoArenaItems(t *testing.T) {
	const src = `
/// Computes the square of x.
fun square(x: int32): int32 {
	return x * x
}

// not a doc comment
fun cube(x: int32): int32 {
	return x * x * x
}
`
	r, hfs := resolveSource(t, src)

	squareFn := hfs[0].Decls[0].Fun
	assert.Equal(t, "/// Computes the square of x.", r.Arena().MustGet(squareFn.Ref.ID).Doc)

	cubeFn := hfs[0].Decls[1].Fun
	assert.Equal(t, "", r.Arena().MustGet(cubeFn.Ref.ID).Doc)
}
