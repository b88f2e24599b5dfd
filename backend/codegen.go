package backend

import (
	"fmt"
	"strconv"

	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/mlir"
	"github.com/wiz-lang/wizc/token"
	"golang.org/x/sync/singleflight"
)

// intPredicates/floatPredicates map spec §3.6's flat BinOpKind onto the
// predicate a comparison builder call needs, split by operand kind since
// MLIR (like the source language) has one comparison opcode set doing
// double duty for both.
var intPredicates = map[mlir.BinOpKind]IntPredicate{
	mlir.Equal:            IntEQ,
	mlir.NotEqual:         IntNE,
	mlir.LessThan:         IntSLT,
	mlir.GreaterThan:      IntSGT,
	mlir.LessThanEqual:    IntSLE,
	mlir.GreaterThanEqual: IntSGE,
}

var floatPredicates = map[mlir.BinOpKind]FloatPredicate{
	mlir.Equal:            FloatEQ,
	mlir.NotEqual:         FloatNE,
	mlir.LessThan:         FloatLT,
	mlir.GreaterThan:      FloatGT,
	mlir.LessThanEqual:    FloatLE,
	mlir.GreaterThanEqual: FloatGE,
}

// slot is a local binding's stack address plus the type stored there; every
// parameter and `var` gets one, the same way an unoptimized (-O0-style)
// LLVM frontend spills everything to the stack rather than tracking SSA
// values directly, trading register pressure for never needing a phi
// instruction — which this core's fixed Builder op set has no room for
// anyway (see CodeGen.emitIfExpr).
type slot struct {
	ptr Value
	typ mlir.ValueType
}

// CodeGen walks one mlir.File and drives a Builder through it (spec §4.6).
//
// Grounded on the teacher's codegen.CodeGen: the same tagged-union Emit*
// dispatch family over a fixed node set, and the same use of
// singleflight.Group to dedupe work keyed by an identity that recurs across
// a file — there it dedupes import resolution by source position, here it
// dedupes global string-constant emission by literal text, so that two
// occurrences of the same string literal never allocate two globals.
type CodeGen struct {
	b Builder

	sf        singleflight.Group
	strConsts map[string]Value

	funcs     map[string]Function
	funcDecls map[string]*mlir.FunDecl
	structs   map[string][]mlir.Field

	curFn Function
	env   []map[string]slot
}

func NewCodeGen(b Builder) *CodeGen {
	return &CodeGen{
		b:         b,
		strConsts: make(map[string]Value),
		funcs:     make(map[string]Function),
		funcDecls: make(map[string]*mlir.FunDecl),
		structs:   make(map[string][]mlir.Field),
		env:       []map[string]slot{make(map[string]slot)},
	}
}

// Generate emits f in two passes: every function is declared (so a forward
// reference to a not-yet-processed function resolves) before any function
// body is defined.
func (c *CodeGen) Generate(f *mlir.File) error {
	for _, d := range f.Decls {
		if d.Struct != nil {
			c.structs[d.Struct.Name] = d.Struct.Fields
		}
	}

	for _, d := range f.Decls {
		if d.Fun == nil {
			continue
		}
		argTypes := make([]mlir.ValueType, len(d.Fun.Args))
		for i, a := range d.Fun.Args {
			argTypes[i] = a.Type
		}
		linkage := Internal
		if d.Fun.Body == nil {
			linkage = External
		}
		fn, err := c.b.AddFunction(d.Fun.Name, argTypes, d.Fun.Ret, linkage)
		if err != nil {
			return errdefs.WithCodegenError(token.Position{}, "declaring %s: %s", d.Fun.Name, err)
		}
		c.funcs[d.Fun.Name] = fn
		c.funcDecls[d.Fun.Name] = d.Fun
	}

	for _, d := range f.Decls {
		if d.Var == nil {
			continue
		}
		v, t, err := c.emitGlobalConst(d.Var)
		if err != nil {
			return err
		}
		c.env[0][d.Var.Name] = slot{ptr: v, typ: t}
	}

	for _, d := range f.Decls {
		if d.Fun == nil || d.Fun.Body == nil {
			continue
		}
		if err := c.emitFunBody(d.Fun); err != nil {
			return err
		}
	}
	return nil
}

// emitGlobalConst requires a module-scope var's initializer to be a literal,
// since nothing in spec §4.6's op list can run arbitrary initialization
// code before a function entry point exists to run it from.
func (c *CodeGen) emitGlobalConst(v *mlir.VarDecl) (Value, mlir.ValueType, error) {
	if v.Value == nil || v.Value.Literal == nil {
		return nil, mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "module-scope %q needs a literal initializer", v.Name)
	}
	t, ok := v.Type.Value, v.Type.Value != nil
	if !ok {
		return nil, mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "module-scope %q has no value type", v.Name)
	}
	val, err := c.emitLiteral(v.Value.Literal, *t)
	if err != nil {
		return nil, mlir.ValueType{}, err
	}
	return val, *t, nil
}

func (c *CodeGen) pushScope()        { c.env = append(c.env, make(map[string]slot)) }
func (c *CodeGen) popScope()         { c.env = c.env[:len(c.env)-1] }
func (c *CodeGen) bind(name string, s slot) { c.env[len(c.env)-1][name] = s }

// lookup walks the environment stack innermost-first, falling back to the
// module-level (index 0) map last, per spec §4.6's environment model.
func (c *CodeGen) lookup(name string) (slot, bool) {
	for i := len(c.env) - 1; i >= 0; i-- {
		if s, ok := c.env[i][name]; ok {
			return s, true
		}
	}
	return slot{}, false
}

func (c *CodeGen) emitFunBody(fn *mlir.FunDecl) error {
	handle, ok := c.funcs[fn.Name]
	if !ok {
		return errdefs.WithCodegenError(token.Position{}, "%s was never declared", fn.Name)
	}
	prevFn := c.curFn
	c.curFn = handle
	defer func() { c.curFn = prevFn }()

	entry, err := c.b.AppendBasicBlock(handle, "entry")
	if err != nil {
		return errdefs.WithCodegenError(token.Position{}, "%s: %s", fn.Name, err)
	}
	c.b.PositionAtEnd(entry)

	c.pushScope()
	defer c.popScope()

	for i, a := range fn.Args {
		p, err := c.b.Param(handle, i)
		if err != nil {
			return errdefs.WithCodegenError(token.Position{}, "%s: reading parameter %s: %s", fn.Name, a.Name, err)
		}
		ptr, err := c.b.BuildAlloca(a.Type, a.Name)
		if err != nil {
			return errdefs.WithCodegenError(token.Position{}, "%s: %s", fn.Name, err)
		}
		if err := c.b.BuildStore(ptr, p); err != nil {
			return errdefs.WithCodegenError(token.Position{}, "%s: %s", fn.Name, err)
		}
		c.bind(a.Name, slot{ptr: ptr, typ: a.Type})
	}

	_, err = c.emitBlockValue(fn.Body.Body)
	return err
}

// emitBlockValue runs every statement in order; if the last one is a bare
// expression statement (spec §4.5's trailing-expression block result rule)
// its value is returned rather than discarded.
func (c *CodeGen) emitBlockValue(stmts []*mlir.Stmt) (Value, error) {
	for i, s := range stmts {
		if i == len(stmts)-1 && s.Expr != nil {
			return c.emitExpr(s.Expr)
		}
		if err := c.emitStmt(s); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (c *CodeGen) emitStmt(s *mlir.Stmt) error {
	switch {
	case s.Var != nil:
		val, err := c.emitExpr(s.Var.Value)
		if err != nil {
			return err
		}
		t := *s.Var.Type.Value
		ptr, err := c.b.BuildAlloca(t, s.Var.Name)
		if err != nil {
			return errdefs.WithCodegenError(token.Position{}, "var %s: %s", s.Var.Name, err)
		}
		if err := c.b.BuildStore(ptr, val); err != nil {
			return errdefs.WithCodegenError(token.Position{}, "var %s: %s", s.Var.Name, err)
		}
		c.bind(s.Var.Name, slot{ptr: ptr, typ: t})
		return nil
	case s.Assignment != nil:
		ptr, _, err := c.emitAddress(s.Assignment.Target)
		if err != nil {
			return err
		}
		val, err := c.emitExpr(s.Assignment.Value)
		if err != nil {
			return err
		}
		return c.b.BuildStore(ptr, val)
	case s.Loop != nil:
		return c.emitLoop(s.Loop)
	case s.Expr != nil:
		_, err := c.emitExpr(s.Expr)
		return err
	default:
		return errdefs.WithCodegenError(token.Position{}, "empty statement")
	}
}

func (c *CodeGen) emitLoop(l *mlir.LoopStmt) error {
	condBB, err := c.b.AppendBasicBlock(c.curFn, "while.cond")
	if err != nil {
		return errdefs.WithCodegenError(token.Position{}, "%s", err)
	}
	bodyBB, err := c.b.AppendBasicBlock(c.curFn, "while.body")
	if err != nil {
		return errdefs.WithCodegenError(token.Position{}, "%s", err)
	}
	afterBB, err := c.b.AppendBasicBlock(c.curFn, "while.after")
	if err != nil {
		return errdefs.WithCodegenError(token.Position{}, "%s", err)
	}

	if err := c.b.BuildBr(condBB); err != nil {
		return err
	}

	c.b.PositionAtEnd(condBB)
	cond, err := c.emitExpr(l.Cond)
	if err != nil {
		return err
	}
	if err := c.b.BuildCondBr(cond, bodyBB, afterBB); err != nil {
		return err
	}

	c.b.PositionAtEnd(bodyBB)
	c.pushScope()
	_, err = c.emitBlockValue(l.Body.Body)
	c.popScope()
	if err != nil {
		return err
	}
	if err := c.b.BuildBr(condBB); err != nil {
		return err
	}

	c.b.PositionAtEnd(afterBB)
	return nil
}

// emitExpr evaluates e for its value. Member and Subscript reads go through
// emitAddress then a load, the same path an assignment target does, so the
// two never diverge in how they compute an address.
func (c *CodeGen) emitExpr(e *mlir.Expr) (Value, error) {
	switch {
	case e.Name != nil:
		ptr, t, err := c.emitAddress(e)
		if err != nil {
			return nil, err
		}
		return c.b.BuildLoad(ptr, t, e.Name.Name+".val")
	case e.Literal != nil:
		t, err := c.valueType(e.Type, "literal")
		if err != nil {
			return nil, err
		}
		return c.emitLiteral(e.Literal, t)
	case e.Call != nil:
		return c.emitCall(e.Call)
	case e.BinOp != nil:
		return c.emitBinOp(e.BinOp)
	case e.UnaryOp != nil:
		return c.emitUnaryOp(e.UnaryOp)
	case e.Member != nil, e.Subscript != nil:
		ptr, t, err := c.emitAddress(e)
		if err != nil {
			return nil, err
		}
		return c.b.BuildLoad(ptr, t, "member.val")
	case e.If != nil:
		return c.emitIfExpr(e)
	case e.Return != nil:
		return nil, c.emitReturn(e.Return)
	case e.TypeCast != nil:
		return c.emitTypeCast(e)
	default:
		return nil, errdefs.WithCodegenError(token.Position{}, "empty expression node")
	}
}

func (c *CodeGen) emitReturn(r *mlir.ReturnStmt) error {
	if r.Value == nil {
		return c.b.BuildReturn(nil)
	}
	v, err := c.emitExpr(r.Value)
	if err != nil {
		return err
	}
	return c.b.BuildReturn(v)
}

func (c *CodeGen) emitLiteral(lit *mlir.Literal, t mlir.ValueType) (Value, error) {
	switch lit.Kind {
	case mlir.IntegerLiteral:
		return c.b.ConstInt(t, lit.Text)
	case mlir.FloatLiteral:
		return c.b.ConstFloat(t, lit.Text)
	case mlir.BooleanLiteral:
		return c.b.ConstBool(lit.Text == "true")
	case mlir.StringLiteral:
		return c.internString(lit.Text)
	case mlir.NullLiteral:
		zero, err := c.b.ConstInt(mlir.Primitive(mlir.USize), "0")
		if err != nil {
			return nil, err
		}
		return c.b.BuildBitcast(zero, t, "null")
	default:
		return nil, errdefs.WithCodegenError(token.Position{}, "struct literals have no codegen representation")
	}
}

// internString deduplicates repeated occurrences of the same literal text
// within one Generate call via singleflight, so "foo" appearing at two call
// sites emits one global, not two.
func (c *CodeGen) internString(text string) (Value, error) {
	if v, ok := c.strConsts[text]; ok {
		return v, nil
	}
	res, err, _ := c.sf.Do(text, func() (interface{}, error) {
		return c.b.BuildGlobalString(text, fmt.Sprintf("str.%d", len(c.strConsts)))
	})
	if err != nil {
		return nil, errdefs.WithCodegenError(token.Position{}, "interning string literal: %s", err)
	}
	v := res.(Value)
	c.strConsts[text] = v
	return v, nil
}

func (c *CodeGen) emitCall(call *mlir.CallExpr) (Value, error) {
	if call.Target.Name == nil {
		return nil, errdefs.WithCodegenError(token.Position{}, "indirect call through a function value")
	}
	name := call.Target.Name.Name
	fn, ok := c.funcs[name]
	if !ok {
		return nil, errdefs.WithCodegenError(token.Position{}, "call to undeclared function %s", name)
	}
	decl := c.funcDecls[name]

	args := make([]Value, len(call.Args))
	for i, a := range call.Args {
		// A call argument bound to a declared pointer parameter (always
		// true of a method's receiver, spec §4.4.2's self-desugaring) is
		// passed by address rather than by loaded value: lowering's call
		// argument list still carries the receiver's plain struct-typed
		// expression since it never inserts a Ref around it, so codegen is
		// the point where that gap between the declared parameter's
		// pointer type and the call site's value type gets bridged.
		if decl != nil && i < len(decl.Args) && decl.Args[i].Type.Kind == mlir.PointerKind && isAddressable(a) {
			ptr, _, err := c.emitAddress(a)
			if err != nil {
				return nil, err
			}
			args[i] = ptr
			continue
		}
		v, err := c.emitExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return c.b.BuildCall(fn, args, name+".result")
}

func isAddressable(e *mlir.Expr) bool {
	return e.Name != nil || e.Member != nil || e.Subscript != nil
}

func (c *CodeGen) emitBinOp(b *mlir.BinOpExpr) (Value, error) {
	left, err := c.emitExpr(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.emitExpr(b.Right)
	if err != nil {
		return nil, err
	}
	t, err := c.valueType(b.Left.Type, "binary operand")
	if err != nil {
		return nil, err
	}

	if t.Primitive == mlir.Float || t.Primitive == mlir.Double {
		switch b.Kind {
		case mlir.Plus:
			return c.b.BuildFloatAdd(left, right, "fadd")
		case mlir.Minus:
			return c.b.BuildFloatSub(left, right, "fsub")
		case mlir.Mul:
			return c.b.BuildFloatMul(left, right, "fmul")
		case mlir.Div:
			return c.b.BuildFloatDiv(left, right, "fdiv")
		}
		if pred, ok := floatPredicates[b.Kind]; ok {
			return c.b.BuildFloatCmp(pred, left, right, "fcmp")
		}
		return nil, errdefs.WithCodegenError(token.Position{}, "binary operator has no float codegen")
	}

	switch b.Kind {
	case mlir.Plus:
		return c.b.BuildIntAdd(left, right, "add")
	case mlir.Minus:
		return c.b.BuildIntSub(left, right, "sub")
	case mlir.Mul:
		return c.b.BuildIntMul(left, right, "mul")
	case mlir.Div:
		return c.b.BuildIntSDiv(left, right, "sdiv")
	case mlir.Mod:
		return c.b.BuildIntSRem(left, right, "srem")
	}
	if pred, ok := intPredicates[b.Kind]; ok {
		return c.b.BuildIntCmp(pred, left, right, "icmp")
	}
	return nil, errdefs.WithCodegenError(token.Position{}, "binary operator has no integer codegen")
}

// emitUnaryOp synthesizes Negative/Not from the arithmetic/comparison ops
// Builder already has, since spec §4.6's op list has no dedicated negate or
// boolean-not primitive.
func (c *CodeGen) emitUnaryOp(u *mlir.UnaryOpExpr) (Value, error) {
	switch u.Kind {
	case mlir.Positive:
		return c.emitExpr(u.Target)
	case mlir.Negative:
		t, err := c.valueType(u.Target.Type, "negation operand")
		if err != nil {
			return nil, err
		}
		val, err := c.emitExpr(u.Target)
		if err != nil {
			return nil, err
		}
		if t.Primitive == mlir.Float || t.Primitive == mlir.Double {
			zero, err := c.b.ConstFloat(t, "0")
			if err != nil {
				return nil, err
			}
			return c.b.BuildFloatSub(zero, val, "fneg")
		}
		zero, err := c.b.ConstInt(t, "0")
		if err != nil {
			return nil, err
		}
		return c.b.BuildIntSub(zero, val, "neg")
	case mlir.Not:
		val, err := c.emitExpr(u.Target)
		if err != nil {
			return nil, err
		}
		f, err := c.b.ConstBool(false)
		if err != nil {
			return nil, err
		}
		return c.b.BuildIntCmp(IntEQ, val, f, "not")
	case mlir.Ref:
		ptr, _, err := c.emitAddress(u.Target)
		return ptr, err
	case mlir.DeRef:
		val, err := c.emitExpr(u.Target)
		if err != nil {
			return nil, err
		}
		t, err := c.valueType(u.Target.Type, "dereference operand")
		if err != nil {
			return nil, err
		}
		if t.Kind != mlir.PointerKind {
			return nil, errdefs.WithCodegenError(token.Position{}, "dereference of a non-pointer value")
		}
		return c.b.BuildLoad(val, *t.Inner.Value, "deref")
	default:
		return nil, errdefs.WithCodegenError(token.Position{}, "unary operator has no codegen")
	}
}

func (c *CodeGen) emitTypeCast(e *mlir.Expr) (Value, error) {
	val, err := c.emitExpr(e.TypeCast.Target)
	if err != nil {
		return nil, err
	}
	t, err := c.valueType(e.Type, "type cast")
	if err != nil {
		return nil, err
	}
	return c.b.BuildBitcast(val, t, "cast")
}

// emitAddress computes e's stack address. It is the single place both
// expression evaluation (for a Member/Subscript read) and assignment (for
// any lvalue target) compute an address, so the two never disagree about
// how one is derived.
//
// A struct or array value reachable only through a function's return value
// (never stored to a named local) has no address this core can take: spec
// §4.6's op list has no primitive to spill an arbitrary SSA value to a
// fresh stack slot on demand, so addressing one is rejected rather than
// silently materializing a hidden temporary.
func (c *CodeGen) emitAddress(e *mlir.Expr) (Value, mlir.ValueType, error) {
	switch {
	case e.Name != nil:
		s, ok := c.lookup(e.Name.Name)
		if !ok {
			return nil, mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "reference to undeclared name %s", e.Name.Name)
		}
		return s.ptr, s.typ, nil

	case e.Member != nil:
		basePtr, baseType, err := c.memberBase(e.Member.Target)
		if err != nil {
			return nil, mlir.ValueType{}, err
		}
		if baseType.Kind != mlir.StructKind {
			return nil, mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "member access on a non-struct value")
		}
		fields, ok := c.structs[baseType.StructName]
		if !ok {
			return nil, mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "unknown struct %s", baseType.StructName)
		}
		idx := -1
		var fieldType mlir.ValueType
		for i, f := range fields {
			if f.Name == e.Member.Name {
				idx, fieldType = i, f.Type
				break
			}
		}
		if idx < 0 {
			return nil, mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "%s has no field %s", baseType.StructName, e.Member.Name)
		}
		idxVal, err := c.b.ConstInt(mlir.Primitive(mlir.USize), strconv.Itoa(idx))
		if err != nil {
			return nil, mlir.ValueType{}, err
		}
		ptr, err := c.b.BuildGEP(basePtr, baseType, idxVal, e.Member.Name+".addr")
		return ptr, fieldType, err

	case e.Subscript != nil:
		basePtr, baseType, err := c.memberBase(e.Subscript.Target)
		if err != nil {
			return nil, mlir.ValueType{}, err
		}
		if baseType.Kind != mlir.ArrayKind {
			return nil, mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "subscript of a non-array value")
		}
		idxVal, err := c.emitExpr(e.Subscript.Index)
		if err != nil {
			return nil, mlir.ValueType{}, err
		}
		ptr, err := c.b.BuildGEP(basePtr, baseType, idxVal, "elem.addr")
		return ptr, *baseType.Elem, err

	default:
		return nil, mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "expression has no address")
	}
}

// memberBase resolves the struct/array a Member or Subscript indexes into:
// an addressable local is used directly, and a self-like receiver (already
// a pointer value, spec §4.4.2) is used as-is without a further address-of.
func (c *CodeGen) memberBase(target *mlir.Expr) (Value, mlir.ValueType, error) {
	if isAddressable(target) {
		ptr, t, err := c.emitAddress(target)
		if err == nil {
			return ptr, t, nil
		}
	}
	t, err := c.valueType(target.Type, "member/subscript target")
	if err != nil {
		return nil, mlir.ValueType{}, err
	}
	if t.Kind != mlir.PointerKind {
		return nil, mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "member/subscript target is neither addressable nor a pointer")
	}
	val, err := c.emitExpr(target)
	if err != nil {
		return nil, mlir.ValueType{}, err
	}
	return val, *t.Inner.Value, nil
}

func (c *CodeGen) emitIfExpr(e *mlir.Expr) (Value, error) {
	ifE := e.If
	cond, err := c.emitExpr(ifE.Cond)
	if err != nil {
		return nil, err
	}

	resultType, hasResult := e.Type.Value, e.Type.Value != nil && e.Type.Value.Primitive != mlir.Unit
	var resultSlot Value
	if hasResult {
		resultSlot, err = c.b.BuildAlloca(*resultType, "if.result")
		if err != nil {
			return nil, err
		}
	}

	thenBB, err := c.b.AppendBasicBlock(c.curFn, "if.then")
	if err != nil {
		return nil, err
	}
	mergeBB, err := c.b.AppendBasicBlock(c.curFn, "if.merge")
	if err != nil {
		return nil, err
	}
	elseBB := mergeBB
	if ifE.Else != nil {
		elseBB, err = c.b.AppendBasicBlock(c.curFn, "if.else")
		if err != nil {
			return nil, err
		}
	}
	if err := c.b.BuildCondBr(cond, thenBB, elseBB); err != nil {
		return nil, err
	}

	c.b.PositionAtEnd(thenBB)
	c.pushScope()
	thenVal, err := c.emitBlockValue(ifE.Body.Body)
	c.popScope()
	if err != nil {
		return nil, err
	}
	if hasResult {
		if err := c.b.BuildStore(resultSlot, thenVal); err != nil {
			return nil, err
		}
	}
	if err := c.b.BuildBr(mergeBB); err != nil {
		return nil, err
	}

	if ifE.Else != nil {
		c.b.PositionAtEnd(elseBB)
		c.pushScope()
		elseVal, err := c.emitBlockValue(ifE.Else.Body)
		c.popScope()
		if err != nil {
			return nil, err
		}
		if hasResult {
			if err := c.b.BuildStore(resultSlot, elseVal); err != nil {
				return nil, err
			}
		}
		if err := c.b.BuildBr(mergeBB); err != nil {
			return nil, err
		}
	}

	c.b.PositionAtEnd(mergeBB)
	if !hasResult {
		return nil, nil
	}
	return c.b.BuildLoad(resultSlot, *resultType, "if.result.val")
}

// valueType rejects a Function-kind mlir.Type: this backend has no runtime
// representation for a first-class function value (lower already refuses
// to lower a bare member-function reference and a lambda for the same
// reason), only named call targets.
func (c *CodeGen) valueType(t mlir.Type, what string) (mlir.ValueType, error) {
	if t.Value == nil {
		return mlir.ValueType{}, errdefs.WithCodegenError(token.Position{}, "%s has no first-class function codegen representation", what)
	}
	return *t.Value, nil
}
