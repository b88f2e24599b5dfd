package resolver

import (
	"strings"

	"github.com/lithammer/dedent"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/hlir"
	"github.com/wiz-lang/wizc/syntax"
	"github.com/wiz-lang/wizc/token"
	"github.com/wiz-lang/wizc/types"
)

// resolveExpr types one expression per spec §4.4.2/§4.4.4-§4.4.6. expect, if
// non-nil, is the contextual type (a variable's declared type, a field's
// stored-property type) used both for integer-literal adoption (§4.4.5) and
// overload disambiguation (§4.4.2 step 5).
func (r *Resolver) resolveExpr(e *syntax.Expr, expect *types.Type) (*hlir.Expr, error) {
	switch {
	case e.Name != nil:
		return r.resolveNameExpr(e.Name.Path, expect)
	case e.Literal != nil:
		return r.resolveLiteral(e.Literal, expect), nil
	case e.Binary != nil:
		return r.resolveBinary(e.Binary)
	case e.Unary != nil:
		return r.resolveUnary(e.Unary)
	case e.Subscript != nil:
		return r.resolveSubscript(e.Subscript)
	case e.Member != nil:
		return r.resolveMember(e.Member)
	case e.Call != nil:
		return r.resolveCall(e.Call)
	case e.If != nil:
		return r.resolveIf(e.If, expect)
	case e.When != nil:
		// spec §9 Open Question: `when` is an accepted grammar production
		// with no assigned resolution semantics; reject it here rather
		// than guess.
		return nil, errdefs.WithUnsupportedConstruct(e.When.Position(), "`when` expressions are not yet supported by the resolver")
	case e.Lambda != nil:
		return r.resolveLambda(e.Lambda)
	case e.Return != nil:
		return r.resolveReturn(e.Return)
	case e.TypeCast != nil:
		return r.resolveTypeCast(e.TypeCast)
	case e.Array != nil:
		return r.resolveArray(e.Array, expect)
	case e.Tuple != nil:
		return r.resolveTuple(e.Tuple)
	case e.Parenthesized != nil:
		return r.resolveExpr(e.Parenthesized.Inner, expect)
	default:
		return nil, errdefs.WithUnsupportedConstruct(e.Position(), "empty expression node")
	}
}

func (r *Resolver) resolveLiteral(l *syntax.Literal, expect *types.Type) *hlir.Expr {
	typ := defaultLiteralType(l.Kind)
	if l.Kind == syntax.IntLit && expect != nil && expect.IsInteger() {
		typ = *expect
	}
	return &hlir.Expr{Type: typ, Literal: &hlir.Literal{Kind: l.Kind, Text: literalText(l)}}
}

// literalText is l's raw token text, dedented when l is a string literal
// spanning multiple source lines: a continuation line carries whatever
// indentation its enclosing block happens to have, which is almost never
// part of the author's intended string value. Only the continuation lines
// are dedented together, since the opening line starts mid-source-line
// right after the quote and never carries that indentation itself.
func literalText(l *syntax.Literal) string {
	text := l.Tok.Text
	if l.Kind != syntax.StringLit {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	rest := dedent.Dedent(strings.Join(lines[1:], "\n"))
	return lines[0] + "\n" + rest
}

// resolveNameExpr implements spec §4.4.2 for a bare (possibly namespaced)
// path in expression position.
func (r *Resolver) resolveNameExpr(tn *syntax.TypeName, expect *types.Type) (*hlir.Expr, error) {
	prefix := tn.NamespacePrefix()
	last := tn.LastSegment()
	name := last.Name.Name()

	if len(prefix) == 0 {
		if v, ok := r.env.Lookup(name); ok {
			switch {
			case v.IsType:
				t, err := r.typeFromDeclID(v.Type, last)
				if err != nil {
					return nil, err
				}
				return &hlir.Expr{Type: types.MetaOf(t), Name: &hlir.NameExpr{Name: name, Ref: hlir.DeclarationRef{ID: v.Type, Valid: true}}}, nil
			case v.IsNS:
				return nil, errdefs.WithUndefinedName(tn.Position(), name)
			default:
				return r.disambiguateValue(v.Values, expect, name, tn.Position())
			}
		}
		return r.resolveNameFromNamespace(arena.Root, name, expect, tn.Position())
	}

	segs := make([]string, 0, len(prefix))
	for _, s := range prefix {
		segs = append(segs, s.Name.Name())
	}
	nsID, ok := r.arena.ResolveDeclarationIDFromRoot(segs)
	if !ok {
		return nil, errdefs.WithUndefinedName(tn.Position(), name)
	}
	return r.resolveNameFromNamespace(nsID, name, expect, tn.Position())
}

func (r *Resolver) resolveNameFromNamespace(ns arena.DeclarationId, name string, expect *types.Type, pos token.Position) (*hlir.Expr, error) {
	ids := r.arena.ResolveAllDeclarationIDs(ns, name)
	if len(ids) == 0 {
		return nil, errdefs.WithUndefinedName(pos, name)
	}
	item, _ := r.arena.Get(ids[0])
	if item.IsType() {
		t, err := r.typeExprFromID(ids[0])
		if err != nil {
			return nil, err
		}
		return &hlir.Expr{Type: types.MetaOf(t), Name: &hlir.NameExpr{Name: name, Ref: hlir.DeclarationRef{ID: ids[0], Valid: true}}}, nil
	}
	var bindings []ValueBinding
	for _, id := range ids {
		it, _ := r.arena.Get(id)
		switch {
		case it.IsVariable():
			bindings = append(bindings, ValueBinding{ID: id, Type: *it.Variable})
		case it.IsFunction():
			bindings = append(bindings, ValueBinding{ID: id, Type: it.Function.Type})
		}
	}
	return r.disambiguateValue(bindings, expect, name, pos)
}

// disambiguateValue implements §4.4.2 steps 4-5: a single binding always
// wins; an overload set is disambiguated against expect's argument-type
// list (set by a call site or a typed declaration).
func (r *Resolver) disambiguateValue(bindings []ValueBinding, expect *types.Type, name string, pos token.Position) (*hlir.Expr, error) {
	if len(bindings) == 0 {
		return nil, errdefs.WithUndefinedName(pos, name)
	}
	if len(bindings) == 1 {
		return nameExprFrom(bindings[0], name), nil
	}
	if expect == nil || expect.Function == nil {
		return nil, errdefs.WithOverloadResolutionFailed(pos, name)
	}
	var match *ValueBinding
	for i := range bindings {
		if bindings[i].Type.Function != nil && types.ArgTypesEqual(bindings[i].Type.Function.Args, expect.Function.Args) {
			if match != nil {
				return nil, errdefs.WithOverloadResolutionFailed(pos, name)
			}
			match = &bindings[i]
		}
	}
	if match == nil {
		return nil, errdefs.WithOverloadResolutionFailed(pos, name)
	}
	return nameExprFrom(*match, name), nil
}

func nameExprFrom(b ValueBinding, name string) *hlir.Expr {
	return &hlir.Expr{Type: b.Type, Name: &hlir.NameExpr{Name: name, Ref: hlir.DeclarationRef{ID: b.ID, Valid: true}}}
}

func (r *Resolver) resolveBinary(b *syntax.BinaryExpr) (*hlir.Expr, error) {
	left, err := r.resolveExpr(b.Left, nil)
	if err != nil {
		return nil, err
	}
	right, err := r.resolveExpr(b.Right, &left.Type)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case syntax.OpAnd, syntax.OpOr:
		if !left.Type.IsBool() || !right.Type.IsBool() {
			return nil, errdefs.WithTypeMismatch(b.Position(), types.BoolName, left.Type.String())
		}
		return &hlir.Expr{Type: types.Bool(), Binary: &hlir.BinaryExpr{Op: b.Op, Left: left, Right: right}}, nil
	case syntax.OpEq, syntax.OpNotEq, syntax.OpLt, syntax.OpGt, syntax.OpLtEq, syntax.OpGtEq:
		if !left.Type.Equal(right.Type) {
			return nil, errdefs.WithTypeMismatch(b.Position(), left.Type.String(), right.Type.String())
		}
		return &hlir.Expr{Type: types.Bool(), Binary: &hlir.BinaryExpr{Op: b.Op, Left: left, Right: right}}, nil
	default: // + - * / %
		if left.Type.IsPointer() && right.Type.IsInteger() {
			return &hlir.Expr{Type: left.Type, Binary: &hlir.BinaryExpr{Op: b.Op, Left: left, Right: right}}, nil
		}
		if !bothPrimitiveNumeric(left.Type, right.Type) {
			// Operator overloading on non-primitive operands is out of
			// scope for this core (spec §4.5 names the mechanism but not
			// the overload-lookup rule); report it plainly.
			return nil, errdefs.WithUnsupportedConstruct(b.Position(), "operator overload resolution for non-primitive operands")
		}
		if !left.Type.Equal(right.Type) {
			return nil, errdefs.WithTypeMismatch(b.Position(), left.Type.String(), right.Type.String())
		}
		return &hlir.Expr{Type: left.Type, Binary: &hlir.BinaryExpr{Op: b.Op, Left: left, Right: right}}, nil
	}
}

func bothPrimitiveNumeric(a, b types.Type) bool {
	return (a.IsInteger() || a.IsFloat()) && (b.IsInteger() || b.IsFloat())
}

func (r *Resolver) resolveUnary(u *syntax.UnaryExpr) (*hlir.Expr, error) {
	operand, err := r.resolveExpr(u.Operand, nil)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case syntax.UnaryNot:
		if !operand.Type.IsBool() {
			return nil, errdefs.WithTypeMismatch(u.Position(), types.BoolName, operand.Type.String())
		}
		return &hlir.Expr{Type: types.Bool(), Unary: &hlir.UnaryExpr{Op: u.Op, Operand: operand}}, nil
	case syntax.UnaryPlus, syntax.UnaryMinus:
		if !operand.Type.IsInteger() && !operand.Type.IsFloat() {
			return nil, errdefs.WithTypeMismatch(u.Position(), "numeric", operand.Type.String())
		}
		return &hlir.Expr{Type: operand.Type, Unary: &hlir.UnaryExpr{Op: u.Op, Operand: operand}}, nil
	case syntax.UnaryRef:
		return &hlir.Expr{Type: types.Reference(operand.Type), Unary: &hlir.UnaryExpr{Op: u.Op, Operand: operand}}, nil
	case syntax.UnaryDeref:
		if !operand.Type.IsPointer() && !operand.Type.IsReference() {
			return nil, errdefs.WithTypeMismatch(u.Position(), "pointer or reference", operand.Type.String())
		}
		return &hlir.Expr{Type: *operand.Type.Value.Inner, Unary: &hlir.UnaryExpr{Op: u.Op, Operand: operand}}, nil
	default:
		return nil, errdefs.WithUnsupportedConstruct(u.Position(), "unknown unary operator")
	}
}

func (r *Resolver) resolveSubscript(s *syntax.SubscriptExpr) (*hlir.Expr, error) {
	target, err := r.resolveExpr(s.Target, nil)
	if err != nil {
		return nil, err
	}
	index, err := r.resolveExpr(s.Index, nil)
	if err != nil {
		return nil, err
	}
	elemType := target.Type
	if target.Type.Value != nil && target.Type.Value.Kind == types.ArrayKind {
		elemType = *target.Type.Value.Elem
	}
	return &hlir.Expr{Type: elemType, Subscript: &hlir.SubscriptExpr{Target: target, Index: index}}, nil
}

// resolveMember implements spec §4.4.6's non-call member access path:
// auto-deref a reference once, then look up stored, then computed, then
// member-function properties on the target's struct info.
func (r *Resolver) resolveMember(m *syntax.MemberExpr) (*hlir.Expr, error) {
	target, err := r.resolveExpr(m.Target, nil)
	if err != nil {
		return nil, err
	}
	info, err := r.structInfoOf(target.Type, m.Position())
	if err != nil {
		return nil, err
	}
	name := m.Name.Name()
	if t, ok := info.StoredProperties[name]; ok {
		return &hlir.Expr{Type: t, Member: &hlir.MemberExpr{Target: target, Name: name}}, nil
	}
	if t, ok := info.ComputedProperties[name]; ok {
		return &hlir.Expr{Type: t, Member: &hlir.MemberExpr{Target: target, Name: name}}, nil
	}
	if ids, ok := info.MemberFunctions[name]; ok && len(ids) > 0 {
		item, _ := r.arena.Get(ids[0])
		return &hlir.Expr{Type: item.Function.Type, Member: &hlir.MemberExpr{Target: target, Name: name}}, nil
	}
	return nil, errdefs.WithUndefinedName(m.Position(), name)
}

// structInfoOf resolves t (auto-dereferencing one Reference layer) to the
// StructInfo of its named type.
func (r *Resolver) structInfoOf(t types.Type, pos token.Position) (*arena.StructInfo, error) {
	if t.IsReference() {
		t = *t.Value.Inner
	}
	if t.Value == nil || t.Value.Kind != types.NamedKind {
		return nil, errdefs.WithTypeMismatch(pos, "struct", t.String())
	}
	pkg := t.Value.Package.Pkg.Names
	return r.arena.GetStruct(pkg, t.Value.Name)
}

// resolveCall implements the call half of spec §4.4.2/§4.4.6: a bare-name
// call resolves an overload by argument types; a dotted call rewrites to
// `TypeName::method(receiver, args...)`.
func (r *Resolver) resolveCall(c *syntax.CallExpr) (*hlir.Expr, error) {
	var args []*hlir.Expr
	for _, a := range c.Args {
		ha, err := r.resolveExpr(a, nil)
		if err != nil {
			return nil, err
		}
		args = append(args, ha)
	}
	argTypes := make([]types.ArgType, len(args))
	for i, a := range args {
		argTypes[i] = types.ArgType{Type: a.Type}
	}

	if mem := c.Callee.Member; mem != nil {
		return r.resolveMethodCall(mem, args, argTypes, c.Position())
	}
	if c.Callee.Name != nil {
		return r.resolveFreeCall(c.Callee.Name.Path, args, argTypes, c.Position())
	}
	callee, err := r.resolveExpr(c.Callee, nil)
	if err != nil {
		return nil, err
	}
	retType := types.Unit()
	if callee.Type.Function != nil {
		retType = *callee.Type.Function.Ret
	}
	return &hlir.Expr{Type: retType, Call: &hlir.CallExpr{Callee: callee, Args: args}}, nil
}

func (r *Resolver) resolveFreeCall(path *syntax.TypeName, args []*hlir.Expr, argTypes []types.ArgType, pos token.Position) (*hlir.Expr, error) {
	prefix := path.NamespacePrefix()
	last := path.LastSegment()
	name := last.Name.Name()

	ns := arena.Root
	if len(prefix) > 0 {
		segs := make([]string, 0, len(prefix))
		for _, s := range prefix {
			segs = append(segs, s.Name.Name())
		}
		id, ok := r.arena.ResolveDeclarationIDFromRoot(segs)
		if !ok {
			return nil, errdefs.WithUndefinedName(pos, name)
		}
		ns = id
	} else if v, ok := r.env.Lookup(name); ok && v.Values != nil {
		id, ft, err := r.pickOverload(v.Values, argTypes, name, pos)
		if err != nil {
			return nil, err
		}
		return &hlir.Expr{Type: *ft.Ret, Call: &hlir.CallExpr{Callee: nameExprFrom(ValueBinding{ID: id, Type: types.Func(ft.Args, *ft.Ret)}, name), Args: args}}, nil
	}

	ids := r.arena.ResolveAllDeclarationIDs(ns, name)
	var bindings []ValueBinding
	for _, id := range ids {
		item, _ := r.arena.Get(id)
		if item.IsFunction() {
			bindings = append(bindings, ValueBinding{ID: id, Type: item.Function.Type})
		} else if item.IsVariable() {
			bindings = append(bindings, ValueBinding{ID: id, Type: *item.Variable})
		}
	}
	id, ft, err := r.pickOverload(bindings, argTypes, name, pos)
	if err != nil {
		return nil, err
	}
	if fn := r.arena.MustGet(id).Function; fn != nil && len(fn.TypeParameters) > 0 {
		r.recordGenericCall(fn, argTypes)
	}
	return &hlir.Expr{Type: *ft.Ret, Call: &hlir.CallExpr{Callee: nameExprFrom(ValueBinding{ID: id, Type: types.Func(ft.Args, *ft.Ret)}, name), Args: args}}, nil
}

func (r *Resolver) resolveMethodCall(m *syntax.MemberExpr, args []*hlir.Expr, argTypes []types.ArgType, pos token.Position) (*hlir.Expr, error) {
	receiver, err := r.resolveExpr(m.Target, nil)
	if err != nil {
		return nil, err
	}
	info, err := r.structInfoOf(receiver.Type, m.Position())
	if err != nil {
		return nil, err
	}
	name := m.Name.Name()
	ids, ok := info.MemberFunctions[name]
	if !ok || len(ids) == 0 {
		return nil, errdefs.WithUndefinedName(m.Position(), name)
	}
	var bindings []ValueBinding
	for _, id := range ids {
		item, _ := r.arena.Get(id)
		bindings = append(bindings, ValueBinding{ID: id, Type: item.Function.Type})
	}
	id, ft, err := r.pickOverload(bindings, argTypes, name, pos)
	if err != nil {
		return nil, err
	}
	if fn := r.arena.MustGet(id).Function; fn != nil && len(fn.TypeParameters) > 0 {
		r.recordGenericCall(fn, argTypes)
	}
	fullArgs := append([]*hlir.Expr{receiver}, args...)
	return &hlir.Expr{Type: *ft.Ret, Call: &hlir.CallExpr{Callee: nameExprFrom(ValueBinding{ID: id, Type: types.Func(ft.Args, *ft.Ret)}, name), Args: fullArgs}}, nil
}

// pickOverload selects the one binding whose declared argument types (minus
// a leading implicit self, when present) equal argTypes; a generic
// candidate is accepted on arity alone, since its declared types reference
// its own type parameters rather than concrete ones.
func (r *Resolver) pickOverload(bindings []ValueBinding, argTypes []types.ArgType, name string, pos token.Position) (arena.DeclarationId, *types.FunctionType, error) {
	var match *ValueBinding
	for i := range bindings {
		ft := bindings[i].Type.Function
		if ft == nil {
			continue
		}
		declared := ft.Args
		if len(declared) > 0 && declared[0].Label == "self" {
			declared = declared[1:]
		}
		if len(declared) != len(argTypes) {
			continue
		}
		if types.ArgTypesEqual(declared, argTypes) || r.declaresOwnTypeParameterArg(bindings[i].ID, declared) {
			if match != nil {
				continue // prefer the first match found; ambiguity among generics is resolved by instantiation, not by rejecting the call
			}
			match = &bindings[i]
		}
	}
	if match == nil {
		return 0, nil, errdefs.WithOverloadResolutionFailed(pos, name)
	}
	return match.ID, match.Type.Function, nil
}

// declaresOwnTypeParameterArg reports whether any of declared's argument
// types names one of id's own generic type parameters, rather than guessing
// from a type's shape alone.
func (r *Resolver) declaresOwnTypeParameterArg(id arena.DeclarationId, declared []types.ArgType) bool {
	item, ok := r.arena.Get(id)
	if !ok || item.Function == nil || len(item.Function.TypeParameters) == 0 {
		return false
	}
	for _, a := range declared {
		if a.Type.Value == nil || a.Type.Value.Kind != types.NamedKind {
			continue
		}
		for _, tp := range item.Function.TypeParameters {
			if a.Type.Value.Name == tp {
				return true
			}
		}
	}
	return false
}

// recordGenericCall builds the type-parameter substitution implied by a
// call's argument types and records it for the lowering stage (spec
// §4.4.3). Matching is positional and shallow: a type-parameter-shaped
// declared argument binds directly to the actual argument's type.
func (r *Resolver) recordGenericCall(fn *arena.FunctionInfo, argTypes []types.ArgType) {
	declared := fn.Type.Function.Args
	if len(declared) > 0 && declared[0].Label == "self" {
		declared = declared[1:]
	}
	if len(declared) != len(argTypes) {
		return
	}
	subst := make(map[string]types.Type)
	for _, tp := range fn.TypeParameters {
		for j, d := range declared {
			if d.Type.Value != nil && d.Type.Value.Name == tp {
				subst[tp] = argTypes[j].Type
				break
			}
		}
	}
	if len(subst) > 0 {
		fn.RecordInstantiation(subst)
	}
}

func (r *Resolver) resolveIf(e *syntax.IfExpr, expect *types.Type) (*hlir.Expr, error) {
	cond, err := r.resolveExpr(e.Cond, nil)
	if err != nil {
		return nil, err
	}
	if !cond.Type.IsBool() {
		return nil, errdefs.WithTypeMismatch(e.Cond.Position(), types.BoolName, cond.Type.String())
	}
	then, thenResult, err := r.resolveBranch(e.Then, expect)
	if err != nil {
		return nil, err
	}

	out := &hlir.IfExpr{Cond: cond, Then: then, ThenResult: thenResult}
	typ := types.Unit()
	if thenResult != nil {
		typ = thenResult.Type
	}

	switch {
	case e.Else != nil:
		elseExpr, err := r.resolveIf(e.Else, expect)
		if err != nil {
			return nil, err
		}
		out.ElseResult = elseExpr
	case e.ElseBlock != nil:
		elseBlock, elseResult, err := r.resolveBranch(e.ElseBlock, expect)
		if err != nil {
			return nil, err
		}
		out.Else = elseBlock
		out.ElseResult = elseResult
	}
	return &hlir.Expr{Type: typ, If: out}, nil
}

// resolveBranch resolves a block, additionally treating its final
// expression-statement (if any) as that branch's value (spec §4.5's
// "both branches ending in an expression statement of the result type").
func (r *Resolver) resolveBranch(b *syntax.BlockStmt, expect *types.Type) (*hlir.Block, *hlir.Expr, error) {
	block, err := r.resolveBlock(b, expect)
	if err != nil {
		return nil, nil, err
	}
	if n := len(block.List); n > 0 && block.List[n-1].Expr != nil {
		return block, block.List[n-1].Expr, nil
	}
	return block, nil, nil
}

func (r *Resolver) resolveLambda(l *syntax.LambdaExpr) (*hlir.Expr, error) {
	r.env.Push()
	defer r.env.Pop()

	var fields []*hlir.Field
	var argTypes []types.ArgType
	for _, f := range l.Params.List {
		t, err := r.resolveType(f.Type)
		if err != nil {
			return nil, err
		}
		name := f.Name.Name()
		fields = append(fields, &hlir.Field{Name: name, Type: t})
		argTypes = append(argTypes, types.ArgType{Type: t})
		r.env.Bind(name, valueEnv(ValueBinding{Type: t}))
	}
	body, result, err := r.resolveBranch(l.Body, nil)
	if err != nil {
		return nil, err
	}
	ret := types.Unit()
	if result != nil {
		ret = result.Type
	}
	return &hlir.Expr{Type: types.Func(argTypes, ret), Lambda: &hlir.LambdaExpr{Params: fields, Body: body}}, nil
}

func (r *Resolver) resolveReturn(ret *syntax.ReturnExpr) (*hlir.Expr, error) {
	if ret.Value == nil {
		return &hlir.Expr{Type: types.Unit(), Return: &hlir.ReturnExpr{}}, nil
	}
	v, err := r.resolveExpr(ret.Value, nil)
	if err != nil {
		return nil, err
	}
	return &hlir.Expr{Type: types.Noting(), Return: &hlir.ReturnExpr{Value: v}}, nil
}

func (r *Resolver) resolveTypeCast(c *syntax.TypeCastExpr) (*hlir.Expr, error) {
	v, err := r.resolveExpr(c.Value, nil)
	if err != nil {
		return nil, err
	}
	target, err := r.resolveType(c.Type)
	if err != nil {
		return nil, err
	}
	typ := target
	if c.Optional {
		typ = types.Pointer(target) // a failable cast models its result as an optional-shaped pointer, mirroring the absence of a dedicated Optional type in the value-type system
	}
	return &hlir.Expr{Type: typ, TypeCast: &hlir.TypeCastExpr{Value: v, Optional: c.Optional, Target: target}}, nil
}

func (r *Resolver) resolveArray(a *syntax.ArrayExpr, expect *types.Type) (*hlir.Expr, error) {
	var elemExpect *types.Type
	if expect != nil && expect.Value != nil && expect.Value.Kind == types.ArrayKind {
		elemExpect = expect.Value.Elem
	}
	var elems []*hlir.Expr
	elemType := types.Unit()
	for i, e := range a.Elems {
		he, err := r.resolveExpr(e, elemExpect)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			elemType = he.Type
		}
		elems = append(elems, he)
	}
	return &hlir.Expr{Type: types.Array(elemType, len(elems)), Array: &hlir.ArrayExpr{Elems: elems}}, nil
}

func (r *Resolver) resolveTuple(t *syntax.TupleExpr) (*hlir.Expr, error) {
	var elems []*hlir.Expr
	var elemTypes []types.Type
	for _, e := range t.Elems {
		he, err := r.resolveExpr(e, nil)
		if err != nil {
			return nil, err
		}
		elems = append(elems, he)
		elemTypes = append(elemTypes, he.Type)
	}
	return &hlir.Expr{Type: types.Tuple(elemTypes...), Tuple: &hlir.TupleExpr{Elems: elems}}, nil
}
