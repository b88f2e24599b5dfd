package resolver

import (
	"strings"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/hlir"
	"github.com/wiz-lang/wizc/syntax"
	"github.com/wiz-lang/wizc/types"
)

// BodyResolve is sub-pass 3: walk every function body and variable
// initializer, typing each expression per spec §4.4.2-§4.4.6, and
// produce the typed hlir.File tree. Expand and Preload must already have
// run over the full source set.
func (r *Resolver) BodyResolve(files []*syntax.File) ([]*hlir.File, error) {
	var out []*hlir.File
	for _, f := range files {
		hf, err := r.resolveFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, hf)
	}
	return out, nil
}

func (r *Resolver) resolveFile(f *syntax.File) (*hlir.File, error) {
	hf := &hlir.File{Name: f.Name}
	r.env.Push()
	defer r.env.Pop()

	var decls []*syntax.Decl
	for _, d := range f.Decls {
		if d.Use != nil {
			use, err := r.resolveUse(d.Use)
			if err != nil {
				return nil, err
			}
			hf.Uses = append(hf.Uses, use)
			continue
		}
		decls = append(decls, d)
	}

	resolved, err := r.resolveDeclList(arena.Root, decls)
	if err != nil {
		return nil, err
	}
	hf.Decls = resolved
	return hf, nil
}

func (r *Resolver) resolveUse(u *syntax.UseDecl) (*hlir.Use, error) {
	segs := make([]string, 0, len(u.Path.Segments))
	for _, s := range u.Path.Segments {
		segs = append(segs, s.Name.Name())
	}
	id, ok := r.arena.ResolveDeclarationIDFromRoot(segs)
	if !ok {
		return nil, errdefs.WithUndefinedName(u.Position(), strings.Join(segs, "::"))
	}
	alias := ""
	if u.Alias != nil {
		alias = u.Alias.Name()
	}
	item, _ := r.arena.Get(id)
	switch {
	case u.IsGlob():
		for name, ids := range item.Children() {
			if len(ids) == 0 {
				continue
			}
			var first arena.DeclarationId
			for one := range ids {
				first = one
				break
			}
			child, _ := r.arena.Get(first)
			r.env.Bind(name, envValueFor(child, first))
		}
	default:
		name := segs[len(segs)-1]
		bindName := name
		if alias != "" {
			bindName = alias
		}
		r.env.Bind(bindName, envValueFor(item, id))
	}
	return &hlir.Use{Path: segs, Glob: u.IsGlob(), Alias: alias, Decl: id}, nil
}

func envValueFor(item *arena.Item, id arena.DeclarationId) EnvValue {
	switch {
	case item.IsNamespace():
		return nsEnv(id)
	case item.IsType():
		return typeEnv(id)
	case item.IsVariable():
		return valueEnv(ValueBinding{ID: id, Type: *item.Variable})
	case item.IsFunction():
		return valueEnv(ValueBinding{ID: id, Type: item.Function.Type})
	default:
		return EnvValue{}
	}
}

// resolveDeclList resolves every decl in decls under namespace. A module
// declaration's own children are spliced directly into the returned list
// (the arena already records their namespace membership, so HLIR keeps no
// separate module wrapper node).
func (r *Resolver) resolveDeclList(namespace arena.DeclarationId, decls []*syntax.Decl) ([]*hlir.Decl, error) {
	var out []*hlir.Decl
	for _, d := range decls {
		if d.Module != nil {
			if !d.Module.HasInlineBody() {
				continue
			}
			id := r.moduleNS[d.Module]
			inner, err := r.resolveDeclList(id, declsOf(d.Module.Body))
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
			continue
		}
		hd, err := r.resolveDecl(namespace, d)
		if err != nil {
			return nil, err
		}
		if hd != nil {
			out = append(out, hd)
		}
	}
	return out, nil
}

func (r *Resolver) resolveDecl(namespace arena.DeclarationId, d *syntax.Decl) (*hlir.Decl, error) {
	switch {
	case d.Fun != nil:
		fn, err := r.resolveFunc(d.Fun, nil)
		if err != nil {
			return nil, err
		}
		return &hlir.Decl{Fun: fn}, nil
	case d.Var != nil:
		v, err := r.resolveGlobalVar(namespace, d.Var)
		if err != nil {
			return nil, err
		}
		return &hlir.Decl{Var: v}, nil
	case d.Struct != nil:
		sd, err := r.resolveStruct(d.Struct)
		if err != nil {
			return nil, err
		}
		return &hlir.Decl{Struct: sd}, nil
	case d.Protocol != nil:
		pd, err := r.resolveProtocol(d.Protocol)
		if err != nil {
			return nil, err
		}
		return &hlir.Decl{Protocol: pd}, nil
	case d.Extension != nil:
		ed, err := r.resolveExtension(d.Extension)
		if err != nil {
			return nil, err
		}
		return &hlir.Decl{Extension: ed}, nil
	case d.Extern != nil:
		eb, err := r.resolveExternBlock(namespace, d.Extern)
		if err != nil {
			return nil, err
		}
		return &hlir.Decl{Extern: eb}, nil
	default:
		return nil, nil
	}
}

func (r *Resolver) resolveGlobalVar(namespace arena.DeclarationId, v *syntax.VarDecl) (*hlir.VarDecl, error) {
	typ, err := r.preloadVarType(v)
	if err != nil {
		return nil, err
	}
	val, err := r.resolveExpr(v.Value, &typ)
	if err != nil {
		return nil, err
	}
	if !typ.Equal(val.Type) {
		return nil, errdefs.WithTypeMismatch(v.Value.Position(), typ.String(), val.Type.String())
	}
	id, _ := r.arena.ResolveDeclarationID(namespace, []string{v.Name.Name()})
	return &hlir.VarDecl{
		Ref:     hlir.DeclarationRef{ID: id, Valid: true},
		Mutable: v.Mutable(),
		Name:    v.Name.Name(),
		Type:    typ,
		Value:   val,
	}, nil
}

func (r *Resolver) resolveStruct(s *syntax.StructDecl) (*hlir.StructDecl, error) {
	id := r.structID[s]
	info, err := r.structInfoByID(s.Position(), id)
	if err != nil {
		return nil, err
	}

	out := &hlir.StructDecl{
		Ref:  hlir.DeclarationRef{ID: id, Valid: true},
		Name: s.Name.Name(),
	}
	for _, tp := range info.TypeParameters {
		out.TypeParameters = append(out.TypeParameters, tp)
	}
	for _, tn := range s.Conforms {
		t, err := r.resolveType(tn)
		if err != nil {
			return nil, err
		}
		out.Conforms = append(out.Conforms, t)
	}

	item := r.arena.MustGet(id)
	parentID, _ := item.Parent()
	selfType := types.Named(types.ResolvedPackage(r.arena.ResolveFullyQualifiedPackage(parentID)), s.Name.Name())

	for _, stmt := range s.Body.List {
		if stmt.Decl == nil {
			continue
		}
		switch {
		case stmt.Decl.Var != nil:
			propType, ok := info.StoredProperties[stmt.Decl.Var.Name.Name()]
			if !ok {
				propType, err = r.preloadVarType(stmt.Decl.Var)
				if err != nil {
					return nil, err
				}
			}
			val, err := r.resolveExpr(stmt.Decl.Var.Value, &propType)
			if err != nil {
				return nil, err
			}
			if !propType.Equal(val.Type) {
				return nil, errdefs.WithTypeMismatch(stmt.Decl.Var.Value.Position(), propType.String(), val.Type.String())
			}
			out.Properties = append(out.Properties, &hlir.VarDecl{
				Mutable: stmt.Decl.Var.Mutable(),
				Name:    stmt.Decl.Var.Name.Name(),
				Type:    propType,
				Value:   val,
			})
		case stmt.Decl.Fun != nil:
			fn, err := r.resolveFunc(stmt.Decl.Fun, &selfType)
			if err != nil {
				return nil, err
			}
			out.Members = append(out.Members, fn)
		}
	}
	return out, nil
}

func (r *Resolver) resolveProtocol(p *syntax.ProtocolDecl) (*hlir.ProtocolDecl, error) {
	id := r.protocolID[p]
	out := &hlir.ProtocolDecl{Ref: hlir.DeclarationRef{ID: id, Valid: true}, Name: p.Name.Name()}
	selfType := types.Self()
	for _, stmt := range p.Body.List {
		if stmt.Decl == nil || stmt.Decl.Fun == nil {
			continue
		}
		fn, err := r.resolveFunc(stmt.Decl.Fun, &selfType)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, fn)
	}
	return out, nil
}

func (r *Resolver) resolveExtension(e *syntax.ExtensionDecl) (*hlir.ExtensionDecl, error) {
	target, err := r.resolveType(e.Type)
	if err != nil {
		return nil, err
	}
	out := &hlir.ExtensionDecl{Type: target}
	for _, tn := range e.Conforms {
		t, err := r.resolveType(tn)
		if err != nil {
			return nil, err
		}
		out.Conforms = append(out.Conforms, t)
	}
	for _, stmt := range e.Body.List {
		if stmt.Decl == nil || stmt.Decl.Fun == nil {
			continue
		}
		fn, err := r.resolveFunc(stmt.Decl.Fun, &target)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, fn)
	}
	return out, nil
}

func (r *Resolver) resolveExternBlock(namespace arena.DeclarationId, e *syntax.ExternBlockDecl) (*hlir.ExternBlockDecl, error) {
	abi := ""
	if e.ABI != nil {
		abi = e.ABI.Text
	}
	out := &hlir.ExternBlockDecl{ABI: abi}
	for _, fn := range e.Funcs {
		hf, err := r.resolveFunc(fn, nil)
		if err != nil {
			return nil, err
		}
		out.Funcs = append(out.Funcs, hf)
	}
	return out, nil
}

// resolveFunc resolves one function declaration's body against its
// already-preloaded signature. selfType, when non-nil, is bound to the
// name "self" for member functions (spec §4.4.6).
func (r *Resolver) resolveFunc(fn *syntax.FuncDecl, selfType *types.Type) (*hlir.FuncDecl, error) {
	r.env.Push()
	defer r.env.Pop()

	id := r.funcID[fn]

	var typeParams []string
	if fn.IsGeneric() {
		for _, tp := range fn.TypeParams.Params {
			tpID, ok := r.arena.ResolveDeclarationID(id, []string{tp.Name.Name()})
			if ok {
				r.env.Bind(tp.Name.Name(), typeEnv(tpID))
			}
			typeParams = append(typeParams, tp.Name.Name())
		}
	}

	var fields []*hlir.Field
	for _, f := range fn.Params.List {
		if f.IsSelf() {
			st := types.Self()
			if selfType != nil {
				st = *selfType
			}
			fields = append(fields, &hlir.Field{Self: true, Name: "self", Type: st})
			r.env.Bind("self", valueEnv(ValueBinding{Type: st}))
			continue
		}
		t, err := r.resolveType(f.Type)
		if err != nil {
			return nil, err
		}
		label := ""
		if f.Label != nil {
			label = f.Label.Name()
		}
		name := f.Name.Name()
		fields = append(fields, &hlir.Field{Label: label, Name: name, Type: t})
		r.env.Bind(name, valueEnv(ValueBinding{Type: t}))
	}

	ret := types.Unit()
	if fn.ReturnType != nil {
		t, err := r.resolveType(fn.ReturnType)
		if err != nil {
			return nil, err
		}
		ret = t
	}

	var body *hlir.Block
	if fn.Body != nil {
		b, err := r.resolveBlock(fn.Body, &ret)
		if err != nil {
			return nil, err
		}
		body = b
	}
	if item, ok := r.arena.Get(id); ok && item.Function != nil {
		item.Function.Body = body
	}

	var modifiers []string
	for _, m := range fn.Modifiers {
		modifiers = append(modifiers, m.Text)
	}

	return &hlir.FuncDecl{
		Ref:            hlir.DeclarationRef{ID: id, Valid: true},
		Name:           fn.Name.Name(),
		Modifiers:      modifiers,
		TypeParameters: typeParams,
		Params:         fields,
		ReturnType:     ret,
		Body:           body,
	}, nil
}

func (r *Resolver) resolveBlock(b *syntax.BlockStmt, expect *types.Type) (*hlir.Block, error) {
	r.env.Push()
	defer r.env.Pop()

	out := &hlir.Block{}
	for _, stmt := range b.List {
		hs, err := r.resolveStmt(stmt)
		if err != nil {
			return nil, err
		}
		out.List = append(out.List, hs)
	}
	return out, nil
}

func (r *Resolver) resolveStmt(s *syntax.Stmt) (*hlir.Stmt, error) {
	switch {
	case s.Decl != nil:
		switch {
		case s.Decl.Var != nil:
			v, err := r.resolveLocalVar(s.Decl.Var)
			if err != nil {
				return nil, err
			}
			return &hlir.Stmt{Decl: &hlir.Decl{Var: v}}, nil
		default:
			return nil, errdefs.WithUnsupportedConstruct(s.Position(), "nested declaration kind in statement position")
		}
	case s.Assignment != nil:
		if !directlyAssignable(s.Assignment.Target) {
			return nil, errdefs.WithTypeMismatch(s.Assignment.Position(), "lvalue", "non-assignable expression")
		}
		target, err := r.resolveExpr(s.Assignment.Target, nil)
		if err != nil {
			return nil, err
		}
		val, err := r.resolveExpr(s.Assignment.Value, &target.Type)
		if err != nil {
			return nil, err
		}
		if s.Assignment.Op != syntax.AssignEq && !bothPrimitiveNumeric(target.Type, val.Type) {
			return nil, errdefs.WithTypeMismatch(s.Assignment.Position(), "numeric", target.Type.String())
		}
		if !target.Type.Equal(val.Type) {
			return nil, errdefs.WithTypeMismatch(s.Assignment.Position(), target.Type.String(), val.Type.String())
		}
		return &hlir.Stmt{Assignment: &hlir.Assignment{Target: target, Op: s.Assignment.Op, Value: val}}, nil
	case s.Loop != nil:
		loop, err := r.resolveLoop(s.Loop)
		if err != nil {
			return nil, err
		}
		return &hlir.Stmt{Loop: loop}, nil
	case s.Expr != nil:
		e, err := r.resolveExpr(s.Expr, nil)
		if err != nil {
			return nil, err
		}
		return &hlir.Stmt{Expr: e}, nil
	default:
		return nil, errdefs.WithUnsupportedConstruct(s.Position(), "empty statement")
	}
}

func (r *Resolver) resolveLocalVar(v *syntax.VarDecl) (*hlir.VarDecl, error) {
	var declared *types.Type
	if v.Type != nil {
		t, err := r.resolveType(v.Type)
		if err != nil {
			return nil, err
		}
		declared = &t
	}
	val, err := r.resolveExpr(v.Value, declared)
	if err != nil {
		return nil, err
	}
	if declared != nil && !declared.Equal(val.Type) {
		return nil, errdefs.WithTypeMismatch(v.Value.Position(), declared.String(), val.Type.String())
	}
	typ := val.Type
	if declared != nil {
		typ = *declared
	}
	r.env.Bind(v.Name.Name(), valueEnv(ValueBinding{Type: typ}))
	return &hlir.VarDecl{Mutable: v.Mutable(), Name: v.Name.Name(), Type: typ, Value: val}, nil
}

func (r *Resolver) resolveLoop(l *syntax.LoopStmt) (*hlir.Loop, error) {
	switch {
	case l.While != nil:
		cond, err := r.resolveExpr(l.While.Cond, nil)
		if err != nil {
			return nil, err
		}
		if !cond.Type.IsBool() {
			return nil, errdefs.WithTypeMismatch(l.While.Cond.Position(), types.BoolName, cond.Type.String())
		}
		body, err := r.resolveBlock(l.While.Body, nil)
		if err != nil {
			return nil, err
		}
		return &hlir.Loop{While: &hlir.WhileLoop{Cond: cond, Body: body}}, nil
	default:
		iter, err := r.resolveExpr(l.For.Iter, nil)
		if err != nil {
			return nil, err
		}
		elemType := iterationElementType(iter.Type)
		r.env.Push()
		defer r.env.Pop()
		r.env.Bind(l.For.Binder.Name(), valueEnv(ValueBinding{Type: elemType}))
		body, err := r.resolveBlock(l.For.Body, nil)
		if err != nil {
			return nil, err
		}
		return &hlir.Loop{For: &hlir.ForLoop{Binder: l.For.Binder.Name(), Iter: iter, Body: body}}, nil
	}
}

// directlyAssignable reports whether e is a valid lvalue shape: name,
// member access, or subscript (spec §4.5).
func directlyAssignable(e *syntax.Expr) bool {
	return e.Name != nil || e.Member != nil || e.Subscript != nil
}

// iterationElementType reports the element type a `for x in iter` binds x
// to: an array's element type, or the array type itself if iter is not an
// array (lowering rejects a for-loop over any non-array type).
func iterationElementType(t types.Type) types.Type {
	if t.Value != nil && t.Value.Kind == types.ArrayKind {
		return *t.Value.Elem
	}
	return t
}
