package resolver

import (
	"fmt"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/syntax"
	"github.com/wiz-lang/wizc/token"
	"github.com/wiz-lang/wizc/types"
)

// Preload is sub-pass 2: resolve every function and variable
// declaration's signature types and register the resulting value into
// the arena (spec §4.4). Extensions are merged into their target
// struct's member-function set here too, since the target type is
// guaranteed registered after Expand.
func (r *Resolver) Preload(files []*syntax.File) error {
	for _, f := range files {
		if err := r.collectExtensions(arena.Root, f.Decls); err != nil {
			return err
		}
	}
	for id, exts := range r.pendingExtensions {
		info, err := r.structInfoByID(exts[0].Position(), id)
		if err != nil {
			return err
		}
		for _, ext := range exts {
			for _, stmt := range ext.Body.List {
				if stmt.Decl == nil || stmt.Decl.Fun == nil {
					continue
				}
				if err := r.preloadMember(id, info, stmt.Decl.Fun); err != nil {
					return err
				}
			}
		}
	}

	for _, f := range files {
		if err := r.preloadDecls(arena.Root, f.Decls); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) structInfoByID(pos token.Position, id arena.DeclarationId) (*arena.StructInfo, error) {
	item, ok := r.arena.Get(id)
	if !ok || !item.IsType() {
		return nil, errdefs.WithInvalidExtensionTarget(pos, fmt.Sprintf("declaration %s", id))
	}
	return item.Type, nil
}

func (r *Resolver) collectExtensions(namespace arena.DeclarationId, decls []*syntax.Decl) error {
	for _, d := range decls {
		switch {
		case d.Module != nil && d.Module.HasInlineBody():
			id, ok := r.moduleNS[d.Module]
			if !ok {
				continue
			}
			if err := r.collectExtensions(id, declsOf(d.Module.Body)); err != nil {
				return err
			}
		case d.Extension != nil:
			target, err := r.resolveType(d.Extension.Type)
			if err != nil {
				return err
			}
			id, ok := r.arena.ResolveDeclarationIDFromRoot(append(append([]string{}, target.Package().Pkg.Names...), target.Name()))
			if !ok {
				return errdefs.WithUndefinedName(d.Extension.Position(), target.Name())
			}
			r.pendingExtensions[id] = append(r.pendingExtensions[id], d.Extension)
		}
	}
	return nil
}

func (r *Resolver) preloadMember(structNS arena.DeclarationId, info *arena.StructInfo, fn *syntax.FuncDecl) error {
	id, err := r.registerFuncWithSignature(structNS, fn, nil)
	if err != nil {
		return err
	}
	info.MemberFunctions[fn.Name.Name()] = append(info.MemberFunctions[fn.Name.Name()], id)
	return nil
}

// registerFuncWithSignature registers fn's declaration first (always
// succeeds; functions may overload) so its own DeclarationId exists to
// scope fn's type parameters against, then resolves the signature with
// that id as the type-parameter namespace, and finally fills the
// already-registered FunctionInfo in place.
//
// Registering type parameters under fn's own id, rather than under the
// enclosing namespace, keeps two unrelated generic functions that both
// declare a type parameter named "T" from colliding on the arena's
// duplicate-child-name check — each function's "T" lives under a
// distinct parent.
func (r *Resolver) registerFuncWithSignature(namespace arena.DeclarationId, fn *syntax.FuncDecl, ann arena.Annotations) (arena.DeclarationId, error) {
	fi := &arena.FunctionInfo{}
	id, _ := r.arena.RegisterFunction(namespace, fn.Name.Name(), fi, ann)

	fnType, err := r.resolveFuncSignature(id, fn)
	if err != nil {
		return 0, err
	}
	fi.Type = fnType
	if fn.IsGeneric() {
		for _, tp := range fn.TypeParams.Params {
			fi.TypeParameters = append(fi.TypeParameters, tp.Name.Name())
		}
	}
	r.funcID[fn] = id
	return id, nil
}

func (r *Resolver) preloadDecls(namespace arena.DeclarationId, decls []*syntax.Decl) error {
	for _, d := range decls {
		switch {
		case d.Module != nil && d.Module.HasInlineBody():
			id, ok := r.moduleNS[d.Module]
			if !ok {
				continue
			}
			if err := r.preloadDecls(id, declsOf(d.Module.Body)); err != nil {
				return err
			}
		case d.Fun != nil:
			id, err := r.registerFuncWithSignature(namespace, d.Fun, annotationsOf(d))
			if err != nil {
				return err
			}
			r.arena.MustGet(id).Doc = docOf(d)
		case d.Var != nil:
			typ, err := r.preloadVarType(d.Var)
			if err != nil {
				return err
			}
			id, ok := r.arena.RegisterValue(namespace, d.Var.Name.Name(), typ, annotationsOf(d))
			if !ok {
				return errdefs.WithDuplicateDeclaration(d.Position(), d.Var.Name.Name())
			}
			r.arena.MustGet(id).Doc = docOf(d)
		case d.Struct != nil:
			id := r.structID[d.Struct]
			info, err := r.structInfoByID(d.Struct.Position(), id)
			if err != nil {
				return err
			}
			if err := r.preloadStructBody(id, info, d.Struct.Body); err != nil {
				return err
			}
		case d.Protocol != nil:
			id := r.protocolID[d.Protocol]
			info, err := r.structInfoByID(d.Protocol.Position(), id)
			if err != nil {
				return err
			}
			for _, stmt := range d.Protocol.Body.List {
				if stmt.Decl == nil || stmt.Decl.Fun == nil {
					continue
				}
				if err := r.preloadMember(id, info, stmt.Decl.Fun); err != nil {
					return err
				}
			}
		case d.Extern != nil:
			for _, fn := range d.Extern.Funcs {
				if _, err := r.registerFuncWithSignature(namespace, fn, nil); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Resolver) preloadStructBody(structID arena.DeclarationId, info *arena.StructInfo, body *syntax.BlockStmt) error {
	for _, stmt := range body.List {
		if stmt.Decl == nil {
			continue
		}
		switch {
		case stmt.Decl.Var != nil:
			typ, err := r.preloadVarType(stmt.Decl.Var)
			if err != nil {
				return err
			}
			info.StoredProperties[stmt.Decl.Var.Name.Name()] = typ
		case stmt.Decl.Fun != nil:
			if err := r.preloadMember(structID, info, stmt.Decl.Fun); err != nil {
				return err
			}
		}
	}
	return nil
}

// preloadVarType resolves a variable declaration's type: its explicit
// annotation if present, otherwise the default type of a literal
// initializer (spec §4.4.5). A non-literal, unannotated global is out of
// scope for this core; full initializer-expression inference for globals
// is a body-resolution-time concern this preload pass does not perform.
func (r *Resolver) preloadVarType(v *syntax.VarDecl) (types.Type, error) {
	if v.Type != nil {
		return r.resolveType(v.Type)
	}
	if v.Value.Literal != nil {
		return defaultLiteralType(v.Value.Literal.Kind), nil
	}
	return types.Type{}, errdefs.WithMissingTypeAnnotation(v.Position(), v.Name.Name())
}

func (r *Resolver) resolveFuncSignature(typeParamScope arena.DeclarationId, fn *syntax.FuncDecl) (types.Type, error) {
	r.env.Push()
	defer r.env.Pop()

	if fn.IsGeneric() {
		for _, tp := range fn.TypeParams.Params {
			id, ok := r.arena.RegisterTypeParameter(typeParamScope, tp.Name.Name(), nil)
			if !ok {
				return types.Type{}, errdefs.WithDuplicateDeclaration(tp.Position(), tp.Name.Name())
			}
			r.env.Bind(tp.Name.Name(), typeEnv(id))
		}
	}

	var args []types.ArgType
	for _, f := range fn.Params.List {
		if f.IsSelf() {
			args = append(args, types.ArgType{Label: "self", Type: types.Self()})
			continue
		}
		t, err := r.resolveType(f.Type)
		if err != nil {
			return types.Type{}, err
		}
		label := ""
		if f.Label != nil {
			label = f.Label.Name()
		}
		args = append(args, types.ArgType{Label: label, Type: t})
	}

	ret := types.Unit()
	if fn.ReturnType != nil {
		t, err := r.resolveType(fn.ReturnType)
		if err != nil {
			return types.Type{}, err
		}
		ret = t
	}

	return types.Func(args, ret), nil
}

func defaultLiteralType(kind syntax.LiteralKind) types.Type {
	switch kind {
	case syntax.IntLit:
		return types.Int32() // spec §9 Open Question: default integer type is int32
	case syntax.FloatLit:
		return types.Double()
	case syntax.StringLit:
		return types.Str()
	case syntax.CharLit:
		return types.UInt8()
	case syntax.BoolLit:
		return types.Bool()
	default:
		return types.Unit()
	}
}
