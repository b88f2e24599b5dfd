// Package lower implements spec §4.5: HLIR→MLIR lowering. A generic
// function emits one MLIR function per recorded instantiation (spec
// §4.4.3); a struct's member functions, and any extension methods merged
// onto it, become free functions taking the receiver as an explicit first
// argument; protocols have no runtime representation and are not lowered.
//
// Grounded on original_source/wiz's middle_level_ir/builder.rs
// (MLIRModule accumulating functions/structs/variables by name) and on
// the teacher's codegen.CodeGen, which memoizes per-signature emission
// with a singleflight.Group the same way this package memoizes
// per-instantiation emission.
package lower

import (
	"strings"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/hlir"
	"github.com/wiz-lang/wizc/mlir"
	"github.com/wiz-lang/wizc/token"
	"github.com/wiz-lang/wizc/types"
	"golang.org/x/sync/singleflight"
)

// Lowering owns the arena (read-only, for generic instantiation lookups)
// and the in-progress output file for the duration of one Lower call.
type Lowering struct {
	arena *arena.Arena
	file  *mlir.File

	// sf memoizes a mangled name's lowering so that two call sites which
	// happen to request an identical substitution never emit the
	// function's body twice.
	sf      singleflight.Group
	emitted map[string]bool

	// forCounter gives each lowered `for` loop's synthetic index variable a
	// distinct name so nested for-loops never collide.
	forCounter int
}

// context carries the substitution in effect for the function body
// currently being lowered (nil outside a generic instantiation) plus the
// concrete receiver type, when lowering a struct/extension member body.
type context struct {
	subst map[string]types.Type
	self  *types.Type
}

// Lower runs spec §4.5 over every resolved file, producing one flat MLIR
// file. files must already have passed all three resolver sub-passes.
func Lower(a *arena.Arena, files []*hlir.File) (*mlir.File, error) {
	l := &Lowering{arena: a, file: &mlir.File{Name: "module"}, emitted: make(map[string]bool)}
	for _, f := range files {
		if err := l.lowerFile(f); err != nil {
			return nil, err
		}
	}
	return l.file, nil
}

func (l *Lowering) lowerFile(f *hlir.File) error {
	for _, d := range f.Decls {
		switch {
		case d.Fun != nil:
			if err := l.lowerFunctionLike(d.Fun, nil); err != nil {
				return err
			}
		case d.Var != nil:
			v, err := l.lowerVarDecl(d.Var, context{})
			if err != nil {
				return err
			}
			l.file.Decls = append(l.file.Decls, &mlir.Decl{Var: v})
		case d.Struct != nil:
			if err := l.lowerStruct(d.Struct); err != nil {
				return err
			}
		case d.Extension != nil:
			if err := l.lowerExtension(d.Extension); err != nil {
				return err
			}
		case d.Extern != nil:
			if err := l.lowerExternBlock(d.Extern); err != nil {
				return err
			}
		case d.Protocol != nil:
			// Protocols describe conformance obligations checked by the
			// resolver; they carry no fields or runtime dispatch table of
			// their own, so nothing to emit (spec §3.6 lists no protocol
			// MLIR shape).
		}
	}
	return nil
}

// qualifiedName walks id's arena parents back to the root, joining segment
// names with "::". A struct member and an extension member both register
// under their owning struct's own id (the resolver merges extension
// members into the arena during its preload sub-pass), so this one helper names both
// "Type::method" without the two cases needing separate bookkeeping; a
// module-nested free function is qualified by its module path the same
// way, so two same-named functions in different modules never collide once
// flattened into one MLIR file.
func (l *Lowering) qualifiedName(id arena.DeclarationId) string {
	segs := l.arena.ResolveFullyQualifiedName(id)
	return strings.Join(segs, "::")
}

// lowerFunctionLike emits one MLIR function per recorded instantiation of a
// generic function/method, or a single unmangled function otherwise (spec
// §4.5 "one MLIR function per recorded instantiation"). self is the
// receiver's concrete type for a struct or extension member, nil for a
// plain function.
func (l *Lowering) lowerFunctionLike(fn *hlir.FuncDecl, self *types.Type) error {
	base := l.qualifiedName(fn.Ref.ID)
	if base == "" {
		base = fn.Name
	}

	if len(fn.TypeParameters) == 0 {
		out, err := l.lowerFunDecl(fn, base, context{self: self})
		if err != nil {
			return err
		}
		l.file.Decls = append(l.file.Decls, &mlir.Decl{Fun: out})
		return nil
	}

	item, ok := l.arena.Get(fn.Ref.ID)
	if !ok || item.Function == nil {
		return errdefs.WithUnsupportedConstruct(token.Position{}, "generic function missing arena entry")
	}
	for _, subst := range item.Function.UsedInstantiations {
		name := mangle(base, fn.TypeParameters, subst)
		if l.emitted[name] {
			continue
		}
		res, err, _ := l.sf.Do(name, func() (interface{}, error) {
			return l.lowerFunDecl(fn, name, context{subst: subst, self: self})
		})
		if err != nil {
			return err
		}
		l.emitted[name] = true
		l.file.Decls = append(l.file.Decls, &mlir.Decl{Fun: res.(*mlir.FunDecl)})
	}
	return nil
}

func (l *Lowering) lowerStruct(s *hlir.StructDecl) error {
	fields := make([]mlir.Field, 0, len(s.Properties))
	for _, p := range s.Properties {
		ft, err := l.lowerValueType(p.Type, context{})
		if err != nil {
			return err
		}
		fields = append(fields, mlir.Field{Name: p.Name, Type: ft})
	}
	l.file.Decls = append(l.file.Decls, &mlir.Decl{Struct: &mlir.StructDecl{Name: s.Name, Fields: fields}})

	selfType := types.Named(types.ResolvedPackage(types.GlobalPackage()), s.Name)
	for _, m := range s.Members {
		if err := l.lowerFunctionLike(m, &selfType); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowering) lowerExtension(e *hlir.ExtensionDecl) error {
	for _, m := range e.Members {
		if err := l.lowerFunctionLike(m, &e.Type); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowering) lowerExternBlock(e *hlir.ExternBlockDecl) error {
	for _, fn := range e.Funcs {
		out, err := l.lowerFunDecl(fn, fn.Name, context{})
		if err != nil {
			return err
		}
		if e.ABI != "" {
			out.Modifiers = append([]string{"extern " + e.ABI}, out.Modifiers...)
		}
		l.file.Decls = append(l.file.Decls, &mlir.Decl{Fun: out})
	}
	return nil
}

func (l *Lowering) lowerFunDecl(fn *hlir.FuncDecl, name string, ctx context) (*mlir.FunDecl, error) {
	args := make([]mlir.ArgDef, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.Self {
			selfType := types.Self()
			if ctx.self != nil {
				selfType = *ctx.self
			}
			t, err := l.lowerValueType(selfType, ctx)
			if err != nil {
				return nil, err
			}
			args = append(args, mlir.ArgDef{Name: "self", Type: mlir.Pointer(mlir.ValueOf(t))})
			continue
		}
		t, err := l.lowerValueType(p.Type, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, mlir.ArgDef{Name: p.Name, Type: t})
	}

	ret, err := l.lowerValueType(fn.ReturnType, ctx)
	if err != nil {
		return nil, err
	}

	var body *mlir.FunBody
	if fn.Body != nil {
		b, err := l.lowerBlock(fn.Body, ctx)
		if err != nil {
			return nil, err
		}
		body = &mlir.FunBody{Body: b.Body}
	}

	return &mlir.FunDecl{
		Modifiers: append([]string(nil), fn.Modifiers...),
		Name:      name,
		Args:      args,
		Ret:       ret,
		Body:      body,
	}, nil
}

func (l *Lowering) lowerVarDecl(v *hlir.VarDecl, ctx context) (*mlir.VarDecl, error) {
	val, err := l.lowerExpr(v.Value, ctx)
	if err != nil {
		return nil, err
	}
	t, err := l.lowerType(v.Type, ctx)
	if err != nil {
		return nil, err
	}
	return &mlir.VarDecl{Mutable: v.Mutable, Name: v.Name, Type: t, Value: val}, nil
}
