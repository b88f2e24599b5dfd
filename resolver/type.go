package resolver

import (
	"strings"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/syntax"
	"github.com/wiz-lang/wizc/token"
	"github.com/wiz-lang/wizc/types"
)

// resolveType implements the type side of spec §4.4.2: resolve a
// syntax.TypeName (decorated, or a namespaced/simple path) to a
// types.Type. Type parameters introduced by an enclosing generic function
// or struct are looked up in the environment first; everything else is
// resolved by walking the arena from its namespace prefix (or Root, when
// the path has none).
func (r *Resolver) resolveType(tn *syntax.TypeName) (types.Type, error) {
	switch {
	case tn.IsPointer():
		inner, err := r.resolveType(tn.Inner)
		if err != nil {
			return types.Type{}, err
		}
		return types.Pointer(inner), nil
	case tn.IsReference():
		inner, err := r.resolveType(tn.Inner)
		if err != nil {
			return types.Type{}, err
		}
		return types.Reference(inner), nil
	}

	prefix := tn.NamespacePrefix()
	last := tn.LastSegment()
	name := last.Name.Name()

	var nsID arena.DeclarationId
	if len(prefix) == 0 {
		if v, ok := r.env.Lookup(name); ok && v.IsType {
			return r.typeFromDeclID(v.Type, last)
		}
		nsID = arena.Root
	} else {
		segs := make([]string, 0, len(prefix))
		for _, s := range prefix {
			segs = append(segs, s.Name.Name())
		}
		id, ok := r.arena.ResolveDeclarationIDFromRoot(segs)
		if !ok {
			return types.Type{}, errdefs.WithUndefinedName(tn.Position(), strings.Join(segs, "::"))
		}
		nsID = id
	}

	id, ok := r.arena.ResolveDeclarationID(nsID, []string{name})
	if !ok {
		return types.Type{}, errdefs.WithUndefinedName(tn.Position(), name)
	}
	return r.typeFromDeclID(id, last)
}

// typeExprFromID resolves a type id referenced bare, with no type-argument
// segment to read (a type named directly as a value in expression
// position, e.g. `T::default_value()`'s `T`).
func (r *Resolver) typeExprFromID(id arena.DeclarationId) (types.Type, error) {
	item, ok := r.arena.Get(id)
	if !ok || !item.IsType() {
		return types.Type{}, errdefs.WithUndefinedName(token.Position{}, "<type>")
	}
	fqn := r.arena.ResolveFullyQualifiedName(id)
	pkg := types.ResolvedPackage(types.Package{Names: fqn[:len(fqn)-1]})
	return types.Named(pkg, item.Name), nil
}

func (r *Resolver) typeFromDeclID(id arena.DeclarationId, seg *syntax.SimpleType) (types.Type, error) {
	item, ok := r.arena.Get(id)
	if !ok || !item.IsType() {
		return types.Type{}, errdefs.WithUndefinedName(seg.Position(), seg.Name.Name())
	}

	var args []types.Type
	if seg.TypeArgs != nil {
		for _, a := range seg.TypeArgs.Args {
			t, err := r.resolveType(a)
			if err != nil {
				return types.Type{}, err
			}
			args = append(args, t)
		}
	}

	fqn := r.arena.ResolveFullyQualifiedName(id)
	pkgNames := fqn[:len(fqn)-1]
	pkg := types.ResolvedPackage(types.Package{Names: pkgNames})
	return types.Named(pkg, item.Name, args...), nil
}
