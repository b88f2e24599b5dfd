// Package arena implements the symbol table of spec §3.3/§4.3: a flat map
// of DeclarationId to DeclarationItem, addressed both by id and by walking
// parent/children links from the root namespace.
//
// Grounded on the original compiler's wiz_arena crate (Arena/DeclarationItem/
// DeclarationId) and, for the Go idiom of a single owning map with opaque
// handles, on the teacher's checker.Scope/Object pattern.
package arena

import (
	"github.com/pkg/errors"
	"github.com/wiz-lang/wizc/types"
)

// Arena owns every declaration registered during a compiler invocation.
// It is not safe for concurrent use; spec §5 mandates single-threaded,
// exclusive access via the session driver.
type Arena struct {
	gen          idGenerator
	declarations map[DeclarationId]*Item
}

// New constructs an Arena preloaded with the root namespace and the fixed
// builtin type identifiers (spec §3.4), mirroring Arena::default.
func New() *Arena {
	a := &Arena{declarations: make(map[DeclarationId]*Item)}
	root := newItem(Annotations{"builtin"}, "", NamespaceItem, 0, false)
	a.declarations[Root] = root

	for _, t := range types.BuiltinTypes() {
		a.RegisterStruct(Root, t.Name(), Annotations{"builtin"})
	}
	return a
}

func (a *Arena) register(namespace DeclarationId, name string, item *Item) (DeclarationId, bool) {
	parent, ok := a.declarations[namespace]
	if !ok {
		return 0, false
	}
	if item.Kind != VariableItem && item.Kind != FunctionItem {
		for cid := range parent.children[name] {
			if existing := a.declarations[cid]; existing.Kind != VariableItem && existing.Kind != FunctionItem {
				return 0, false
			}
		}
	}
	id := a.gen.next()
	parent.addChild(name, id)
	a.declarations[id] = item
	return id, true
}

// RegisterNamespace registers a child namespace, failing if name already
// names a namespace or type under parent.
func (a *Arena) RegisterNamespace(namespace DeclarationId, name string, ann Annotations) (DeclarationId, bool) {
	return a.register(namespace, name, newItem(ann, name, NamespaceItem, namespace, true))
}

func (a *Arena) registerType(namespace DeclarationId, name string, ann Annotations, kind StructKind) (DeclarationId, bool) {
	item := newItem(ann, name, TypeItem, namespace, true)
	item.Type = newStructInfo(kind, a.ResolveFullyQualifiedPackage(namespace))
	return a.register(namespace, name, item)
}

func (a *Arena) RegisterStruct(namespace DeclarationId, name string, ann Annotations) (DeclarationId, bool) {
	return a.registerType(namespace, name, ann, StructKindStruct)
}

func (a *Arena) RegisterProtocol(namespace DeclarationId, name string, ann Annotations) (DeclarationId, bool) {
	return a.registerType(namespace, name, ann, StructKindProtocol)
}

func (a *Arena) RegisterTypeParameter(namespace DeclarationId, name string, ann Annotations) (DeclarationId, bool) {
	return a.registerType(namespace, name, ann, StructKindTypeParameter)
}

// RegisterFunction always succeeds: multiple ids may share one name to
// support overloading (spec §4.3).
func (a *Arena) RegisterFunction(namespace DeclarationId, name string, fn *FunctionInfo, ann Annotations) (DeclarationId, bool) {
	item := newItem(ann, name, FunctionItem, namespace, true)
	item.Function = fn
	return a.register(namespace, name, item)
}

// RegisterValue appends a new id to name's id set; variables, like
// functions, are values and may accumulate multiple bindings across
// shadowing scopes registered into distinct namespace nodes.
func (a *Arena) RegisterValue(namespace DeclarationId, name string, typ types.Type, ann Annotations) (DeclarationId, bool) {
	item := newItem(ann, name, VariableItem, namespace, true)
	v := typ
	item.Variable = &v
	return a.register(namespace, name, item)
}

// ResolveDeclarationID walks children from parent through each segment in
// order, taking the first id found under each name (spec §4.3). Overload
// disambiguation among multiple ids is the resolver's responsibility, not
// the arena's.
func (a *Arena) ResolveDeclarationID(parent DeclarationId, segments []string) (DeclarationId, bool) {
	if len(segments) == 0 {
		return parent, true
	}
	item, ok := a.declarations[parent]
	if !ok {
		return 0, false
	}
	ids := item.ChildIDs(segments[0])
	if len(ids) == 0 {
		return 0, false
	}
	return a.ResolveDeclarationID(ids[0], segments[1:])
}

func (a *Arena) ResolveDeclarationIDFromRoot(segments []string) (DeclarationId, bool) {
	return a.ResolveDeclarationID(Root, segments)
}

// ResolveAllDeclarationIDs returns every id bound under parent for name,
// the entry point the resolver uses when it needs the full overload set
// rather than an arbitrary representative (spec §4.3 "Tie-break... none").
func (a *Arena) ResolveAllDeclarationIDs(parent DeclarationId, name string) []DeclarationId {
	item, ok := a.declarations[parent]
	if !ok {
		return nil
	}
	return item.ChildIDs(name)
}

// ResolveFullyQualifiedName walks parents back to Root (exclusive) and
// returns the segment names in root-to-leaf order.
func (a *Arena) ResolveFullyQualifiedName(id DeclarationId) []string {
	item, ok := a.declarations[id]
	if !ok {
		return nil
	}
	parent, hasParent := item.Parent()
	if !hasParent {
		return nil
	}
	names := a.ResolveFullyQualifiedName(parent)
	return append(names, item.Name)
}

func (a *Arena) ResolveFullyQualifiedPackage(id DeclarationId) types.Package {
	return types.Package{Names: a.ResolveFullyQualifiedName(id)}
}

func (a *Arena) Get(id DeclarationId) (*Item, bool) {
	item, ok := a.declarations[id]
	return item, ok
}

func (a *Arena) MustGet(id DeclarationId) *Item {
	item, ok := a.declarations[id]
	if !ok {
		panic(errors.Errorf("arena: dangling declaration id %s", id))
	}
	return item
}

func (a *Arena) GetRoot() *Item { return a.MustGet(Root) }

// GetNamed resolves namespace+name from Root and returns the item if found.
func (a *Arena) GetNamed(namespace []string, name string) (*Item, bool) {
	id, ok := a.ResolveDeclarationIDFromRoot(append(append([]string{}, namespace...), name))
	if !ok {
		return nil, false
	}
	return a.Get(id)
}

// GetStruct resolves namespace+name and asserts the result is a type item,
// returning its StructInfo.
func (a *Arena) GetStruct(namespace []string, name string) (*StructInfo, error) {
	item, ok := a.GetNamed(namespace, name)
	if !ok {
		return nil, errors.Errorf("arena: no such type %v::%s", namespace, name)
	}
	if !item.IsType() {
		return nil, errors.Errorf("arena: %v::%s is not a type", namespace, name)
	}
	return item.Type, nil
}
