package arena

import "github.com/wiz-lang/wizc/types"

// Annotations is the set of `@name` decorations attached to a declaration.
type Annotations []string

func (a Annotations) Has(name string) bool {
	for _, n := range a {
		if n == name {
			return true
		}
	}
	return false
}

// ItemKind tags which shape a DeclarationItem carries (spec §3.3).
type ItemKind int

const (
	NamespaceItem ItemKind = iota
	TypeItem
	VariableItem
	FunctionItem
)

// Item is a single entry owned by the Arena: a namespace, a type
// (struct/protocol/type-parameter), a variable, or one overload of a
// function name.
type Item struct {
	Annotations Annotations
	Name        string
	Kind        ItemKind
	Doc         string // collected doc-comment trivia, empty when absent

	Type     *StructInfo   // set when Kind == TypeItem
	Variable *types.Type   // set when Kind == VariableItem
	Function *FunctionInfo // set when Kind == FunctionItem

	parent   DeclarationId
	hasParent bool
	children map[string]map[DeclarationId]struct{}
}

func newItem(ann Annotations, name string, kind ItemKind, parent DeclarationId, hasParent bool) *Item {
	return &Item{
		Annotations: ann,
		Name:        name,
		Kind:        kind,
		parent:      parent,
		hasParent:   hasParent,
		children:    make(map[string]map[DeclarationId]struct{}),
	}
}

func (it *Item) addChild(name string, id DeclarationId) {
	set, ok := it.children[name]
	if !ok {
		set = make(map[DeclarationId]struct{})
		it.children[name] = set
	}
	set[id] = struct{}{}
}

// ChildIDs returns every id registered under name, in no particular order;
// more than one entry means an overloaded function name (spec §3.3(c)).
func (it *Item) ChildIDs(name string) []DeclarationId {
	set, ok := it.children[name]
	if !ok {
		return nil
	}
	ids := make([]DeclarationId, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

func (it *Item) Parent() (DeclarationId, bool) { return it.parent, it.hasParent }

func (it *Item) Children() map[string]map[DeclarationId]struct{} { return it.children }

func (it *Item) IsNamespace() bool { return it.Kind == NamespaceItem }
func (it *Item) IsType() bool      { return it.Kind == TypeItem }
func (it *Item) IsVariable() bool  { return it.Kind == VariableItem }
func (it *Item) IsFunction() bool  { return it.Kind == FunctionItem }
func (it *Item) IsValue() bool     { return it.IsVariable() || it.IsFunction() }

// StructKind distinguishes the three struct-info shapes sharing one item
// kind (spec §3.3).
type StructKind int

const (
	StructKindStruct StructKind = iota
	StructKindProtocol
	StructKindTypeParameter
)

// StructInfo is the payload of a TypeItem: a struct, a protocol, or a
// generic type parameter.
type StructInfo struct {
	StructKind StructKind
	Namespace  types.Package

	StoredProperties   map[string]types.Type
	ComputedProperties map[string]types.Type
	MemberFunctions    map[string][]DeclarationId
	ConformedProtocols []types.Type
	TypeParameters     []string
}

func newStructInfo(kind StructKind, namespace types.Package) *StructInfo {
	return &StructInfo{
		StructKind:         kind,
		Namespace:          namespace,
		StoredProperties:   make(map[string]types.Type),
		ComputedProperties: make(map[string]types.Type),
		MemberFunctions:    make(map[string][]DeclarationId),
	}
}

// FunctionInfo is the payload of a FunctionItem.
type FunctionInfo struct {
	Type           types.Type // types.Function
	TypeParameters []string
	Body           interface{} // *hlir.Block once resolved; nil for extern signatures

	// UsedInstantiations records one map per recorded call-site
	// substitution (spec §4.4.3); deduplicated by structural equality.
	UsedInstantiations []map[string]types.Type
}

// RecordInstantiation appends subst unless an equal substitution is
// already recorded, implementing the "must not be duplicated" rule of
// spec §4.4.3.
func (f *FunctionInfo) RecordInstantiation(subst map[string]types.Type) {
	for _, existing := range f.UsedInstantiations {
		if substEqual(existing, subst) {
			return
		}
	}
	f.UsedInstantiations = append(f.UsedInstantiations, subst)
}

func substEqual(a, b map[string]types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for k, ta := range a {
		tb, ok := b[k]
		if !ok || !ta.Equal(tb) {
			return false
		}
	}
	return true
}
