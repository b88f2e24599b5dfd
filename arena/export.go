package arena

import (
	"github.com/pkg/errors"
	"github.com/wiz-lang/wizc/types"
)

// Snapshot is a gob-encodable export of one namespace subtree, the form the
// wlib format persists to disk (spec §6.3: "the arena slice for that
// library's namespace"). It mirrors Item's parent/children linkage with
// plain ids and slices instead of the live pointer/set structures, since
// gob only encodes exported fields and Item deliberately keeps that linkage
// unexported everywhere else in this package.
type Snapshot struct {
	Root  DeclarationId
	Items map[DeclarationId]*ItemSnapshot
}

// ItemSnapshot is the gob-encodable mirror of one Item.
type ItemSnapshot struct {
	Annotations Annotations
	Name        string
	Kind        ItemKind
	Doc         string

	Type     *StructInfo
	Variable *types.Type
	Function *FunctionInfo

	HasParent bool
	Parent    DeclarationId
	Children  map[string][]DeclarationId
}

// Export walks namespace and everything registered beneath it into a
// Snapshot. The caller is expected to gob-encode the result.
func (a *Arena) Export(namespace DeclarationId) (*Snapshot, error) {
	if _, ok := a.declarations[namespace]; !ok {
		return nil, errors.Errorf("arena: no such declaration %s to export", namespace)
	}
	snap := &Snapshot{Root: namespace, Items: make(map[DeclarationId]*ItemSnapshot)}
	a.snapshot(namespace, snap)
	return snap, nil
}

func (a *Arena) snapshot(id DeclarationId, snap *Snapshot) {
	if _, done := snap.Items[id]; done {
		return
	}
	item := a.MustGet(id)

	children := make(map[string][]DeclarationId, len(item.children))
	for name, set := range item.children {
		ids := make([]DeclarationId, 0, len(set))
		for cid := range set {
			ids = append(ids, cid)
		}
		children[name] = ids
	}

	parent, hasParent := item.Parent()
	snap.Items[id] = &ItemSnapshot{
		Annotations: item.Annotations,
		Name:        item.Name,
		Kind:        item.Kind,
		Doc:         item.Doc,
		Type:        item.Type,
		Variable:    item.Variable,
		Function:    item.Function,
		HasParent:   hasParent,
		Parent:      parent,
		Children:    children,
	}

	for _, ids := range children {
		for _, cid := range ids {
			a.snapshot(cid, snap)
		}
	}
}

// Import merges snap into a as a new child of parent, remapping every
// exported id to a freshly allocated one so that two independently
// compiled libraries never collide on id. It returns the new id of
// snap.Root, now registered as a named child of parent.
func (a *Arena) Import(snap *Snapshot, parent DeclarationId) (DeclarationId, error) {
	if _, ok := a.declarations[parent]; !ok {
		return 0, errors.Errorf("arena: no such declaration %s to import under", parent)
	}

	remap := make(map[DeclarationId]DeclarationId, len(snap.Items))
	for old := range snap.Items {
		remap[old] = a.gen.next()
	}

	for old, is := range snap.Items {
		newParent, hasParent := parent, true
		if is.HasParent {
			if np, ok := remap[is.Parent]; ok {
				newParent = np
			}
		}
		item := newItem(is.Annotations, is.Name, is.Kind, newParent, hasParent)
		item.Doc = is.Doc
		item.Type = is.Type
		item.Variable = is.Variable
		item.Function = is.Function
		a.declarations[remap[old]] = item
	}

	for old, is := range snap.Items {
		nid := remap[old]
		for name, ids := range is.Children {
			for _, cid := range ids {
				if rcid, ok := remap[cid]; ok {
					a.declarations[nid].addChild(name, rcid)
				}
			}
		}
	}

	root := remap[snap.Root]
	a.MustGet(parent).addChild(a.MustGet(root).Name, root)
	return root, nil
}
