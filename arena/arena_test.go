package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiz-lang/wizc/types"
)

func TestNewArenaHasRootAndBuiltins(t *testing.T) {
	a := New()
	root := a.GetRoot()
	assert.True(t, root.IsNamespace())

	info, err := a.GetStruct(nil, types.Int32Name)
	require.NoError(t, err)
	assert.Equal(t, StructKindStruct, info.StructKind)
}

func TestRegisterNamespaceRejectsDuplicate(t *testing.T) {
	a := New()
	id1, ok := a.RegisterNamespace(Root, "mypkg", nil)
	require.True(t, ok)

	_, ok = a.RegisterNamespace(Root, "mypkg", nil)
	assert.False(t, ok, "duplicate namespace name must fail per spec invariant (d)")

	_, ok = a.RegisterStruct(id1, "Foo", nil)
	assert.True(t, ok)
}

func TestRegisterFunctionAllowsOverloads(t *testing.T) {
	a := New()
	info1 := &FunctionInfo{Type: types.Func(nil, types.Unit())}
	info2 := &FunctionInfo{Type: types.Func([]types.ArgType{{Type: types.Int32()}}, types.Unit())}

	id1, ok := a.RegisterFunction(Root, "f", info1, nil)
	require.True(t, ok)
	id2, ok := a.RegisterFunction(Root, "f", info2, nil)
	require.True(t, ok)
	assert.NotEqual(t, id1, id2)

	ids := a.ResolveAllDeclarationIDs(Root, "f")
	assert.Len(t, ids, 2)
}

func TestResolveFullyQualifiedName(t *testing.T) {
	a := New()
	ns, ok := a.RegisterNamespace(Root, "a", nil)
	require.True(t, ok)
	ns2, ok := a.RegisterNamespace(ns, "b", nil)
	require.True(t, ok)
	structID, ok := a.RegisterStruct(ns2, "T", nil)
	require.True(t, ok)

	names := a.ResolveFullyQualifiedName(structID)
	assert.Equal(t, []string{"a", "b", "T"}, names)

	resolved, ok := a.ResolveDeclarationIDFromRoot([]string{"a", "b", "T"})
	require.True(t, ok)
	assert.Equal(t, structID, resolved)
}

func TestInstantiationDeduplication(t *testing.T) {
	info := &FunctionInfo{TypeParameters: []string{"T"}}
	info.RecordInstantiation(map[string]types.Type{"T": types.Int32()})
	info.RecordInstantiation(map[string]types.Type{"T": types.Int32()})
	info.RecordInstantiation(map[string]types.Type{"T": types.Str()})
	assert.Len(t, info.UsedInstantiations, 2)
}
