package wlib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/parser"
	"github.com/wiz-lang/wizc/resolver"
	"github.com/wiz-lang/wizc/syntax"
)

func TestSaveLoadRoundTripsFilesAndArenaSnapshot(t *testing.T) {
	const src = `
struct Point {
	var x: int32 = 0
	var y: int32 = 0

	fun sum(self): int32 {
		return self.x + self.y
	}
}

fun use_point(p: Point): int32 {
	return p.sum()
}
`
	f, err := parser.ParseFile("pt.wiz", []byte(src))
	require.NoError(t, err)

	r := resolver.New(arena.New())
	require.NoError(t, r.Expand([]*syntax.File{f}))
	require.NoError(t, r.Preload([]*syntax.File{f}))
	hfs, err := r.BodyResolve([]*syntax.File{f})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "points.wlib")

	dgst, err := Save(path, "points", hfs, r.Arena(), arena.Root)
	require.NoError(t, err)
	assert.NotEmpty(t, dgst.String())

	lib, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "points", lib.Name)
	assert.Equal(t, dgst, lib.Digest)
	require.Len(t, lib.Files, 1)
	assert.Equal(t, "pt.wiz", lib.Files[0].Name)
	require.NotNil(t, lib.Snapshot)
	assert.Contains(t, lib.Snapshot.Items, arena.Root)
}

func TestLoadRejectsTamperedDigest(t *testing.T) {
	const src = `
fun identity(x: int32): int32 {
	return x
}
`
	f, err := parser.ParseFile("id.wiz", []byte(src))
	require.NoError(t, err)

	r := resolver.New(arena.New())
	require.NoError(t, r.Expand([]*syntax.File{f}))
	require.NoError(t, r.Preload([]*syntax.File{f}))
	hfs, err := r.BodyResolve([]*syntax.File{f})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "id.wlib")
	_, err = Save(path, "id", hfs, r.Arena(), arena.Root)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF // flip a byte inside the gob payload

	_, err = Parse(path, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest mismatch")
}

func TestMergeImportsSnapshotAsNamedChildOfParent(t *testing.T) {
	const src = `
struct Widget {
	var n: int32 = 0
}
`
	f, err := parser.ParseFile("w.wiz", []byte(src))
	require.NoError(t, err)

	producer := resolver.New(arena.New())
	require.NoError(t, producer.Expand([]*syntax.File{f}))
	require.NoError(t, producer.Preload([]*syntax.File{f}))
	hfs, err := producer.BodyResolve([]*syntax.File{f})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "widgets.wlib")
	_, err = Save(path, "widgets", hfs, producer.Arena(), arena.Root)
	require.NoError(t, err)

	lib, err := Load(path)
	require.NoError(t, err)

	consumer := arena.New()
	newRoot, err := Merge(consumer, lib, arena.Root)
	require.NoError(t, err)
	assert.NotEqual(t, arena.Root, newRoot)

	item, ok := consumer.Get(newRoot)
	require.True(t, ok)
	assert.True(t, item.IsNamespace())

	ids := consumer.ResolveAllDeclarationIDs(newRoot, "Widget")
	require.Len(t, ids, 1)
	widget := consumer.MustGet(ids[0])
	assert.True(t, widget.IsType())
}
