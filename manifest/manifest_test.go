package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifestWithVersionAndPathDependencies(t *testing.T) {
	const src = `
[package]
name = "sparkle"
version = "0.3.0"

[dependencies]
json = "^1.2.0"
util = { path = "../util" }
`
	m, err := Parse("wiz.toml", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "sparkle", m.Package.Name)
	assert.Equal(t, "0.3.0", m.Package.Version)

	require.Contains(t, m.Dependencies, "json")
	json := m.Dependencies["json"]
	require.NotNil(t, json.Constraint)
	assert.Equal(t, "^", json.Constraint.Op)
	assert.Equal(t, 1, json.Constraint.Major)

	require.Contains(t, m.Dependencies, "util")
	util := m.Dependencies["util"]
	assert.Equal(t, "../util", util.Path)
	assert.Nil(t, util.Constraint)
}

func TestParseManifestRejectsMissingPackageName(t *testing.T) {
	const src = `
[package]
version = "1.0.0"
`
	_, err := Parse("wiz.toml", []byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package.name")
}

func TestVersionConstraintSatisfiesCaretRange(t *testing.T) {
	c, err := ParseConstraint("^1.2.0")
	require.NoError(t, err)
	assert.True(t, c.Satisfies(1, 2, 0))
	assert.True(t, c.Satisfies(1, 5, 3))
	assert.False(t, c.Satisfies(2, 0, 0))
	assert.False(t, c.Satisfies(1, 1, 9))
}

func TestVersionConstraintSatisfiesExactMatch(t *testing.T) {
	c, err := ParseConstraint("=2.0.1")
	require.NoError(t, err)
	assert.True(t, c.Satisfies(2, 0, 1))
	assert.False(t, c.Satisfies(2, 0, 2))
}

func TestResolveWalksPathDependenciesIntoWlibPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "util"), 0o755))

	m, err := Parse("wiz.toml", []byte(`
[package]
name = "sparkle"
version = "0.3.0"

[dependencies]
util = { path = "util" }
`))
	require.NoError(t, err)

	nodes, err := Resolve(m, root)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "util", nodes[0].Name)
	assert.Equal(t, filepath.Join(root, "util", "util.wlib"), nodes[0].WlibPath)
	assert.Empty(t, nodes[0].Children)

	assert.Equal(t, []string{nodes[0].WlibPath}, FlattenPaths(nodes))
}

func TestResolveWalksTransitiveManifestDependencies(t *testing.T) {
	root := t.TempDir()
	utilDir := filepath.Join(root, "util")
	require.NoError(t, os.Mkdir(utilDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(utilDir, "wiz.toml"), []byte(`
[package]
name = "util"
version = "1.0.0"

[dependencies]
core = { path = "../core" }
`), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "core"), 0o755))

	m, err := Parse("wiz.toml", []byte(`
[package]
name = "sparkle"
version = "0.3.0"

[dependencies]
util = { path = "util" }
`))
	require.NoError(t, err)

	nodes, err := Resolve(m, root)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "core", nodes[0].Children[0].Name)

	flattened := FlattenPaths(nodes)
	require.Len(t, flattened, 2)
	assert.Equal(t, nodes[0].Children[0].WlibPath, flattened[0])
	assert.Equal(t, nodes[0].WlibPath, flattened[1])
}

func TestResolveRejectsVersionOnlyDependencyWithNoRegistry(t *testing.T) {
	m, err := Parse("wiz.toml", []byte(`
[package]
name = "sparkle"
version = "0.3.0"

[dependencies]
json = "^1.2.0"
`))
	require.NoError(t, err)

	_, err = Resolve(m, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json")
}
