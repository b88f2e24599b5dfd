package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageNameDerivesFromFileOrDirectoryStem(t *testing.T) {
	assert.Equal(t, "widgets", PackageName("/a/b/widgets.wiz"))
	assert.Equal(t, "widgets", PackageName("/a/b/widgets/"))
	assert.Equal(t, "widgets", PackageName("widgets"))
}

func TestInputsResolvesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.wiz")
	require.NoError(t, os.WriteFile(path, []byte("fun main(): int32 {\n\treturn 0\n}\n"), 0o644))

	paths, err := Inputs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}

func TestInputsResolvesDirectoryWithSrcSubdirectory(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(srcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.wiz"), []byte("fun a(): int32 {\n\treturn 1\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "b.wiz"), []byte("fun b(): int32 {\n\treturn 2\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a source file"), 0o644))

	paths, err := Inputs(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(srcDir, "a.wiz"), paths[0])
	assert.Equal(t, filepath.Join(srcDir, "b.wiz"), paths[1])
}

func TestInputsResolvesDirectoryWithoutSrcSubdirectoryNonRecursively(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.wiz"), []byte("fun a(): int32 {\n\treturn 1\n}\n"), 0o644))
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "b.wiz"), []byte("fun b(): int32 {\n\treturn 2\n}\n"), 0o644))

	paths, err := Inputs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.wiz")}, paths)
}

func TestSessionLoadAndCompileProducesMLIR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "add.wiz")
	require.NoError(t, os.WriteFile(path, []byte("fun add(a: int32, b: int32): int32 {\n\treturn a + b\n}\n"), 0o644))

	s := New(os.Stderr, os.Stderr)
	files, err := s.Load([]string{path})
	require.NoError(t, err)
	require.Len(t, files, 1)

	result, err := s.Compile(files)
	require.NoError(t, err)
	require.Len(t, result.HLIR, 1)
	require.NotNil(t, result.MLIR)

	found := false
	for _, d := range result.MLIR.Decls {
		if d.Fun != nil && d.Fun.Name == "add" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSessionLoadResolvesBodylessModuleAgainstSiblingFile(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.wiz")
	require.NoError(t, os.WriteFile(mainPath, []byte("mod geometry;\n\nuse geometry::square\n\nfun run(): int32 {\n\treturn square(4)\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geometry.wiz"), []byte("fun square(x: int32): int32 {\n\treturn x * x\n}\n"), 0o644))

	s := New(os.Stderr, os.Stderr)
	files, err := s.Load([]string{mainPath})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.True(t, files[0].Decls[0].Module.HasInlineBody(), "sibling file should be merged into an inline body before resolution")

	result, err := s.Compile(files)
	require.NoError(t, err)
	require.NotNil(t, result.MLIR)
}

func TestSessionSaveLibraryRoundTripsThroughLoadLibrary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.wiz")
	require.NoError(t, os.WriteFile(path, []byte("struct Widget {\n\tvar n: int32 = 0\n}\n"), 0o644))

	producer := New(os.Stderr, os.Stderr)
	files, err := producer.Load([]string{path})
	require.NoError(t, err)
	result, err := producer.Compile(files)
	require.NoError(t, err)

	wlibPath := filepath.Join(dir, "widgets.wlib")
	require.NoError(t, producer.SaveLibrary(wlibPath, "widgets", result))

	consumer := New(os.Stderr, os.Stderr)
	lib, err := consumer.LoadLibrary(wlibPath)
	require.NoError(t, err)
	assert.Equal(t, "widgets", lib.Name)
}
