package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestAppEmitsLLVMIRForBinaryBuild(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "add.wiz", "fun add(a: int32, b: int32): int32 {\n\treturn a + b\n}\n")

	app := App()
	err := app.Run([]string{"wizc", "--out-dir", dir, "--emit", "llvm-ir", input})
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "add.ll"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "define i32 @add")
}

func TestAppSavesWlibForLibraryBuild(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "widgets.wiz", "struct Widget {\n\tvar n: int32 = 0\n}\n")

	app := App()
	err := app.Run([]string{"wizc", "--type", "lib", "--out-dir", dir, input})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "widgets.wlib"))
	require.NoError(t, err)
}

func TestAppRejectsUnknownEmitFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "add.wiz", "fun add(a: int32, b: int32): int32 {\n\treturn a + b\n}\n")

	app := App()
	err := app.Run([]string{"wizc", "--out-dir", dir, "--emit", "bogus", input})
	require.Error(t, err)
}

func TestAppRejectsUnknownDiagnosticFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "add.wiz", "fun add(a: int32, b: int32): int32 {\n\treturn a + b\n}\n")

	app := App()
	err := app.Run([]string{"wizc", "--out-dir", dir, "--format", "xml", input})
	require.Error(t, err)
}

func TestAppAcceptsJSONDiagnosticFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "add.wiz", "fun add(a: int32, b: int32): int32 {\n\treturn a + b\n}\n")

	app := App()
	err := app.Run([]string{"wizc", "--out-dir", dir, "--emit", "llvm-ir", "--format", "json", input})
	require.NoError(t, err)
}

func TestAppLoadsLibrariesNamedInManifest(t *testing.T) {
	root := t.TempDir()
	utilDir := filepath.Join(root, "util")
	require.NoError(t, os.Mkdir(utilDir, 0o755))

	utilApp := App()
	utilSrc := writeSource(t, utilDir, "util.wiz", "fun double(x: int32): int32 {\n\treturn x * 2\n}\n")
	require.NoError(t, utilApp.Run([]string{"wizc", "--type", "lib", "--out-dir", utilDir, utilSrc}))

	require.NoError(t, os.WriteFile(filepath.Join(root, "wiz.toml"), []byte(`
[package]
name = "main"
version = "0.1.0"

[dependencies]
util = { path = "util" }
`), 0o644))

	input := writeSource(t, root, "main.wiz", "fun run(x: int32): int32 {\n\treturn double(x)\n}\n")

	app := App()
	err := app.Run([]string{"wizc", "--out-dir", root, "--emit", "llvm-ir", input})
	require.NoError(t, err)
}
