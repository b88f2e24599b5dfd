package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"github.com/wiz-lang/wizc/backend"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/manifest"
	"github.com/wiz-lang/wizc/session"
	"github.com/wiz-lang/wizc/token"
)

// compileAction implements wizc's single default action (spec §6.1): load
// the input source set, resolve and lower it, then either persist it as a
// library or hand it to the backend, depending on --type.
//
// Usage errors here (bad arg count, unknown --type/--emit value) are
// returned as plain errors rather than via cli.Exit, so that running this
// action directly in a test asserts on a returned error instead of the
// process exiting; main.go maps any error errdefs does not taxonomize to
// exit code 3, which covers these the same way cli.Exit(..., 3) would.
func compileAction(c *cli.Context) error {
	format := c.String("format")
	s := session.New(os.Stderr, os.Stderr)

	err := doCompile(c, s, format)
	if err != nil {
		report(s, format, err)
	}
	return err
}

// doCompile holds the actual build pipeline; compileAction wraps it only to
// render the returned error through s.Printer before propagating it for
// main.go's exit-code mapping.
func doCompile(c *cli.Context, s *session.Session, format string) error {
	switch format {
	case "text", "json":
	default:
		return errors.Errorf("wizc: unknown --format %q (want text or json)", format)
	}

	if c.NArg() != 1 {
		return errors.New("wizc: expected exactly one <input> argument")
	}
	input := c.Args().First()

	buildType := c.String("type")
	switch buildType {
	case "bin", "lib", "test":
	default:
		return errors.Errorf("wizc: unknown --type %q (want bin, lib, or test)", buildType)
	}

	name := c.String("name")
	if name == "" {
		name = session.PackageName(input)
	}

	manifestLibs, err := resolveManifestLibraries(input)
	if err != nil {
		return err
	}
	for _, libPath := range manifestLibs {
		if _, err := s.LoadLibrary(libPath); err != nil {
			return err
		}
	}
	for _, libPath := range c.StringSlice("library") {
		if _, err := s.LoadLibrary(libPath); err != nil {
			return err
		}
	}

	paths, err := session.Inputs(input)
	if err != nil {
		return err
	}
	files, err := s.Load(paths)
	if err != nil {
		return err
	}

	result, err := s.Compile(files)
	if err != nil {
		return err
	}

	outDir := c.String("out-dir")
	output := c.String("output")

	switch buildType {
	case "lib":
		if output == "" {
			output = name + ".wlib"
		}
		return s.SaveLibrary(filepath.Join(outDir, output), name, result)

	default: // "bin", "test": both compile to a runnable artifact
		return emit(c, result, outDir, output, name)
	}
}

// resolveManifestLibraries reads the wiz.toml manifest next to input, if
// one exists, and resolves its [dependencies] table into an ordered list
// of .wlib paths to load before the input's own sources (spec §6.2). A
// package with no manifest has no implicit dependencies.
func resolveManifestLibraries(input string) ([]string, error) {
	dir := input
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		dir = filepath.Dir(input)
	}

	manifestPath := filepath.Join(dir, "wiz.toml")
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, nil
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	nodes, err := manifest.Resolve(m, dir)
	if err != nil {
		return nil, err
	}
	return manifest.FlattenPaths(nodes), nil
}

// report renders err through s.Printer in the requested format and writes
// it to stderr: a source-excerpted message under the default --format
// text, or a single line of JSON under --format json.
func report(s *session.Session, format string, err error) {
	switch format {
	case "json":
		fmt.Fprintln(os.Stderr, s.Printer.RenderJSON(err))
	default:
		fmt.Fprint(os.Stderr, s.Printer.Render(err))
	}
}

// emit drives backend codegen per --emit. Only llvm-ir is produced
// directly by this core (a textual rendering of the same instruction
// stream a linked backend would consume); asm/obj need a native target
// backend this core does not vendor.
func emit(c *cli.Context, result *session.Result, outDir, output, name string) error {
	format := c.String("emit")

	switch format {
	case "llvm-ir":
		tb := backend.NewTextBuilder()
		if err := backend.NewCodeGen(tb).Generate(result.MLIR); err != nil {
			return err
		}
		if output == "" {
			output = name + ".ll"
		}
		path := filepath.Join(outDir, output)
		if err := os.WriteFile(path, []byte(tb.String()), 0o644); err != nil {
			return errdefs.WithIOError(path, err)
		}
		return nil

	case "asm", "obj":
		return errdefs.WithCodegenError(token.Position{}, "--emit %s needs a linked native backend, which this build does not include", format)

	default:
		return errors.Errorf("wizc: unknown --emit %q (want llvm-ir, asm, or obj)", format)
	}
}
