// Command wizc is the Wiz compiler's CLI entry point (spec §6.1).
package main

import (
	"os"

	"github.com/wiz-lang/wizc/cmd/wizc/command"
	"github.com/wiz-lang/wizc/errdefs"
)

// command.App's action renders any returned error through its own
// diagnostic.Printer (source-excerpted text, or JSON under --format json)
// before returning it, so main only needs to map it to an exit code.
func main() {
	app := command.App()
	err := app.Run(os.Args)
	os.Exit(exitCode(err))
}

// exitCode maps a run error to spec §6.1's exit code table. Errors
// taxonomized by errdefs use its mapping (0/1/2); anything else reached
// main untaxonomized, which happens when cli itself rejected the
// invocation (unknown flag) or the action returned a plain usage error
// (wrong arg count, unknown --type/--emit/--format value) before a
// compiler pass ever ran, i.e. exit code 3.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	for _, k := range []errdefs.Kind{errdefs.Lex, errdefs.Parse, errdefs.Resolver, errdefs.Lowering, errdefs.Codegen, errdefs.IO} {
		if _, ok := errdefs.As(err, k); ok {
			return errdefs.ExitCode(err)
		}
	}
	return 3
}
