// Package command builds the wizc cli.App (spec §6.1) and implements its
// single compile action.
//
// Grounded on the teacher's cmd/hlb/command.App: one cli.App with a flat
// flag set and a single default Action, rather than a verb-per-subcommand
// layout, since spec §6.1 describes wizc as a single compile invocation
// rather than a tool with multiple user-facing subcommands.
package command

import (
	cli "github.com/urfave/cli/v2"
)

// App builds the wizc CLI application.
func App() *cli.App {
	app := cli.NewApp()
	app.Name = "wizc"
	app.Usage = "compiles Wiz source to a native artifact or a persisted library"
	app.UsageText = "wizc [options] <input>"
	app.ArgsUsage = "<input>"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "override package name (default: input file stem or directory name)",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "build type: bin, lib, or test",
			Value: "bin",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file name (default derived from input stem and build type)",
		},
		&cli.StringFlag{
			Name:  "out-dir",
			Usage: "output directory",
			Value: ".",
		},
		&cli.StringSliceFlag{
			Name:    "path",
			Aliases: []string{"p"},
			Usage:   "additional library search path (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "L",
			Usage: "additional native link search path (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "library",
			Usage: "pre-built .wlib dependency (repeatable)",
		},
		&cli.StringFlag{
			Name:  "target-triple",
			Usage: "backend target triple (default: host)",
		},
		&cli.StringFlag{
			Name:  "emit",
			Usage: "backend output format: llvm-ir, asm, or obj",
			Value: "obj",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "diagnostic output format: text or json",
			Value: "text",
		},
	}
	app.Action = compileAction
	return app
}
