// Package diagnostic renders taxonomized compiler errors as one-line
// source excerpts with a caret, optionally colorized. Grounded on the
// teacher's diagnostic package (context-carried aurora.Aurora, isatty
// gating in cmd/hlb/main.go), adapted from hlb's context.Context-carried
// color handle to an explicit Printer value since this compiler has no
// server-side request context to thread it through.
package diagnostic

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	isatty "github.com/mattn/go-isatty"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/token"
)

// Printer renders errors as strings, colorizing when the writer given to
// NewPrinter is a terminal.
type Printer struct {
	color   aurora.Aurora
	sources map[string][]byte
}

// NewPrinter builds a Printer that auto-detects color support for w via
// isatty, the same gate cmd/hlb/main.go applies to stderr.
func NewPrinter(w io.Writer) *Printer {
	colorize := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colorize = isatty.IsTerminal(f.Fd())
	}
	return &Printer{color: aurora.NewAurora(colorize), sources: make(map[string][]byte)}
}

// AddSource registers a file's bytes so later diagnostics against
// positions in that file can render a source excerpt.
func (p *Printer) AddSource(filename string, src []byte) {
	p.sources[filename] = src
}

// Render formats err as a human-readable diagnostic: `file:line:col: kind:
// message`, followed, when the source for that position was registered, by
// `file:line | source-line` and a line with a caret under the column.
func (p *Printer) Render(err error) string {
	var b strings.Builder

	e, ok := errdefs.As(err, errdefs.Parse)
	if !ok {
		if e2, ok2 := anyTaxonomized(err); ok2 {
			e = e2
		}
	}
	if e == nil {
		fmt.Fprintf(&b, "%s\n", p.color.Red(err.Error()))
		return b.String()
	}

	fmt.Fprintf(&b, "%s: %s: %s\n", p.color.Bold(e.Pos.String()), e.Kind, p.color.Red(e.Err.Error()))

	if line, ok := p.sourceLine(e.Pos); ok {
		gutter := fmt.Sprintf("%s:%d | ", e.Pos.Filename, e.Pos.Line)
		fmt.Fprintf(&b, "%s%s\n", gutter, line)
		fmt.Fprintf(&b, "%s%s\n", strings.Repeat(" ", len(gutter)+max(e.Pos.Column-1, 0)), p.color.Red("^"))
	}
	return b.String()
}

// record is the machine-readable shape of a single diagnostic, emitted by
// RenderJSON when the driver requests JSON output (spec §6.1).
type record struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// RenderJSON formats err as a single line of JSON instead of Render's
// human-readable excerpt. Untaxonomized errors (e.g. CLI usage errors) are
// still emitted, with kind "error" and no position.
func (p *Printer) RenderJSON(err error) string {
	rec := record{Kind: "error", Message: err.Error()}

	e, ok := errdefs.As(err, errdefs.Parse)
	if !ok {
		e, ok = anyTaxonomized(err)
	}
	if ok {
		rec.Kind = e.Kind.String()
		rec.Message = e.Err.Error()
		rec.File = e.Pos.Filename
		rec.Line = e.Pos.Line
		rec.Column = e.Pos.Column
	}

	data, jerr := json.Marshal(rec)
	if jerr != nil {
		return fmt.Sprintf(`{"kind":"error","message":%q}`, err.Error())
	}
	return string(data)
}

func anyTaxonomized(err error) (*errdefs.Error, bool) {
	for _, k := range []errdefs.Kind{errdefs.Lex, errdefs.Parse, errdefs.Resolver, errdefs.Lowering, errdefs.Codegen, errdefs.IO} {
		if e, ok := errdefs.As(err, k); ok {
			return e, true
		}
	}
	return nil, false
}

func (p *Printer) sourceLine(pos token.Position) (string, bool) {
	src, ok := p.sources[pos.Filename]
	if !ok {
		return "", false
	}
	lines := strings.Split(string(src), "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return "", false
	}
	return lines[pos.Line-1], true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
