// Package resolver implements the three-sub-pass name/type resolver of
// spec §4.4: expand (register namespaces and type names), preload
// (resolve signatures and register values/functions), and body resolution
// (type every expression and statement, producing HLIR).
//
// Grounded on the teacher's checker.Scope/Object pattern for the general
// shape of a resolver owning a mutable symbol table, and on
// original_source/wiz's ResolverContext/NameSpace for the specific
// three-pass algorithm and the name-environment-stack design.
package resolver

import (
	"strings"

	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/syntax"
	"github.com/wiz-lang/wizc/token"
)

// Resolver drives the three sub-passes over one compilation's source set,
// owning the arena and the name environment for its lifetime.
type Resolver struct {
	arena *arena.Arena
	env   *Env

	// pendingExtensions records an extension's member functions against
	// the struct DeclarationId they extend, collected and merged into
	// that struct's member-function set during Preload (the struct must
	// already be registered by Expand before its extensions can resolve
	// their target type). Supplemented feature (§10): extension merging
	// happens at preload time, not lowering time, so that a method added
	// by an extension is visible to every later file's body resolution.
	pendingExtensions map[arena.DeclarationId][]*syntax.ExtensionDecl

	// moduleNS/structID/protocolID/funcID remember the DeclarationId each
	// CST node was expanded to, so later passes don't need to re-walk the
	// arena by name to find a node they already registered (which, for an
	// overloaded function name, could find the wrong sibling overload).
	moduleNS   map[*syntax.ModuleDecl]arena.DeclarationId
	structID   map[*syntax.StructDecl]arena.DeclarationId
	protocolID map[*syntax.ProtocolDecl]arena.DeclarationId
	funcID     map[*syntax.FuncDecl]arena.DeclarationId
}

func New(a *arena.Arena) *Resolver {
	return &Resolver{
		arena:             a,
		env:               NewEnv(),
		pendingExtensions: make(map[arena.DeclarationId][]*syntax.ExtensionDecl),
		moduleNS:          make(map[*syntax.ModuleDecl]arena.DeclarationId),
		structID:          make(map[*syntax.StructDecl]arena.DeclarationId),
		protocolID:        make(map[*syntax.ProtocolDecl]arena.DeclarationId),
		funcID:            make(map[*syntax.FuncDecl]arena.DeclarationId),
	}
}

func (r *Resolver) Arena() *arena.Arena { return r.arena }

// Expand is sub-pass 1: register every namespace and type name named by
// every file into the arena, so later passes can resolve forward
// references regardless of declaration order or which file they came
// from.
func (r *Resolver) Expand(files []*syntax.File) error {
	for _, f := range files {
		if err := r.expandDecls(arena.Root, f.Decls); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) expandDecls(namespace arena.DeclarationId, decls []*syntax.Decl) error {
	for _, d := range decls {
		switch {
		case d.Module != nil:
			if !d.Module.HasInlineBody() {
				// Sibling-file loading is the session driver's job (spec
				// §9); by the time Expand runs, the driver has already
				// merged the sibling file's declarations into an inline
				// Body, or this is a genuine forward declaration with
				// nothing to expand yet.
				continue
			}
			id, ok := r.arena.RegisterNamespace(namespace, d.Module.Name.Name(), annotationsOf(d))
			if !ok {
				return errdefs.WithDuplicateDeclaration(d.Position(), d.Module.Name.Name())
			}
			r.arena.MustGet(id).Doc = docOf(d)
			r.moduleNS[d.Module] = id
			if err := r.expandDecls(id, declsOf(d.Module.Body)); err != nil {
				return err
			}
		case d.Struct != nil:
			id, ok := r.arena.RegisterStruct(namespace, d.Struct.Name.Name(), annotationsOf(d))
			if !ok {
				return errdefs.WithDuplicateDeclaration(d.Position(), d.Struct.Name.Name())
			}
			r.arena.MustGet(id).Doc = docOf(d)
			r.structID[d.Struct] = id
			if d.Struct.TypeParams != nil {
				for _, tp := range d.Struct.TypeParams.Params {
					if _, ok := r.arena.RegisterTypeParameter(id, tp.Name.Name(), nil); !ok {
						return errdefs.WithDuplicateDeclaration(tp.Position(), tp.Name.Name())
					}
				}
			}
		case d.Protocol != nil:
			id, ok := r.arena.RegisterProtocol(namespace, d.Protocol.Name.Name(), annotationsOf(d))
			if !ok {
				return errdefs.WithDuplicateDeclaration(d.Position(), d.Protocol.Name.Name())
			}
			r.arena.MustGet(id).Doc = docOf(d)
			r.protocolID[d.Protocol] = id
		case d.Extension != nil:
			// The extended type must already be registered by the time
			// extensions are merged (Preload); defer resolution there.
		}
	}
	return nil
}

// declsOf extracts the declarations from a module body block, ignoring
// any non-decl statement (a module body is grammatically restricted to
// decls; anything else is rejected at body-resolution time).
func declsOf(b *syntax.BlockStmt) []*syntax.Decl {
	var out []*syntax.Decl
	for _, s := range b.List {
		if s.Decl != nil {
			out = append(out, s.Decl)
		}
	}
	return out
}

func annotationsOf(d *syntax.Decl) arena.Annotations {
	var out arena.Annotations
	for _, a := range d.Annotations {
		out = append(out, a.Name.Name())
	}
	return out
}

// docOf collects the doc-comment trivia (`///` / `/** */`, §3.1) leading
// d's first token into a single string, joined by newlines in source
// order. Returns "" when d carries no doc comment.
func docOf(d *syntax.Decl) string {
	var lead token.Trivia
	switch {
	case len(d.Annotations) > 0:
		lead = d.Annotations[0].At.Leading
	case d.Var != nil:
		lead = d.Var.Keyword.Leading
	case d.Fun != nil:
		lead = d.Fun.FunTok.Leading
	case d.Struct != nil:
		lead = d.Struct.StructTok.Leading
	case d.Extern != nil:
		lead = d.Extern.ExternTok.Leading
	case d.Protocol != nil:
		lead = d.Protocol.ProtocolTok.Leading
	case d.Extension != nil:
		lead = d.Extension.ExtensionTok.Leading
	case d.Use != nil:
		lead = d.Use.UseTok.Leading
	case d.Module != nil:
		lead = d.Module.ModTok.Leading
	default:
		return ""
	}

	pieces := lead.Docs()
	if len(pieces) == 0 {
		return ""
	}
	lines := make([]string, len(pieces))
	for i, p := range pieces {
		lines[i] = p.Text
	}
	return strings.Join(lines, "\n")
}
