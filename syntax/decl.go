package syntax

import "github.com/wiz-lang/wizc/token"

// Annotation is a `@name` decoration preceding a declaration.
type Annotation struct {
	At   token.Token
	Name *Ident
}

func (a *Annotation) Position() token.Position { return a.At.Pos }
func (a *Annotation) End() token.Position       { return a.Name.End() }
func (a *Annotation) Render() string            { return a.At.Render() + a.Name.Render() }

// Decl is the tagged union of `decl ::= annotations? (var | fun | struct |
// extension | protocol | extern | use | module)`.
type Decl struct {
	Annotations []*Annotation

	Var       *VarDecl
	Fun       *FuncDecl
	Struct    *StructDecl
	Extern    *ExternBlockDecl
	Protocol  *ProtocolDecl
	Extension *ExtensionDecl
	Use       *UseDecl
	Module    *ModuleDecl
}

func (d *Decl) inner() Node {
	switch {
	case d.Var != nil:
		return d.Var
	case d.Fun != nil:
		return d.Fun
	case d.Struct != nil:
		return d.Struct
	case d.Extern != nil:
		return d.Extern
	case d.Protocol != nil:
		return d.Protocol
	case d.Extension != nil:
		return d.Extension
	case d.Use != nil:
		return d.Use
	case d.Module != nil:
		return d.Module
	default:
		return nil
	}
}

func (d *Decl) Position() token.Position {
	if len(d.Annotations) > 0 {
		return d.Annotations[0].Position()
	}
	return d.inner().Position()
}
func (d *Decl) End() token.Position { return d.inner().End() }
func (d *Decl) Render() string {
	out := ""
	for _, a := range d.Annotations {
		out += a.Render()
	}
	out += d.inner().Render()
	return out
}

// Name returns the declared identifier, used uniformly by the arena's
// expand pass regardless of which decl variant this wraps.
func (d *Decl) Name() *Ident {
	switch {
	case d.Var != nil:
		return d.Var.Name
	case d.Fun != nil:
		return d.Fun.Name
	case d.Struct != nil:
		return d.Struct.Name
	case d.Protocol != nil:
		return d.Protocol.Name
	case d.Extension != nil:
		return nil // extensions declare no new name
	case d.Use != nil:
		return nil
	case d.Module != nil:
		return d.Module.Name
	default:
		return nil
	}
}

// VarDecl is `("var"|"val") id (":" type)? "=" expr`.
type VarDecl struct {
	Keyword token.Token // "var" or "val"
	Name    *Ident
	Colon   *token.Token
	Type    *TypeName // optional
	Eq      token.Token
	Value   *Expr
}

func (v *VarDecl) Mutable() bool { return v.Keyword.Text == "var" }

func (v *VarDecl) Position() token.Position { return v.Keyword.Pos }
func (v *VarDecl) End() token.Position       { return v.Value.End() }
func (v *VarDecl) Render() string {
	out := v.Keyword.Render() + v.Name.Render()
	if v.Type != nil {
		out += v.Colon.Render() + v.Type.Render()
	}
	out += v.Eq.Render() + v.Value.Render()
	return out
}

// FuncDecl is `modifiers* "fun" id type_params? args (":" type)?
// type_constraints? body?`.
type FuncDecl struct {
	Modifiers   []token.Token
	FunTok      token.Token
	Name        *Ident
	TypeParams  *TypeParamList // optional
	Params      *FieldList
	Colon       *token.Token
	ReturnType  *TypeName // optional; implicit unit when nil
	Constraints []*TypeConstraint
	Body        *BlockStmt // optional; nil for extern-declared signatures
}

func (f *FuncDecl) Position() token.Position {
	if len(f.Modifiers) > 0 {
		return f.Modifiers[0].Pos
	}
	return f.FunTok.Pos
}
func (f *FuncDecl) End() token.Position {
	if f.Body != nil {
		return f.Body.End()
	}
	if f.ReturnType != nil {
		return f.ReturnType.End()
	}
	return f.Params.End()
}
func (f *FuncDecl) Render() string {
	out := ""
	for _, m := range f.Modifiers {
		out += m.Render()
	}
	out += f.FunTok.Render() + f.Name.Render()
	if f.TypeParams != nil {
		out += f.TypeParams.Render()
	}
	out += f.Params.Render()
	if f.ReturnType != nil {
		out += f.Colon.Render() + f.ReturnType.Render()
	}
	if f.Body != nil {
		out += f.Body.Render()
	}
	return out
}

// IsGeneric reports whether the function declares type parameters.
func (f *FuncDecl) IsGeneric() bool { return f.TypeParams != nil && len(f.TypeParams.Params) > 0 }

// FieldList is `"(" (field ("," field)* ","?)? ")"`.
type FieldList struct {
	OpenParen  token.Token
	List       []*Field
	CloseParen token.Token
}

func (f *FieldList) Position() token.Position { return f.OpenParen.Pos }
func (f *FieldList) End() token.Position       { return endOfText(f.CloseParen) }
func (f *FieldList) Render() string {
	out := f.OpenParen.Render()
	for _, field := range f.List {
		out += field.Render()
	}
	out += f.CloseParen.Render()
	return out
}

func (f *FieldList) NumFields() int {
	if f == nil {
		return 0
	}
	return len(f.List)
}

// Field is an argument-definition: `(label id | "&"? "self") (":" type)?`.
type Field struct {
	Label    *Ident // optional external label
	SelfRef  *token.Token // "&" before "self", optional
	Self     *token.Token // "self" keyword, mutually exclusive with Name
	Name     *Ident       // nil when Self
	Variadic *token.Token // optional "variadic" keyword
	Colon    *token.Token
	Type     *TypeName // nil when Self
}

func (f *Field) IsSelf() bool { return f.Self != nil }

func (f *Field) Position() token.Position {
	if f.Label != nil {
		return f.Label.Position()
	}
	if f.SelfRef != nil {
		return f.SelfRef.Pos
	}
	if f.Self != nil {
		return f.Self.Pos
	}
	return f.Name.Position()
}
func (f *Field) End() token.Position {
	if f.Type != nil {
		return f.Type.End()
	}
	if f.Self != nil {
		return endOfText(*f.Self)
	}
	return f.Name.End()
}
func (f *Field) Render() string {
	out := ""
	if f.Label != nil {
		out += f.Label.Render()
	}
	if f.SelfRef != nil {
		out += f.SelfRef.Render()
	}
	if f.Self != nil {
		out += f.Self.Render()
		return out
	}
	if f.Variadic != nil {
		out += f.Variadic.Render()
	}
	out += f.Name.Render()
	if f.Type != nil {
		out += f.Colon.Render() + f.Type.Render()
	}
	return out
}

// StructDecl declares a struct or a type's stored/computed properties and
// member functions, via nested VarDecl/FuncDecl members.
type StructDecl struct {
	StructTok  token.Token
	Name       *Ident
	TypeParams *TypeParamList
	Conforms   []*TypeName // "struct Name: Proto1, Proto2"
	Body       *BlockStmt
}

func (s *StructDecl) Position() token.Position { return s.StructTok.Pos }
func (s *StructDecl) End() token.Position       { return s.Body.End() }
func (s *StructDecl) Render() string {
	out := s.StructTok.Render() + s.Name.Render()
	if s.TypeParams != nil {
		out += s.TypeParams.Render()
	}
	out += s.Body.Render()
	return out
}

// ProtocolDecl declares a protocol (interface): a set of required member
// function signatures.
type ProtocolDecl struct {
	ProtocolTok token.Token
	Name        *Ident
	Body        *BlockStmt
}

func (p *ProtocolDecl) Position() token.Position { return p.ProtocolTok.Pos }
func (p *ProtocolDecl) End() token.Position       { return p.Body.End() }
func (p *ProtocolDecl) Render() string {
	return p.ProtocolTok.Render() + p.Name.Render() + p.Body.Render()
}

// ExtensionDecl adds member functions to an existing type without
// redeclaring it.
type ExtensionDecl struct {
	ExtensionTok token.Token
	Type         *TypeName
	Conforms     []*TypeName
	Body         *BlockStmt
}

func (e *ExtensionDecl) Position() token.Position { return e.ExtensionTok.Pos }
func (e *ExtensionDecl) End() token.Position       { return e.Body.End() }
func (e *ExtensionDecl) Render() string {
	return e.ExtensionTok.Render() + e.Type.Render() + e.Body.Render()
}

// ExternBlockDecl declares a block of foreign function signatures with no
// bodies, resolved at link time rather than lowered.
type ExternBlockDecl struct {
	ExternTok token.Token
	ABI       *token.Token // optional string literal naming calling convention
	Open      token.Token
	Funcs     []*FuncDecl
	Close     token.Token
}

func (e *ExternBlockDecl) Position() token.Position { return e.ExternTok.Pos }
func (e *ExternBlockDecl) End() token.Position       { return endOfText(e.Close) }
func (e *ExternBlockDecl) Render() string {
	out := e.ExternTok.Render()
	if e.ABI != nil {
		out += e.ABI.Render()
	}
	out += e.Open.Render()
	for _, fn := range e.Funcs {
		out += fn.Render()
	}
	out += e.Close.Render()
	return out
}

// UseDecl is `"use" path ("::" "*" | "as" ident)?`.
type UseDecl struct {
	UseTok token.Token
	Path   *TypeName
	Star   *token.Token // "use X::*"
	AsTok  *token.Token
	Alias  *Ident
}

func (u *UseDecl) Position() token.Position { return u.UseTok.Pos }
func (u *UseDecl) End() token.Position {
	if u.Alias != nil {
		return u.Alias.End()
	}
	if u.Star != nil {
		return endOfText(*u.Star)
	}
	return u.Path.End()
}
func (u *UseDecl) Render() string {
	out := u.UseTok.Render() + u.Path.Render()
	if u.Star != nil {
		out += u.Star.Render()
	}
	if u.AsTok != nil {
		out += u.AsTok.Render() + u.Alias.Render()
	}
	return out
}

// IsGlob reports whether this is a `use X::*` wildcard import.
func (u *UseDecl) IsGlob() bool { return u.Star != nil }

// ModuleDecl is `"mod" id (body | ";")`. A nil Body triggers the module
// loader to resolve a sibling file (spec §9 design note).
type ModuleDecl struct {
	ModTok token.Token
	Name   *Ident
	Body   *BlockStmt // optional; nil triggers sibling-file loading
	Semi   *token.Token
}

func (m *ModuleDecl) Position() token.Position { return m.ModTok.Pos }
func (m *ModuleDecl) End() token.Position {
	if m.Body != nil {
		return m.Body.End()
	}
	return endOfText(*m.Semi)
}
func (m *ModuleDecl) Render() string {
	out := m.ModTok.Render() + m.Name.Render()
	if m.Body != nil {
		out += m.Body.Render()
	} else {
		out += m.Semi.Render()
	}
	return out
}

// HasInlineBody reports whether this is `mod name { ... }` rather than
// `mod name;`.
func (m *ModuleDecl) HasInlineBody() bool { return m.Body != nil }
