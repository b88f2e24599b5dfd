package syntax

import "github.com/wiz-lang/wizc/token"

// Ident is a single identifier, either a normal or backtick raw identifier.
type Ident struct {
	Tok token.Token
}

func (i *Ident) Position() token.Position { return i.Tok.Pos }
func (i *Ident) End() token.Position       { return endOfText(i.Tok) }
func (i *Ident) Render() string            { return i.Tok.Render() }

// Name returns the identifier's text, stripping surrounding backticks from
// a raw identifier.
func (i *Ident) Name() string {
	t := i.Tok.Text
	if len(t) >= 2 && t[0] == '`' && t[len(t)-1] == '`' {
		return t[1 : len(t)-1]
	}
	return t
}

// SimpleType is `id type_args?`.
type SimpleType struct {
	Name     *Ident
	TypeArgs *TypeArgList // optional
}

func (s *SimpleType) Position() token.Position { return s.Name.Position() }
func (s *SimpleType) End() token.Position {
	if s.TypeArgs != nil {
		return s.TypeArgs.End()
	}
	return s.Name.End()
}
func (s *SimpleType) Render() string {
	out := s.Name.Render()
	if s.TypeArgs != nil {
		out += s.TypeArgs.Render()
	}
	return out
}

// TypeArgList is `< type ("," type)* ","? >`.
type TypeArgList struct {
	Open  token.Token // "<"
	Args  []*TypeName
	Close token.Token // ">"
}

func (l *TypeArgList) Position() token.Position { return l.Open.Pos }
func (l *TypeArgList) End() token.Position       { return endOfText(l.Close) }
func (l *TypeArgList) Render() string {
	out := l.Open.Render()
	for _, a := range l.Args {
		out += a.Render()
	}
	out += l.Close.Render()
	return out
}

// TypeName is `decorated_type | simple_type ("::" simple_type)*`.
//
// Exactly one of (Star/Amp set, Segments set) applies: a decorated type
// wraps an Inner TypeName; otherwise Segments holds one or more namespace
// path components, the last of which carries any type arguments.
type TypeName struct {
	Pos token.Position

	Star  *token.Token // "*T"
	Amp   *token.Token // "&T"
	Inner *TypeName    // set together with Star or Amp

	Segments []*SimpleType // set when not decorated; len >= 1
}

func (t *TypeName) Position() token.Position { return t.Pos }
func (t *TypeName) End() token.Position {
	if t.Inner != nil {
		return t.Inner.End()
	}
	if len(t.Segments) > 0 {
		return t.Segments[len(t.Segments)-1].End()
	}
	return t.Pos
}
func (t *TypeName) Render() string {
	switch {
	case t.Star != nil:
		return t.Star.Render() + t.Inner.Render()
	case t.Amp != nil:
		return t.Amp.Render() + t.Inner.Render()
	default:
		out := ""
		for i, seg := range t.Segments {
			if i > 0 {
				out += "::"
			}
			out += seg.Render()
		}
		return out
	}
}

// IsDecorated reports whether this is a `*T` or `&T` type.
func (t *TypeName) IsDecorated() bool { return t.Star != nil || t.Amp != nil }

// IsPointer reports whether this is a `*T` type.
func (t *TypeName) IsPointer() bool { return t.Star != nil }

// IsReference reports whether this is a `&T` type.
func (t *TypeName) IsReference() bool { return t.Amp != nil }

// NamespacePrefix returns every segment except the last, used by the
// resolver's namespaced-name lookup (spec §4.4.2).
func (t *TypeName) NamespacePrefix() []*SimpleType {
	if len(t.Segments) <= 1 {
		return nil
	}
	return t.Segments[:len(t.Segments)-1]
}

// LastSegment returns the final path segment, which carries the actual type name
// and any type arguments.
func (t *TypeName) LastSegment() *SimpleType {
	if len(t.Segments) == 0 {
		return nil
	}
	return t.Segments[len(t.Segments)-1]
}

// TypeParameter is a single generic parameter declaration, e.g. `T`.
type TypeParameter struct {
	Name *Ident
}

func (p *TypeParameter) Position() token.Position { return p.Name.Position() }
func (p *TypeParameter) End() token.Position       { return p.Name.End() }
func (p *TypeParameter) Render() string            { return p.Name.Render() }

// TypeParamList is `< type_param ("," type_param)* ","? >`.
type TypeParamList struct {
	Open   token.Token
	Params []*TypeParameter
	Close  token.Token
}

func (l *TypeParamList) Position() token.Position { return l.Open.Pos }
func (l *TypeParamList) End() token.Position       { return endOfText(l.Close) }
func (l *TypeParamList) Render() string {
	out := l.Open.Render()
	for _, p := range l.Params {
		out += p.Render()
	}
	out += l.Close.Render()
	return out
}

// TypeConstraint binds a declared type parameter to a bound, e.g. `T: Eq`.
type TypeConstraint struct {
	Param *Ident
	Colon token.Token
	Bound *TypeName
}

func (c *TypeConstraint) Position() token.Position { return c.Param.Position() }
func (c *TypeConstraint) End() token.Position       { return c.Bound.End() }
func (c *TypeConstraint) Render() string {
	return c.Param.Render() + c.Colon.Render() + c.Bound.Render()
}

func endOfText(t token.Token) token.Position {
	return t.Pos.Shift(len(t.Text), 0)
}
