// Package parser implements the recursive-descent, combinator-style CST
// parser of spec §4.2. Every combinator returns (result, error); the parser
// reports the first unrecoverable position and does not attempt recovery.
package parser

import (
	"github.com/wiz-lang/wizc/lexer"
	"github.com/wiz-lang/wizc/syntax"
	"github.com/wiz-lang/wizc/token"
)

// ParseFile lexes and parses one named source file.
func ParseFile(filename string, src []byte) (*syntax.File, error) {
	toks, err := lexer.New(filename, src).Tokenize()
	if err != nil {
		return nil, err
	}
	toks = redistributeLineTrailing(toks)
	p := &cursor{toks: toks}
	return p.parseFile()
}

// cursor walks a flat token stream, the "combinator" receiver of spec §4.2.
type cursor struct {
	toks []token.Token
	pos  int
}

func (c *cursor) cur() token.Token { return c.toks[c.pos] }

func (c *cursor) peekN(n int) token.Token {
	if c.pos+n >= len(c.toks) {
		return c.toks[len(c.toks)-1]
	}
	return c.toks[c.pos+n]
}

func (c *cursor) advance() token.Token {
	t := c.toks[c.pos]
	if c.pos < len(c.toks)-1 {
		c.pos++
	}
	return t
}

func (c *cursor) atEOF() bool { return c.cur().Kind == token.EOF }

// is reports whether the current token's text equals text, regardless of
// lexical kind (keywords are just identifiers at lex time, per spec §4.1).
func (c *cursor) is(text string) bool { return !c.atEOF() && c.cur().Text == text }

func (c *cursor) isKind(k token.Kind) bool { return c.cur().Kind == k }

func (c *cursor) eat(text string) (token.Token, bool) {
	if c.is(text) {
		return c.advance(), true
	}
	return token.Token{}, false
}

func (c *cursor) expect(text string) (token.Token, error) {
	if t, ok := c.eat(text); ok {
		return t, nil
	}
	return token.Token{}, &Error{Pos: c.cur().Pos, Expected: []string{text}, Found: c.cur().Text}
}

func (c *cursor) expectKind(k token.Kind, what string) (token.Token, error) {
	if c.isKind(k) {
		return c.advance(), nil
	}
	return token.Token{}, &Error{Pos: c.cur().Pos, Expected: []string{what}, Found: c.cur().Text}
}

// adjacentToPrev reports whether the current token carries no leading
// trivia, required to fuse `as` and `?` into the one `as?` operator
// without losing or duplicating any byte on render.
func (c *cursor) adjacentToPrev() bool {
	return len(c.cur().Leading) == 0
}

func (c *cursor) ident() (*syntax.Ident, error) {
	t, err := c.expectKind(token.Ident, "identifier")
	if err != nil {
		if c.isKind(token.RawIdent) {
			t = c.advance()
			return &syntax.Ident{Tok: t}, nil
		}
		return nil, err
	}
	return &syntax.Ident{Tok: t}, nil
}

// === File & declarations =================================================

func (c *cursor) parseFile() (*syntax.File, error) {
	f := &syntax.File{}
	for !c.atEOF() {
		d, err := c.parseDecl()
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, d)
	}
	f.EOF = c.advance()
	return f, nil
}

func (c *cursor) parseAnnotations() ([]*syntax.Annotation, error) {
	var anns []*syntax.Annotation
	for c.is("@") {
		at := c.advance()
		name, err := c.ident()
		if err != nil {
			return nil, err
		}
		anns = append(anns, &syntax.Annotation{At: at, Name: name})
	}
	return anns, nil
}

func (c *cursor) parseDecl() (*syntax.Decl, error) {
	anns, err := c.parseAnnotations()
	if err != nil {
		return nil, err
	}
	d := &syntax.Decl{Annotations: anns}

	switch {
	case c.is("var") || c.is("val"):
		v, err := c.parseVar()
		if err != nil {
			return nil, err
		}
		d.Var = v
	case c.is("struct"):
		s, err := c.parseStruct()
		if err != nil {
			return nil, err
		}
		d.Struct = s
	case c.is("protocol"):
		p, err := c.parseProtocol()
		if err != nil {
			return nil, err
		}
		d.Protocol = p
	case c.is("extension"):
		e, err := c.parseExtension()
		if err != nil {
			return nil, err
		}
		d.Extension = e
	case c.is("extern"):
		e, err := c.parseExtern()
		if err != nil {
			return nil, err
		}
		d.Extern = e
	case c.is("use"):
		u, err := c.parseUse()
		if err != nil {
			return nil, err
		}
		d.Use = u
	case c.is("mod"):
		m, err := c.parseModule()
		if err != nil {
			return nil, err
		}
		d.Module = m
	case c.is("fun") || c.isFunModifier():
		fn, err := c.parseFun()
		if err != nil {
			return nil, err
		}
		d.Fun = fn
	default:
		return nil, &Error{Pos: c.cur().Pos, Expected: []string{"declaration"}, Found: c.cur().Text}
	}
	return d, nil
}

func (c *cursor) isFunModifier() bool {
	switch c.cur().Text {
	case "static", "override", "open", "extern":
		return true
	default:
		return false
	}
}

func (c *cursor) parseVar() (*syntax.VarDecl, error) {
	kw := c.advance() // "var" | "val"
	name, err := c.ident()
	if err != nil {
		return nil, err
	}
	v := &syntax.VarDecl{Keyword: kw, Name: name}
	if colon, ok := c.eat(":"); ok {
		v.Colon = &colon
		ty, err := c.parseType()
		if err != nil {
			return nil, err
		}
		v.Type = ty
	}
	eq, err := c.expect("=")
	if err != nil {
		return nil, err
	}
	v.Eq = eq
	val, err := c.parseExpr()
	if err != nil {
		return nil, err
	}
	v.Value = val
	return v, nil
}

func (c *cursor) parseFun() (*syntax.FuncDecl, error) {
	var mods []token.Token
	for c.isFunModifier() {
		mods = append(mods, c.advance())
	}
	funTok, err := c.expect("fun")
	if err != nil {
		return nil, err
	}
	name, err := c.ident()
	if err != nil {
		return nil, err
	}
	fn := &syntax.FuncDecl{Modifiers: mods, FunTok: funTok, Name: name}

	if c.is("<") {
		tp, err := c.parseTypeParamList()
		if err != nil {
			return nil, err
		}
		fn.TypeParams = tp
	}

	args, err := c.parseFieldList()
	if err != nil {
		return nil, err
	}
	fn.Params = args

	if colon, ok := c.eat(":"); ok {
		fn.Colon = &colon
		ty, err := c.parseType()
		if err != nil {
			return nil, err
		}
		fn.ReturnType = ty
	}

	if c.is("where") {
		c.advance()
		for {
			p, err := c.ident()
			if err != nil {
				return nil, err
			}
			colon, err := c.expect(":")
			if err != nil {
				return nil, err
			}
			bound, err := c.parseType()
			if err != nil {
				return nil, err
			}
			fn.Constraints = append(fn.Constraints, &syntax.TypeConstraint{Param: p, Colon: colon, Bound: bound})
			if _, ok := c.eat(","); !ok {
				break
			}
		}
	}

	if c.is("{") {
		body, err := c.parseBlock()
		if err != nil {
			return nil, err
		}
		fn.Body = body
	}
	return fn, nil
}

func (c *cursor) parseFieldList() (*syntax.FieldList, error) {
	open, err := c.expect("(")
	if err != nil {
		return nil, err
	}
	fl := &syntax.FieldList{OpenParen: open}
	for !c.is(")") {
		f, err := c.parseField()
		if err != nil {
			return nil, err
		}
		fl.List = append(fl.List, f)
		if _, ok := c.eat(","); !ok {
			break
		}
	}
	close, err := c.expect(")")
	if err != nil {
		return nil, err
	}
	fl.CloseParen = close
	return fl, nil
}

func (c *cursor) parseField() (*syntax.Field, error) {
	f := &syntax.Field{}

	if amp, ok := c.eat("&"); ok {
		f.SelfRef = &amp
	}
	if self, ok := c.eat("self"); ok {
		f.Self = &self
		return f, nil
	}

	if c.is("variadic") {
		v := c.advance()
		f.Variadic = &v
	}

	// A leading label is distinguished from the binder name by a second
	// identifier following it (label name : type).
	first, err := c.ident()
	if err != nil {
		return nil, err
	}
	if c.isKind(token.Ident) && !c.is(":") {
		f.Label = first
		name, err := c.ident()
		if err != nil {
			return nil, err
		}
		f.Name = name
	} else {
		f.Name = first
	}

	colon, err := c.expect(":")
	if err != nil {
		return nil, err
	}
	f.Colon = &colon
	ty, err := c.parseType()
	if err != nil {
		return nil, err
	}
	f.Type = ty
	return f, nil
}

func (c *cursor) parseStruct() (*syntax.StructDecl, error) {
	kw, err := c.expect("struct")
	if err != nil {
		return nil, err
	}
	name, err := c.ident()
	if err != nil {
		return nil, err
	}
	s := &syntax.StructDecl{StructTok: kw, Name: name}
	if c.is("<") {
		tp, err := c.parseTypeParamList()
		if err != nil {
			return nil, err
		}
		s.TypeParams = tp
	}
	if _, ok := c.eat(":"); ok {
		for {
			ty, err := c.parseType()
			if err != nil {
				return nil, err
			}
			s.Conforms = append(s.Conforms, ty)
			if _, ok := c.eat(","); !ok {
				break
			}
		}
	}
	body, err := c.parseBlock()
	if err != nil {
		return nil, err
	}
	s.Body = body
	return s, nil
}

func (c *cursor) parseProtocol() (*syntax.ProtocolDecl, error) {
	kw, err := c.expect("protocol")
	if err != nil {
		return nil, err
	}
	name, err := c.ident()
	if err != nil {
		return nil, err
	}
	body, err := c.parseBlock()
	if err != nil {
		return nil, err
	}
	return &syntax.ProtocolDecl{ProtocolTok: kw, Name: name, Body: body}, nil
}

func (c *cursor) parseExtension() (*syntax.ExtensionDecl, error) {
	kw, err := c.expect("extension")
	if err != nil {
		return nil, err
	}
	ty, err := c.parseType()
	if err != nil {
		return nil, err
	}
	e := &syntax.ExtensionDecl{ExtensionTok: kw, Type: ty}
	if _, ok := c.eat(":"); ok {
		for {
			proto, err := c.parseType()
			if err != nil {
				return nil, err
			}
			e.Conforms = append(e.Conforms, proto)
			if _, ok := c.eat(","); !ok {
				break
			}
		}
	}
	body, err := c.parseBlock()
	if err != nil {
		return nil, err
	}
	e.Body = body
	return e, nil
}

func (c *cursor) parseExtern() (*syntax.ExternBlockDecl, error) {
	kw, err := c.expect("extern")
	if err != nil {
		return nil, err
	}
	e := &syntax.ExternBlockDecl{ExternTok: kw}
	if c.isKind(token.StringLiteral) {
		abi := c.advance()
		e.ABI = &abi
	}
	open, err := c.expect("{")
	if err != nil {
		return nil, err
	}
	e.Open = open
	for !c.is("}") {
		fn, err := c.parseFun()
		if err != nil {
			return nil, err
		}
		e.Funcs = append(e.Funcs, fn)
	}
	close, err := c.expect("}")
	if err != nil {
		return nil, err
	}
	e.Close = close
	return e, nil
}

func (c *cursor) parseUse() (*syntax.UseDecl, error) {
	kw, err := c.expect("use")
	if err != nil {
		return nil, err
	}
	path, err := c.parseType()
	if err != nil {
		return nil, err
	}
	u := &syntax.UseDecl{UseTok: kw, Path: path}
	if star, ok := c.eat("*"); ok {
		u.Star = &star
	} else if as, ok := c.eat("as"); ok {
		u.AsTok = &as
		alias, err := c.ident()
		if err != nil {
			return nil, err
		}
		u.Alias = alias
	}
	return u, nil
}

func (c *cursor) parseModule() (*syntax.ModuleDecl, error) {
	kw, err := c.expect("mod")
	if err != nil {
		return nil, err
	}
	name, err := c.ident()
	if err != nil {
		return nil, err
	}
	m := &syntax.ModuleDecl{ModTok: kw, Name: name}
	if c.is("{") {
		body, err := c.parseBlock()
		if err != nil {
			return nil, err
		}
		m.Body = body
	} else {
		semi, err := c.expect(";")
		if err != nil {
			return nil, err
		}
		m.Semi = &semi
	}
	return m, nil
}

// === Types =================================================================

func (c *cursor) parseType() (*syntax.TypeName, error) {
	pos := c.cur().Pos
	if star, ok := c.eat("*"); ok {
		inner, err := c.parseType()
		if err != nil {
			return nil, err
		}
		return &syntax.TypeName{Pos: pos, Star: &star, Inner: inner}, nil
	}
	if amp, ok := c.eat("&"); ok {
		inner, err := c.parseType()
		if err != nil {
			return nil, err
		}
		return &syntax.TypeName{Pos: pos, Amp: &amp, Inner: inner}, nil
	}

	var segs []*syntax.SimpleType
	for {
		seg, err := c.parseSimpleType()
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
		if !c.combine2("::") {
			break
		}
		c.eat2("::")
	}
	return &syntax.TypeName{Pos: pos, Segments: segs}, nil
}

func (c *cursor) parseSimpleType() (*syntax.SimpleType, error) {
	name, err := c.ident()
	if err != nil {
		return nil, err
	}
	s := &syntax.SimpleType{Name: name}
	if c.is("<") {
		args, err := c.parseTypeArgList()
		if err != nil {
			return nil, err
		}
		s.TypeArgs = args
	}
	return s, nil
}

func (c *cursor) parseTypeArgList() (*syntax.TypeArgList, error) {
	open, err := c.expect("<")
	if err != nil {
		return nil, err
	}
	l := &syntax.TypeArgList{Open: open}
	for !c.is(">") {
		ty, err := c.parseType()
		if err != nil {
			return nil, err
		}
		l.Args = append(l.Args, ty)
		if _, ok := c.eat(","); !ok {
			break
		}
	}
	close, err := c.expect(">")
	if err != nil {
		return nil, err
	}
	l.Close = close
	return l, nil
}

func (c *cursor) parseTypeParamList() (*syntax.TypeParamList, error) {
	open, err := c.expect("<")
	if err != nil {
		return nil, err
	}
	l := &syntax.TypeParamList{Open: open}
	for !c.is(">") {
		name, err := c.ident()
		if err != nil {
			return nil, err
		}
		l.Params = append(l.Params, &syntax.TypeParameter{Name: name})
		if _, ok := c.eat(","); !ok {
			break
		}
	}
	close, err := c.expect(">")
	if err != nil {
		return nil, err
	}
	l.Close = close
	return l, nil
}

// === Statements ============================================================

func (c *cursor) parseBlock() (*syntax.BlockStmt, error) {
	open, err := c.expect("{")
	if err != nil {
		return nil, err
	}
	b := &syntax.BlockStmt{OpenBrace: open}
	for !c.is("}") {
		s, err := c.parseStmt()
		if err != nil {
			return nil, err
		}
		b.List = append(b.List, s)
	}
	close, err := c.expect("}")
	if err != nil {
		return nil, err
	}
	b.CloseBrace = close
	return b, nil
}

func (c *cursor) parseStmt() (*syntax.Stmt, error) {
	switch {
	case c.is("var") || c.is("val") || c.is("fun") || c.is("struct") || c.is("protocol") ||
		c.is("extension") || c.is("extern") || c.is("use") || c.is("mod"):
		d, err := c.parseDecl()
		if err != nil {
			return nil, err
		}
		return &syntax.Stmt{Decl: d}, nil
	case c.is("while") || c.is("for"):
		l, err := c.parseLoop()
		if err != nil {
			return nil, err
		}
		return &syntax.Stmt{Loop: l}, nil
	default:
		return c.parseAssignmentOrExprStmt()
	}
}

func (c *cursor) parseLoop() (*syntax.LoopStmt, error) {
	if c.is("while") {
		w, err := c.parseWhile()
		if err != nil {
			return nil, err
		}
		return &syntax.LoopStmt{While: w}, nil
	}
	f, err := c.parseFor()
	if err != nil {
		return nil, err
	}
	return &syntax.LoopStmt{For: f}, nil
}

func (c *cursor) parseWhile() (*syntax.WhileLoop, error) {
	kw, err := c.expect("while")
	if err != nil {
		return nil, err
	}
	open, err := c.expect("(")
	if err != nil {
		return nil, err
	}
	cond, err := c.parseExpr()
	if err != nil {
		return nil, err
	}
	close, err := c.expect(")")
	if err != nil {
		return nil, err
	}
	body, err := c.parseBlock()
	if err != nil {
		return nil, err
	}
	return &syntax.WhileLoop{WhileTok: kw, Open: open, Cond: cond, Close: close, Body: body}, nil
}

func (c *cursor) parseFor() (*syntax.ForLoop, error) {
	kw, err := c.expect("for")
	if err != nil {
		return nil, err
	}
	binder, err := c.ident()
	if err != nil {
		return nil, err
	}
	in, err := c.expect("in")
	if err != nil {
		return nil, err
	}
	iter, err := c.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := c.parseBlock()
	if err != nil {
		return nil, err
	}
	return &syntax.ForLoop{ForTok: kw, Binder: binder, InTok: in, Iter: iter, Body: body}, nil
}

// directlyAssignable reports whether e is a valid lvalue shape: name,
// member access, or subscript (spec §4.5); enforced fully by the resolver,
// checked syntactically here only to decide assignment-vs-expr-statement.
func directlyAssignable(e *syntax.Expr) bool {
	return e.Name != nil || e.Member != nil || e.Subscript != nil
}

var opEqTexts = map[string]syntax.OpEqKind{
	"+": syntax.AddEq,
	"-": syntax.SubEq,
	"*": syntax.MulEq,
	"/": syntax.DivEq,
	"%": syntax.ModEq,
}

func (c *cursor) parseAssignmentOrExprStmt() (*syntax.Stmt, error) {
	e, err := c.parseExpr()
	if err != nil {
		return nil, err
	}

	if c.is("=") && directlyAssignable(e) {
		eq := c.advance()
		val, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		return &syntax.Stmt{Assignment: &syntax.AssignmentStmt{Target: e, OpTok: eq, Op: syntax.AssignEq, Value: val}}, nil
	}

	if kind, ok := opEqTexts[c.cur().Text]; ok && directlyAssignable(e) && c.peekN(1).Text == "=" && c.peekN(1).Leading == nil {
		opTok := c.advance()
		eqTok := c.advance()
		merged := opTok
		merged.Text = opTok.Text + eqTok.Text
		val, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		return &syntax.Stmt{Assignment: &syntax.AssignmentStmt{Target: e, OpTok: merged, Op: kind, Value: val}}, nil
	}

	return &syntax.Stmt{Expr: e}, nil
}

// === Expressions: precedence ladder ========================================

func (c *cursor) parseExpr() (*syntax.Expr, error) { return c.parseDisjunction() }

func (c *cursor) combine2(a string) bool {
	return c.is(a[:1]) && c.peekN(1).Text == a[1:2] && c.peekN(1).Leading == nil
}

func (c *cursor) eat2(a string) token.Token {
	t1 := c.advance()
	t2 := c.advance()
	t1.Text = t1.Text + t2.Text
	return t1
}

func (c *cursor) parseDisjunction() (*syntax.Expr, error) {
	left, err := c.parseConjunction()
	if err != nil {
		return nil, err
	}
	for c.combine2("||") {
		op := c.eat2("||")
		right, err := c.parseConjunction()
		if err != nil {
			return nil, err
		}
		left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: op, Op: syntax.OpOr, Right: right}}
	}
	return left, nil
}

func (c *cursor) parseConjunction() (*syntax.Expr, error) {
	left, err := c.parseEquality()
	if err != nil {
		return nil, err
	}
	for c.combine2("&&") {
		op := c.eat2("&&")
		right, err := c.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: op, Op: syntax.OpAnd, Right: right}}
	}
	return left, nil
}

func (c *cursor) parseEquality() (*syntax.Expr, error) {
	left, err := c.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case c.combine2("=="):
			op := c.eat2("==")
			right, err := c.parseComparison()
			if err != nil {
				return nil, err
			}
			left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: op, Op: syntax.OpEq, Right: right}}
		case c.combine2("!="):
			op := c.eat2("!=")
			right, err := c.parseComparison()
			if err != nil {
				return nil, err
			}
			left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: op, Op: syntax.OpNotEq, Right: right}}
		default:
			return left, nil
		}
	}
}

func (c *cursor) parseComparison() (*syntax.Expr, error) {
	left, err := c.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case c.combine2("<="):
			op := c.eat2("<=")
			right, err := c.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: op, Op: syntax.OpLtEq, Right: right}}
		case c.combine2(">="):
			op := c.eat2(">=")
			right, err := c.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: op, Op: syntax.OpGtEq, Right: right}}
		case c.is("<"):
			op := c.advance()
			right, err := c.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: op, Op: syntax.OpLt, Right: right}}
		case c.is(">"):
			op := c.advance()
			right, err := c.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: op, Op: syntax.OpGt, Right: right}}
		default:
			return left, nil
		}
	}
}

func (c *cursor) parseAdditive() (*syntax.Expr, error) {
	left, err := c.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for c.is("+") || c.is("-") {
		opTok := c.advance()
		op := syntax.OpAdd
		if opTok.Text == "-" {
			op = syntax.OpSub
		}
		right, err := c.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: opTok, Op: op, Right: right}}
	}
	return left, nil
}

func (c *cursor) parseMultiplicative() (*syntax.Expr, error) {
	left, err := c.parseCast()
	if err != nil {
		return nil, err
	}
	for c.is("*") || c.is("/") || c.is("%") {
		opTok := c.advance()
		var op syntax.BinaryOp
		switch opTok.Text {
		case "*":
			op = syntax.OpMul
		case "/":
			op = syntax.OpDiv
		default:
			op = syntax.OpMod
		}
		right, err := c.parseCast()
		if err != nil {
			return nil, err
		}
		left = &syntax.Expr{Binary: &syntax.BinaryExpr{Left: left, OpTok: opTok, Op: op, Right: right}}
	}
	return left, nil
}

func (c *cursor) parseCast() (*syntax.Expr, error) {
	left, err := c.parsePrefix()
	if err != nil {
		return nil, err
	}
	for c.is("as") {
		asTok := c.advance()
		optional := false
		if c.is("?") && c.adjacentToPrev() {
			q := c.advance()
			asTok.Text += q.Text
			optional = true
		}
		ty, err := c.parseType()
		if err != nil {
			return nil, err
		}
		left = &syntax.Expr{TypeCast: &syntax.TypeCastExpr{Value: left, AsTok: asTok, Optional: optional, Type: ty}}
	}
	return left, nil
}

func (c *cursor) parsePrefix() (*syntax.Expr, error) {
	switch {
	case c.is("+"), c.is("-"), c.is("!"), c.is("&"), c.is("*"):
		opTok := c.advance()
		var op syntax.UnaryOp
		switch opTok.Text {
		case "+":
			op = syntax.UnaryPlus
		case "-":
			op = syntax.UnaryMinus
		case "!":
			op = syntax.UnaryNot
		case "&":
			op = syntax.UnaryRef
		default:
			op = syntax.UnaryDeref
		}
		operand, err := c.parsePrefix()
		if err != nil {
			return nil, err
		}
		return &syntax.Expr{Unary: &syntax.UnaryExpr{OpTok: opTok, Op: op, Operand: operand}}, nil
	default:
		return c.parsePostfix()
	}
}

func (c *cursor) parsePostfix() (*syntax.Expr, error) {
	e, err := c.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case c.is("("):
			open := c.advance()
			var args []*syntax.Expr
			for !c.is(")") {
				a, err := c.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if _, ok := c.eat(","); !ok {
					break
				}
			}
			close, err := c.expect(")")
			if err != nil {
				return nil, err
			}
			e = &syntax.Expr{Call: &syntax.CallExpr{Callee: e, Open: open, Args: args, Close: close}}
		case c.is("["):
			open := c.advance()
			idx, err := c.parseExpr()
			if err != nil {
				return nil, err
			}
			close, err := c.expect("]")
			if err != nil {
				return nil, err
			}
			e = &syntax.Expr{Subscript: &syntax.SubscriptExpr{Target: e, Open: open, Index: idx, Close: close}}
		case c.is("."):
			dot := c.advance()
			name, err := c.ident()
			if err != nil {
				return nil, err
			}
			e = &syntax.Expr{Member: &syntax.MemberExpr{Target: e, Dot: dot, Name: name}}
		default:
			return e, nil
		}
	}
}

func (c *cursor) parsePrimary() (*syntax.Expr, error) {
	switch {
	case c.isKind(token.IntLiteral):
		return &syntax.Expr{Literal: &syntax.Literal{Kind: syntax.IntLit, Tok: c.advance()}}, nil
	case c.isKind(token.FloatLiteral):
		return &syntax.Expr{Literal: &syntax.Literal{Kind: syntax.FloatLit, Tok: c.advance()}}, nil
	case c.isKind(token.StringLiteral), c.isKind(token.ByteStringLiteral), c.isKind(token.RawStringLiteral):
		return &syntax.Expr{Literal: &syntax.Literal{Kind: syntax.StringLit, Tok: c.advance()}}, nil
	case c.isKind(token.CharLiteral), c.isKind(token.ByteCharLiteral):
		return &syntax.Expr{Literal: &syntax.Literal{Kind: syntax.CharLit, Tok: c.advance()}}, nil
	case c.is("true") || c.is("false"):
		return &syntax.Expr{Literal: &syntax.Literal{Kind: syntax.BoolLit, Tok: c.advance()}}, nil
	case c.is("("):
		return c.parseParenOrTuple()
	case c.is("["):
		return c.parseArray()
	case c.is("if"):
		ie, err := c.parseIf()
		if err != nil {
			return nil, err
		}
		return &syntax.Expr{If: ie}, nil
	case c.is("when"):
		w, err := c.parseWhen()
		if err != nil {
			return nil, err
		}
		return &syntax.Expr{When: w}, nil
	case c.is("return"):
		r, err := c.parseReturn()
		if err != nil {
			return nil, err
		}
		return &syntax.Expr{Return: r}, nil
	case c.is("|"):
		l, err := c.parseLambda()
		if err != nil {
			return nil, err
		}
		return &syntax.Expr{Lambda: l}, nil
	case c.isKind(token.Ident), c.isKind(token.RawIdent):
		path, err := c.parseType()
		if err != nil {
			return nil, err
		}
		return &syntax.Expr{Name: &syntax.NameExpr{Path: path}}, nil
	default:
		return nil, &Error{Pos: c.cur().Pos, Expected: []string{"expression"}, Found: c.cur().Text}
	}
}

func (c *cursor) parseParenOrTuple() (*syntax.Expr, error) {
	open := c.advance()
	var elems []*syntax.Expr
	for !c.is(")") {
		e, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if _, ok := c.eat(","); !ok {
			break
		}
	}
	close, err := c.expect(")")
	if err != nil {
		return nil, err
	}
	if len(elems) == 1 {
		return &syntax.Expr{Parenthesized: &syntax.ParenExpr{Open: open, Inner: elems[0], Close: close}}, nil
	}
	return &syntax.Expr{Tuple: &syntax.TupleExpr{Open: open, Elems: elems, Close: close}}, nil
}

func (c *cursor) parseArray() (*syntax.Expr, error) {
	open, err := c.expect("[")
	if err != nil {
		return nil, err
	}
	var elems []*syntax.Expr
	for !c.is("]") {
		e, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if _, ok := c.eat(","); !ok {
			break
		}
	}
	close, err := c.expect("]")
	if err != nil {
		return nil, err
	}
	return &syntax.Expr{Array: &syntax.ArrayExpr{Open: open, Elems: elems, Close: close}}, nil
}

func (c *cursor) parseIf() (*syntax.IfExpr, error) {
	ifTok, err := c.expect("if")
	if err != nil {
		return nil, err
	}
	// The parenthesized condition parses as a ParenExpr, which keeps the
	// "(" and ")" tokens and their trivia for Render.
	if !c.is("(") {
		return nil, &Error{Pos: c.cur().Pos, Expected: []string{"("}, Found: c.cur().Text}
	}
	cond, err := c.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := c.parseBlock()
	if err != nil {
		return nil, err
	}
	ie := &syntax.IfExpr{IfTok: ifTok, Cond: cond, Then: then}
	if elseTok, ok := c.eat("else"); ok {
		ie.ElseTok = &elseTok
		if c.is("if") {
			nested, err := c.parseIf()
			if err != nil {
				return nil, err
			}
			ie.Else = nested
		} else {
			block, err := c.parseBlock()
			if err != nil {
				return nil, err
			}
			ie.ElseBlock = block
		}
	}
	return ie, nil
}

// parseWhen is an extension point: the grammar is accepted, but the
// resolver refuses to type a WhenExpr (spec §9 Open Question).
func (c *cursor) parseWhen() (*syntax.WhenExpr, error) {
	whenTok, err := c.expect("when")
	if err != nil {
		return nil, err
	}
	scrutinee, err := c.parseExpr()
	if err != nil {
		return nil, err
	}
	open, err := c.expect("{")
	if err != nil {
		return nil, err
	}
	w := &syntax.WhenExpr{WhenTok: whenTok, Scrutinee: scrutinee, Open: open}
	for !c.is("}") {
		pattern, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		arrow, err := c.expect("->")
		if err != nil {
			// "->" is lexed as two adjacent tokens "-" ">"; fuse them.
			if c.cur().Text == "-" && c.peekN(1).Text == ">" && c.peekN(1).Leading == nil {
				arrow = c.eat2("->")
			} else {
				return nil, err
			}
		}
		body, err := c.parseBlock()
		if err != nil {
			return nil, err
		}
		w.Arms = append(w.Arms, &syntax.WhenArm{Pattern: pattern, Arrow: arrow, Body: body})
	}
	close, err := c.expect("}")
	if err != nil {
		return nil, err
	}
	w.Close = close
	return w, nil
}

func (c *cursor) parseReturn() (*syntax.ReturnExpr, error) {
	kw, err := c.expect("return")
	if err != nil {
		return nil, err
	}
	r := &syntax.ReturnExpr{ReturnTok: kw}
	if !c.is(";") && !c.is("}") && !c.atEOF() {
		val, err := c.parseExpr()
		if err != nil {
			return nil, err
		}
		r.Value = val
	}
	return r, nil
}

// parseLambdaParams parses a "|"-delimited parameter list, e.g. `|x: int32|`
// or `||` for no parameters. The lexer produces "|" as a single-char
// BinOpCandidate token, so an empty list is the fused "||" token (handled
// the same way "->" is fused from "-" ">" elsewhere in this file); the
// result is stored in a *syntax.FieldList so rendering and downstream HLIR
// lowering stay identical to a parenthesized parameter list.
func (c *cursor) parseLambdaParams() (*syntax.FieldList, error) {
	if c.combine2("||") {
		pipes := c.eat2("||")
		open := pipes
		open.Text = "|"
		open.Trailing = nil
		close := pipes
		close.Text = "|"
		close.Leading = nil
		return &syntax.FieldList{OpenParen: open, CloseParen: close}, nil
	}

	open, err := c.expect("|")
	if err != nil {
		return nil, err
	}
	fl := &syntax.FieldList{OpenParen: open}
	for !c.is("|") {
		f, err := c.parseField()
		if err != nil {
			return nil, err
		}
		fl.List = append(fl.List, f)
		if _, ok := c.eat(","); !ok {
			break
		}
	}
	close, err := c.expect("|")
	if err != nil {
		return nil, err
	}
	fl.CloseParen = close
	return fl, nil
}

func (c *cursor) parseLambda() (*syntax.LambdaExpr, error) {
	fl, err := c.parseLambdaParams()
	if err != nil {
		return nil, err
	}
	arrow, err := c.expect("->")
	if err != nil {
		if c.cur().Text == "-" && c.peekN(1).Text == ">" && c.peekN(1).Leading == nil {
			arrow = c.eat2("->")
		} else {
			return nil, err
		}
	}
	body, err := c.parseBlock()
	if err != nil {
		return nil, err
	}
	return &syntax.LambdaExpr{Params: fl, Arrow: arrow, Body: body}, nil
}
