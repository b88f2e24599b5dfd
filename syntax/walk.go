package syntax

// Visitor is implemented by callers of Walk. VisitDecl/VisitStmt/VisitExpr
// return false to skip descending into a node's children, mirroring
// go/ast.Visitor and the teacher's own walk convention.
type Visitor interface {
	VisitDecl(d *Decl) bool
	VisitStmt(s *Stmt) bool
	VisitExpr(e *Expr) bool
}

// Walk traverses every declaration in a file depth-first.
func Walk(v Visitor, f *File) {
	for _, d := range f.Decls {
		WalkDecl(v, d)
	}
}

func WalkDecl(v Visitor, d *Decl) {
	if d == nil || !v.VisitDecl(d) {
		return
	}
	switch {
	case d.Var != nil:
		WalkExpr(v, d.Var.Value)
	case d.Fun != nil:
		if d.Fun.Body != nil {
			walkBlock(v, d.Fun.Body)
		}
	case d.Struct != nil:
		walkBlock(v, d.Struct.Body)
	case d.Protocol != nil:
		walkBlock(v, d.Protocol.Body)
	case d.Extension != nil:
		walkBlock(v, d.Extension.Body)
	case d.Extern != nil:
		for _, fn := range d.Extern.Funcs {
			WalkDecl(v, &Decl{Fun: fn})
		}
	case d.Module != nil && d.Module.Body != nil:
		walkBlock(v, d.Module.Body)
	}
}

func walkBlock(v Visitor, b *BlockStmt) {
	if b == nil {
		return
	}
	for _, s := range b.List {
		WalkStmt(v, s)
	}
}

func WalkStmt(v Visitor, s *Stmt) {
	if s == nil || !v.VisitStmt(s) {
		return
	}
	switch {
	case s.Decl != nil:
		WalkDecl(v, s.Decl)
	case s.Assignment != nil:
		WalkExpr(v, s.Assignment.Target)
		WalkExpr(v, s.Assignment.Value)
	case s.Loop != nil:
		switch {
		case s.Loop.While != nil:
			WalkExpr(v, s.Loop.While.Cond)
			walkBlock(v, s.Loop.While.Body)
		case s.Loop.For != nil:
			WalkExpr(v, s.Loop.For.Iter)
			walkBlock(v, s.Loop.For.Body)
		}
	case s.Expr != nil:
		WalkExpr(v, s.Expr)
	}
}

func WalkExpr(v Visitor, e *Expr) {
	if e == nil || !v.VisitExpr(e) {
		return
	}
	switch {
	case e.Binary != nil:
		WalkExpr(v, e.Binary.Left)
		WalkExpr(v, e.Binary.Right)
	case e.Unary != nil:
		WalkExpr(v, e.Unary.Operand)
	case e.Subscript != nil:
		WalkExpr(v, e.Subscript.Target)
		WalkExpr(v, e.Subscript.Index)
	case e.Member != nil:
		WalkExpr(v, e.Member.Target)
	case e.Call != nil:
		WalkExpr(v, e.Call.Callee)
		for _, a := range e.Call.Args {
			WalkExpr(v, a)
		}
	case e.If != nil:
		WalkExpr(v, e.If.Cond)
		walkBlock(v, e.If.Then)
		if e.If.Else != nil {
			WalkExpr(v, &Expr{If: e.If.Else})
		}
		if e.If.ElseBlock != nil {
			walkBlock(v, e.If.ElseBlock)
		}
	case e.When != nil:
		WalkExpr(v, e.When.Scrutinee)
		for _, arm := range e.When.Arms {
			WalkExpr(v, arm.Pattern)
			walkBlock(v, arm.Body)
		}
	case e.Lambda != nil:
		walkBlock(v, e.Lambda.Body)
	case e.Return != nil:
		WalkExpr(v, e.Return.Value)
	case e.TypeCast != nil:
		WalkExpr(v, e.TypeCast.Value)
	case e.Array != nil:
		for _, el := range e.Array.Elems {
			WalkExpr(v, el)
		}
	case e.Tuple != nil:
		for _, el := range e.Tuple.Elems {
			WalkExpr(v, el)
		}
	case e.Parenthesized != nil:
		WalkExpr(v, e.Parenthesized.Inner)
	}
}
