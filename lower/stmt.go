package lower

import (
	"fmt"
	"strconv"

	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/hlir"
	"github.com/wiz-lang/wizc/mlir"
	"github.com/wiz-lang/wizc/syntax"
	"github.com/wiz-lang/wizc/token"
)

var compoundOpKinds = map[syntax.OpEqKind]mlir.BinOpKind{
	syntax.AddEq: mlir.Plus,
	syntax.SubEq: mlir.Minus,
	syntax.MulEq: mlir.Mul,
	syntax.DivEq: mlir.Div,
	syntax.ModEq: mlir.Mod,
}

func (l *Lowering) lowerBlock(b *hlir.Block, ctx context) (*mlir.Block, error) {
	stmts, err := l.lowerBlockStmts(b, ctx)
	if err != nil {
		return nil, err
	}
	return &mlir.Block{Body: stmts}, nil
}

func (l *Lowering) lowerBlockStmts(b *hlir.Block, ctx context) ([]*mlir.Stmt, error) {
	var out []*mlir.Stmt
	for _, s := range b.List {
		ss, err := l.lowerStmt(s, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, ss...)
	}
	return out, nil
}

// lowerStmt returns a slice rather than one mlir.Stmt because desugaring a
// `for` loop over a fixed-length array needs a preceding index-variable
// declaration alongside the while loop it expands into.
func (l *Lowering) lowerStmt(s *hlir.Stmt, ctx context) ([]*mlir.Stmt, error) {
	switch {
	case s.Decl != nil && s.Decl.Var != nil:
		v, err := l.lowerVarDecl(s.Decl.Var, ctx)
		if err != nil {
			return nil, err
		}
		return []*mlir.Stmt{{Var: v}}, nil
	case s.Assignment != nil:
		return l.lowerAssignment(s.Assignment, ctx)
	case s.Loop != nil && s.Loop.While != nil:
		return l.lowerWhile(s.Loop.While, ctx)
	case s.Loop != nil && s.Loop.For != nil:
		return l.lowerFor(s.Loop.For, ctx)
	case s.Expr != nil:
		e, err := l.lowerExpr(s.Expr, ctx)
		if err != nil {
			return nil, err
		}
		return []*mlir.Stmt{{Expr: e}}, nil
	default:
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "empty statement")
	}
}

func (l *Lowering) lowerAssignment(a *hlir.Assignment, ctx context) ([]*mlir.Stmt, error) {
	target, err := l.lowerExpr(a.Target, ctx)
	if err != nil {
		return nil, err
	}
	value, err := l.lowerExpr(a.Value, ctx)
	if err != nil {
		return nil, err
	}
	if a.Op == syntax.AssignEq {
		return []*mlir.Stmt{{Assignment: &mlir.AssignmentStmt{Target: target, Value: value}}}, nil
	}

	kind, ok := compoundOpKinds[a.Op]
	if !ok {
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "compound assignment operator with no MLIR opcode")
	}
	// `a += b` desugars to `a = a + b` (spec §4.5); lowering the target a
	// second time is safe since lowering never has side effects, only the
	// generated MLIR reads it twice.
	targetRead, err := l.lowerExpr(a.Target, ctx)
	if err != nil {
		return nil, err
	}
	composed := &mlir.Expr{Type: target.Type, BinOp: &mlir.BinOpExpr{Left: targetRead, Right: value, Kind: kind}}
	return []*mlir.Stmt{{Assignment: &mlir.AssignmentStmt{Target: target, Value: composed}}}, nil
}

func (l *Lowering) lowerWhile(w *hlir.WhileLoop, ctx context) ([]*mlir.Stmt, error) {
	cond, err := l.lowerExpr(w.Cond, ctx)
	if err != nil {
		return nil, err
	}
	body, err := l.lowerBlock(w.Body, ctx)
	if err != nil {
		return nil, err
	}
	return []*mlir.Stmt{{Loop: &mlir.LoopStmt{Cond: cond, Body: body}}}, nil
}

// lowerFor desugars `for x in arr { body }` into a bounded while loop over a
// synthetic index variable, since MLIR has no iterator protocol of its own
// and this language's arrays are fixed-length (the bound is therefore a
// compile-time constant, spec §3.4's Array(elem, len)). Any iterable whose
// lowered type is not an array has no lowering this core can generate.
func (l *Lowering) lowerFor(f *hlir.ForLoop, ctx context) ([]*mlir.Stmt, error) {
	arrType, err := l.lowerValueType(f.Iter.Type, ctx)
	if err != nil {
		return nil, err
	}
	if arrType.Kind != mlir.ArrayKind {
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "for-loop over a non-array iterable")
	}
	iter, err := l.lowerExpr(f.Iter, ctx)
	if err != nil {
		return nil, err
	}
	body, err := l.lowerBlockStmts(f.Body, ctx)
	if err != nil {
		return nil, err
	}

	l.forCounter++
	idx := fmt.Sprintf("$for_idx%d", l.forCounter)
	usize := mlir.ValueOf(mlir.Primitive(mlir.USize))
	idxName := &mlir.Expr{Type: usize, Name: &mlir.NameExpr{Name: idx}}

	idxDecl := &mlir.Stmt{Var: &mlir.VarDecl{
		Mutable: true,
		Name:    idx,
		Type:    usize,
		Value:   &mlir.Expr{Type: usize, Literal: &mlir.Literal{Kind: mlir.IntegerLiteral, Text: "0"}},
	}}

	cond := &mlir.Expr{
		Type: mlir.ValueOf(mlir.Primitive(mlir.Bool)),
		BinOp: &mlir.BinOpExpr{
			Left:  idxName,
			Right: &mlir.Expr{Type: usize, Literal: &mlir.Literal{Kind: mlir.IntegerLiteral, Text: strconv.Itoa(arrType.Length)}},
			Kind:  mlir.LessThan,
		},
	}

	elemType := mlir.ValueOf(*arrType.Elem)
	binder := &mlir.Stmt{Var: &mlir.VarDecl{
		Name: f.Binder,
		Type: elemType,
		Value: &mlir.Expr{Type: elemType, Subscript: &mlir.SubscriptExpr{
			Target: iter,
			Index:  idxName,
		}},
	}}

	incr := &mlir.Stmt{Assignment: &mlir.AssignmentStmt{
		Target: idxName,
		Value: &mlir.Expr{Type: usize, BinOp: &mlir.BinOpExpr{
			Left:  idxName,
			Right: &mlir.Expr{Type: usize, Literal: &mlir.Literal{Kind: mlir.IntegerLiteral, Text: "1"}},
			Kind:  mlir.Plus,
		}},
	}}

	loopBody := append([]*mlir.Stmt{binder}, body...)
	loopBody = append(loopBody, incr)
	whileStmt := &mlir.Stmt{Loop: &mlir.LoopStmt{Cond: cond, Body: &mlir.Block{Body: loopBody}}}
	return []*mlir.Stmt{idxDecl, whileStmt}, nil
}

// lowerIfExpr flattens spec §4.5's HLIR if/else-if chain to MLIR's flat
// IfExpr{Cond, Body, Else}. An else-if chain carries its nested if purely
// as ElseResult with Else left nil (resolver/expr.go's resolveIf); since
// MLIR's Else is a block, not a nested expression, that case is wrapped in
// a synthetic one-statement block.
func (l *Lowering) lowerIfExpr(e *hlir.Expr, ctx context) (*mlir.Expr, error) {
	ifE := e.If
	cond, err := l.lowerExpr(ifE.Cond, ctx)
	if err != nil {
		return nil, err
	}
	body, err := l.lowerBlock(ifE.Then, ctx)
	if err != nil {
		return nil, err
	}
	t, err := l.lowerType(e.Type, ctx)
	if err != nil {
		return nil, err
	}

	var elseBlock *mlir.Block
	switch {
	case ifE.Else != nil:
		b, err := l.lowerBlock(ifE.Else, ctx)
		if err != nil {
			return nil, err
		}
		elseBlock = b
	case ifE.ElseResult != nil:
		nested, err := l.lowerExpr(ifE.ElseResult, ctx)
		if err != nil {
			return nil, err
		}
		elseBlock = &mlir.Block{Body: []*mlir.Stmt{{Expr: nested}}}
	}
	return &mlir.Expr{Type: t, If: &mlir.IfExpr{Cond: cond, Body: body, Else: elseBlock}}, nil
}
