package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiz-lang/wizc/parser"
	"github.com/wiz-lang/wizc/syntax"
)

// countingVisitor counts every decl/stmt/expr node Walk descends into,
// always returning true so traversal never stops early.
type countingVisitor struct {
	decls, stmts, exprs int
}

func (v *countingVisitor) VisitDecl(d *syntax.Decl) bool { v.decls++; return true }
func (v *countingVisitor) VisitStmt(s *syntax.Stmt) bool { v.stmts++; return true }
func (v *countingVisitor) VisitExpr(e *syntax.Expr) bool { v.exprs++; return true }

func TestWalkVisitsEveryDeclStmtAndExprNode(t *testing.T) {
	const src = "fun add(a: int32, b: int32): int32 {\n\treturn a + b\n}\n"
	f, err := parser.ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)

	v := &countingVisitor{}
	syntax.Walk(v, f)

	assert.Equal(t, 1, v.decls) // the fun decl
	assert.Equal(t, 1, v.stmts) // the return statement
	// the return expr, its binary value, and the binary's two operands: 4 exprs.
	assert.Equal(t, 4, v.exprs)
}

// stoppingVisitor returns false from VisitExpr so Walk never descends past
// the first expression node it meets, exercising the "false skips
// children" half of the Visitor contract.
type stoppingVisitor struct {
	exprs int
}

func (v *stoppingVisitor) VisitDecl(d *syntax.Decl) bool { return true }
func (v *stoppingVisitor) VisitStmt(s *syntax.Stmt) bool { return true }
func (v *stoppingVisitor) VisitExpr(e *syntax.Expr) bool {
	v.exprs++
	return false
}

func TestWalkStopsDescendingWhenVisitorReturnsFalse(t *testing.T) {
	const src = "fun add(a: int32, b: int32): int32 {\n\treturn a + b\n}\n"
	f, err := parser.ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)

	v := &stoppingVisitor{}
	syntax.Walk(v, f)

	// Only the return expr is visited; its binary value and that binary's
	// operands are never reached because VisitExpr returned false on it.
	assert.Equal(t, 1, v.exprs)
}

func TestWalkVisitsNestedControlFlowAndCallArguments(t *testing.T) {
	const src = "fun run(flag: bool): int32 {\n\tif (flag) {\n\t\treturn add(1, 2)\n\t} else {\n\t\treturn 0\n\t}\n}\n"
	f, err := parser.ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)

	v := &countingVisitor{}
	syntax.Walk(v, f)

	assert.Equal(t, 1, v.decls)
	// the if statement, plus the return statement inside each branch.
	assert.Equal(t, 3, v.stmts)
	assert.Greater(t, v.exprs, 3)
}
