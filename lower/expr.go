package lower

import (
	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/hlir"
	"github.com/wiz-lang/wizc/mlir"
	"github.com/wiz-lang/wizc/syntax"
	"github.com/wiz-lang/wizc/token"
	"github.com/wiz-lang/wizc/types"
)

var binOpKinds = map[syntax.BinaryOp]mlir.BinOpKind{
	syntax.OpEq:    mlir.Equal,
	syntax.OpNotEq: mlir.NotEqual,
	syntax.OpLt:    mlir.LessThan,
	syntax.OpGt:    mlir.GreaterThan,
	syntax.OpLtEq:  mlir.LessThanEqual,
	syntax.OpGtEq:  mlir.GreaterThanEqual,
	syntax.OpAdd:   mlir.Plus,
	syntax.OpSub:   mlir.Minus,
	syntax.OpMul:   mlir.Mul,
	syntax.OpDiv:   mlir.Div,
	syntax.OpMod:   mlir.Mod,
}

var unaryOpKinds = map[syntax.UnaryOp]mlir.UnaryOpKind{
	syntax.UnaryPlus:  mlir.Positive,
	syntax.UnaryMinus: mlir.Negative,
	syntax.UnaryNot:   mlir.Not,
	syntax.UnaryRef:   mlir.Ref,
	syntax.UnaryDeref: mlir.DeRef,
}

var literalKinds = map[syntax.LiteralKind]mlir.LiteralKind{
	syntax.IntLit:    mlir.IntegerLiteral,
	syntax.FloatLit:  mlir.FloatLiteral,
	syntax.StringLit: mlir.StringLiteral,
	syntax.CharLit:   mlir.IntegerLiteral, // a char literal is a uint8 value (spec §4.4.5's default literal typing)
	syntax.BoolLit:   mlir.BooleanLiteral,
}

func (l *Lowering) lowerExpr(e *hlir.Expr, ctx context) (*mlir.Expr, error) {
	switch {
	case e.Name != nil:
		return l.lowerNameExpr(e, ctx)
	case e.Literal != nil:
		t, err := l.lowerValueType(e.Type, ctx)
		if err != nil {
			return nil, err
		}
		kind, ok := literalKinds[e.Literal.Kind]
		if !ok {
			return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "literal kind with no MLIR representation")
		}
		return &mlir.Expr{Type: mlir.ValueOf(t), Literal: &mlir.Literal{Kind: kind, Text: e.Literal.Text}}, nil
	case e.Binary != nil:
		return l.lowerBinary(e, ctx)
	case e.Unary != nil:
		return l.lowerUnary(e, ctx)
	case e.Subscript != nil:
		target, err := l.lowerExpr(e.Subscript.Target, ctx)
		if err != nil {
			return nil, err
		}
		index, err := l.lowerExpr(e.Subscript.Index, ctx)
		if err != nil {
			return nil, err
		}
		t, err := l.lowerType(e.Type, ctx)
		if err != nil {
			return nil, err
		}
		return &mlir.Expr{Type: t, Subscript: &mlir.SubscriptExpr{Target: target, Index: index}}, nil
	case e.Member != nil:
		return l.lowerMemberExpr(e, ctx)
	case e.Call != nil:
		return l.lowerCallExpr(e, ctx)
	case e.If != nil:
		return l.lowerIfExpr(e, ctx)
	case e.Return != nil:
		var val *mlir.Expr
		if e.Return.Value != nil {
			v, err := l.lowerExpr(e.Return.Value, ctx)
			if err != nil {
				return nil, err
			}
			val = v
		}
		t, err := l.lowerType(e.Type, ctx)
		if err != nil {
			return nil, err
		}
		return &mlir.Expr{Type: t, Return: &mlir.ReturnStmt{Value: val}}, nil
	case e.TypeCast != nil:
		v, err := l.lowerExpr(e.TypeCast.Value, ctx)
		if err != nil {
			return nil, err
		}
		t, err := l.lowerType(e.Type, ctx)
		if err != nil {
			return nil, err
		}
		return &mlir.Expr{Type: t, TypeCast: &mlir.TypeCastExpr{Target: v}}, nil
	case e.Lambda != nil:
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "closures have no MLIR representation")
	case e.Array != nil:
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "array literals have no MLIR representation")
	case e.Tuple != nil:
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "tuple values have no MLIR representation")
	default:
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "empty expression node")
	}
}

// lowerNameExpr looks up whether the name was resolved to an arena entry
// (a global or a function, named via its qualified path) or is a plain
// local binding (a parameter or a `var` introduced earlier in the same
// function body, named directly — the resolver's env stack, not the
// arena, owns those).
func (l *Lowering) lowerNameExpr(e *hlir.Expr, ctx context) (*mlir.Expr, error) {
	t, err := l.lowerType(e.Type, ctx)
	if err != nil {
		return nil, err
	}
	name := e.Name.Name
	if e.Name.Ref.Valid {
		if q := l.qualifiedName(e.Name.Ref.ID); q != "" {
			name = q
		}
	}
	return &mlir.Expr{Type: t, Name: &mlir.NameExpr{Name: name}}, nil
}

func (l *Lowering) lowerBinary(e *hlir.Expr, ctx context) (*mlir.Expr, error) {
	b := e.Binary
	if b.Overload != nil {
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "operator overload resolution during lowering")
	}

	left, err := l.lowerExpr(b.Left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := l.lowerExpr(b.Right, ctx)
	if err != nil {
		return nil, err
	}
	t, err := l.lowerType(e.Type, ctx)
	if err != nil {
		return nil, err
	}

	// `||`/`&&` have no MLIR binop opcode (spec §3.6's BinOpKind omits
	// logical connectives), so they desugar to a short-circuiting if.
	switch b.Op {
	case syntax.OpOr:
		return &mlir.Expr{Type: t, If: &mlir.IfExpr{
			Cond: left,
			Body: &mlir.Block{Body: []*mlir.Stmt{{Expr: &mlir.Expr{Type: t, Literal: &mlir.Literal{Kind: mlir.BooleanLiteral, Text: "true"}}}}},
			Else: &mlir.Block{Body: []*mlir.Stmt{{Expr: right}}},
		}}, nil
	case syntax.OpAnd:
		return &mlir.Expr{Type: t, If: &mlir.IfExpr{
			Cond: left,
			Body: &mlir.Block{Body: []*mlir.Stmt{{Expr: right}}},
			Else: &mlir.Block{Body: []*mlir.Stmt{{Expr: &mlir.Expr{Type: t, Literal: &mlir.Literal{Kind: mlir.BooleanLiteral, Text: "false"}}}}},
		}}, nil
	}

	kind, ok := binOpKinds[b.Op]
	if !ok {
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "binary operator with no MLIR opcode")
	}
	return &mlir.Expr{Type: t, BinOp: &mlir.BinOpExpr{Left: left, Right: right, Kind: kind}}, nil
}

func (l *Lowering) lowerUnary(e *hlir.Expr, ctx context) (*mlir.Expr, error) {
	operand, err := l.lowerExpr(e.Unary.Operand, ctx)
	if err != nil {
		return nil, err
	}
	t, err := l.lowerType(e.Type, ctx)
	if err != nil {
		return nil, err
	}
	kind, ok := unaryOpKinds[e.Unary.Op]
	if !ok {
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "unary operator with no MLIR opcode")
	}
	return &mlir.Expr{Type: t, UnaryOp: &mlir.UnaryOpExpr{Target: operand, Kind: kind}}, nil
}

// lowerMemberExpr handles the non-call member-access path (spec §4.4.6): a
// stored/computed property read. A bare reference to a member function
// without a call (no call syntax rewrites it the way resolveMethodCall
// does) has no value representation in this core — only call sites are
// lowered to the "Type::method" free function.
func (l *Lowering) lowerMemberExpr(e *hlir.Expr, ctx context) (*mlir.Expr, error) {
	if e.Type.Function != nil {
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "member function referenced without a call")
	}
	target, err := l.lowerExpr(e.Member.Target, ctx)
	if err != nil {
		return nil, err
	}
	t, err := l.lowerType(e.Type, ctx)
	if err != nil {
		return nil, err
	}
	return &mlir.Expr{Type: t, Member: &mlir.MemberExpr{Target: target, Name: e.Member.Name}}, nil
}

func (l *Lowering) lowerCallExpr(e *hlir.Expr, ctx context) (*mlir.Expr, error) {
	c := e.Call
	args := make([]*mlir.Expr, len(c.Args))
	for i, a := range c.Args {
		la, err := l.lowerExpr(a, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = la
	}

	if c.Callee.Name == nil || !c.Callee.Name.Ref.Valid {
		return nil, errdefs.WithUnsupportedConstruct(token.Position{}, "indirect call through a function value")
	}

	name, calleeSubst, err := l.calleeName(c.Callee.Name.Ref.ID, c.Args, ctx)
	if err != nil {
		return nil, err
	}
	calleeCtx := context{subst: calleeSubst}
	calleeType, err := l.lowerType(c.Callee.Type, calleeCtx)
	if err != nil {
		return nil, err
	}
	// e.Type is the generic function's own declared return type (still named
	// by its type parameter when the callee is generic, since the resolver
	// records the instantiation rather than eagerly substituting the call's
	// result type), so it must be lowered against the callee's own
	// substitution, not the enclosing function's.
	t, err := l.lowerType(e.Type, calleeCtx)
	if err != nil {
		return nil, err
	}
	target := &mlir.Expr{Type: calleeType, Name: &mlir.NameExpr{Name: name}}
	return &mlir.Expr{Type: t, Call: &mlir.CallExpr{Target: target, Args: args}}, nil
}

// calleeName resolves the mangled name a call site should target: the
// declaration's plain qualified name for a non-generic callee, or the
// mangled name of the one instantiation its concrete argument types imply
// for a generic one, alongside that instantiation's own substitution (so the
// caller can lower the callee's declared signature and result type in the
// right context). The substitution is rebuilt the same way the resolver's
// recordGenericCall built it originally — matching declared
// type-parameter-shaped arguments positionally against the call's actual
// argument types — rather than searched for among UsedInstantiations, since
// the call site already proves the instantiation exists.
func (l *Lowering) calleeName(id arena.DeclarationId, callArgs []*hlir.Expr, ctx context) (string, map[string]types.Type, error) {
	item, ok := l.arena.Get(id)
	if !ok {
		return "", nil, errdefs.WithUnsupportedConstruct(token.Position{}, "call to an unresolved declaration")
	}
	base := l.qualifiedName(id)
	if base == "" {
		base = item.Name
	}
	if item.Function == nil || len(item.Function.TypeParameters) == 0 {
		return base, nil, nil
	}

	declared := item.Function.Type.Function.Args
	actual := callArgs
	if len(declared) > 0 && declared[0].Label == "self" {
		declared = declared[1:]
		actual = actual[1:]
	}
	if len(declared) != len(actual) {
		return "", nil, errdefs.WithUnsupportedConstruct(token.Position{}, "generic call argument count mismatch")
	}

	subst := make(map[string]types.Type)
	for _, tp := range item.Function.TypeParameters {
		for j, d := range declared {
			if d.Type.Value != nil && d.Type.Value.Kind == types.NamedKind && d.Type.Value.Name == tp {
				argType, err := l.concreteType(actual[j], ctx)
				if err != nil {
					return "", nil, err
				}
				subst[tp] = argType
				break
			}
		}
	}
	return mangle(base, item.Function.TypeParameters, subst), subst, nil
}

// concreteType returns e's fully-resolved, substitution-free type. For most
// expressions that is just e.Type run through the enclosing instantiation's
// own substitution, but a call to a generic function is a special case: the
// resolver leaves such a call's Type naming the callee's own type parameter
// rather than eagerly substituting it, so this recurses into the callee's
// own implied substitution first (resolving inner generic calls before
// outer ones, the same bottom-up order lowering itself already walks).
func (l *Lowering) concreteType(e *hlir.Expr, ctx context) (types.Type, error) {
	if e.Call != nil && e.Call.Callee.Name != nil && e.Call.Callee.Name.Ref.Valid {
		_, subst, err := l.calleeName(e.Call.Callee.Name.Ref.ID, e.Call.Args, ctx)
		if err != nil {
			return types.Type{}, err
		}
		if subst != nil {
			return substituteType(e.Type, subst), nil
		}
	}
	return substituteType(e.Type, ctx.subst), nil
}

// substituteType replaces t with subst's entry when t names one of the
// enclosing generic instantiation's own type parameters, mirroring
// recordGenericCall's shallow, top-level-only matching.
func substituteType(t types.Type, subst map[string]types.Type) types.Type {
	if subst == nil {
		return t
	}
	if t.Value != nil && t.Value.Kind == types.NamedKind && len(t.Value.TypeArgs) == 0 {
		if sub, ok := subst[t.Value.Name]; ok {
			return sub
		}
	}
	return t
}
