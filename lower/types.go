package lower

import (
	"github.com/wiz-lang/wizc/errdefs"
	"github.com/wiz-lang/wizc/mlir"
	"github.com/wiz-lang/wizc/token"
	"github.com/wiz-lang/wizc/types"
)

// mangle builds the spec §4.5 `name$argTy1$argTy2$...` mangled name for one
// recorded instantiation, walking the function's declared type-parameter
// order (not map iteration order, which Go leaves unspecified) so the same
// substitution always mangles to the same name.
func mangle(name string, order []string, subst map[string]types.Type) string {
	out := name
	for _, tp := range order {
		if t, ok := subst[tp]; ok {
			out += "$" + t.Name()
		}
	}
	return out
}

// lowerType reduces a resolved types.Type to its monomorphic mlir.Type,
// substituting any type parameter named in ctx.subst and resolving Self via
// ctx.self. Tuples and bare meta-types have no MLIR representation (spec
// §3.6 enumerates no MLValueType variant for either), so both are reported
// as lowering bugs rather than guessed at.
func (l *Lowering) lowerType(t types.Type, ctx context) (mlir.Type, error) {
	switch {
	case t.SelfType:
		if ctx.self == nil {
			return mlir.Type{}, errdefs.WithUnsupportedConstruct(token.Position{}, "Self used outside a struct or extension member")
		}
		return l.lowerType(*ctx.self, context{subst: ctx.subst})

	case t.Function != nil:
		args := make([]mlir.ValueType, 0, len(t.Function.Args))
		for _, a := range t.Function.Args {
			v, err := l.lowerValueType(a.Type, ctx)
			if err != nil {
				return mlir.Type{}, err
			}
			args = append(args, v)
		}
		ret, err := l.lowerValueType(*t.Function.Ret, ctx)
		if err != nil {
			return mlir.Type{}, err
		}
		return mlir.FunctionOf(mlir.FunctionType{Args: args, Ret: ret}), nil

	case t.MetaType != nil:
		return mlir.Type{}, errdefs.WithUnsupportedConstruct(token.Position{}, "a bare type expression has no runtime value representation")

	case t.Value != nil:
		return l.lowerValue(t.Value, ctx)

	default:
		return mlir.Type{}, errdefs.WithUnsupportedConstruct(token.Position{}, "malformed type")
	}
}

func (l *Lowering) lowerValue(v *types.ValueType, ctx context) (mlir.Type, error) {
	switch v.Kind {
	case types.NamedKind:
		if sub, ok := ctx.subst[v.Name]; ok {
			return l.lowerType(sub, context{})
		}
		if types.IsIntegerName(v.Name) || types.IsFloatName(v.Name) ||
			v.Name == types.BoolName || v.Name == types.StrName ||
			v.Name == types.UnitName || v.Name == types.NotingName {
			return mlir.ValueOf(mlir.Primitive(v.Name)), nil
		}
		if len(v.TypeArgs) > 0 {
			return mlir.Type{}, errdefs.WithUnsupportedConstruct(token.Position{}, "generic struct instantiation "+v.Name)
		}
		return mlir.ValueOf(mlir.Struct(v.Name)), nil

	case types.ArrayKind:
		elem, err := l.lowerValueType(*v.Elem, ctx)
		if err != nil {
			return mlir.Type{}, err
		}
		return mlir.ValueOf(mlir.Array(elem, v.Length)), nil

	case types.TupleKind:
		return mlir.Type{}, errdefs.WithUnsupportedConstruct(token.Position{}, "tuple values have no MLIR representation")

	case types.PointerKind:
		inner, err := l.lowerType(*v.Inner, ctx)
		if err != nil {
			return mlir.Type{}, err
		}
		return mlir.ValueOf(mlir.Pointer(inner)), nil

	case types.ReferenceKind:
		inner, err := l.lowerType(*v.Inner, ctx)
		if err != nil {
			return mlir.Type{}, err
		}
		return mlir.ValueOf(mlir.Reference(inner)), nil

	default:
		return mlir.Type{}, errdefs.WithUnsupportedConstruct(token.Position{}, "unrecognized value type kind")
	}
}

// lowerValueType lowers t and requires the result to be a value type, which
// holds everywhere except a raw function-typed expression (this language has
// no first-class function values to lower, so that case is unreachable in
// practice and reported as a bug rather than silently coerced).
func (l *Lowering) lowerValueType(t types.Type, ctx context) (mlir.ValueType, error) {
	mt, err := l.lowerType(t, ctx)
	if err != nil {
		return mlir.ValueType{}, err
	}
	if mt.Value == nil {
		return mlir.ValueType{}, errdefs.WithUnsupportedConstruct(token.Position{}, "function type used where a value type is required")
	}
	return *mt.Value, nil
}
