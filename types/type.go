package types

import "fmt"

// Type is the TypedType sum: `Self_ | Value(value-type) | Function{...} |
// Type(TypedType)`. Exactly one field is set.
type Type struct {
	SelfType bool

	Value    *ValueType
	Function *FunctionType
	MetaType *Type // "Type(T)", the meta-type of a type expression
}

// ValueKind distinguishes the value-type shapes of spec §3.4.
type ValueKind int

const (
	NamedKind ValueKind = iota
	ArrayKind
	TupleKind
	PointerKind
	ReferenceKind
)

// ValueType is `Named{package, name, type_args?} | Array(elem, len) |
// Tuple([T]) | Pointer(T) | Reference(T)`.
type ValueType struct {
	Kind ValueKind

	// NamedKind
	Package  TypedPackage
	Name     string
	TypeArgs []Type

	// ArrayKind
	Elem   *Type
	Length int

	// TupleKind
	Elems []Type

	// PointerKind / ReferenceKind
	Inner *Type
}

// ArgType is one entry of a function type's argument list: an optional
// external label plus the argument's type, used for overload matching.
type ArgType struct {
	Label string
	Type  Type
}

type FunctionType struct {
	Args []ArgType
	Ret  *Type
}

func Self() Type { return Type{SelfType: true} }

func Named(pkg TypedPackage, name string, args ...Type) Type {
	return Type{Value: &ValueType{Kind: NamedKind, Package: pkg, Name: name, TypeArgs: args}}
}

func Array(elem Type, length int) Type {
	return Type{Value: &ValueType{Kind: ArrayKind, Elem: &elem, Length: length}}
}

func Tuple(elems ...Type) Type {
	return Type{Value: &ValueType{Kind: TupleKind, Elems: elems}}
}

func Pointer(inner Type) Type {
	return Type{Value: &ValueType{Kind: PointerKind, Inner: &inner}}
}

func Reference(inner Type) Type {
	return Type{Value: &ValueType{Kind: ReferenceKind, Inner: &inner}}
}

func Func(args []ArgType, ret Type) Type {
	return Type{Function: &FunctionType{Args: args, Ret: &ret}}
}

func MetaOf(t Type) Type { return Type{MetaType: &t} }

// Builtin identifiers, fixed per spec §3.4.
const (
	Int8Name    = "int8"
	Int16Name   = "int16"
	Int32Name   = "int32"
	Int64Name   = "int64"
	SizeName    = "size"
	UInt8Name   = "uint8"
	UInt16Name  = "uint16"
	UInt32Name  = "uint32"
	UInt64Name  = "uint64"
	USizeName   = "usize"
	FloatName   = "float"
	DoubleName  = "double"
	BoolName    = "bool"
	StrName     = "str"
	UnitName    = "unit"
	NotingName  = "noting" // never-returns bottom type
)

func builtin(name string) Type {
	return Named(ResolvedPackage(GlobalPackage()), name)
}

func Int8() Type   { return builtin(Int8Name) }
func Int16() Type  { return builtin(Int16Name) }
func Int32() Type  { return builtin(Int32Name) }
func Int64() Type  { return builtin(Int64Name) }
func Size() Type   { return builtin(SizeName) }
func UInt8() Type  { return builtin(UInt8Name) }
func UInt16() Type { return builtin(UInt16Name) }
func UInt32() Type { return builtin(UInt32Name) }
func UInt64() Type { return builtin(UInt64Name) }
func USize() Type  { return builtin(USizeName) }
func Float() Type  { return builtin(FloatName) }
func Double() Type { return builtin(DoubleName) }
func Bool() Type   { return builtin(BoolName) }
func Str() Type    { return builtin(StrName) }
func Unit() Type   { return builtin(UnitName) }
func Noting() Type { return builtin(NotingName) }

// BuiltinTypes lists every fixed identifier the arena preregisters as a
// struct under the root namespace (spec §4.3, grounded on the original
// Arena::default implementation).
func BuiltinTypes() []Type {
	return []Type{
		Int8(), Int16(), Int32(), Int64(), Size(),
		UInt8(), UInt16(), UInt32(), UInt64(), USize(),
		Float(), Double(), Bool(), Str(), Unit(), Noting(),
	}
}

func IsIntegerName(name string) bool {
	switch name {
	case Int8Name, Int16Name, Int32Name, Int64Name, SizeName,
		UInt8Name, UInt16Name, UInt32Name, UInt64Name, USizeName:
		return true
	default:
		return false
	}
}

func IsFloatName(name string) bool {
	return name == FloatName || name == DoubleName
}

func (t Type) IsInteger() bool {
	return t.Value != nil && t.Value.Kind == NamedKind && IsIntegerName(t.Value.Name)
}

func (t Type) IsFloat() bool {
	return t.Value != nil && t.Value.Kind == NamedKind && IsFloatName(t.Value.Name)
}

func (t Type) IsBool() bool {
	return t.Value != nil && t.Value.Kind == NamedKind && t.Value.Name == BoolName
}

func (t Type) IsPointer() bool   { return t.Value != nil && t.Value.Kind == PointerKind }
func (t Type) IsReference() bool { return t.Value != nil && t.Value.Kind == ReferenceKind }

// Name returns the declared name of a value/meta type; panics for
// Self_/Function, matching the original's deliberate panic on an
// ill-formed query (spec has no defined behavior for those cases).
func (t Type) Name() string {
	switch {
	case t.Value != nil:
		return t.Value.name()
	case t.MetaType != nil:
		return t.MetaType.Name()
	default:
		panic("types: Name() called on a Self_ or Function type")
	}
}

func (v *ValueType) name() string {
	switch v.Kind {
	case NamedKind:
		return v.Name
	case ArrayKind:
		return v.Elem.Name()
	case TupleKind:
		return "Tuple"
	case PointerKind, ReferenceKind:
		return v.Inner.Name()
	default:
		return ""
	}
}

// Package returns the owning package of a value/meta type.
func (t Type) Package() TypedPackage {
	switch {
	case t.Value != nil:
		return t.Value.pkg()
	case t.MetaType != nil:
		return t.MetaType.Package()
	default:
		return ResolvedPackage(GlobalPackage())
	}
}

func (v *ValueType) pkg() TypedPackage {
	switch v.Kind {
	case NamedKind:
		return v.Package
	case ArrayKind, TupleKind:
		return ResolvedPackage(GlobalPackage())
	case PointerKind, ReferenceKind:
		return v.Inner.Package()
	default:
		return ResolvedPackage(GlobalPackage())
	}
}

// Equal performs structural equality, used by the resolver's overload
// disambiguation and by the lowering stage's instantiation deduplication
// (spec §4.4.3: "equal substitutions ... must not be duplicated").
func (t Type) Equal(o Type) bool {
	if t.SelfType != o.SelfType {
		return false
	}
	if t.SelfType {
		return true
	}
	switch {
	case t.Value != nil && o.Value != nil:
		return t.Value.equal(o.Value)
	case t.Function != nil && o.Function != nil:
		return t.Function.equal(o.Function)
	case t.MetaType != nil && o.MetaType != nil:
		return t.MetaType.Equal(*o.MetaType)
	default:
		return false
	}
}

func (v *ValueType) equal(o *ValueType) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case NamedKind:
		if v.Name != o.Name || !v.Package.Equal(o.Package) || len(v.TypeArgs) != len(o.TypeArgs) {
			return false
		}
		for i := range v.TypeArgs {
			if !v.TypeArgs[i].Equal(o.TypeArgs[i]) {
				return false
			}
		}
		return true
	case ArrayKind:
		return v.Length == o.Length && v.Elem.Equal(*o.Elem)
	case TupleKind:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case PointerKind, ReferenceKind:
		return v.Inner.Equal(*o.Inner)
	default:
		return false
	}
}

func (f *FunctionType) equal(o *FunctionType) bool {
	if len(f.Args) != len(o.Args) {
		return false
	}
	for i := range f.Args {
		if f.Args[i].Label != o.Args[i].Label || !f.Args[i].Type.Equal(o.Args[i].Type) {
			return false
		}
	}
	return f.Ret.Equal(*o.Ret)
}

// ArgTypesEqual compares only the argument-type list, ignoring labels,
// which is the rule spec §4.4.2 step 5 uses for overload disambiguation
// against a call-site type annotation.
func ArgTypesEqual(a, b []ArgType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Type.Equal(b[i].Type) {
			return false
		}
	}
	return true
}

func (t Type) String() string {
	switch {
	case t.SelfType:
		return "Self"
	case t.Value != nil:
		return t.Value.String()
	case t.Function != nil:
		return t.Function.String()
	case t.MetaType != nil:
		return fmt.Sprintf("Type(%s)", t.MetaType.String())
	default:
		return "<invalid type>"
	}
}

func (v *ValueType) String() string {
	switch v.Kind {
	case NamedKind:
		if len(v.TypeArgs) == 0 {
			return v.Name
		}
		s := v.Name + "<"
		for i, a := range v.TypeArgs {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		return s + ">"
	case ArrayKind:
		return fmt.Sprintf("[%s; %d]", v.Elem.String(), v.Length)
	case TupleKind:
		s := "("
		for i, e := range v.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	case PointerKind:
		return "*" + v.Inner.String()
	case ReferenceKind:
		return "&" + v.Inner.String()
	default:
		return "<invalid value type>"
	}
}

func (f *FunctionType) String() string {
	s := "("
	for i, a := range f.Args {
		if i > 0 {
			s += ", "
		}
		if a.Label != "" {
			s += a.Label + ": "
		}
		s += a.Type.String()
	}
	return s + ") -> " + f.Ret.String()
}
